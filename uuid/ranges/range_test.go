package ranges

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	startUUID = "0867d7ee-f8d5-11ef-8a38-aedb2c11800f"
	endUUID   = "093444c8-f8d5-11ef-8a38-aedb2c11800f"
)

func TestNew(t *testing.T) {
	rng, err := New(startUUID, endUUID)
	require.NoError(t, err)

	assert.Equal(t, uint64(0x1eff8d50867d7ee), rng.Start)
	assert.Equal(t, uint64(0x1eff8d5093444c8), rng.End)
	assert.Equal(t, uint64(13397211), rng.Total())
	assert.Equal(t, "8a38", rng.ClockSeqHex)
	assert.Equal(t, "aedb2c11800f", rng.NodeHex)
	assert.Equal(t, byte('1'), rng.VersionNibble)
	assert.False(t, rng.Swapped)
}

func TestNewSwapsDescendingEndpoints(t *testing.T) {
	rng, err := New(endUUID, startUUID)
	require.NoError(t, err)

	assert.True(t, rng.Swapped)
	assert.Equal(t, uint64(0x1eff8d50867d7ee), rng.Start)
	assert.Equal(t, uint64(0x1eff8d5093444c8), rng.End)
	assert.Equal(t, uint64(13397211), rng.Total())
}

func TestNewAnchorsSuffixOnPostSwapStart(t *testing.T) {
	// The endpoint with the earlier timestamp carries suffix bc17/112233445566;
	// its clock sequence and node must win regardless of argument order.
	early := "0867d7ee-f8d5-11ef-bc17-112233445566"
	late := "093444c8-f8d5-11ef-8a38-aedb2c11800f"

	rng, err := New(late, early)
	require.NoError(t, err)
	assert.True(t, rng.Swapped)
	assert.Equal(t, "bc17", rng.ClockSeqHex)
	assert.Equal(t, "112233445566", rng.NodeHex)

	rng, err = New(early, late)
	require.NoError(t, err)
	assert.False(t, rng.Swapped)
	assert.Equal(t, "bc17", rng.ClockSeqHex)
	assert.Equal(t, "112233445566", rng.NodeHex)
}

func TestEqualEndpoints(t *testing.T) {
	rng, err := New(startUUID, startUUID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rng.Total())
	assert.Equal(t, rng.Start, rng.End)
}

func TestContainsAndOffset(t *testing.T) {
	rng, err := New(startUUID, endUUID)
	require.NoError(t, err)

	mid := uint64(0x1eff8d508df43ec) // 08df43ec-f8d5-11ef-...
	assert.True(t, rng.Contains(mid))
	assert.Equal(t, uint64(7826430), rng.Offset(mid))

	assert.True(t, rng.Contains(rng.Start))
	assert.True(t, rng.Contains(rng.End))
	assert.False(t, rng.Contains(rng.Start-1))
	assert.False(t, rng.Contains(rng.End+1))
}

func TestNewInvalidEndpoint(t *testing.T) {
	_, err := New("not-a-uuid", endUUID)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = New(startUUID, "urn:uuid:"+endUUID)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestEncoderReproducesEndpoints(t *testing.T) {
	rng, err := New(startUUID, endUUID)
	require.NoError(t, err)

	enc, err := rng.Encoder()
	require.NoError(t, err)
	assert.Equal(t, startUUID, enc.String(rng.Start))
	assert.Equal(t, endUUID, enc.String(rng.End))
}
