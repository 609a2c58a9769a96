package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	f, err := Parse("0867d7ee-f8d5-11ef-8a38-aedb2c11800f")
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x0867d7ee), f.TimeLow)
	assert.Equal(t, uint16(0xf8d5), f.TimeMid)
	assert.Equal(t, uint16(0x11ef), f.TimeHiAndVersion)
	assert.Equal(t, uint8(0x8a), f.ClockSeqHi)
	assert.Equal(t, uint8(0x38), f.ClockSeqLow)
	assert.Equal(t, uint64(0xaedb2c11800f), f.Node)

	assert.Equal(t, 1, f.Version())
	assert.Equal(t, byte('1'), f.VersionNibble())
	assert.Equal(t, 2, f.Variant())
	assert.Equal(t, uint16(0x0a38), f.ClockSeq())
	assert.Equal(t, uint64(0x1eff8d50867d7ee), f.Time60())
	assert.Equal(t, "8a38", f.ClockSeqHex())
	assert.Equal(t, "aedb2c11800f", f.NodeHex())
	assert.Equal(t, "11eff8d50867d7ee", f.TimestampHex())
}

func TestParseCaseInsensitive(t *testing.T) {
	lower, err := Parse("0867d7ee-f8d5-11ef-8a38-aedb2c11800f")
	assert.NoError(t, err)
	upper, err := Parse("0867D7EE-F8D5-11EF-8A38-AEDB2C11800F")
	assert.NoError(t, err)
	assert.Equal(t, lower, upper)
}

func TestParseInvalid(t *testing.T) {
	testCases := []struct {
		description string
		input       string
	}{
		{description: "empty", input: ""},
		{description: "too short", input: "0867d7ee-f8d5-11ef-8a38"},
		{description: "missing hyphens", input: "0867d7eef8d511ef8a38aedb2c11800f"},
		{description: "urn prefix", input: "urn:uuid:0867d7ee-f8d5-11ef-8a38-aedb2c11800f"},
		{description: "braces", input: "{0867d7ee-f8d5-11ef-8a38-aedb2c11800f}"},
		{description: "non hex", input: "0867d7ee-f8d5-11ef-8a38-aedb2c11800z"},
		{description: "hyphen misplaced", input: "0867d7eef-8d5-11ef-8a38-aedb2c11800f"},
	}
	for _, tc := range testCases {
		_, err := Parse(tc.input)
		assert.ErrorIs(t, err, ErrInvalidFormat, tc.description)
	}
}

func TestVariantClassification(t *testing.T) {
	testCases := []struct {
		clockSeqHi byte
		variant    int
	}{
		{clockSeqHi: 0x00, variant: 0}, // NCS
		{clockSeqHi: 0x3f, variant: 0},
		{clockSeqHi: 0x40, variant: 1}, // RFC
		{clockSeqHi: 0x7f, variant: 1},
		{clockSeqHi: 0x80, variant: 2}, // Microsoft
		{clockSeqHi: 0xbf, variant: 2},
		{clockSeqHi: 0xc0, variant: 3}, // reserved
		{clockSeqHi: 0xff, variant: 3},
	}
	for _, tc := range testCases {
		f := Fields{ClockSeqHi: tc.clockSeqHi}
		assert.Equal(t, tc.variant, f.Variant(), "clockSeqHi=%02x", tc.clockSeqHi)
	}
}
