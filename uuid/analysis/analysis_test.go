package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeVersion1(t *testing.T) {
	rec, err := Analyze("0867d7ee-f8d5-11ef-8a38-aedb2c11800f")
	require.NoError(t, err)

	assert.Equal(t, 1, rec.Version)
	assert.False(t, rec.PossibleV2)
	assert.Equal(t, 2, rec.Variant)
	assert.Equal(t, "Microsoft GUID", rec.VariantDescription)
	assert.Equal(t, "0867d7ee", rec.TimeLow)
	assert.Equal(t, "f8d5", rec.TimeMid)
	assert.Equal(t, "01ef", rec.TimeHi)
	assert.Equal(t, "11ef", rec.TimeHiVersion)
	assert.Equal(t, "0a38", rec.ClockSeq)
	assert.Equal(t, "aedb2c11800f", rec.Node)

	require.NotNil(t, rec.Timestamp)
	// 0x1eff8d50867d7ee ticks -> 2025-03-04 UTC.
	assert.Equal(t, "2025-03-04", rec.Time.DateUTC)
	assert.Equal(t, "UTC", rec.Time.ZoneUTC)
	assert.Equal(t, "IST (UTC+5:30)", rec.Time.ZoneIST)
	assert.NotEqual(t, "N/A", rec.Time.DateTimeUTC)

	require.NotNil(t, rec.V1)
	assert.Equal(t, "11eff8d50867d7ee", rec.V1.TimestampHex)
	assert.Equal(t, "ae:db:2c:11:80:0f", rec.V1.MACAddressFormatted)
	assert.Nil(t, rec.Hash)
	assert.Nil(t, rec.Random)
}

func TestAnalyzePossibleV2(t *testing.T) {
	// Variant band 1 (clock_seq_hi 0x40..0x7f) with clock sequence 0x0027.
	rec, err := Analyze("aaaaaaaa-f8d5-11ef-4027-aedb2c11800f")
	require.NoError(t, err)

	assert.Equal(t, 2, rec.Version)
	assert.True(t, rec.PossibleV2)
	assert.Contains(t, rec.VersionDescription, "Possible UUID v2")
	require.NotNil(t, rec.DCE)
	assert.True(t, rec.DCE.Heuristic)
	assert.NotEmpty(t, rec.DCE.DetectionNote)
	assert.Equal(t, "Local DCE Security Domain", rec.DCE.Domain)
	// The heuristic keeps the timestamp decodable.
	assert.NotNil(t, rec.Timestamp)
	assert.NotEqual(t, "N/A", rec.Time.DateTimeUTC)
}

func TestAnalyzeV1NotMistakenForV2(t *testing.T) {
	// Zero clock sequence falls outside the heuristic window.
	rec, err := Analyze("aaaaaaaa-f8d5-11ef-4000-aedb2c11800f")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Version)
	assert.False(t, rec.PossibleV2)
}

func TestAnalyzeVersion3HashLabels(t *testing.T) {
	rec, err := Analyze("5df41881-3aed-3515-88a7-2f4a814cf09e")
	require.NoError(t, err)

	assert.Equal(t, 3, rec.Version)
	assert.Nil(t, rec.Timestamp)
	assert.Equal(t, "N/A", rec.Time.DateTimeUTC)
	assert.Contains(t, rec.Time.FriendlyUTC, "name-based")
	assert.Contains(t, rec.NodeDescription, "MD5 hash output")
	assert.Contains(t, rec.ClockSeqDescription, "MD5 hash output")

	require.NotNil(t, rec.Hash)
	assert.Equal(t, "MD5", rec.Hash.Algorithm)
	assert.Equal(t, "5df41881", rec.Hash.Components.Low32)
	assert.Equal(t, "3aed", rec.Hash.Components.Mid16)
	assert.Equal(t, "0515", rec.Hash.Components.Hi12)
	assert.Equal(t, "2f4a814cf09e", rec.Hash.Components.Node48)
	assert.Nil(t, rec.Hash.Namespace)
}

func TestAnalyzeVersion3Namespace(t *testing.T) {
	rec, err := Analyze("5df41881-3aed-3515-88a7-2f4a814cf09e", WithNamespace("dns"))
	require.NoError(t, err)
	require.NotNil(t, rec.Hash.Namespace)
	assert.Equal(t, "DNS", rec.Hash.Namespace.Name)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", rec.Hash.Namespace.UUID)

	rec, err = Analyze("5df41881-3aed-3515-88a7-2f4a814cf09e", WithNamespace("custom"))
	require.NoError(t, err)
	require.NotNil(t, rec.Hash.Namespace)
	assert.Equal(t, "Custom or unknown namespace", rec.Hash.Namespace.Description)
}

func TestAnalyzeVersion4(t *testing.T) {
	rec, err := Analyze("e2b1f6ac-9a9d-4f04-b1b6-05e4de4e1c09")
	require.NoError(t, err)

	assert.Equal(t, 4, rec.Version)
	assert.Nil(t, rec.Timestamp)
	assert.Equal(t, "N/A", rec.Time.DateUTC)
	require.NotNil(t, rec.Random)
	assert.Contains(t, rec.NodeDescription, "not a real MAC address")
}

func TestAnalyzeVersion5(t *testing.T) {
	// RFC 4122 v5 example for the DNS namespace and www.example.com.
	rec, err := Analyze("2ed6657d-e927-568b-95e1-2665a8aea6a2")
	require.NoError(t, err)
	assert.Equal(t, 5, rec.Version)
	require.NotNil(t, rec.Hash)
	assert.Equal(t, "SHA-1", rec.Hash.Algorithm)
	assert.Nil(t, rec.Timestamp)
}

func TestAnalyzeUnknownVersion(t *testing.T) {
	rec, err := Analyze("0867d7ee-f8d5-f1ef-8a38-aedb2c11800f")
	require.NoError(t, err)
	assert.Equal(t, 15, rec.Version)
	assert.Equal(t, "Unknown UUID version 15", rec.VersionDescription)
	assert.Nil(t, rec.Timestamp)
}

func TestAnalyzeInvalid(t *testing.T) {
	_, err := Analyze("not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDCEDomainBands(t *testing.T) {
	testCases := []struct {
		clockSeq uint16
		domain   string
	}{
		{clockSeq: 0x0027, domain: "Local DCE Security Domain"},
		{clockSeq: 0x1001, domain: "Network DCE Security Domain"},
		{clockSeq: 0x2fff, domain: "Distributed DCE Security Domain"},
		{clockSeq: 0x3abc, domain: "Enterprise DCE Security Domain"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.domain, dceDomain(tc.clockSeq), "clockSeq=%04x", tc.clockSeq)
	}
}

func TestPosixInfo(t *testing.T) {
	// domain 3, uid 1000, gid 2000, 12 bits padding.
	node := uint64(3)<<44 | uint64(1000)<<28 | uint64(2000)<<12
	assert.Equal(t, "Domain: 3, UID: 1000, GID: 2000", posixInfo(node))
	assert.Equal(t, "No POSIX UID/GID information", posixInfo(0))
}
