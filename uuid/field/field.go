package field

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidFormat is returned when the input does not parse as a canonical
// 8-4-4-4-12 hex UUID.  Callers detect it via errors.Is.
var ErrInvalidFormat = errors.New("field: invalid uuid format")

// Fields holds the raw RFC-4122 wire layout of a single UUID.  The field
// names follow the RFC; whether they actually carry time/clock/node semantics
// depends on the version and is decided by the analysis package, not here.
type Fields struct {
	TimeLow          uint32
	TimeMid          uint16
	TimeHiAndVersion uint16
	ClockSeqHi       uint8
	ClockSeqLow      uint8
	Node             uint64 // low 48 bits only
}

// Parse decodes a canonical UUID string into its raw fields.  Unlike
// uuid.Parse it rejects the urn: prefix, braces and missing hyphens – the
// same strict shape the public API promises.
func Parse(s string) (Fields, error) {
	if !isCanonical(s) {
		return Fields{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return Fields{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return FromUUID(u), nil
}

// FromUUID slices an already parsed uuid.UUID into raw fields.
func FromUUID(u uuid.UUID) Fields {
	return Fields{
		TimeLow:          binary.BigEndian.Uint32(u[0:4]),
		TimeMid:          binary.BigEndian.Uint16(u[4:6]),
		TimeHiAndVersion: binary.BigEndian.Uint16(u[6:8]),
		ClockSeqHi:       u[8],
		ClockSeqLow:      u[9],
		Node: uint64(u[10])<<40 | uint64(u[11])<<32 | uint64(u[12])<<24 |
			uint64(u[13])<<16 | uint64(u[14])<<8 | uint64(u[15]),
	}
}

func isCanonical(s string) bool {
	if len(s) != 36 {
		return false
	}
	for i := 0; i < 36; i++ {
		c := s[i]
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return false
			}
		default:
			if !isHex(c) {
				return false
			}
		}
	}
	return true
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// Version returns the version number stored in the top nibble of
// time_hi_and_version.
func (f Fields) Version() int {
	return int(f.TimeHiAndVersion >> 12)
}

// VersionNibble returns the first hex digit of time_hi_and_version as a
// character.  Range generation preserves this digit verbatim.
func (f Fields) VersionNibble() byte {
	const digits = "0123456789abcdef"
	return digits[f.TimeHiAndVersion>>12]
}

// Variant returns the two-bit variant classifier taken from the top of
// clock_seq_hi_and_reserved: 0 NCS, 1 RFC (DCE/ISO), 2 Microsoft, 3 reserved.
func (f Fields) Variant() int {
	return int(f.ClockSeqHi >> 6)
}

// ClockSeq returns the 14-bit clock sequence.
func (f Fields) ClockSeq() uint16 {
	return uint16(f.ClockSeqHi&0x3f)<<8 | uint16(f.ClockSeqLow)
}

// Time60 concatenates time_hi (version nibble stripped), time_mid and
// time_low into the 60-bit timestamp integer.  For versions 3 and 4 the
// result is just hash or random bits; interpreting it is the caller's call.
func (f Fields) Time60() uint64 {
	return uint64(f.TimeHiAndVersion&0x0fff)<<48 | uint64(f.TimeMid)<<32 | uint64(f.TimeLow)
}

// ClockSeqHex renders clock_seq_hi and clock_seq_low as four hex digits, the
// exact form the range encoder re-emits.
func (f Fields) ClockSeqHex() string {
	return fmt.Sprintf("%02x%02x", f.ClockSeqHi, f.ClockSeqLow)
}

// NodeHex renders the 48-bit node field as twelve hex digits.
func (f Fields) NodeHex() string {
	return fmt.Sprintf("%012x", f.Node)
}

// TimestampHex renders time_hi_and_version, time_mid and time_low as one
// 16-digit hex string, matching the field order of the analysis output.
func (f Fields) TimestampHex() string {
	return fmt.Sprintf("%04x%04x%08x", f.TimeHiAndVersion, f.TimeMid, f.TimeLow)
}
