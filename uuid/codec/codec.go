// Package codec converts between Unix time and the 60-bit timestamp carried
// by time-based UUIDs, and renders UUID strings for range enumeration.  The
// timestamp counts 100-nanosecond ticks since the UUID epoch,
// 1582-10-15T00:00:00Z.
package codec

import (
	"errors"
	"math"
)

const (
	// GregorianToUnix is the fixed offset in seconds between the UUID epoch
	// and the Unix epoch.
	GregorianToUnix = 12219292800

	// TicksPerSecond is the number of 100ns intervals per second.
	TicksPerSecond = 10_000_000

	// TimeMask bounds the 60-bit timestamp space.
	TimeMask = uint64(1)<<60 - 1
)

// ErrTimestampRange is returned when a value does not fit the 60-bit
// timestamp contract.  Out-of-range input is rejected, never truncated.
var ErrTimestampRange = errors.New("codec: timestamp exceeds 60 bits")

// ToUUIDTime converts Unix seconds to the 60-bit UUID timestamp.  The
// integer seconds are converted exactly; only the sub-second fraction goes
// through floating point, keeping the round trip within one 100ns tick.
func ToUUIDTime(unixSeconds float64) (uint64, error) {
	sec := math.Floor(unixSeconds)
	frac := unixSeconds - sec
	gregorian := int64(sec) + GregorianToUnix
	if gregorian < 0 {
		return 0, ErrTimestampRange
	}
	// Bound the seconds before multiplying so the product cannot wrap
	// modulo 2^64 and sneak back under the mask.
	if uint64(gregorian) > TimeMask/TicksPerSecond {
		return 0, ErrTimestampRange
	}
	ticks := uint64(gregorian)*TicksPerSecond + uint64(math.Round(frac*TicksPerSecond))
	if ticks > TimeMask {
		return 0, ErrTimestampRange
	}
	return ticks, nil
}

// ToUnixTime converts a 60-bit UUID timestamp back to Unix seconds.
func ToUnixTime(uuidTime uint64) float64 {
	sec := int64(uuidTime/TicksPerSecond) - GregorianToUnix
	frac := float64(uuidTime%TicksPerSecond) / TicksPerSecond
	return float64(sec) + frac
}

// SplitTime slices a 60-bit timestamp into the three UUID time fields:
// low 32 bits, middle 16 bits and the top 12 bits.
func SplitTime(t uint64) (low uint32, mid uint16, hi uint16, err error) {
	if t > TimeMask {
		return 0, 0, 0, ErrTimestampRange
	}
	return uint32(t), uint16(t >> 32), uint16(t >> 48), nil
}

// JoinTime is the inverse of SplitTime.  The version nibble, if present in
// hi, is masked out per the RFC field layout.
func JoinTime(low uint32, mid uint16, hi uint16) uint64 {
	return uint64(hi&0x0fff)<<48 | uint64(mid)<<32 | uint64(low)
}

// ValidTime reports whether t fits the 60-bit timestamp space.
func ValidTime(t uint64) bool {
	return t <= TimeMask
}
