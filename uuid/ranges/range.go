// Package ranges turns two time-based UUID endpoints into an inclusive
// enumeration range over the 60-bit timestamp space.  Clock sequence, node
// and the version nibble stay fixed across the whole range; only the
// timestamp varies.
package ranges

import (
	"errors"
	"fmt"

	"github.com/uuidlab/uuidrange/uuid/codec"
	"github.com/uuidlab/uuidrange/uuid/field"
)

// ErrInvalidFormat mirrors field.ErrInvalidFormat for callers that only
// import this package.
var ErrInvalidFormat = field.ErrInvalidFormat

// ErrRangeOverflow is returned when an extracted timestamp would not fit the
// 60-bit space.  Canonical parsing cannot actually produce such a value, the
// check is defensive per the numeric contract.
var ErrRangeOverflow = errors.New("ranges: timestamp exceeds 60 bits")

// Range describes one inclusive enumeration.  Start and End are the 60-bit
// timestamps formed by concatenating time_hi (version nibble stripped),
// time_mid and time_low of each endpoint, normalized so Start <= End.
type Range struct {
	Start uint64
	End   uint64

	// Fixed suffix for every generated UUID, taken from the post-swap start
	// endpoint.
	ClockSeqHex   string
	NodeHex       string
	VersionNibble byte

	// Swapped records that the caller passed the endpoints in descending
	// order.  Enumeration order is unaffected.
	Swapped bool
}

// New parses both endpoints and computes the normalized range.  The caller
// may pass the endpoints in either order.
func New(startUUID, endUUID string) (*Range, error) {
	sf, err := field.Parse(startUUID)
	if err != nil {
		return nil, fmt.Errorf("start uuid: %w", err)
	}
	ef, err := field.Parse(endUUID)
	if err != nil {
		return nil, fmt.Errorf("end uuid: %w", err)
	}

	start, end := sf.Time60(), ef.Time60()
	anchor := sf
	swapped := false
	if start > end {
		start, end = end, start
		anchor = ef
		swapped = true
	}
	if !codec.ValidTime(end) {
		return nil, ErrRangeOverflow
	}
	return &Range{
		Start:         start,
		End:           end,
		ClockSeqHex:   anchor.ClockSeqHex(),
		NodeHex:       anchor.NodeHex(),
		VersionNibble: anchor.VersionNibble(),
		Swapped:       swapped,
	}, nil
}

// Total returns the inclusive number of UUIDs in the range.  Equal endpoints
// yield exactly one; the value can reach 2^60 and must never be narrowed to
// 32 bits by callers.
func (r *Range) Total() uint64 {
	return r.End - r.Start + 1
}

// Contains reports whether ts falls inside the range.
func (r *Range) Contains(ts uint64) bool {
	return ts >= r.Start && ts <= r.End
}

// Offset returns the zero-based position of ts within the range.  The caller
// must ensure Contains(ts).
func (r *Range) Offset(ts uint64) uint64 {
	return ts - r.Start
}

// Encoder builds the UUID encoder carrying the range's fixed suffix.
func (r *Range) Encoder() (*codec.Encoder, error) {
	return codec.NewEncoder(r.ClockSeqHex, r.NodeHex, r.VersionNibble)
}
