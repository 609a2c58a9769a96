package codec

import "fmt"

const hexDigits = "0123456789abcdef"

// Template byte offsets of the canonical 8-4-4-4-12 layout.
const (
	lowEnd  = 8  // time_low occupies [0,8)
	midPos  = 9  // time_mid occupies [9,13)
	verPos  = 14 // version nibble
	hiPos   = 15 // time_hi occupies [15,18)
	clockAt = 19 // clock_seq occupies [19,23)
	nodeAt  = 24 // node occupies [24,36)
)

// Encoder renders one UUID string per 60-bit timestamp with the clock
// sequence, node and version nibble fixed up front.  Only the fifteen
// timestamp digits of a prebuilt 36-byte template are rewritten per call,
// which keeps the range-generation hot loop allocation free.
//
// Timestamps passed to Append and String must fit 60 bits; the enumerator
// guarantees this by construction since it parses at most fifteen hex digits.
type Encoder struct {
	buf [36]byte
}

// NewEncoder builds the template from a four-digit clock sequence, a
// twelve-digit node and a single version nibble, all lower-case hex.
func NewEncoder(clockSeqHex, nodeHex string, versionNibble byte) (*Encoder, error) {
	if len(clockSeqHex) != 4 {
		return nil, fmt.Errorf("codec: clock sequence must be 4 hex digits, got %q", clockSeqHex)
	}
	if len(nodeHex) != 12 {
		return nil, fmt.Errorf("codec: node must be 12 hex digits, got %q", nodeHex)
	}
	if !isHexLower(versionNibble) {
		return nil, fmt.Errorf("codec: invalid version nibble %q", string(versionNibble))
	}
	e := &Encoder{}
	for i := range e.buf {
		e.buf[i] = '0'
	}
	e.buf[8], e.buf[13], e.buf[18], e.buf[23] = '-', '-', '-', '-'
	e.buf[verPos] = versionNibble
	for i := 0; i < 4; i++ {
		c := lower(clockSeqHex[i])
		if !isHexLower(c) {
			return nil, fmt.Errorf("codec: invalid clock sequence %q", clockSeqHex)
		}
		e.buf[clockAt+i] = c
	}
	for i := 0; i < 12; i++ {
		c := lower(nodeHex[i])
		if !isHexLower(c) {
			return nil, fmt.Errorf("codec: invalid node %q", nodeHex)
		}
		e.buf[nodeAt+i] = c
	}
	return e, nil
}

// Append renders the UUID for ts followed by a newline into dst.
func (e *Encoder) Append(dst []byte, ts uint64) []byte {
	e.render(ts)
	dst = append(dst, e.buf[:]...)
	return append(dst, '\n')
}

// String renders the UUID for ts.
func (e *Encoder) String(ts uint64) string {
	e.render(ts)
	return string(e.buf[:])
}

func (e *Encoder) render(ts uint64) {
	v := uint32(ts)
	for i := lowEnd - 1; i >= 0; i-- {
		e.buf[i] = hexDigits[v&0xf]
		v >>= 4
	}
	m := uint16(ts >> 32)
	for i := midPos + 3; i >= midPos; i-- {
		e.buf[i] = hexDigits[m&0xf]
		m >>= 4
	}
	h := uint16(ts>>48) & 0x0fff
	for i := hiPos + 2; i >= hiPos; i-- {
		e.buf[i] = hexDigits[h&0xf]
		h >>= 4
	}
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'F' {
		return c + ('a' - 'A')
	}
	return c
}

func isHexLower(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f'
}
