package bf

import (
	"fmt"
	"math/bits"
)

// BitSet is a fixed-length bit array. Bit i lives in byte i/8 at bit i%8
// counted from the least significant bit, which is also the snapshot layout.
//
// BitSet does no locking; GuardedFilter serializes access to it.
type BitSet struct {
	bytes []byte
	size  uint64
}

// NewBitSet allocates m zeroed bits.
func NewBitSet(m uint64) *BitSet {
	return &BitSet{
		bytes: make([]byte, byteLen(m)),
		size:  m,
	}
}

// byteLen returns ceil(m/8) without overflowing for m near 2^64.
func byteLen(m uint64) uint64 {
	n := m / 8
	if m%8 != 0 {
		n++
	}
	return n
}

// Set turns bit i on.
func (b *BitSet) Set(i uint64) error {
	if i >= b.size {
		return fmt.Errorf("%w: set %d on %d bits", ErrIndex, i, b.size)
	}
	b.bytes[i/8] |= 1 << (i % 8)
	return nil
}

// Test reports whether bit i is on.
func (b *BitSet) Test(i uint64) (bool, error) {
	if i >= b.size {
		return false, fmt.Errorf("%w: test %d on %d bits", ErrIndex, i, b.size)
	}
	return b.bytes[i/8]&(1<<(i%8)) != 0, nil
}

// Len returns m.
func (b *BitSet) Len() uint64 {
	return b.size
}

// Count returns the number of bits that are on.
func (b *BitSet) Count() uint64 {
	var n uint64
	for _, x := range b.bytes {
		n += uint64(bits.OnesCount8(x))
	}
	return n
}

// Bytes exposes the backing array. Callers must not modify it.
func (b *BitSet) Bytes() []byte {
	return b.bytes
}

func (b *BitSet) clone() *BitSet {
	c := &BitSet{bytes: make([]byte, len(b.bytes)), size: b.size}
	copy(c.bytes, b.bytes)
	return c
}
