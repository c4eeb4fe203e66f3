package bf

import (
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// HashStrategy derives k bit positions in [0, m) from two base hashes using
// double hashing: pos_i = (h1 + i*h2) mod m, with h1 = xxh3 and h2 =
// murmur3 (64-bit). The arithmetic wraps at 2^64 before the final mod.
//
// Both base hashes are seedless, so positions are identical across runs and
// machines. Any change here invalidates every snapshot on disk.
type HashStrategy struct {
	m uint64
	k uint64
}

// m and k are validated by the Filter constructors.
func newHashStrategy(m, k uint64) HashStrategy {
	return HashStrategy{m: m, k: k}
}

// base returns the two independent hashes of s.
func (h HashStrategy) base(s string) (h1, h2 uint64) {
	return xxh3.HashString(s), murmur3.Sum64([]byte(s))
}

func (h HashStrategy) position(h1, h2, i uint64) uint64 {
	return (h1 + i*h2) % h.m
}

// Positions appends the k positions of s to dst and returns it.
func (h HashStrategy) Positions(s string, dst []uint64) []uint64 {
	h1, h2 := h.base(s)
	for i := uint64(0); i < h.k; i++ {
		dst = append(dst, h.position(h1, h2, i))
	}
	return dst
}

// K returns the number of positions produced per string.
func (h HashStrategy) K() uint64 {
	return h.k
}

// M returns the exclusive upper bound of every position.
func (h HashStrategy) M() uint64 {
	return h.m
}
