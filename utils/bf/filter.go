// Package bf implements the probabilistic name set: a bit array addressed by
// double hashing, sized from an expected element count and a target false
// positive rate, and persisted as a fixed binary snapshot.
//
// A Filter never reports a false negative. It may report a false positive for
// names that were never inserted, at roughly the configured rate.
//
// Filter is not safe for concurrent use. Share it through service.GuardedFilter.
package bf

// Filter is a bloom filter over strings.
type Filter struct {
	bits     *BitSet
	hash     HashStrategy
	m        uint64 // bit count, fixed for the life of the filter
	k        uint64 // hash count, fixed for the life of the filter
	expected uint64
	count    uint64 // insertions, duplicates included
}

// Build sizes a filter for n names at false positive rate p. See OptimalParams.
func Build(n uint64, p float64) (*Filter, error) {
	m, k, err := OptimalParams(n, p)
	if err != nil {
		return nil, err
	}
	f, err := NewWithParams(m, k)
	if err != nil {
		return nil, err
	}
	f.expected = n
	return f, nil
}

// NewWithParams creates an empty filter with m bits and k hash functions.
func NewWithParams(m, k uint64) (*Filter, error) {
	if err := checkShape(m, k); err != nil {
		return nil, err
	}
	return &Filter{
		bits:     NewBitSet(m),
		hash:     newHashStrategy(m, k),
		m:        m,
		k:        k,
		expected: expectedFromShape(m, k),
	}, nil
}

// Insert adds s. Inserting the same string again changes no bits but still
// counts as an insertion.
func (f *Filter) Insert(s string) {
	h1, h2 := f.hash.base(s)
	for i := uint64(0); i < f.k; i++ {
		if err := f.bits.Set(f.hash.position(h1, h2, i)); err != nil {
			panic(err)
		}
	}
	f.count++
}

// Lookup reports whether s may have been inserted. A false result is exact.
func (f *Filter) Lookup(s string) bool {
	h1, h2 := f.hash.base(s)
	for i := uint64(0); i < f.k; i++ {
		ok, err := f.bits.Test(f.hash.position(h1, h2, i))
		if err != nil {
			panic(err)
		}
		if !ok {
			return false
		}
	}
	return true
}

// M returns the number of bits.
func (f *Filter) M() uint64 {
	return f.m
}

// K returns the number of hash functions.
func (f *Filter) K() uint64 {
	return f.k
}

// Count returns the number of insertions performed, or an estimate of it for
// a filter restored from a snapshot.
func (f *Filter) Count() uint64 {
	return f.count
}

// ExpectedElements returns the n the filter was sized for.
func (f *Filter) ExpectedElements() uint64 {
	return f.expected
}

// FillRatio returns the proportion of bits that are on.
func (f *Filter) FillRatio() float64 {
	return float64(f.bits.Count()) / float64(f.m)
}

// EstimatedFalsePositiveRate returns (1 - e^(-k*c/m))^k for the current count.
func (f *Filter) EstimatedFalsePositiveRate() float64 {
	return EstimateFalsePositiveRate(f.m, f.k, f.count)
}

// Clone returns an independent copy, used to snapshot without holding a lock
// across file I/O.
func (f *Filter) Clone() *Filter {
	c := *f
	c.bits = f.bits.clone()
	return &c
}
