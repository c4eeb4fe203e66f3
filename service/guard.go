package service

import (
	"sync"

	"name_guard/utils/bf"
)

// Decision is the outcome of GuardedFilter.LookupAndMaybeInsert.
type Decision int

const (
	// Accepted means the name was definitely absent and is now recorded.
	Accepted Decision = iota
	// Rejected means the name may already exist (possibly a false positive).
	Rejected
)

func (d Decision) String() string {
	switch d {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// GuardedFilter owns a bf.Filter and is the only place it is mutated.
// One instance is built at startup and handed to every request path.
type GuardedFilter struct {
	mu     sync.Mutex
	filter *bf.Filter
}

// NewGuardedFilter takes ownership of f. The caller must not touch f afterwards.
func NewGuardedFilter(f *bf.Filter) *GuardedFilter {
	return &GuardedFilter{filter: f}
}

// LookupAndMaybeInsert tests name and, when absent, inserts it, all under one
// lock. Two callers racing on the same new name get one Accepted and one
// Rejected. The critical section is O(k) bit work and never does I/O.
func (g *GuardedFilter) LookupAndMaybeInsert(name string) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.filter.Lookup(name) {
		return Rejected
	}
	g.filter.Insert(name)
	return Accepted
}

// MayContain is a read-only lookup.
func (g *GuardedFilter) MayContain(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.filter.Lookup(name)
}

// Stats describes the filter at one instant.
type Stats struct {
	M                          uint64
	K                          uint64
	Count                      uint64
	ExpectedElements           uint64
	FillRatio                  float64
	EstimatedFalsePositiveRate float64
}

func (g *GuardedFilter) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return statsOf(g.filter)
}

func statsOf(f *bf.Filter) Stats {
	return Stats{
		M:                          f.M(),
		K:                          f.K(),
		Count:                      f.Count(),
		ExpectedElements:           f.ExpectedElements(),
		FillRatio:                  f.FillRatio(),
		EstimatedFalsePositiveRate: f.EstimatedFalsePositiveRate(),
	}
}

// SaveSnapshot copies the filter under the lock and writes the copy to path
// after releasing it, so claims keep flowing during the file write.
func (g *GuardedFilter) SaveSnapshot(path string) error {
	g.mu.Lock()
	snap := g.filter.Clone()
	g.mu.Unlock()

	return bf.Save(snap, path)
}
