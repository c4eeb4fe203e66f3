package repository

import (
	"context"
	"sync"
)

// MemoryNameRepository keeps names in a map. It backs tests and dry runs.
type MemoryNameRepository struct {
	mu    sync.Mutex
	names map[string]struct{}
	order []string // insertion order, so scans are repeatable
}

// NewMemoryNameRepository returns a repository holding names.
func NewMemoryNameRepository(names ...string) *MemoryNameRepository {
	r := &MemoryNameRepository{names: make(map[string]struct{})}
	for _, n := range names {
		r.insert(n)
	}
	return r
}

func (r *MemoryNameRepository) insert(name string) bool {
	if _, ok := r.names[name]; ok {
		return false
	}
	r.names[name] = struct{}{}
	r.order = append(r.order, name)
	return true
}

// ForEachName scans a copy taken at call time, so fn may insert.
func (r *MemoryNameRepository) ForEachName(ctx context.Context, fn func(name string) error) error {
	r.mu.Lock()
	names := append([]string(nil), r.order...)
	r.mu.Unlock()

	for _, n := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(n); err != nil {
			return stopped(err)
		}
	}
	return nil
}

func (r *MemoryNameRepository) InsertIfAbsent(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(name), nil
}

func (r *MemoryNameRepository) InsertManyIfAbsent(ctx context.Context, names []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for _, name := range names {
		if r.insert(name) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryNameRepository) CountNames(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.names)), nil
}
