package repository_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"name_guard/database"
	"name_guard/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// backends returns a fresh repository per local store implementation.
func backends(t *testing.T) map[string]func(t *testing.T) repository.NameRepository {
	return map[string]func(t *testing.T) repository.NameRepository{
		"memory": func(t *testing.T) repository.NameRepository {
			return repository.NewMemoryNameRepository()
		},
		"bolt": func(t *testing.T) repository.NameRepository {
			db, err := database.OpenBolt(filepath.Join(t.TempDir(), "names.db"))
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })

			repo, err := repository.NewBoltNameRepository(db)
			require.NoError(t, err)
			return repo
		},
		"badger": func(t *testing.T) repository.NameRepository {
			db, err := database.OpenBadger("", zaptest.NewLogger(t))
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })
			return repository.NewBadgerNameRepository(db)
		},
	}
}

func collect(t *testing.T, repo repository.NameRepository) []string {
	t.Helper()
	var names []string
	require.NoError(t, repo.ForEachName(context.Background(), func(name string) error {
		names = append(names, name)
		return nil
	}))
	sort.Strings(names)
	return names
}

func TestInsertIfAbsent(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()

			ok, err := repo.InsertIfAbsent(ctx, "alice")
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = repo.InsertIfAbsent(ctx, "alice")
			require.NoError(t, err)
			assert.False(t, ok, "second insert must be a no-op")

			ok, err = repo.InsertIfAbsent(ctx, "Alice")
			require.NoError(t, err)
			assert.True(t, ok, "names compare by exact bytes")

			count, err := repo.CountNames(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
			assert.Equal(t, []string{"Alice", "alice"}, collect(t, repo))
		})
	}
}

func TestInsertManyIfAbsent(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()

			n, err := repo.InsertManyIfAbsent(ctx, []string{"a", "b", "c"})
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			n, err = repo.InsertManyIfAbsent(ctx, []string{"b", "c", "d", "d"})
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			assert.Equal(t, []string{"a", "b", "c", "d"}, collect(t, repo))
		})
	}
}

func TestForEachNameStops(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()
			_, err := repo.InsertManyIfAbsent(ctx, []string{"a", "b", "c", "d", "e"})
			require.NoError(t, err)

			var seen int
			err = repo.ForEachName(ctx, func(string) error {
				seen++
				if seen == 2 {
					return repository.ErrStopIteration
				}
				return nil
			})
			assert.NoError(t, err)
			assert.Equal(t, 2, seen)

			boom := errors.New("boom")
			err = repo.ForEachName(ctx, func(string) error { return boom })
			assert.ErrorIs(t, err, boom)

			// scans are restartable
			assert.Len(t, collect(t, repo), 5)
		})
	}
}

func TestForEachNameCancelled(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			_, err := repo.InsertManyIfAbsent(context.Background(), []string{"a", "b"})
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err = repo.ForEachName(ctx, func(string) error { return nil })
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestConcurrentInsertIfAbsent(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()

			var (
				wg  sync.WaitGroup
				mu  sync.Mutex
				won int
			)
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ok, err := repo.InsertIfAbsent(ctx, "contested")
					assert.NoError(t, err)
					if ok {
						mu.Lock()
						won++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			assert.Equal(t, 1, won)
		})
	}
}

func TestSeedNames(t *testing.T) {
	repo := repository.NewMemoryNameRepository("test2")
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	n, err := repository.SeedNames(ctx, repo, 0, logger)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repository.SeedNames(ctx, repo, 25_001, logger)
	require.NoError(t, err)
	assert.Equal(t, 25_000, n)

	count, err := repo.CountNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(25_001), count)

	for _, i := range []int{1, 10_000, 10_001, 25_001} {
		ok, err := repo.InsertIfAbsent(ctx, fmt.Sprintf("test%d", i))
		require.NoError(t, err)
		assert.False(t, ok, "test%d should be seeded", i)
	}
}
