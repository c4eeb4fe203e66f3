package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"name_guard/adapters"

	"github.com/dgraph-io/badger/v3"
)

// maxConflictRetries bounds retries when two writers touch the same key.
const maxConflictRetries = 8

// BadgerNameRepository stores names under adapters.BadgerNamePrefix.
type BadgerNameRepository struct {
	db  *badger.DB
	now func() time.Time
}

func NewBadgerNameRepository(db *badger.DB) *BadgerNameRepository {
	return &BadgerNameRepository{db: db, now: time.Now}
}

// ForEachName iterates keys only; values are never fetched.
func (r *BadgerNameRepository) ForEachName(ctx context.Context, fn func(name string) error) error {
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = adapters.BadgerNamePrefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(adapters.BadgerNamePrefix); it.ValidForPrefix(adapters.BadgerNamePrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			name, ok := adapters.NameFromBadgerKey(it.Item().Key())
			if !ok {
				continue
			}
			if err := fn(name); err != nil {
				return err
			}
		}
		return nil
	})
	return stopped(err)
}

func (r *BadgerNameRepository) InsertIfAbsent(ctx context.Context, name string) (bool, error) {
	var inserted bool
	err := r.update(ctx, func(txn *badger.Txn) error {
		var err error
		inserted, err = r.put(txn, name)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("badger insert %q: %w", name, err)
	}
	return inserted, nil
}

// InsertManyIfAbsent commits in chunks so a large seed stays under badger's
// transaction size limit.
func (r *BadgerNameRepository) InsertManyIfAbsent(ctx context.Context, names []string) (int, error) {
	const chunk = 1000

	var total int
	for start := 0; start < len(names); start += chunk {
		end := min(start+chunk, len(names))

		var n int
		err := r.update(ctx, func(txn *badger.Txn) error {
			n = 0
			for _, name := range names[start:end] {
				ok, err := r.put(txn, name)
				if err != nil {
					return err
				}
				if ok {
					n++
				}
			}
			return nil
		})
		if err != nil {
			return total, fmt.Errorf("badger bulk insert: %w", err)
		}
		total += n
	}
	return total, nil
}

// update retries fn on write conflicts with another transaction.
func (r *BadgerNameRepository) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		err = r.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func (r *BadgerNameRepository) put(txn *badger.Txn, name string) (bool, error) {
	key := adapters.BadgerNameKey(name)
	_, err := txn.Get(key)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, badger.ErrKeyNotFound):
		return false, err
	}
	if err := txn.Set(key, adapters.EncodeClaimedAt(r.now())); err != nil {
		return false, err
	}
	return true, nil
}

func (r *BadgerNameRepository) CountNames(ctx context.Context) (int64, error) {
	var n int64
	err := r.ForEachName(ctx, func(string) error {
		n++
		return nil
	})
	return n, err
}
