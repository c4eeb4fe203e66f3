package repository

import (
	"context"
	"fmt"
	"time"

	"name_guard/adapters"

	"go.etcd.io/bbolt"
)

var namesBucket = []byte("names")

// BoltNameRepository stores one key per name in a bbolt bucket. The value is
// the claim time. bbolt allows a single writer, so check-then-put inside one
// Update transaction is atomic.
type BoltNameRepository struct {
	db  *bbolt.DB
	now func() time.Time
}

// NewBoltNameRepository creates the names bucket if needed.
func NewBoltNameRepository(db *bbolt.DB) (*BoltNameRepository, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(namesBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("bolt names bucket: %w", err)
	}
	return &BoltNameRepository{db: db, now: time.Now}, nil
}

// ForEachName walks the bucket inside one read transaction.
func (r *BoltNameRepository) ForEachName(ctx context.Context, fn func(name string) error) error {
	err := r.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(namesBucket).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(string(k)); err != nil {
				return err
			}
		}
		return nil
	})
	return stopped(err)
}

func (r *BoltNameRepository) InsertIfAbsent(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var inserted bool
	err := r.db.Update(func(tx *bbolt.Tx) error {
		var err error
		inserted, err = r.put(tx.Bucket(namesBucket), name)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("bolt insert %q: %w", name, err)
	}
	return inserted, nil
}

// InsertManyIfAbsent writes the whole batch in one transaction.
func (r *BoltNameRepository) InsertManyIfAbsent(ctx context.Context, names []string) (int, error) {
	var n int
	err := r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(namesBucket)
		for _, name := range names {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := r.put(b, name)
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
		return 0, fmt.Errorf("bolt bulk insert: %w", err)
	}
	return n, nil
}

func (r *BoltNameRepository) put(b *bbolt.Bucket, name string) (bool, error) {
	key := adapters.BoltNameKey(name)
	if b.Get(key) != nil {
		return false, nil
	}
	if err := b.Put(key, adapters.EncodeClaimedAt(r.now())); err != nil {
		return false, err
	}
	return true, nil
}

func (r *BoltNameRepository) CountNames(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	err := r.db.View(func(tx *bbolt.Tx) error {
		n = int64(tx.Bucket(namesBucket).Stats().KeyN)
		return nil
	})
	return n, err
}
