package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// OpenBolt opens (or creates) the bbolt file at path. The lock timeout keeps
// a second process from hanging forever on the same file.
func OpenBolt(path string) (*bbolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("bolt dir: %w", err)
	}

	options := &bbolt.Options{
		Timeout:      5 * time.Second,
		FreelistType: bbolt.FreelistMapType,
	}
	db, err := bbolt.Open(path, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("bolt open %s: %w", path, err)
	}
	return db, nil
}
