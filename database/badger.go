package database

import (
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// OpenBadger opens the badger directory at path. An empty path opens an
// in-memory store.
func OpenBadger(path string, logger *zap.Logger) (*badger.DB, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("badger dir: %w", err)
		}
		opts = badger.DefaultOptions(path)
	}

	opts = opts.
		WithLogger(badgerLogger{logger.Named("badger").Sugar()}).
		WithNumVersionsToKeep(1).
		WithSyncWrites(true)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger open %q: %w", path, err)
	}
	return db, nil
}

// badgerLogger routes badger's printf logging into zap. Info chatter from
// compactions is demoted to debug.
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.s.Errorf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.s.Warnf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.s.Debugf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.s.Debugf(format, args...)
}
