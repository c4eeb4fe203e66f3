package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SaveOnShutdown writes a snapshot, giving up after grace. Failure is logged
// and returned; callers are expected to carry on exiting, since the next start
// falls back to rebuilding from the store.
func SaveOnShutdown(ctx context.Context, guard *GuardedFilter, path string, grace time.Duration, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, grace)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- guard.SaveSnapshot(path)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = fmt.Errorf("snapshot save abandoned after %s: %w", grace, ctx.Err())
	}

	if err != nil {
		logger.Error("failed to save name filter snapshot", zap.String("path", path), zap.Error(err))
		return err
	}

	st := guard.Stats()
	logger.Info("saved name filter snapshot",
		zap.String("path", path),
		zap.Uint64("m", st.M),
		zap.Uint64("k", st.K),
		zap.Uint64("count", st.Count),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}
