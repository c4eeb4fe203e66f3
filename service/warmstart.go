package service

import (
	"context"
	"errors"
	"fmt"

	"name_guard/repository"
	"name_guard/utils/bf"

	"go.uber.org/zap"
)

// NameSource is the slice of the backing store a warm start needs.
type NameSource interface {
	ForEachName(ctx context.Context, fn func(name string) error) error
}

// WarmStartConfig is supplied by the caller; nothing here has defaults.
type WarmStartConfig struct {
	SnapshotPath      string
	ExpectedNames     uint64
	FalsePositiveRate float64
}

// WarmStart reports how the filter was obtained.
type WarmStart struct {
	Filter       *bf.Filter
	FromSnapshot bool
	// Inserted is the number of store rows put into a rebuilt filter.
	Inserted uint64
	// Truncated is set when the store held more than ExpectedNames rows and
	// the rebuild stopped at the bound.
	Truncated bool
}

// progressEvery controls rebuild progress logging.
const progressEvery = 1_000_000

// LoadOrBuild returns the snapshot at cfg.SnapshotPath when it is readable and
// its k is within one of what cfg would produce. Otherwise it builds a fresh
// filter and inserts at most cfg.ExpectedNames names from src.
//
// A missing, corrupt or incompatible snapshot is never an error. A config
// error or a store error is, since starting with an empty filter would
// silently break the false positive target.
func LoadOrBuild(ctx context.Context, cfg WarmStartConfig, src NameSource, logger *zap.Logger) (WarmStart, error) {
	_, wantK, err := bf.OptimalParams(cfg.ExpectedNames, cfg.FalsePositiveRate)
	if err != nil {
		return WarmStart{}, err
	}

	f, err := bf.Load(cfg.SnapshotPath)
	switch {
	case err == nil && compatible(f.K(), wantK):
		logger.Info("loaded name filter snapshot",
			zap.String("path", cfg.SnapshotPath),
			zap.Uint64("m", f.M()),
			zap.Uint64("k", f.K()),
			zap.Uint64("estimated_count", f.Count()),
		)
		return WarmStart{Filter: f, FromSnapshot: true}, nil
	case err == nil:
		logger.Warn("snapshot k incompatible with config, rebuilding",
			zap.String("path", cfg.SnapshotPath),
			zap.Uint64("snapshot_k", f.K()),
			zap.Uint64("config_k", wantK),
		)
	case errors.Is(err, bf.ErrNotFound):
		logger.Info("no name filter snapshot, rebuilding", zap.String("path", cfg.SnapshotPath))
	default:
		logger.Warn("unreadable name filter snapshot, rebuilding",
			zap.String("path", cfg.SnapshotPath),
			zap.Error(err),
		)
	}

	return rebuild(ctx, cfg, src, logger)
}

// compatible allows k to drift by one from older parameter choices.
func compatible(got, want uint64) bool {
	if got > want {
		return got-want <= 1
	}
	return want-got <= 1
}

func rebuild(ctx context.Context, cfg WarmStartConfig, src NameSource, logger *zap.Logger) (WarmStart, error) {
	f, err := bf.Build(cfg.ExpectedNames, cfg.FalsePositiveRate)
	if err != nil {
		return WarmStart{}, err
	}

	ws := WarmStart{Filter: f}
	err = src.ForEachName(ctx, func(name string) error {
		if ws.Inserted >= cfg.ExpectedNames {
			ws.Truncated = true
			return repository.ErrStopIteration
		}
		f.Insert(name)
		ws.Inserted++
		if ws.Inserted%progressEvery == 0 {
			logger.Debug("rebuilding name filter", zap.Uint64("inserted", ws.Inserted))
		}
		return nil
	})
	if err != nil && !errors.Is(err, repository.ErrStopIteration) {
		return WarmStart{}, fmt.Errorf("warm start scan: %w", err)
	}

	if ws.Truncated {
		logger.Warn("store holds more names than the filter was sized for; rest not loaded",
			zap.Uint64("expected_names", cfg.ExpectedNames),
		)
	}
	logger.Info("rebuilt name filter from store",
		zap.Uint64("m", f.M()),
		zap.Uint64("k", f.K()),
		zap.Uint64("inserted", ws.Inserted),
	)
	return ws, nil
}
