package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// seedBatchSize caps a single bulk insert during seeding.
const seedBatchSize = 10_000

// SeedNames inserts test1..testN, skipping names that already exist, and logs
// how many rows were written and how many the store now holds. n == 0 is a no-op.
func SeedNames(ctx context.Context, repo NameRepository, n int, logger *zap.Logger) (int, error) {
	if n <= 0 {
		return 0, nil
	}

	var inserted int
	batch := make([]string, 0, min(n, seedBatchSize))
	for i := 1; i <= n; i++ {
		batch = append(batch, fmt.Sprintf("test%d", i))
		if len(batch) < seedBatchSize && i < n {
			continue
		}
		written, err := repo.InsertManyIfAbsent(ctx, batch)
		if err != nil {
			return inserted, fmt.Errorf("seed: %w", err)
		}
		inserted += written
		batch = batch[:0]
	}

	total, err := repo.CountNames(ctx)
	if err != nil {
		return inserted, fmt.Errorf("seed count: %w", err)
	}
	logger.Info("seeded names",
		zap.Int("inserted", inserted),
		zap.Int64("total", total),
	)
	return inserted, nil
}
