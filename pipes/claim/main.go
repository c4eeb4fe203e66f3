// Command claim warms up the name filter, then claims names read one per line
// from stdin and prints "<name>\t<outcome>" for each. On EOF, SIGINT or SIGTERM
// it saves the filter snapshot before exiting.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"name_guard/database"
	"name_guard/primitives"
	"name_guard/repository"
	"name_guard/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if _, err := primitives.LoadEnv("."); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := primitives.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := primitives.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("claim exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg primitives.Config, in io.Reader, out io.Writer, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	if _, err := repository.SeedNames(ctx, repo, cfg.SeedCount, logger); err != nil {
		return err
	}

	ws, err := service.LoadOrBuild(ctx, service.WarmStartConfig{
		SnapshotPath:      cfg.SnapshotPath,
		ExpectedNames:     cfg.ExpectedNames,
		FalsePositiveRate: cfg.FalsePositiveRate,
	}, repo, logger)
	if err != nil {
		return fmt.Errorf("warm start: %w", err)
	}

	guard := service.NewGuardedFilter(ws.Filter)
	claims := service.NewClaimService(guard, repo, logger)
	logger.Info("name filter ready",
		zap.Bool("from_snapshot", ws.FromSnapshot),
		zap.Uint64("inserted", ws.Inserted),
		zap.Bool("truncated", ws.Truncated),
	)

	err = serve(ctx, claims, cfg.ClaimWorkers, in, out, logger)

	// The signal context may already be done; the save gets its own deadline.
	_ = service.SaveOnShutdown(context.Background(), guard, cfg.SnapshotPath, cfg.ShutdownGrace, logger)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// serve fans stdin lines out to workers until EOF or cancellation. The reader
// is outside the group because a blocked Scan cannot be interrupted.
func serve(ctx context.Context, claims *service.ClaimService, workers int, in io.Reader, out io.Writer, logger *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	lines := make(chan string, workers*4)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			name := strings.TrimSpace(sc.Text())
			if name == "" {
				continue
			}
			select {
			case lines <- name:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			logger.Error("reading names", zap.Error(err))
		}
	}()

	var mu sync.Mutex
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				var name string
				select {
				case <-ctx.Done():
					return ctx.Err()
				case n, ok := <-lines:
					if !ok {
						return nil
					}
					name = n
				}

				outcome, err := claims.Claim(ctx, name)
				if errors.Is(err, service.ErrNameTooLong) {
					logger.Warn("skipping name", zap.Error(err))
					continue
				}
				if err != nil {
					return err
				}
				mu.Lock()
				fmt.Fprintf(out, "%s\t%s\n", name, outcome)
				mu.Unlock()
			}
		})
	}

	return g.Wait()
}

func openRepository(ctx context.Context, cfg primitives.Config, logger *zap.Logger) (repository.NameRepository, func(), error) {
	switch cfg.Store {
	case primitives.StoreBadger:
		db, err := database.OpenBadger(cfg.BadgerPath, logger)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewBadgerNameRepository(db), func() { db.Close() }, nil

	case primitives.StoreMongo:
		client, err := database.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewMongoNameRepository(client, cfg.MongoCollection)
		if err := repo.EnsureIndexes(ctx); err != nil {
			client.Close(context.Background())
			return nil, nil, err
		}
		return repo, func() { client.Close(context.Background()) }, nil

	default:
		db, err := database.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.NewBoltNameRepository(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { db.Close() }, nil
	}
}
