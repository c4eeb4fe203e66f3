package primitives

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backends accepted in NAME_STORE.
const (
	StoreBolt   = "bolt"
	StoreBadger = "badger"
	StoreMongo  = "mongo"
)

// ErrInvalidConfig wraps every validation failure from LoadConfig.
var ErrInvalidConfig = errors.New("invalid config")

// Config is everything the entry points read from the environment.
type Config struct {
	SnapshotPath      string
	ExpectedNames     uint64
	FalsePositiveRate float64

	Store           string
	BoltPath        string
	BadgerPath      string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	SeedCount     int
	ClaimWorkers  int
	ShutdownGrace time.Duration
	LogLevel      string
}

// LoadConfig reads the process environment. Call LoadEnv first to pick up
// dotenv files.
func LoadConfig() (Config, error) {
	var (
		cfg Config
		err error
	)

	cfg.SnapshotPath = str("LOCAL_BLOOM_FILTER_PATH", "data/bloom/names.bin")
	if cfg.ExpectedNames, err = uintVar("BLOOM_EXPECTED_NAMES", 10_000_000); err != nil {
		return Config{}, err
	}
	if cfg.FalsePositiveRate, err = floatVar("BLOOM_FALSE_POSITIVE_RATE", 0.01); err != nil {
		return Config{}, err
	}

	cfg.Store = str("NAME_STORE", StoreBolt)
	cfg.BoltPath = str("BOLT_PATH", "data/bolt/names.db")
	cfg.BadgerPath = str("BADGER_PATH", "data/badger")
	cfg.MongoURI = str("MONGO_URI", "mongodb://localhost:27017")
	cfg.MongoDatabase = str("MONGO_DATABASE", "name_guard")
	cfg.MongoCollection = str("MONGO_COLLECTION", "names")

	if cfg.SeedCount, err = intVar("SEED_COUNT", 0); err != nil {
		return Config{}, err
	}
	if cfg.ClaimWorkers, err = intVar("CLAIM_WORKERS", 4); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownGrace, err = durationVar("SHUTDOWN_GRACE", 5*time.Second); err != nil {
		return Config{}, err
	}
	cfg.LogLevel = str("LOG_LEVEL", "info")

	return cfg, cfg.Validate()
}

// Validate checks ranges and combinations.
func (c Config) Validate() error {
	switch {
	case c.SnapshotPath == "":
		return fmt.Errorf("%w: LOCAL_BLOOM_FILTER_PATH is empty", ErrInvalidConfig)
	case c.ExpectedNames == 0:
		return fmt.Errorf("%w: BLOOM_EXPECTED_NAMES must be > 0", ErrInvalidConfig)
	case c.FalsePositiveRate <= 0 || c.FalsePositiveRate >= 1:
		return fmt.Errorf("%w: BLOOM_FALSE_POSITIVE_RATE %v not in (0, 1)", ErrInvalidConfig, c.FalsePositiveRate)
	case c.SeedCount < 0:
		return fmt.Errorf("%w: SEED_COUNT must be >= 0", ErrInvalidConfig)
	case c.ClaimWorkers < 1:
		return fmt.Errorf("%w: CLAIM_WORKERS must be >= 1", ErrInvalidConfig)
	case c.ShutdownGrace <= 0:
		return fmt.Errorf("%w: SHUTDOWN_GRACE must be > 0", ErrInvalidConfig)
	}

	switch c.Store {
	case StoreBolt:
		if c.BoltPath == "" {
			return fmt.Errorf("%w: BOLT_PATH is empty", ErrInvalidConfig)
		}
	case StoreBadger:
		if c.BadgerPath == "" {
			return fmt.Errorf("%w: BADGER_PATH is empty", ErrInvalidConfig)
		}
	case StoreMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" || c.MongoCollection == "" {
			return fmt.Errorf("%w: MONGO_URI, MONGO_DATABASE and MONGO_COLLECTION are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: NAME_STORE %q is not bolt, badger or mongo", ErrInvalidConfig, c.Store)
	}
	return nil
}

func str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func uintVar(key string, def uint64) (uint64, error) {
	v := str(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
	}
	return n, nil
}

func intVar(key string, def int) (int, error) {
	v := str(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
	}
	return n, nil
}

func floatVar(key string, def float64) (float64, error) {
	v := str(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
	}
	return f, nil
}

func durationVar(key string, def time.Duration) (time.Duration, error) {
	v := str(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
	}
	return d, nil
}
