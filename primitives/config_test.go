package primitives_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"name_guard/primitives"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configVars = []string{
	"LOCAL_BLOOM_FILTER_PATH", "BLOOM_EXPECTED_NAMES", "BLOOM_FALSE_POSITIVE_RATE",
	"NAME_STORE", "BOLT_PATH", "BADGER_PATH", "MONGO_URI", "MONGO_DATABASE",
	"MONGO_COLLECTION", "SEED_COUNT", "CLAIM_WORKERS", "SHUTDOWN_GRACE", "LOG_LEVEL",
}

// clearEnv blanks every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	for _, k := range configVars {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := primitives.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "data/bloom/names.bin", cfg.SnapshotPath)
	assert.Equal(t, uint64(10_000_000), cfg.ExpectedNames)
	assert.Equal(t, 0.01, cfg.FalsePositiveRate)
	assert.Equal(t, primitives.StoreBolt, cfg.Store)
	assert.Equal(t, 4, cfg.ClaimWorkers)
	assert.Equal(t, 5*time.Second, cfg.ShutdownGrace)
	assert.Zero(t, cfg.SeedCount)
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOCAL_BLOOM_FILTER_PATH", "/var/lib/names.bin")
	t.Setenv("BLOOM_EXPECTED_NAMES", "5000")
	t.Setenv("BLOOM_FALSE_POSITIVE_RATE", "0.001")
	t.Setenv("NAME_STORE", "mongo")
	t.Setenv("SEED_COUNT", "100")
	t.Setenv("SHUTDOWN_GRACE", "250ms")

	cfg, err := primitives.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/names.bin", cfg.SnapshotPath)
	assert.Equal(t, uint64(5000), cfg.ExpectedNames)
	assert.Equal(t, 0.001, cfg.FalsePositiveRate)
	assert.Equal(t, primitives.StoreMongo, cfg.Store)
	assert.Equal(t, 100, cfg.SeedCount)
	assert.Equal(t, 250*time.Millisecond, cfg.ShutdownGrace)
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"BLOOM_EXPECTED_NAMES", "0"},
		{"BLOOM_EXPECTED_NAMES", "lots"},
		{"BLOOM_FALSE_POSITIVE_RATE", "1.5"},
		{"BLOOM_FALSE_POSITIVE_RATE", "0"},
		{"NAME_STORE", "postgres"},
		{"CLAIM_WORKERS", "0"},
		{"SEED_COUNT", "-1"},
		{"SHUTDOWN_GRACE", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := primitives.LoadConfig()
			assert.ErrorIs(t, err, primitives.ErrInvalidConfig)
		})
	}
}

func TestLoadEnvPrefersLocal(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.example"), []byte("BLOOM_EXPECTED_NAMES=111\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("BLOOM_EXPECTED_NAMES=222\n"), 0o644))
	// godotenv never overrides a set variable, so drop the blank one first
	os.Unsetenv("BLOOM_EXPECTED_NAMES")

	loaded, err := primitives.LoadEnv(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".env.local"), loaded)

	cfg, err := primitives.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(222), cfg.ExpectedNames)
}

func TestLoadEnvFallsBackToExample(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.example"), []byte("NAME_STORE=badger\n"), 0o644))
	os.Unsetenv("NAME_STORE")

	loaded, err := primitives.LoadEnv(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".env.example"), loaded)

	cfg, err := primitives.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, primitives.StoreBadger, cfg.Store)
}

func TestLoadEnvNoFiles(t *testing.T) {
	loaded, err := primitives.LoadEnv(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestNewLogger(t *testing.T) {
	logger, err := primitives.NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = primitives.NewLogger("chatty")
	assert.Error(t, err)
}
