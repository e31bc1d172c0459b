package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/joinbench/bench"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "joinbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DriverMongoDB, cfg.Store.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.URI)
	assert.Equal(t, "testdb", cfg.Store.Database)
	assert.Equal(t, MaxBatchSize, cfg.BatchSize)
	assert.True(t, cfg.Regenerate)
	assert.Equal(t, bench.DefaultScales(), cfg.BenchScales())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
store:
  driver: sqlite
  uri: "file::memory:"
batch_size: 500
regenerate: false
scales:
  - name: tiny
    authors: 2
    books: 3
metrics:
  textfile: /tmp/joinbench.prom
log:
  level: debug
  format: json
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "file::memory:", cfg.Store.URI)
	assert.Equal(t, "testdb", cfg.Store.Database, "unset keys keep their default")
	assert.Equal(t, 500, cfg.BatchSize)
	assert.False(t, cfg.Regenerate)
	assert.Equal(t, []bench.Scale{{Name: "tiny", Authors: 2, Books: 3}}, cfg.BenchScales())
	assert.Equal(t, "/tmp/joinbench.prom", cfg.Metrics.Textfile)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = LoadFromFile(writeConfig(t, "batch_size: [1, 2"))
	assert.ErrorContains(t, err, "failed to parse YAML config")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JOINBENCH_STORE_DRIVER", "POSTGRES")
	t.Setenv("JOINBENCH_STORE_URI", "postgres://bench@localhost/bench")
	t.Setenv("JOINBENCH_BATCH_SIZE", "250")
	t.Setenv("JOINBENCH_REGENERATE", "false")
	t.Setenv("JOINBENCH_LOG_LEVEL", "warn")

	cfg := Default()
	require.NoError(t, LoadFromEnv(cfg))

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://bench@localhost/bench", cfg.Store.URI)
	assert.Equal(t, 250, cfg.BatchSize)
	assert.False(t, cfg.Regenerate)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFromEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv("JOINBENCH_BATCH_SIZE", "lots")
	assert.ErrorContains(t, LoadFromEnv(Default()), "JOINBENCH_BATCH_SIZE")

	t.Setenv("JOINBENCH_BATCH_SIZE", "")
	t.Setenv("JOINBENCH_REGENERATE", "sometimes")
	assert.ErrorContains(t, LoadFromEnv(Default()), "JOINBENCH_REGENERATE")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
store:
  driver: sqlite
  uri: bench.db
batch_size: 100
`)
	t.Setenv("JOINBENCH_CONFIG", path)
	t.Setenv("JOINBENCH_BATCH_SIZE", "200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "bench.db", cfg.Store.URI)
	assert.Equal(t, 200, cfg.BatchSize)
}

func TestLoadValidates(t *testing.T) {
	t.Setenv("JOINBENCH_STORE_DRIVER", "cassandra")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid store driver")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		err    string
	}{
		{"mongodb needs a database", func(c *Config) { c.Store.Database = "" }, "store.database is required"},
		{"sqlite ignores the database", func(c *Config) { c.Store.Driver = DriverSQLite; c.Store.Database = "" }, ""},
		{"unknown driver", func(c *Config) { c.Store.Driver = "redis" }, "invalid store driver"},
		{"missing uri", func(c *Config) { c.Store.URI = "" }, "store.uri is required"},
		{"batch too small", func(c *Config) { c.BatchSize = 0 }, "batch_size must be between"},
		{"batch too large", func(c *Config) { c.BatchSize = MaxBatchSize + 1 }, "batch_size must be between"},
		{"no scales", func(c *Config) { c.Scales = nil }, "at least one scale"},
		{"unnamed scale", func(c *Config) { c.Scales[1].Name = "" }, "scales[1].name is required"},
		{"no authors", func(c *Config) { c.Scales[0].Authors = 0 }, bench.ErrInvalidScale.Error()},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.err == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("dropped")
	logger.Warn("kept", "scale", "small")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.Contains(t, buf.String(), `"scale":"small"`)

	level, err := LogConfig{Level: "DEBUG"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}
