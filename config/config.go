// Package config provides the benchmark configuration: compiled-in defaults,
// an optional YAML file and JOINBENCH_ environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
	"pollex.nl/joinbench/bench"
)

// Driver selects the store implementation.
type Driver string

const (
	DriverMongoDB  Driver = "mongodb"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// MaxBatchSize keeps a three column insert chunk under SQLite's 32766 host parameters.
const MaxBatchSize = 10000

// Config holds the configuration of one benchmark run.
type Config struct {
	// Store selects and addresses the database under test
	Store StoreConfig `yaml:"store"`

	// BatchSize bounds rows per insert statement and ids per lookup query
	BatchSize int `yaml:"batch_size"`

	// Regenerate rebuilds the dataset before every strategy, not only once per scale
	Regenerate bool `yaml:"regenerate"`

	// Scales are benchmarked in order
	Scales []ScaleConfig `yaml:"scales"`

	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// StoreConfig holds the database connection settings.
type StoreConfig struct {
	// Driver is one of mongodb, sqlite, postgres
	Driver Driver `yaml:"driver"`

	// URI is the connection string (a file name or DSN for sqlite)
	URI string `yaml:"uri"`

	// Database is the logical database name (mongodb only)
	Database string `yaml:"database"`
}

type ScaleConfig struct {
	Name    string `yaml:"name"`
	Authors int    `yaml:"authors"`
	Books   int    `yaml:"books"`
}

type MetricsConfig struct {
	// Textfile is where the final metrics are written in the textfile format; empty disables it
	Textfile string `yaml:"textfile"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`

	// Format is text or json
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	cfg := &Config{
		Store: StoreConfig{
			Driver:   DriverMongoDB,
			URI:      "mongodb://localhost:27017",
			Database: "testdb",
		},
		BatchSize:  MaxBatchSize,
		Regenerate: true,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
	for _, s := range bench.DefaultScales() {
		cfg.Scales = append(cfg.Scales, ScaleConfig{Name: s.Name, Authors: s.Authors, Books: s.Books})
	}

	return cfg
}

// Load builds the configuration from defaults, the YAML file named by
// JOINBENCH_CONFIG if set, and environment overrides, then validates it.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("JOINBENCH_CONFIG"); path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := LoadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv applies JOINBENCH_ prefixed environment variables.
func LoadFromEnv(cfg *Config) error {
	if v := os.Getenv("JOINBENCH_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = Driver(strings.ToLower(v))
	}
	if v := os.Getenv("JOINBENCH_STORE_URI"); v != "" {
		cfg.Store.URI = v
	}
	if v := os.Getenv("JOINBENCH_STORE_DATABASE"); v != "" {
		cfg.Store.Database = v
	}
	if v := os.Getenv("JOINBENCH_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JOINBENCH_BATCH_SIZE: %w", err)
		}
		cfg.BatchSize = n
	}
	if v := os.Getenv("JOINBENCH_REGENERATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("JOINBENCH_REGENERATE: %w", err)
		}
		cfg.Regenerate = b
	}
	if v := os.Getenv("JOINBENCH_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
	if v := os.Getenv("JOINBENCH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("JOINBENCH_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongoDB:
		if c.Store.Database == "" {
			return fmt.Errorf("store.database is required for mongodb")
		}
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("invalid store driver: %s (must be mongodb, sqlite, or postgres)", c.Store.Driver)
	}

	if c.Store.URI == "" {
		return fmt.Errorf("store.uri is required")
	}

	if c.BatchSize < 1 || c.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch_size must be between 1 and %d, got %d", MaxBatchSize, c.BatchSize)
	}

	if len(c.Scales) == 0 {
		return fmt.Errorf("at least one scale is required")
	}
	for i, s := range c.BenchScales() {
		if s.Name == "" {
			return fmt.Errorf("scales[%d].name is required", i)
		}
		if err := s.Validate(); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// BenchScales converts the configured scales for the runner.
func (c *Config) BenchScales() []bench.Scale {
	scales := make([]bench.Scale, 0, len(c.Scales))
	for _, s := range c.Scales {
		scales = append(scales, bench.Scale{Name: s.Name, Authors: s.Authors, Books: s.Books})
	}
	return scales
}
