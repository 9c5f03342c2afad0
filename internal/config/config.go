// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and FOOTBALL_* env vars over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Supported store drivers.
const (
	DriverCassandra = "cassandra"
	DriverSQLite    = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Driver selects the store backend: cassandra or sqlite.
	Driver string `koanf:"driver"`

	// Hosts lists Cassandra contact points.
	Hosts []string `koanf:"hosts"`

	// Keyspace holds both tracking tables.
	Keyspace string `koanf:"keyspace"`

	// Consistency is the Cassandra consistency level name, e.g. ONE, QUORUM.
	Consistency string `koanf:"consistency"`

	// Timeout bounds each Cassandra request.
	Timeout time.Duration `koanf:"timeout"`

	// NumRetries configures the driver's simple retry policy per statement.
	NumRetries int `koanf:"num_retries"`

	// CreateSchema creates the keyspace and tables on open when missing.
	CreateSchema bool `koanf:"create_schema"`

	// ReplicationFactor is used when CreateSchema creates the keyspace.
	ReplicationFactor int `koanf:"replication_factor"`

	// SQLiteDir holds one <keyspace>.db file per keyspace for the sqlite driver.
	SQLiteDir string `koanf:"sqlite_dir"`

	// BatchSize caps rows per batch statement.
	BatchSize int `koanf:"batch_size"`

	// Addr configures the HTTP listen address of serve mode, e.g. ":9080".
	Addr string `koanf:"addr"`

	// WorkerCount sets the number of concurrent ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory ingestion queue.
	QueueSize int `koanf:"queue_size"`

	// InputDir is scanned by `ingest --all` and watched by `serve --watch`.
	InputDir string `koanf:"input_dir"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Driver:            DriverCassandra,
		Hosts:             []string{"127.0.0.1"},
		Keyspace:          "analitica_deportes",
		Consistency:       "ONE",
		Timeout:           5 * time.Second,
		NumRetries:        3,
		CreateSchema:      false,
		ReplicationFactor: 1,
		SQLiteDir:         "./data",
		BatchSize:         500,
		Addr:              ":9080",
		WorkerCount:       runtime.NumCPU(),
		QueueSize:         64,
		InputDir:          "./input_tracks",
	}
}

// Validate checks the fields every command depends on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Keyspace) == "":
		return fmt.Errorf("%w: keyspace must not be empty", ErrInvalidConfig)
	case c.BatchSize < 1:
		return fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	}

	switch c.Driver {
	case DriverCassandra:
		if len(c.Hosts) == 0 {
			return fmt.Errorf("%w: hosts must not be empty for the cassandra driver", ErrInvalidConfig)
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLiteDir) == "" {
			return fmt.Errorf("%w: sqlite_dir must not be empty for the sqlite driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, c.Driver)
	}
	return nil
}
