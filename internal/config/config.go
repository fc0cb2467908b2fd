// Package config loads application configuration from the environment.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application settings, populated from environment
// variables with the STOCKBOOK prefix (e.g. STOCKBOOK_DATABASE_URL).
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	HTTP     HTTPConfig
	Database DatabaseConfig
	Snapshot SnapshotConfig
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Addr            string        `envconfig:"HTTP_ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL              string        `envconfig:"DATABASE_URL" required:"true"`
	MaxConns         int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns         int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime  time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
	StatementTimeout time.Duration `envconfig:"DB_STATEMENT_TIMEOUT" default:"30s"`
}

// SnapshotConfig holds snapshot scheduler settings.
type SnapshotConfig struct {
	// Cron fires shortly after midnight on the first of each month,
	// generating the snapshot for the month that just closed.
	Cron string `envconfig:"SNAPSHOT_CRON" default:"10 0 1 * *"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("stockbook", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
