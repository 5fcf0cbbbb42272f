package client

import (
	"log/slog"
	"time"

	"github.com/satishbabariya/rootquery/internal/adapters/telemetry"
)

// Config contains all client configuration options.
type Config struct {
	// DatabaseURL is the database connection string.
	// Supports PostgreSQL, MySQL, and SQLite.
	DatabaseURL string

	// Provider names the database. Inferred from DatabaseURL when empty.
	Provider string

	// MaxOpenConnections is the maximum number of open connections.
	// Default: 25
	MaxOpenConnections int

	// MaxIdleConnections is the maximum number of idle connections.
	// Default: 5
	MaxIdleConnections int

	// ConnMaxLifetime is the maximum lifetime of a connection.
	// Default: 1 hour
	ConnMaxLifetime time.Duration

	// ConnMaxIdleTime is the maximum idle time of a connection.
	// Default: 10 minutes
	ConnMaxIdleTime time.Duration

	// QueryTimeout bounds each terminal operation (0 = none).
	// Default: 30 seconds
	QueryTimeout time.Duration

	// Logger receives operation logs when LogQueries is set.
	Logger *slog.Logger

	// LogQueries enables query logging when true.
	LogQueries bool

	// Telemetry receives execution events.
	Telemetry telemetry.Telemetry

	// Retry controls retries of connection failures.
	Retry *RetryConfig
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxOpenConnections: 25,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    time.Hour,
		ConnMaxIdleTime:    10 * time.Minute,
		QueryTimeout:       30 * time.Second,
		Retry:              DefaultRetryConfig(),
	}
}

// Option is a function that configures the client.
type Option func(*Config)

// WithDatabaseURL sets the database URL.
func WithDatabaseURL(url string) Option {
	return func(c *Config) {
		c.DatabaseURL = url
	}
}

// WithProvider sets the database provider.
func WithProvider(provider string) Option {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithMaxOpenConnections sets the maximum open connections.
func WithMaxOpenConnections(n int) Option {
	return func(c *Config) {
		c.MaxOpenConnections = n
	}
}

// WithMaxIdleConnections sets the maximum idle connections.
func WithMaxIdleConnections(n int) Option {
	return func(c *Config) {
		c.MaxIdleConnections = n
	}
}

// WithQueryTimeout sets the query timeout.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.QueryTimeout = d
	}
}

// WithLogger sets the logger and enables query logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
		c.LogQueries = logger != nil
	}
}

// WithTelemetry sets the telemetry sink.
func WithTelemetry(t telemetry.Telemetry) Option {
	return func(c *Config) {
		c.Telemetry = t
	}
}

// WithRetry sets the retry policy. A nil policy disables retries.
func WithRetry(r *RetryConfig) Option {
	return func(c *Config) {
		c.Retry = r
	}
}

// ApplyOptions applies options to a config.
func ApplyOptions(config *Config, opts ...Option) {
	for _, opt := range opts {
		opt(config)
	}
}
