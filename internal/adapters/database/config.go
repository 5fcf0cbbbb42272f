package database

import (
	"errors"
	"time"

	"github.com/satishbabariya/rootquery/internal/core/database/pool"
)

var (
	// ErrUnknownProvider is returned for unsupported provider names.
	ErrUnknownProvider = errors.New("unknown database provider")

	// ErrNotConnected is returned when executing before Connect.
	ErrNotConnected = errors.New("database not connected")
)

// Config holds database connection configuration.
type Config struct {
	// Provider is postgres, mysql or sqlite. Inferred from URL when empty.
	Provider string
	URL      string
	Pool     pool.Config

	// ConnectTimeout bounds the initial ping (0 = 10s).
	ConnectTimeout time.Duration
}

// DefaultConfig returns a configuration with the default pool settings.
func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		Pool:           pool.DefaultConfig(),
		ConnectTimeout: 10 * time.Second,
	}
}
