// Package database implements domain.ClientCapability over database/sql.
package database

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/rootquery/internal/adapters/database/mysql"
	"github.com/satishbabariya/rootquery/internal/adapters/database/postgres"
	"github.com/satishbabariya/rootquery/internal/adapters/database/sqlite"
	"github.com/satishbabariya/rootquery/internal/core/query/domain"
)

// Dialect is a domain.Dialect bound to a database/sql driver.
type Dialect interface {
	domain.Dialect

	// DriverName returns the registered database/sql driver name.
	DriverName() string

	// DSN converts a connection URL into the driver's data source name.
	DSN(url string) (string, error)

	// Classify maps a driver error onto ConnectionError or SyntaxError.
	// Errors it does not recognise are returned unchanged.
	Classify(err error, statement string) error
}

// NewDialect returns the dialect for a provider name.
func NewDialect(provider string) (Dialect, error) {
	switch strings.ToLower(provider) {
	case "postgres", "postgresql":
		return postgres.New(), nil
	case "mysql", "mariadb":
		return mysql.New(), nil
	case "sqlite", "sqlite3":
		return sqlite.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

// ProviderFromURL infers the provider from a connection URL.
func ProviderFromURL(url string) (string, error) {
	lower := strings.ToLower(url)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres", nil
	case strings.HasPrefix(lower, "mysql://"):
		return "mysql", nil
	case strings.HasPrefix(lower, "sqlite://"), strings.HasPrefix(lower, "file:"),
		lower == ":memory:", strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"):
		return "sqlite", nil
	default:
		return "", fmt.Errorf("%w: cannot infer provider from url", ErrUnknownProvider)
	}
}

var (
	_ Dialect = (*postgres.Dialect)(nil)
	_ Dialect = (*mysql.Dialect)(nil)
	_ Dialect = (*sqlite.Dialect)(nil)
)
