// Package postgres provides the PostgreSQL dialect.
package postgres

import (
	"database/sql/driver"
	"errors"

	"github.com/lib/pq" // PostgreSQL driver

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
)

// Dialect is the PostgreSQL dialect.
type Dialect struct{}

// New creates the PostgreSQL dialect.
func New() *Dialect {
	return &Dialect{}
}

// Dialect returns domain.PostgreSQL.
func (d *Dialect) Dialect() domain.SQLDialect { return domain.PostgreSQL }

// QuoteIdentifier quotes name with double quotes.
func (d *Dialect) QuoteIdentifier(name string) string { return pq.QuoteIdentifier(name) }

// BindStyle returns domain.BindDollar.
func (d *Dialect) BindStyle() domain.BindStyle { return domain.BindDollar }

// SupportsNullOrdering reports true.
func (d *Dialect) SupportsNullOrdering() bool { return true }

// SupportsForUpdate reports true.
func (d *Dialect) SupportsForUpdate() bool { return true }

// DriverName returns the database/sql driver name.
func (d *Dialect) DriverName() string { return "postgres" }

// DSN returns url unchanged; pq accepts both URLs and keyword strings.
func (d *Dialect) DSN(url string) (string, error) { return url, nil }

// connectionCodes are SQLSTATEs outside class 08 that mean the server or
// connection went away.
var connectionCodes = map[pq.ErrorCode]bool{
	"53300": true, // too_many_connections
	"57P01": true, // admin_shutdown
	"57P02": true, // crash_shutdown
	"57P03": true, // cannot_connect_now
}

// Classify maps pq errors onto the domain error taxonomy.
func (d *Dialect) Classify(err error, statement string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, driver.ErrBadConn) {
		return &domain.ConnectionError{Dialect: domain.PostgreSQL, Cause: err}
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch {
	case pqErr.Code.Class() == "08" || connectionCodes[pqErr.Code]:
		return &domain.ConnectionError{Dialect: domain.PostgreSQL, Cause: err}
	case pqErr.Code.Class() == "42":
		return &domain.SyntaxError{Dialect: domain.PostgreSQL, SQL: statement, Cause: err}
	}
	return err
}
