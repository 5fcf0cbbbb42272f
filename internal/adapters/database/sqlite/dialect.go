// Package sqlite provides the SQLite dialect.
package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
)

// nullOrderingSince is the first SQLite release with NULLS FIRST/LAST.
var nullOrderingSince = version.Must(version.NewVersion("3.30.0"))

// Dialect is the SQLite dialect. SQLite has no row locking, so FOR UPDATE
// is never emitted.
type Dialect struct {
	version     *version.Version
	nullOrdered bool
}

// New creates the SQLite dialect for the linked SQLite library.
func New() *Dialect {
	libVersion, _, _ := sqlite3.Version()
	d, err := NewForVersion(libVersion)
	if err != nil {
		// The linked library always reports a parseable version.
		panic(err)
	}
	return d
}

// NewForVersion creates the SQLite dialect for a specific library version.
func NewForVersion(v string) (*Dialect, error) {
	parsed, err := version.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("invalid sqlite version %q: %w", v, err)
	}
	return &Dialect{
		version:     parsed,
		nullOrdered: parsed.GreaterThanOrEqual(nullOrderingSince),
	}, nil
}

// Version returns the SQLite library version.
func (d *Dialect) Version() string { return d.version.String() }

// Dialect returns domain.SQLite.
func (d *Dialect) Dialect() domain.SQLDialect { return domain.SQLite }

// QuoteIdentifier quotes name with double quotes.
func (d *Dialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// BindStyle returns domain.BindQuestion.
func (d *Dialect) BindStyle() domain.BindStyle { return domain.BindQuestion }

// SupportsNullOrdering reports whether the library is 3.30.0 or newer.
func (d *Dialect) SupportsNullOrdering() bool { return d.nullOrdered }

// SupportsForUpdate reports false.
func (d *Dialect) SupportsForUpdate() bool { return false }

// DriverName returns the database/sql driver name.
func (d *Dialect) DriverName() string { return "sqlite3" }

// DSN strips a sqlite:// scheme. File paths and file: URIs pass through.
func (d *Dialect) DSN(url string) (string, error) {
	dsn := strings.TrimPrefix(url, "sqlite://")
	if dsn == "" {
		return "", errors.New("empty sqlite path")
	}
	return dsn, nil
}

// Classify maps sqlite3 errors onto the domain error taxonomy.
func (d *Dialect) Classify(err error, statement string) error {
	if err == nil {
		return nil
	}
	var sqlErr sqlite3.Error
	if !errors.As(err, &sqlErr) {
		return err
	}
	switch sqlErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr:
		return &domain.ConnectionError{Dialect: domain.SQLite, Cause: err}
	case sqlite3.ErrError:
		msg := sqlErr.Error()
		if strings.Contains(msg, "syntax error") || strings.Contains(msg, "no such") {
			return &domain.SyntaxError{Dialect: domain.SQLite, SQL: statement, Cause: err}
		}
	}
	return err
}
