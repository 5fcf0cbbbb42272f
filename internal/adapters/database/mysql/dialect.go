// Package mysql provides the MySQL dialect.
package mysql

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
)

// Dialect is the MySQL dialect. MySQL has no NULLS FIRST/LAST syntax.
type Dialect struct{}

// New creates the MySQL dialect.
func New() *Dialect {
	return &Dialect{}
}

// Dialect returns domain.MySQL.
func (d *Dialect) Dialect() domain.SQLDialect { return domain.MySQL }

// QuoteIdentifier quotes name with backticks.
func (d *Dialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// BindStyle returns domain.BindQuestion.
func (d *Dialect) BindStyle() domain.BindStyle { return domain.BindQuestion }

// SupportsNullOrdering reports false.
func (d *Dialect) SupportsNullOrdering() bool { return false }

// SupportsForUpdate reports true.
func (d *Dialect) SupportsForUpdate() bool { return true }

// DriverName returns the database/sql driver name.
func (d *Dialect) DriverName() string { return "mysql" }

// DSN converts a mysql:// URL into a driver DSN. Other inputs are assumed to
// already be in driver format and are validated.
func (d *Dialect) DSN(raw string) (string, error) {
	if !strings.HasPrefix(raw, "mysql://") {
		if _, err := mysql.ParseDSN(raw); err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid mysql url: %w", err)
	}
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Host + ":3306"
	}
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	if q := u.Query(); len(q) > 0 {
		cfg.Params = make(map[string]string, len(q))
		for k := range q {
			cfg.Params[k] = q.Get(k)
		}
	}
	return cfg.FormatDSN(), nil
}

var connectionErrors = map[uint16]bool{
	1040: true, // too many connections
	1042: true, // can't get hostname
	1043: true, // bad handshake
	1047: true, // unknown command
	1053: true, // server shutdown
}

var syntaxErrors = map[uint16]bool{
	1054: true, // unknown column
	1064: true, // parse error
	1146: true, // no such table
	1149: true, // syntax error
}

// Classify maps driver errors onto the domain error taxonomy.
func (d *Dialect) Classify(err error, statement string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, driver.ErrBadConn) {
		return &domain.ConnectionError{Dialect: domain.MySQL, Cause: err}
	}
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return err
	}
	switch {
	case connectionErrors[myErr.Number]:
		return &domain.ConnectionError{Dialect: domain.MySQL, Cause: err}
	case syntaxErrors[myErr.Number]:
		return &domain.SyntaxError{Dialect: domain.MySQL, SQL: statement, Cause: err}
	}
	return err
}
