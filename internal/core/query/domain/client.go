package domain

import (
	"context"
	"iter"
)

// Value is a bound statement parameter or a scanned column value.
type Value = interface{}

// SQLDialect identifies a SQL dialect.
type SQLDialect string

const (
	// PostgreSQL dialect.
	PostgreSQL SQLDialect = "postgres"
	// MySQL dialect.
	MySQL SQLDialect = "mysql"
	// SQLite dialect.
	SQLite SQLDialect = "sqlite"
)

// BindStyle is the parameter placeholder style of a dialect.
type BindStyle string

const (
	// BindQuestion uses "?" for every parameter.
	BindQuestion BindStyle = "?"
	// BindDollar uses "$1", "$2", ...
	BindDollar BindStyle = "$n"
)

// Statement is compiled SQL with its parameters in placeholder order.
type Statement struct {
	SQL     string
	Params  []Value
	Dialect SQLDialect
}

// Row is one result row.
type Row struct {
	Columns []string
	Values  []Value
}

// Get returns the value of the named column.
func (r Row) Get(column string) (Value, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Map returns the row keyed by column name.
func (r Row) Map() map[string]Value {
	m := make(map[string]Value, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// Dialect is the read-only metadata a compiler needs. Implementations must
// be safe for concurrent use.
type Dialect interface {
	// Dialect returns the dialect identifier.
	Dialect() SQLDialect

	// QuoteIdentifier quotes a table or column name.
	QuoteIdentifier(name string) string

	// BindStyle returns the placeholder style.
	BindStyle() BindStyle

	// SupportsNullOrdering reports whether NULLS FIRST/LAST is understood.
	SupportsNullOrdering() bool

	// SupportsForUpdate reports whether SELECT ... FOR UPDATE is understood.
	SupportsForUpdate() bool
}

// ClientCapability is the SQL client: dialect metadata plus execution.
// It is process-scoped and never mutated by compilation.
type ClientCapability interface {
	Dialect

	// Execute runs sql and returns a lazy, single-use sequence of rows.
	// Failures surface as *ConnectionError or *SyntaxError through the sequence.
	Execute(ctx context.Context, sql string, params []Value) iter.Seq2[Row, error]
}

// RootQueryImplementor exposes what a compiler needs from a root query
// builder without widening the builder's public API.
type RootQueryImplementor interface {
	// Query returns the AST.
	Query() *Query

	// Orders returns the resolved ordering.
	Orders() []Order

	// SQLClient returns the client the query runs on.
	SQLClient() ClientCapability
}

// QueryCompiler turns an AST into a statement.
type QueryCompiler interface {
	// Compile compiles query for the given dialect.
	Compile(query *Query, dialect Dialect) (Statement, error)

	// CompileRoot compiles a root query with its resolved orders and client.
	CompileRoot(root RootQueryImplementor) (Statement, error)
}
