package client

import (
	"github.com/satishbabariya/rootquery/internal/core/query/domain"
)

// Query model types.
type (
	Value            = domain.Value
	Expression       = domain.Expression
	Column           = domain.Column
	Literal          = domain.Literal
	FunctionCall     = domain.FunctionCall
	Subquery         = domain.Subquery
	Predicate        = domain.Predicate
	Order            = domain.Order
	Direction        = domain.Direction
	NullOrdering     = domain.NullOrdering
	Query            = domain.Query
	Row              = domain.Row
	Statement        = domain.Statement
	SQLDialect       = domain.SQLDialect
	ClientCapability = domain.ClientCapability
)

const (
	Ascending    = domain.Ascending
	Descending   = domain.Descending
	NullsDefault = domain.NullsDefault
	NullsFirst   = domain.NullsFirst
	NullsLast    = domain.NullsLast

	PostgreSQL = domain.PostgreSQL
	MySQL      = domain.MySQL
	SQLite     = domain.SQLite
)

// Expression and predicate constructors.
var (
	Col  = domain.Col
	Lit  = domain.Lit
	Func = domain.Func
	Sub  = domain.Sub
	Star = domain.Star

	NewOrder  = domain.NewOrder
	MustOrder = domain.MustOrder
	Asc       = domain.Asc
	Desc      = domain.Desc

	Eq             = domain.Eq
	Ne             = domain.Ne
	LessThan       = domain.LessThan
	LessOrEqual    = domain.LessOrEqual
	GreaterThan    = domain.GreaterThan
	GreaterOrEqual = domain.GreaterOrEqual
	And            = domain.And
	Or             = domain.Or
	IsNull         = domain.IsNull
	IsNotNull      = domain.IsNotNull
	In             = domain.In
	NotIn          = domain.NotIn
)

// Not negates a predicate.
func Not(p Predicate) Predicate { return domain.Not{Operand: p} }

// Like matches expr against a pattern. Insensitive lowers both sides.
func Like(expr Expression, pattern string, insensitive bool) Predicate {
	return domain.Like{Expr: expr, Pattern: domain.Lit(pattern), Insensitive: insensitive}
}
