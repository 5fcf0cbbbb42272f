// Package domain contains the core entities of the root query model: expressions,
// predicates, orders, the immutable query AST and the client capability contract.
package domain

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/samber/lo"
)

// ExpressionKind identifies an expression variant.
type ExpressionKind string

const (
	// KindColumn is a column reference.
	KindColumn ExpressionKind = "column"
	// KindLiteral is a bound value.
	KindLiteral ExpressionKind = "literal"
	// KindFunction is a function call.
	KindFunction ExpressionKind = "function"
	// KindSubquery is a nested query.
	KindSubquery ExpressionKind = "subquery"
)

// Expression is an immutable value expression. Expressions are referenced,
// not owned, so the same instance may appear in several nodes.
type Expression interface {
	Kind() ExpressionKind
	String() string
	isExpression()
}

// Column references a column, optionally qualified by its table.
type Column struct {
	Table string
	Name  string
}

// Col returns a column reference. A "table.name" argument is split into
// its qualifier and name.
func Col(name string) Column {
	if table, column, ok := strings.Cut(name, "."); ok {
		return Column{Table: table, Name: column}
	}
	return Column{Name: name}
}

// Kind returns KindColumn.
func (c Column) Kind() ExpressionKind { return KindColumn }

func (c Column) String() string {
	if c.Table != "" {
		return c.Table + "." + c.Name
	}
	return c.Name
}

func (Column) isExpression() {}

// Literal is a value bound as a statement parameter.
type Literal struct {
	Value Value
}

// Lit returns a literal expression.
func Lit(v Value) Literal {
	return Literal{Value: v}
}

// Kind returns KindLiteral.
func (l Literal) Kind() ExpressionKind { return KindLiteral }

func (l Literal) String() string { return fmt.Sprintf("%v", l.Value) }

func (Literal) isExpression() {}

// FunctionCall applies a SQL function to its arguments.
type FunctionCall struct {
	name string
	args []Expression
}

// Func returns a function call expression. The argument slice is copied.
func Func(name string, args ...Expression) FunctionCall {
	return FunctionCall{name: name, args: append([]Expression(nil), args...)}
}

// Name returns the function name.
func (f FunctionCall) Name() string { return f.name }

// Args returns a copy of the arguments.
func (f FunctionCall) Args() []Expression {
	return append([]Expression(nil), f.args...)
}

// Kind returns KindFunction.
func (f FunctionCall) Kind() ExpressionKind { return KindFunction }

func (f FunctionCall) String() string {
	args := lo.Map(f.args, func(e Expression, _ int) string { return e.String() })
	return f.name + "(" + strings.Join(args, ", ") + ")"
}

func (FunctionCall) isExpression() {}

// Subquery embeds a query as a scalar expression.
type Subquery struct {
	query *Query
}

// Sub returns a subquery expression.
func Sub(q *Query) Subquery {
	return Subquery{query: q}
}

// Query returns the nested query.
func (s Subquery) Query() *Query { return s.query }

// Kind returns KindSubquery.
func (s Subquery) Kind() ExpressionKind { return KindSubquery }

func (s Subquery) String() string {
	if s.query == nil {
		return "(<nil>)"
	}
	return "(subquery " + s.query.Table() + ")"
}

func (Subquery) isExpression() {}

// Star selects every column. It is only meaningful inside COUNT(*) style calls.
var Star = Column{Name: "*"}

// IsEmpty reports whether an expression is unset.
func IsEmpty(e Expression) bool {
	switch v := e.(type) {
	case nil:
		return true
	case Column:
		return v.Name == ""
	case FunctionCall:
		return v.name == ""
	case Subquery:
		return v.query == nil
	case Literal:
		return false
	default:
		return reflect.ValueOf(e).IsZero()
	}
}

// EqualExpressions compares two expressions structurally.
func EqualExpressions(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Column:
		y, ok := b.(Column)
		return ok && x == y
	case Literal:
		y, ok := b.(Literal)
		return ok && reflect.DeepEqual(x.Value, y.Value)
	case FunctionCall:
		y, ok := b.(FunctionCall)
		if !ok || !strings.EqualFold(x.name, y.name) || len(x.args) != len(y.args) {
			return false
		}
		for i := range x.args {
			if !EqualExpressions(x.args[i], y.args[i]) {
				return false
			}
		}
		return true
	case Subquery:
		y, ok := b.(Subquery)
		return ok && EqualQueries(x.query, y.query)
	default:
		return reflect.DeepEqual(a, b)
	}
}
