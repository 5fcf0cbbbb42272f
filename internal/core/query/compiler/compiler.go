// Package compiler implements SQL compilation from query ASTs.
package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
	"github.com/satishbabariya/rootquery/internal/debug"
)

// SQLCompiler implements the domain.QueryCompiler interface. It holds no
// per-compilation state and is safe for concurrent use.
type SQLCompiler struct {
	registry *Registry
}

// Option configures a SQLCompiler.
type Option func(*SQLCompiler)

// WithRegistry replaces the default renderer registry.
func WithRegistry(r *Registry) Option {
	return func(c *SQLCompiler) {
		c.registry = r
	}
}

// NewSQLCompiler creates a new SQL compiler.
func NewSQLCompiler(opts ...Option) *SQLCompiler {
	c := &SQLCompiler{registry: DefaultRegistry()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the renderer registry.
func (c *SQLCompiler) Registry() *Registry { return c.registry }

// Compile compiles query into a statement for dialect.
func (c *SQLCompiler) Compile(query *domain.Query, dialect domain.Dialect) (domain.Statement, error) {
	if query == nil {
		return domain.Statement{}, fmt.Errorf("%w: nil query", ErrInvalidQuery)
	}
	if dialect == nil {
		return domain.Statement{}, fmt.Errorf("%w: nil dialect", ErrUnsupportedDialect)
	}

	var params []domain.Value
	comp := &compilation{
		registry: c.registry,
		dialect:  dialect,
		query:    query,
		params:   &params,
	}
	sql, err := comp.run()
	if err != nil {
		debug.Debug("query compilation failed", "dialect", dialect.Dialect(), "table", query.Table(), "error", err)
		return domain.Statement{}, err
	}

	debug.Debug("compiled query", "dialect", dialect.Dialect(), "sql", sql, "params", len(params))

	return domain.Statement{
		SQL:     sql,
		Params:  params,
		Dialect: dialect.Dialect(),
	}, nil
}

// CompileRoot compiles a root query using its resolved orders and client.
func (c *SQLCompiler) CompileRoot(root domain.RootQueryImplementor) (domain.Statement, error) {
	query := root.Query()
	if query == nil {
		return domain.Statement{}, fmt.Errorf("%w: nil query", ErrInvalidQuery)
	}
	query, err := query.WithOrders(root.Orders()...)
	if err != nil {
		return domain.Statement{}, err
	}
	client := root.SQLClient()
	if client == nil {
		return domain.Statement{}, fmt.Errorf("%w: nil client", ErrUnsupportedDialect)
	}
	return c.Compile(query, client)
}

// compilation is the mutable state of one Compile call.
type compilation struct {
	registry *Registry
	dialect  domain.Dialect
	query    *domain.Query
	state    State
	sb       strings.Builder
	params   *[]domain.Value
}

func (c *compilation) run() (string, error) {
	for c.state = StateSelect; c.state != StateDone; c.state++ {
		if err := c.step(); err != nil {
			return "", &StateError{State: c.state, Err: err}
		}
	}
	return c.sb.String(), nil
}

func (c *compilation) step() error {
	switch c.state {
	case StateSelect:
		return c.compileSelect()
	case StateFrom:
		return c.compileFrom()
	case StateWhere:
		return c.compileWhere()
	case StateGroup:
		return c.compileGroup()
	case StateOrder:
		return c.compileOrder()
	case StateLimit:
		return c.compileLimit()
	default:
		return fmt.Errorf("unexpected state %s", c.state)
	}
}

func (c *compilation) compileSelect() error {
	c.sb.WriteString("SELECT ")
	if c.query.Distinct() {
		c.sb.WriteString("DISTINCT ")
	}
	selection := c.query.Selection()
	if len(selection) == 0 {
		c.sb.WriteString("*")
		return nil
	}
	return c.writeList(selection)
}

func (c *compilation) compileFrom() error {
	if c.query.Table() == "" {
		return fmt.Errorf("%w: missing table", ErrInvalidQuery)
	}
	c.sb.WriteString(" FROM ")
	c.sb.WriteString(c.dialect.QuoteIdentifier(c.query.Table()))
	return nil
}

func (c *compilation) compileWhere() error {
	filter := c.query.Filter()
	if filter == nil {
		return nil
	}
	clause, err := c.predicate(filter)
	if err != nil {
		return err
	}
	c.sb.WriteString(" WHERE ")
	c.sb.WriteString(clause)
	return nil
}

func (c *compilation) compileGroup() error {
	if grouping := c.query.Grouping(); len(grouping) > 0 {
		c.sb.WriteString(" GROUP BY ")
		if err := c.writeList(grouping); err != nil {
			return err
		}
	}
	if having := c.query.Having(); having != nil {
		clause, err := c.predicate(having)
		if err != nil {
			return err
		}
		c.sb.WriteString(" HAVING ")
		c.sb.WriteString(clause)
	}
	return nil
}

// compileOrder renders the orders in stored order. Null placement is
// dropped when the dialect cannot express it.
func (c *compilation) compileOrder() error {
	orders := c.query.Orders()
	if len(orders) == 0 {
		return nil
	}
	nulls := c.dialect.SupportsNullOrdering()
	fragments := make([]string, len(orders))
	for i, o := range orders {
		expr, err := c.render(o.Expression())
		if err != nil {
			return err
		}
		fragment := expr + " " + string(o.Direction())
		if nulls {
			switch o.NullOrdering() {
			case domain.NullsFirst:
				fragment += " NULLS FIRST"
			case domain.NullsLast:
				fragment += " NULLS LAST"
			}
		}
		fragments[i] = fragment
	}
	c.sb.WriteString(" ORDER BY ")
	c.sb.WriteString(strings.Join(fragments, ", "))
	return nil
}

func (c *compilation) compileLimit() error {
	if p, ok := c.query.Pagination(); ok {
		if p.Limit > 0 {
			c.sb.WriteString(" LIMIT ")
			c.sb.WriteString(c.bind(p.Limit))
		} else if p.Offset > 0 {
			// MySQL and SQLite refuse OFFSET without LIMIT.
			switch c.dialect.Dialect() {
			case domain.MySQL:
				c.sb.WriteString(" LIMIT 18446744073709551615")
			case domain.SQLite:
				c.sb.WriteString(" LIMIT -1")
			}
		}
		if p.Offset > 0 {
			c.sb.WriteString(" OFFSET ")
			c.sb.WriteString(c.bind(p.Offset))
		}
	}
	if c.query.ForUpdate() && c.dialect.SupportsForUpdate() {
		c.sb.WriteString(" FOR UPDATE")
	}
	return nil
}

func (c *compilation) writeList(exprs []domain.Expression) error {
	for i, e := range exprs {
		if i > 0 {
			c.sb.WriteString(", ")
		}
		s, err := c.render(e)
		if err != nil {
			return err
		}
		c.sb.WriteString(s)
	}
	return nil
}

func (c *compilation) render(expr domain.Expression) (string, error) {
	if domain.IsEmpty(expr) {
		return "", fmt.Errorf("%w: empty expression", ErrInvalidQuery)
	}
	fn, ok := c.registry.Lookup(c.dialect.Dialect(), expr.Kind())
	if !ok {
		return "", &domain.UnsupportedExpressionError{Kind: expr.Kind(), Dialect: c.dialect.Dialect()}
	}
	return fn(&RenderContext{c: c}, expr)
}

// bind appends v and returns its placeholder.
func (c *compilation) bind(v domain.Value) string {
	*c.params = append(*c.params, v)
	if c.dialect.BindStyle() == domain.BindDollar {
		return "$" + strconv.Itoa(len(*c.params))
	}
	return "?"
}

func (c *compilation) subquery(q *domain.Query) (string, error) {
	child := &compilation{
		registry: c.registry,
		dialect:  c.dialect,
		query:    q,
		params:   c.params,
	}
	return child.run()
}

var comparisonOperators = map[domain.ComparisonOperator]string{
	domain.Equals:    "=",
	domain.NotEquals: "<>",
	domain.Lt:        "<",
	domain.Lte:       "<=",
	domain.Gt:        ">",
	domain.Gte:       ">=",
}

func (c *compilation) predicate(p domain.Predicate) (string, error) {
	switch p := p.(type) {
	case domain.Comparison:
		op, ok := comparisonOperators[p.Operator]
		if !ok {
			return "", fmt.Errorf("%w: unsupported operator %q", ErrInvalidQuery, p.Operator)
		}
		left, err := c.render(p.Left)
		if err != nil {
			return "", err
		}
		right, err := c.render(p.Right)
		if err != nil {
			return "", err
		}
		return left + " " + op + " " + right, nil

	case domain.Logical:
		operands := p.Operands()
		if len(operands) == 0 {
			if p.Operator == domain.OR {
				return "1=0", nil
			}
			return "1=1", nil
		}
		op := " AND "
		if p.Operator == domain.OR {
			op = " OR "
		}
		parts := make([]string, len(operands))
		for i, operand := range operands {
			s, err := c.predicate(operand)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return "(" + strings.Join(parts, op) + ")", nil

	case domain.Not:
		inner, err := c.predicate(p.Operand)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil

	case domain.NullCheck:
		expr, err := c.render(p.Expr)
		if err != nil {
			return "", err
		}
		if p.Negated {
			return expr + " IS NOT NULL", nil
		}
		return expr + " IS NULL", nil

	case domain.InList:
		values := p.Values()
		if len(values) == 0 {
			if p.Negated {
				return "1=1", nil
			}
			return "1=0", nil
		}
		expr, err := c.render(p.Expr)
		if err != nil {
			return "", err
		}
		parts := make([]string, len(values))
		for i, v := range values {
			s, err := c.render(v)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		op := " IN ("
		if p.Negated {
			op = " NOT IN ("
		}
		return expr + op + strings.Join(parts, ", ") + ")", nil

	case domain.Like:
		expr, err := c.render(p.Expr)
		if err != nil {
			return "", err
		}
		pattern, err := c.render(p.Pattern)
		if err != nil {
			return "", err
		}
		if p.Insensitive {
			return "LOWER(" + expr + ") LIKE LOWER(" + pattern + ")", nil
		}
		return expr + " LIKE " + pattern, nil

	case nil:
		return "", fmt.Errorf("%w: nil predicate", ErrInvalidQuery)

	default:
		return "", fmt.Errorf("%w: unsupported predicate %T", ErrInvalidQuery, p)
	}
}

// Ensure SQLCompiler implements QueryCompiler interface.
var _ domain.QueryCompiler = (*SQLCompiler)(nil)
