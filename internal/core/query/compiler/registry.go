package compiler

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
)

// RenderFunc renders one expression variant.
type RenderFunc func(rc *RenderContext, expr domain.Expression) (string, error)

// Registry maps (dialect, expression kind) pairs to renderers.
type Registry struct {
	mu        sync.RWMutex
	renderers map[domain.SQLDialect]map[domain.ExpressionKind]RenderFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[domain.SQLDialect]map[domain.ExpressionKind]RenderFunc),
	}
}

// DefaultRegistry returns a registry with the standard renderers for
// PostgreSQL, MySQL and SQLite.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range []domain.SQLDialect{domain.PostgreSQL, domain.MySQL, domain.SQLite} {
		r.Register(d, domain.KindColumn, renderColumn)
		r.Register(d, domain.KindLiteral, renderLiteral)
		r.Register(d, domain.KindFunction, renderFunction)
		r.Register(d, domain.KindSubquery, renderSubquery)
	}
	return r
}

// Register sets the renderer for kind under dialect, replacing any previous one.
func (r *Registry) Register(dialect domain.SQLDialect, kind domain.ExpressionKind, fn RenderFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byKind, ok := r.renderers[dialect]
	if !ok {
		byKind = make(map[domain.ExpressionKind]RenderFunc)
		r.renderers[dialect] = byKind
	}
	byKind[kind] = fn
}

// Lookup returns the renderer for kind under dialect.
func (r *Registry) Lookup(dialect domain.SQLDialect, kind domain.ExpressionKind) (RenderFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.renderers[dialect][kind]
	return fn, ok
}

// RenderContext is handed to renderers. It renders nested expressions and
// binds parameters into the statement being built.
type RenderContext struct {
	c *compilation
}

// Dialect returns the active dialect metadata.
func (rc *RenderContext) Dialect() domain.Dialect { return rc.c.dialect }

// Render renders a nested expression.
func (rc *RenderContext) Render(expr domain.Expression) (string, error) {
	return rc.c.render(expr)
}

// Bind appends v to the parameters and returns its placeholder.
func (rc *RenderContext) Bind(v domain.Value) string {
	return rc.c.bind(v)
}

// Quote quotes an identifier for the active dialect.
func (rc *RenderContext) Quote(name string) string {
	return rc.c.dialect.QuoteIdentifier(name)
}

// CompileSubquery compiles q inline, sharing this statement's parameters.
func (rc *RenderContext) CompileSubquery(q *domain.Query) (string, error) {
	return rc.c.subquery(q)
}

func renderColumn(rc *RenderContext, expr domain.Expression) (string, error) {
	col := expr.(domain.Column)
	name := col.Name
	if name != "*" {
		name = rc.Quote(name)
	}
	if col.Table != "" {
		return rc.Quote(col.Table) + "." + name, nil
	}
	return name, nil
}

func renderLiteral(rc *RenderContext, expr domain.Expression) (string, error) {
	return rc.Bind(expr.(domain.Literal).Value), nil
}

var functionName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func renderFunction(rc *RenderContext, expr domain.Expression) (string, error) {
	fn := expr.(domain.FunctionCall)
	if !functionName.MatchString(fn.Name()) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFunctionName, fn.Name())
	}
	args := fn.Args()
	parts := make([]string, len(args))
	for i, arg := range args {
		s, err := rc.Render(arg)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.ToUpper(fn.Name()) + "(" + strings.Join(parts, ", ") + ")", nil
}

func renderSubquery(rc *RenderContext, expr domain.Expression) (string, error) {
	sql, err := rc.CompileSubquery(expr.(domain.Subquery).Query())
	if err != nil {
		return "", err
	}
	return "(" + sql + ")", nil
}
