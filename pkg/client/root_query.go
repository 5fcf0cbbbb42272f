package client

import (
	"context"
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
	"github.com/satishbabariya/rootquery/internal/core/query/orderby"
)

// RootQuery is an immutable query rooted at one table. Every builder method
// returns a new RootQuery; the first builder error is kept and returned by
// the terminal operations.
type RootQuery struct {
	client *Client
	query  *domain.Query
	orders []domain.Order
	err    error
}

// Query returns the query without its orders.
func (q *RootQuery) Query() *domain.Query { return q.query }

// Orders returns the resolved orders.
func (q *RootQuery) Orders() []domain.Order {
	return append([]domain.Order(nil), q.orders...)
}

// SQLClient returns the capability the query runs against.
func (q *RootQuery) SQLClient() domain.ClientCapability { return q.client.capability }

// Err returns the first builder error.
func (q *RootQuery) Err() error { return q.err }

func (q *RootQuery) with(query *domain.Query, err error) *RootQuery {
	if q.err != nil {
		return q
	}
	next := *q
	if err != nil {
		next.err = err
		return &next
	}
	next.query = query
	return &next
}

// Select sets the selected expressions.
func (q *RootQuery) Select(exprs ...Expression) *RootQuery {
	return q.with(q.query.WithSelection(exprs...), nil)
}

// Reselect replaces the selection, keeping everything else.
func (q *RootQuery) Reselect(exprs ...Expression) *RootQuery {
	return q.with(q.query.Reselect(exprs...), nil)
}

// Distinct selects distinct rows.
func (q *RootQuery) Distinct() *RootQuery {
	return q.with(q.query.WithDistinct(true), nil)
}

// Where adds predicates, combined with AND with any existing filter.
func (q *RootQuery) Where(predicates ...Predicate) *RootQuery {
	if len(predicates) == 0 {
		return q
	}
	if existing := q.query.Filter(); existing != nil {
		predicates = append([]Predicate{existing}, predicates...)
	}
	filter := predicates[0]
	if len(predicates) > 1 {
		filter = domain.And(predicates...)
	}
	return q.with(q.query.WithFilter(filter), nil)
}

// GroupBy sets the grouping expressions.
func (q *RootQuery) GroupBy(exprs ...Expression) *RootQuery {
	return q.with(q.query.WithGrouping(exprs...), nil)
}

// Having sets the group filter.
func (q *RootQuery) Having(p Predicate) *RootQuery {
	return q.with(q.query.WithHaving(p), nil)
}

// OrderBy appends orders. An expression ordered twice in opposite
// directions is an error.
func (q *RootQuery) OrderBy(orders ...Order) *RootQuery {
	if q.err != nil {
		return q
	}
	all := append(q.Orders(), orders...)
	if _, err := q.query.WithOrders(all...); err != nil {
		return q.with(nil, err)
	}
	next := *q
	next.orders = all
	return &next
}

// OrderByString appends orders parsed from text such as
// "age desc, name asc nulls first".
func (q *RootQuery) OrderByString(text string) *RootQuery {
	if q.err != nil {
		return q
	}
	orders, err := orderby.ParseOrders(text)
	if err != nil {
		return q.with(nil, err)
	}
	return q.OrderBy(orders...)
}

// Limit sets the row limit and offset. A zero limit means no limit.
func (q *RootQuery) Limit(limit, offset int) *RootQuery {
	return q.with(q.query.WithPagination(limit, offset))
}

// WithoutSortingAndPaging drops orders and pagination.
func (q *RootQuery) WithoutSortingAndPaging() *RootQuery {
	next := q.with(q.query.WithoutSortingAndPaging(), nil)
	if next.err == nil {
		next.orders = nil
	}
	return next
}

// ForUpdate locks the selected rows where the dialect supports it.
func (q *RootQuery) ForUpdate() *RootQuery {
	return q.with(q.query.WithForUpdate(true), nil)
}

// Compile compiles the query for the client's dialect.
func (q *RootQuery) Compile() (Statement, error) {
	if q.err != nil {
		return Statement{}, q.err
	}
	return q.client.compiler.CompileRoot(q)
}

// Iterate returns a lazy sequence of rows. Compilation errors are yielded
// as the first element. Middleware and retries do not apply.
func (q *RootQuery) Iterate(ctx context.Context) iter.Seq2[Row, error] {
	stmt, err := q.Compile()
	if err != nil {
		return func(yield func(Row, error) bool) {
			yield(Row{}, err)
		}
	}
	return q.client.capability.Execute(ctx, stmt.SQL, stmt.Params)
}

// Execute runs the query and collects every row. On error no rows are
// returned.
func (q *RootQuery) Execute(ctx context.Context) ([]Row, error) {
	data, err := q.run(ctx, "execute", q)
	if err != nil {
		return nil, err
	}
	return data.([]Row), nil
}

// Count returns the number of rows the query matches, ignoring orders and
// pagination.
func (q *RootQuery) Count(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	if q.query.Distinct() || len(q.query.Grouping()) > 0 {
		return 0, ErrUnsupportedCount
	}
	counting := q.WithoutSortingAndPaging().Reselect(domain.Func("count", domain.Star))

	data, err := q.run(ctx, "count", counting)
	if err != nil {
		return 0, err
	}
	rows := data.([]Row)
	if len(rows) != 1 || len(rows[0].Values) != 1 {
		return 0, fmt.Errorf("count returned %d rows", len(rows))
	}
	return toInt64(rows[0].Values[0])
}

// Exists reports whether the query matches at least one row.
func (q *RootQuery) Exists(ctx context.Context) (bool, error) {
	probe := q.WithoutSortingAndPaging().Limit(1, 0)
	data, err := q.run(ctx, "exists", probe)
	if err != nil {
		return false, err
	}
	return len(data.([]Row)) > 0, nil
}

// First returns the first row, or ErrNotFound.
func (q *RootQuery) First(ctx context.Context) (Row, error) {
	offset := 0
	if p, ok := q.query.Pagination(); ok {
		offset = p.Offset
	}
	data, err := q.run(ctx, "first", q.Limit(1, offset))
	if err != nil {
		return Row{}, err
	}
	rows := data.([]Row)
	if len(rows) == 0 {
		return Row{}, ErrNotFound
	}
	return rows[0], nil
}

// run compiles target and executes it through the middleware chain with
// retries.
func (q *RootQuery) run(ctx context.Context, operation string, target *RootQuery) (interface{}, error) {
	stmt, err := target.Compile()
	if err != nil {
		return nil, err
	}

	params := MiddlewareParams{
		Table:     q.query.Table(),
		Operation: operation,
		Statement: stmt,
		StartTime: time.Now(),
	}
	final := func(ctx context.Context) MiddlewareResult {
		var rows []Row
		err := Retry(ctx, q.client.config.Retry, func(ctx context.Context) error {
			var err error
			rows, err = collect(q.client.capability.Execute(ctx, stmt.SQL, stmt.Params))
			return err
		})
		return MiddlewareResult{Data: rows, Error: err, Duration: time.Since(params.StartTime)}
	}

	result := chain(q.client.middlewareChain(), params, final)(ctx)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.Data == nil {
		return []Row{}, nil
	}
	return result.Data, nil
}

// collect drains seq. Rows read before an error are discarded.
func collect(seq iter.Seq2[Row, error]) ([]Row, error) {
	rows := []Row{}
	for row, err := range seq {
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toInt64(v Value) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	default:
		return 0, fmt.Errorf("unexpected count value %T", v)
	}
}

var _ domain.RootQueryImplementor = (*RootQuery)(nil)
