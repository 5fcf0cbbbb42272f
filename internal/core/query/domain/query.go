package domain

// Query is the immutable AST of a root query. Every With* method returns a
// new node; unchanged children are shared with the receiver.
type Query struct {
	table      string
	selection  []Expression
	distinct   bool
	filter     Predicate
	grouping   []Expression
	having     Predicate
	orders     []Order
	pagination *Pagination
	forUpdate  bool
}

// Pagination bounds a result set.
type Pagination struct {
	Limit  int // 0 means no limit
	Offset int
}

// NewQuery starts a query over table.
func NewQuery(table string) *Query {
	return &Query{table: table}
}

func (q *Query) clone() *Query {
	c := *q
	return &c
}

// Table returns the source table.
func (q *Query) Table() string { return q.table }

// Selection returns a copy of the selection list. Empty means every column.
func (q *Query) Selection() []Expression {
	return append([]Expression(nil), q.selection...)
}

// Distinct reports whether duplicate rows are removed.
func (q *Query) Distinct() bool { return q.distinct }

// Filter returns the WHERE predicate, or nil.
func (q *Query) Filter() Predicate { return q.filter }

// Grouping returns a copy of the GROUP BY list.
func (q *Query) Grouping() []Expression {
	return append([]Expression(nil), q.grouping...)
}

// Having returns the HAVING predicate, or nil.
func (q *Query) Having() Predicate { return q.having }

// Orders returns a copy of the ordering sequence.
func (q *Query) Orders() []Order {
	return append([]Order(nil), q.orders...)
}

// Pagination returns the pagination bounds and whether they are set.
func (q *Query) Pagination() (Pagination, bool) {
	if q.pagination == nil {
		return Pagination{}, false
	}
	return *q.pagination, true
}

// ForUpdate reports whether selected rows are locked.
func (q *Query) ForUpdate() bool { return q.forUpdate }

// WithSelection replaces the selection list.
func (q *Query) WithSelection(exprs ...Expression) *Query {
	c := q.clone()
	c.selection = append([]Expression(nil), exprs...)
	return c
}

// Reselect is WithSelection under the name callers of count-style helpers expect.
func (q *Query) Reselect(exprs ...Expression) *Query {
	return q.WithSelection(exprs...)
}

// WithDistinct toggles SELECT DISTINCT.
func (q *Query) WithDistinct(distinct bool) *Query {
	c := q.clone()
	c.distinct = distinct
	return c
}

// WithFilter replaces the WHERE predicate. Nil removes it.
func (q *Query) WithFilter(p Predicate) *Query {
	c := q.clone()
	c.filter = p
	return c
}

// WithGrouping replaces the GROUP BY list.
func (q *Query) WithGrouping(exprs ...Expression) *Query {
	c := q.clone()
	c.grouping = append([]Expression(nil), exprs...)
	return c
}

// WithHaving replaces the HAVING predicate.
func (q *Query) WithHaving(p Predicate) *Query {
	c := q.clone()
	c.having = p
	return c
}

// WithOrders replaces the ordering. The same expression may not appear with
// two different directions.
func (q *Query) WithOrders(orders ...Order) (*Query, error) {
	for i, o := range orders {
		if IsEmpty(o.expr) {
			return nil, &InvalidOrderError{Reason: "expression is empty"}
		}
		for _, prev := range orders[:i] {
			if prev.direction != o.direction && EqualExpressions(prev.expr, o.expr) {
				return nil, &ConflictingOrderError{
					Expression: o.expr.String(),
					First:      prev.direction,
					Second:     o.direction,
				}
			}
		}
	}
	c := q.clone()
	c.orders = append([]Order(nil), orders...)
	return c, nil
}

// WithPagination sets LIMIT and OFFSET. A zero limit means unbounded.
func (q *Query) WithPagination(limit, offset int) (*Query, error) {
	if limit < 0 || offset < 0 {
		return nil, ErrInvalidPagination
	}
	c := q.clone()
	c.pagination = &Pagination{Limit: limit, Offset: offset}
	return c, nil
}

// WithoutPagination removes LIMIT and OFFSET.
func (q *Query) WithoutPagination() *Query {
	c := q.clone()
	c.pagination = nil
	return c
}

// WithoutSortingAndPaging drops both the ordering and the pagination.
func (q *Query) WithoutSortingAndPaging() *Query {
	c := q.clone()
	c.orders = nil
	c.pagination = nil
	return c
}

// WithForUpdate toggles row locking.
func (q *Query) WithForUpdate(forUpdate bool) *Query {
	c := q.clone()
	c.forUpdate = forUpdate
	return c
}
