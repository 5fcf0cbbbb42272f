package domain_test

import (
	"testing"

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_WithOrdersCopyOnWrite(t *testing.T) {
	base := domain.NewQuery("users")
	orders := []domain.Order{domain.Desc(domain.Col("age")), domain.Asc(domain.Col("name"))}

	q, err := base.WithOrders(orders...)
	require.NoError(t, err)

	assert.Empty(t, base.Orders(), "receiver must not change")
	assert.Len(t, q.Orders(), 2)

	// Mutating the caller's slice or the returned copy leaves q untouched.
	orders[0] = domain.Asc(domain.Col("email"))
	got := q.Orders()
	got[1] = domain.Asc(domain.Col("email"))

	assert.True(t, q.Orders()[0].Equal(domain.Desc(domain.Col("age"))))
	assert.True(t, q.Orders()[1].Equal(domain.Asc(domain.Col("name"))))
}

func TestQuery_WithOrdersConflict(t *testing.T) {
	_, err := domain.NewQuery("users").WithOrders(
		domain.Desc(domain.Col("age")),
		domain.Asc(domain.Col("name")),
		domain.Asc(domain.Col("age")),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflictingOrder)

	var conflict *domain.ConflictingOrderError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "age", conflict.Expression)
	assert.Equal(t, domain.Descending, conflict.First)
	assert.Equal(t, domain.Ascending, conflict.Second)
}

func TestQuery_WithOrdersSameDirectionRepeated(t *testing.T) {
	q, err := domain.NewQuery("users").WithOrders(
		domain.Desc(domain.Col("age")),
		domain.MustOrder(domain.Col("age"), domain.Descending, domain.NullsFirst),
	)
	require.NoError(t, err)
	assert.Len(t, q.Orders(), 2)
}

func TestQuery_WithOrdersRejectsZeroOrder(t *testing.T) {
	_, err := domain.NewQuery("users").WithOrders(domain.Order{})
	assert.ErrorIs(t, err, domain.ErrInvalidOrder)
}

func TestQuery_Pagination(t *testing.T) {
	q := domain.NewQuery("users")
	_, ok := q.Pagination()
	assert.False(t, ok)

	paged, err := q.WithPagination(10, 20)
	require.NoError(t, err)
	p, ok := paged.Pagination()
	require.True(t, ok)
	assert.Equal(t, domain.Pagination{Limit: 10, Offset: 20}, p)

	_, err = q.WithPagination(-1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPagination)

	_, ok = paged.WithoutPagination().Pagination()
	assert.False(t, ok)
}

func TestQuery_WithoutSortingAndPaging(t *testing.T) {
	q, err := domain.NewQuery("users").WithOrders(domain.Asc(domain.Col("id")))
	require.NoError(t, err)
	q, err = q.WithPagination(5, 0)
	require.NoError(t, err)

	stripped := q.WithoutSortingAndPaging().Reselect(domain.Func("count", domain.Star))

	assert.Empty(t, stripped.Orders())
	_, ok := stripped.Pagination()
	assert.False(t, ok)
	assert.Len(t, stripped.Selection(), 1)
	assert.Len(t, q.Orders(), 1, "original keeps its orders")
}

func TestQuery_StructuralSharing(t *testing.T) {
	filter := domain.Eq(domain.Col("active"), domain.Lit(true))
	q := domain.NewQuery("users").WithFilter(filter).WithSelection(domain.Col("id"))
	q2 := q.WithDistinct(true).WithForUpdate(true)

	assert.Equal(t, q.Filter(), q2.Filter())
	assert.False(t, q.Distinct())
	assert.True(t, q2.Distinct())
	assert.True(t, q2.ForUpdate())
	assert.Equal(t, "users", q2.Table())
}

func TestCol_SplitsQualifier(t *testing.T) {
	assert.Equal(t, domain.Column{Table: "u", Name: "id"}, domain.Col("u.id"))
	assert.Equal(t, domain.Column{Name: "id"}, domain.Col("id"))
}

func TestEqualExpressions(t *testing.T) {
	sub := domain.NewQuery("orders")

	assert.True(t, domain.EqualExpressions(domain.Lit([]int{1, 2}), domain.Lit([]int{1, 2})))
	assert.False(t, domain.EqualExpressions(domain.Lit(1), domain.Col("1")))
	assert.True(t, domain.EqualExpressions(domain.Sub(sub), domain.Sub(sub)))
	assert.True(t, domain.EqualExpressions(domain.Sub(sub), domain.Sub(domain.NewQuery("orders"))))
	assert.False(t, domain.EqualExpressions(domain.Sub(sub), domain.Sub(domain.NewQuery("invoices"))))
	assert.False(t, domain.EqualExpressions(domain.Func("f", domain.Col("a")), domain.Func("f")))
	assert.True(t, domain.EqualExpressions(nil, nil))
}

func TestRow_GetAndMap(t *testing.T) {
	row := domain.Row{Columns: []string{"id", "name"}, Values: []domain.Value{int64(1), "ada"}}

	v, ok := row.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "ada", v)

	_, ok = row.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, map[string]domain.Value{"id": int64(1), "name": "ada"}, row.Map())
}

func TestEqualQueries(t *testing.T) {
	build := func(status string) *domain.Query {
		q := domain.NewQuery("orders").
			WithSelection(domain.Func("max", domain.Col("total"))).
			WithFilter(domain.And(
				domain.Eq(domain.Col("orders.user_id"), domain.Col("users.id")),
				domain.In(domain.Col("status"), domain.Lit(status)),
			))
		q, err := q.WithOrders(domain.Desc(domain.Col("total")))
		if err != nil {
			t.Fatal(err)
		}
		q, err = q.WithPagination(1, 0)
		if err != nil {
			t.Fatal(err)
		}
		return q
	}

	assert.True(t, domain.EqualQueries(build("paid"), build("paid")))
	assert.False(t, domain.EqualQueries(build("paid"), build("open")))
	assert.False(t, domain.EqualQueries(build("paid"), build("paid").WithoutPagination()))
	assert.False(t, domain.EqualQueries(build("paid"), build("paid").WithDistinct(true)))
	assert.False(t, domain.EqualQueries(build("paid"), nil))
	assert.True(t, domain.EqualQueries(nil, nil))
}

func TestEqualPredicates(t *testing.T) {
	like := domain.Like{Expr: domain.Col("name"), Pattern: domain.Lit("a%")}

	assert.True(t, domain.EqualPredicates(domain.Not{Operand: like}, domain.Not{Operand: like}))
	assert.False(t, domain.EqualPredicates(like, domain.Like{Expr: domain.Col("name"), Pattern: domain.Lit("a%"), Insensitive: true}))
	assert.False(t, domain.EqualPredicates(domain.IsNull(domain.Col("a")), domain.IsNotNull(domain.Col("a"))))
	assert.False(t, domain.EqualPredicates(domain.And(like), domain.Or(like)))
	assert.False(t, domain.EqualPredicates(like, nil))
}

func TestQuery_WithOrdersConflictOnEquivalentSubqueries(t *testing.T) {
	latest := func() domain.Expression {
		return domain.Sub(domain.NewQuery("orders").WithSelection(domain.Func("max", domain.Col("created_at"))))
	}

	_, err := domain.NewQuery("users").WithOrders(domain.Desc(latest()), domain.Asc(latest()))
	assert.ErrorIs(t, err, domain.ErrConflictingOrder)

	q, err := domain.NewQuery("users").WithOrders(domain.Desc(latest()), domain.Desc(latest()))
	require.NoError(t, err)
	assert.Len(t, q.Orders(), 2)
}
