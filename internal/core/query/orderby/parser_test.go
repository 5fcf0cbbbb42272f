package orderby_test

import (
	"testing"

	"github.com/satishbabariya/rootquery/internal/core/query/compiler"
	"github.com/satishbabariya/rootquery/internal/core/query/domain"
	"github.com/satishbabariya/rootquery/internal/core/query/orderby"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_OrderList(t *testing.T) {
	terms, err := orderby.Parse("age desc, name asc nulls first, u.created_at")
	require.NoError(t, err)
	require.Len(t, terms, 3)

	assert.Equal(t, domain.Col("age"), terms[0].Expr)
	assert.Equal(t, domain.Descending, terms[0].Direction)
	assert.Equal(t, domain.NullsDefault, terms[0].Nulls)

	assert.Equal(t, domain.Col("name"), terms[1].Expr)
	assert.Equal(t, domain.Ascending, terms[1].Direction)
	assert.Equal(t, domain.NullsFirst, terms[1].Nulls)

	assert.Equal(t, domain.Column{Table: "u", Name: "created_at"}, terms[2].Expr)
	assert.Equal(t, domain.Ascending, terms[2].Direction)
	assert.Equal(t, "u.created_at", terms[2].Text)
}

func TestParse_Expressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.Expression
		text  string
	}{
		{name: "double quoted", input: `"user ""name"""`, want: domain.Col(`user "name"`), text: `user "name"`},
		{name: "backtick quoted", input: "`u`.`id`", want: domain.Column{Table: "u", Name: "id"}, text: "u.id"},
		{name: "function", input: "lower(name)", want: domain.Func("lower", domain.Col("name")), text: "lower(name)"},
		{name: "nested function", input: "COALESCE(a, 0)", want: domain.Func("COALESCE", domain.Col("a"), domain.Lit(int64(0))), text: "COALESCE(a, 0)"},
		{name: "integer", input: "2", want: domain.Lit(int64(2)), text: "2"},
		{name: "float", input: "1.5", want: domain.Lit(1.5), text: "1.5"},
		{name: "string", input: "'it''s'", want: domain.Lit("it's"), text: "'it''s'"},
		{name: "star", input: "*", want: domain.Star, text: "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, err := orderby.Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, terms, 1)
			assert.Equal(t, tt.want, terms[0].Expr)
			assert.Equal(t, tt.text, terms[0].Text)
		})
	}
}

func TestParse_KeywordsAreCaseInsensitive(t *testing.T) {
	terms, err := orderby.Parse("order by age DESC Nulls Last")
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, domain.Descending, terms[0].Direction)
	assert.Equal(t, domain.NullsLast, terms[0].Nulls)
}

func TestParse_PlaceholdersAndGroupsCarryText(t *testing.T) {
	terms, err := orderby.Parse("$1 desc, (select max(x) from t) asc")
	require.NoError(t, err)
	require.Len(t, terms, 2)

	assert.Nil(t, terms[0].Expr)
	assert.Equal(t, "$1", terms[0].Text)
	assert.Nil(t, terms[1].Expr)
	assert.Contains(t, terms[1].Text, "max")

	_, err = orderby.ToOrders(terms)
	assert.ErrorIs(t, err, domain.ErrInvalidOrder)
}

func TestParse_Errors(t *testing.T) {
	for _, input := range []string{"", "age sideways", "a.b.c", "age desc nulls"} {
		t.Run(input, func(t *testing.T) {
			_, err := orderby.ParseOrders(input)
			assert.Error(t, err)
		})
	}
}

func TestParseClause(t *testing.T) {
	terms, err := orderby.ParseClause(`SELECT * FROM "users" ORDER BY "age" DESC, "name" ASC NULLS FIRST LIMIT $1 OFFSET $2`)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "age", terms[0].Text)
	assert.Equal(t, domain.NullsFirst, terms[1].Nulls)

	terms, err = orderby.ParseClause(`SELECT * FROM "users"`)
	require.NoError(t, err)
	assert.Empty(t, terms)
}

func TestParse_KeywordLikeColumnNames(t *testing.T) {
	tests := []struct {
		input string
		want  []domain.Order
	}{
		{input: "first desc", want: []domain.Order{domain.Desc(domain.Col("first"))}},
		{input: "last, order asc", want: []domain.Order{domain.Asc(domain.Col("last")), domain.Asc(domain.Col("order"))}},
		{input: "nulls desc nulls last", want: []domain.Order{domain.MustOrder(domain.Col("nulls"), domain.Descending, domain.NullsLast)}},
		{input: "firstä", want: []domain.Order{domain.Asc(domain.Col("firstä"))}},
		{input: "ORDER BY desc", want: []domain.Order{domain.Asc(domain.Col("desc"))}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			orders, err := orderby.ParseOrders(tt.input)
			require.NoError(t, err)
			require.Len(t, orders, len(tt.want))
			for i := range tt.want {
				assert.True(t, tt.want[i].Equal(orders[i]), "want %s, got %s", tt.want[i], orders[i])
			}
		})
	}
}

func TestParseClause_IgnoresKeywordsInsideQuotedNames(t *testing.T) {
	orders := []domain.Order{domain.Desc(domain.Col("x LIMIT y")), domain.Asc(domain.Col("b"))}
	q, err := domain.NewQuery("t").WithOrders(orders...)
	require.NoError(t, err)
	q = q.WithForUpdate(true)

	stmt, err := compiler.NewSQLCompiler().Compile(q, pgDialect{})
	require.NoError(t, err)

	terms, err := orderby.ParseClause(stmt.SQL)
	require.NoError(t, err)
	parsed, err := orderby.ToOrders(terms)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.True(t, orders[0].Equal(parsed[0]))
	assert.True(t, orders[1].Equal(parsed[1]))
}

func TestParseClause_SkipsSubqueryOrdering(t *testing.T) {
	terms, err := orderby.ParseClause(`SELECT * FROM "users" WHERE "id" IN ((SELECT "id" FROM "t" ORDER BY "id" DESC))`)
	require.NoError(t, err)
	assert.Empty(t, terms)

	terms, err = orderby.ParseClause(`SELECT (SELECT "v" FROM "t" ORDER BY "v" DESC LIMIT 1) FROM "users" ORDER BY "name" ASC LIMIT $1`)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "name", terms[0].Text)
	assert.Equal(t, domain.Ascending, terms[0].Direction)
}

// Compiled ORDER BY clauses parse back to the orders they were built from.
func TestParseClause_RoundTrip(t *testing.T) {
	orders := []domain.Order{
		domain.Desc(domain.Col("age")),
		domain.MustOrder(domain.Col("u.name"), domain.Ascending, domain.NullsLast),
		domain.Asc(domain.Func("lower", domain.Col("email"))),
	}
	q, err := domain.NewQuery("users").WithOrders(orders...)
	require.NoError(t, err)
	q, err = q.WithPagination(10, 0)
	require.NoError(t, err)

	dialect := pgDialect{}
	stmt, err := compiler.NewSQLCompiler().Compile(q, dialect)
	require.NoError(t, err)

	terms, err := orderby.ParseClause(stmt.SQL)
	require.NoError(t, err)
	parsed, err := orderby.ToOrders(terms)
	require.NoError(t, err)

	require.Len(t, parsed, len(orders))
	for i := range orders {
		assert.True(t, orders[i].Equal(parsed[i]), "order %d: want %s, got %s", i, orders[i], parsed[i])
	}
}

type pgDialect struct{}

func (pgDialect) Dialect() domain.SQLDialect         { return domain.PostgreSQL }
func (pgDialect) QuoteIdentifier(name string) string { return `"` + name + `"` }
func (pgDialect) BindStyle() domain.BindStyle        { return domain.BindDollar }
func (pgDialect) SupportsNullOrdering() bool         { return true }
func (pgDialect) SupportsForUpdate() bool            { return true }
