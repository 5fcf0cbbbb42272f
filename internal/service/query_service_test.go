package service_test

import (
	"context"
	"testing"

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
	"github.com/satishbabariya/rootquery/internal/service"
	"github.com/satishbabariya/rootquery/pkg/client"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersDoc = `
dialect: postgres
table: users
select: [id, name]
where:
  - {field: age, op: gte, value: 18}
order: "age desc, name asc nulls first"
limit: 10
`

func newService(t *testing.T, files map[string]string) *service.QueryService {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return service.NewQueryService(fs)
}

func TestQueryService_Compile(t *testing.T) {
	svc := newService(t, map[string]string{"/q/users.yaml": usersDoc})

	doc, err := svc.Load("/q/users.yaml")
	require.NoError(t, err)

	stmt, err := svc.Compile(doc)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "id", "name" FROM "users" WHERE "age" >= $1 ORDER BY "age" DESC, "name" ASC NULLS FIRST LIMIT $2`,
		stmt.SQL)
	assert.Equal(t, []domain.Value{18, 10}, stmt.Params)
	assert.Equal(t, domain.PostgreSQL, stmt.Dialect)

	doc.Dialect = "mysql"
	stmt, err = svc.Compile(doc)
	require.NoError(t, err)
	assert.Equal(t, "SELECT `id`, `name` FROM `users` WHERE `age` >= ? ORDER BY `age` DESC, `name` ASC LIMIT ?", stmt.SQL)
}

func TestQueryService_Operators(t *testing.T) {
	svc := newService(t, nil)

	tests := []struct {
		name string
		cond service.Condition
		want string
	}{
		{name: "in", cond: service.Condition{Field: "id", Op: "in", Value: []interface{}{1, 2}}, want: `"id" IN ($1, $2)`},
		{name: "not in", cond: service.Condition{Field: "id", Op: "NOT_IN", Value: []interface{}{3}}, want: `"id" NOT IN ($1)`},
		{name: "ilike", cond: service.Condition{Field: "email", Op: "ilike", Value: "%@x.io"}, want: `LOWER("email") LIKE LOWER($1)`},
		{name: "is null", cond: service.Condition{Field: "u.deleted_at", Op: "is_null"}, want: `"u"."deleted_at" IS NULL`},
		{name: "function field", cond: service.Condition{Field: "lower(name)", Op: "eq", Value: "ada"}, want: `LOWER("name") = $1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &service.Document{Dialect: "postgres", Table: "users", Where: []service.Condition{tt.cond}}
			stmt, err := svc.Compile(doc)
			require.NoError(t, err)
			assert.Equal(t, `SELECT * FROM "users" WHERE `+tt.want, stmt.SQL)
		})
	}
}

func TestParseDocument_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "table: users\ncolour: red\n",
		"missing table":  "dialect: postgres\n",
		"unknown op":     "table: users\nwhere:\n  - {field: a, op: between, value: 1}\n",
		"negative limit": "table: users\nlimit: -1\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := service.ParseDocument([]byte(input))
			assert.ErrorIs(t, err, service.ErrInvalidDocument)
		})
	}
}

func TestQueryService_CompileErrors(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.Compile(&service.Document{Dialect: "postgres", Table: "users", Where: []service.Condition{{Field: "id", Op: "in", Value: 3}}})
	assert.ErrorIs(t, err, service.ErrInvalidDocument)

	_, err = svc.Compile(&service.Document{Dialect: "postgres", Table: "users", Order: "age desc, age asc"})
	assert.ErrorIs(t, err, domain.ErrConflictingOrder)

	_, err = svc.Compile(&service.Document{Dialect: "oracle", Table: "users"})
	assert.Error(t, err)

	_, err = svc.Load("/missing.yaml")
	assert.Error(t, err)
}

func TestQueryService_SaveAndLoad(t *testing.T) {
	svc := newService(t, nil)
	doc := &service.Document{Dialect: "sqlite", Table: "events", Order: "created_at desc", Limit: 5}

	require.NoError(t, svc.Save("/q/events.yaml", doc))
	got, err := svc.Load("/q/events.yaml")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestQueryService_Explain(t *testing.T) {
	svc := newService(t, map[string]string{"/q/users.yaml": usersDoc})
	doc, err := svc.Load("/q/users.yaml")
	require.NoError(t, err)

	report, err := svc.Explain(doc)
	require.NoError(t, err)
	assert.Contains(t, report, "# Query on `users`")
	assert.Contains(t, report, "```sql\nSELECT \"id\", \"name\" FROM \"users\"")
	assert.Contains(t, report, "| 1 | `18` |")
	assert.Contains(t, report, "- age DESC\n- name ASC NULLS FIRST")
}

func TestQueryService_Execute(t *testing.T) {
	ctx := context.Background()
	c, err := client.New(ctx, client.WithDatabaseURL(":memory:"))
	require.NoError(t, err)
	defer c.Close(ctx)

	_, err = c.Raw(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, age INTEGER)`)
	require.NoError(t, err)
	_, err = c.Raw(ctx, `INSERT INTO users (name, age) VALUES ('ada', 36), ('kid', 9), ('cy', 20)`)
	require.NoError(t, err)

	svc := newService(t, map[string]string{"/q/users.yaml": usersDoc})
	doc, err := svc.Load("/q/users.yaml")
	require.NoError(t, err)

	stmt, rows, err := svc.Execute(ctx, c, doc)
	require.NoError(t, err)
	assert.Equal(t, domain.SQLite, stmt.Dialect)
	require.Len(t, rows, 2)
	assert.Equal(t, "ada", rows[0].Values[1])
	assert.Equal(t, "cy", rows[1].Values[1])
}
