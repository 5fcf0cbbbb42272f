package database_test

import (
	"context"
	"testing"

	"github.com/satishbabariya/rootquery/internal/adapters/database"
	"github.com/satishbabariya/rootquery/internal/adapters/telemetry"
	"github.com/satishbabariya/rootquery/internal/core/query/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteClient(t *testing.T, opts ...database.ClientOption) *database.Client {
	t.Helper()
	ctx := context.Background()

	c, err := database.NewClient(database.DefaultConfig(":memory:"), opts...)
	require.NoError(t, err)
	require.NoError(t, c.Connect(ctx))
	t.Cleanup(func() { _ = c.Disconnect(context.Background()) })

	_, err = c.Exec(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, age INTEGER)`)
	require.NoError(t, err)
	_, err = c.Exec(ctx, `INSERT INTO users (id, name, age) VALUES (1, 'ada', 36), (2, 'bob', NULL), (3, 'cy', 20)`)
	require.NoError(t, err)
	return c
}

func collect(t *testing.T, seq func(func(domain.Row, error) bool)) ([]domain.Row, error) {
	t.Helper()
	var rows []domain.Row
	for row, err := range seq {
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func TestClient_ExecuteStreamsRows(t *testing.T) {
	c := newSQLiteClient(t)

	rows, err := collect(t, c.Execute(context.Background(), `SELECT id, name FROM users WHERE age > ? ORDER BY id`, []domain.Value{18}))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"id", "name"}, rows[0].Columns)
	assert.Equal(t, map[string]domain.Value{"id": int64(1), "name": "ada"}, rows[0].Map())
	name, ok := rows[1].Get("name")
	assert.True(t, ok)
	assert.Equal(t, "cy", name)
}

func TestClient_ExecuteIsSingleUse(t *testing.T) {
	c := newSQLiteClient(t)
	seq := c.Execute(context.Background(), `SELECT id FROM users`, nil)

	_, err := collect(t, seq)
	require.NoError(t, err)

	_, err = collect(t, seq)
	assert.ErrorIs(t, err, domain.ErrSequenceConsumed)
}

func TestClient_ExecuteIsLazy(t *testing.T) {
	c, err := database.NewClient(database.Config{Provider: "sqlite", URL: ":memory:"})
	require.NoError(t, err)

	// Building the sequence before Connect is fine; ranging over it is not.
	seq := c.Execute(context.Background(), `SELECT 1`, nil)

	_, err = collect(t, seq)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConnection)
	assert.ErrorIs(t, err, database.ErrNotConnected)
	assert.True(t, domain.IsRetryable(err))
}

func TestClient_SyntaxErrorsAreClassified(t *testing.T) {
	c := newSQLiteClient(t)

	tests := []string{
		`SELEC id FROM users`,
		`SELECT id FROM missing`,
		`SELECT nope FROM users`,
	}
	for _, statement := range tests {
		t.Run(statement, func(t *testing.T) {
			_, err := collect(t, c.Execute(context.Background(), statement, nil))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrSyntax)
			assert.False(t, domain.IsRetryable(err))

			var syntaxErr *domain.SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, statement, syntaxErr.SQL)
			assert.Equal(t, domain.SQLite, syntaxErr.Dialect)
		})
	}
}

func TestClient_CancelledContext(t *testing.T) {
	c := newSQLiteClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	seq := c.Execute(ctx, `SELECT id FROM users ORDER BY id`, nil)

	var seen int
	var lastErr error
	for _, err := range seq {
		if err != nil {
			lastErr = err
			break
		}
		seen++
		cancel()
	}

	assert.Equal(t, 1, seen)
	assert.ErrorIs(t, lastErr, context.Canceled)
}

func TestClient_RecordsTelemetry(t *testing.T) {
	tel := telemetry.NewMemoryTelemetry(nil)
	c := newSQLiteClient(t, database.WithTelemetry(tel))

	for range c.Execute(context.Background(), `SELECT id FROM users`, nil) {
		break
	}
	_, _ = collect(t, c.Execute(context.Background(), `SELEC`, nil))

	queries := tel.Queries()
	require.Len(t, queries, 2)
	assert.True(t, queries[0].Success)
	assert.Equal(t, int64(1), queries[0].Rows)
	assert.Equal(t, "sqlite", queries[0].Dialect)
	assert.False(t, queries[1].Success)

	errs := tel.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, queries[1].ID, errs[0].ID)
	assert.NotEqual(t, queries[0].ID, queries[1].ID)

	conns := tel.Connections()
	require.NotEmpty(t, conns)
	assert.Equal(t, "connect", conns[0].Event)
}

func TestClient_CapabilityMetadata(t *testing.T) {
	c, err := database.NewClient(database.Config{URL: "postgres://localhost/app"})
	require.NoError(t, err)

	assert.Equal(t, domain.PostgreSQL, c.Dialect())
	assert.Equal(t, domain.BindDollar, c.BindStyle())
	assert.True(t, c.SupportsNullOrdering())
	assert.True(t, c.SupportsForUpdate())
	assert.Equal(t, `"users"`, c.QuoteIdentifier("users"))
	assert.Nil(t, c.Pool())
}

func TestClient_DisconnectIsIdempotent(t *testing.T) {
	c := newSQLiteClient(t)
	require.NoError(t, c.Disconnect(context.Background()))
	require.NoError(t, c.Disconnect(context.Background()))

	err := c.Ping(context.Background())
	assert.ErrorIs(t, err, domain.ErrConnection)
}
