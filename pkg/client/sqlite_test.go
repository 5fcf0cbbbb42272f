package client_test

import (
	"context"
	"testing"

	"github.com/satishbabariya/rootquery/internal/adapters/telemetry"
	"github.com/satishbabariya/rootquery/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SQLite(t *testing.T) {
	ctx := context.Background()
	tel := telemetry.NewMemoryTelemetry(nil)

	c, err := client.New(ctx, client.WithDatabaseURL(":memory:"), client.WithTelemetry(tel))
	require.NoError(t, err)
	defer c.Close(ctx)

	_, err = c.Raw(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, age INTEGER)`)
	require.NoError(t, err)
	_, err = c.Raw(ctx, `INSERT INTO users (name, age) VALUES ('ada', 36), ('bob', NULL), ('cy', 20), ('dee', 36)`)
	require.NoError(t, err)

	adults := c.From("users").
		Select(client.Col("name")).
		Where(client.GreaterOrEqual(client.Col("age"), client.Lit(18)))

	rows, err := adults.OrderByString("age desc, name asc").Execute(ctx)
	require.NoError(t, err)
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Values[0].(string)
	}
	assert.Equal(t, []string{"ada", "dee", "cy"}, names)

	n, err := adults.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	ok, err := c.From("users").Where(client.Eq(client.Col("name"), client.Lit("zed"))).Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	first, err := c.From("users").OrderBy(client.MustOrder(client.Col("age"), client.Ascending, client.NullsFirst)).First(ctx)
	require.NoError(t, err)
	name, _ := first.Get("name")
	assert.Equal(t, "bob", name)

	_, err = c.From("missing").Execute(ctx)
	assert.True(t, client.IsSyntax(err))

	assert.NotEmpty(t, tel.Queries())
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := client.New(context.Background(), client.WithDatabaseURL("redis://localhost"))
	assert.Error(t, err)
}
