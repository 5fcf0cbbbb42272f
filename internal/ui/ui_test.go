package ui_test

import (
	"bytes"
	"testing"

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
	"github.com/satishbabariya/rootquery/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_Statement(t *testing.T) {
	var out bytes.Buffer
	p := ui.New(&out, &out, 100)

	p.Statement(domain.Statement{
		SQL:     `SELECT * FROM "users" WHERE "id" = $1`,
		Params:  []domain.Value{42},
		Dialect: domain.PostgreSQL,
	})

	assert.Contains(t, out.String(), `SELECT * FROM "users" WHERE "id" = $1`)
	assert.Contains(t, out.String(), "1: 42")
	assert.Contains(t, out.String(), "postgres")
}

func TestPrinter_Rows(t *testing.T) {
	var out bytes.Buffer
	p := ui.New(&out, &out, 100)

	err := p.Rows([]domain.Row{
		{Columns: []string{"id", "name"}, Values: []domain.Value{int64(1), "ada"}},
		{Columns: []string{"id", "name"}, Values: []domain.Value{int64(2), nil}},
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "ada")
	assert.Contains(t, out.String(), "NULL")
	assert.Contains(t, out.String(), "2 row(s)")
}

func TestPrinter_NoRows(t *testing.T) {
	var out bytes.Buffer
	p := ui.New(&out, &out, 100)

	require.NoError(t, p.Rows(nil))
	assert.Contains(t, out.String(), "no rows")
}

func TestPrinter_MessagesGoToTheirStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	p := ui.New(&out, &errOut, 80)

	p.Success("compiled %d", 1)
	p.Error("failed %s", "badly")
	p.Info("watching %s", "q.yaml")

	assert.Contains(t, out.String(), "compiled 1")
	assert.Contains(t, out.String(), "watching q.yaml")
	assert.NotContains(t, out.String(), "failed badly")
	assert.Contains(t, errOut.String(), "failed badly")
}

func TestPrinter_Markdown(t *testing.T) {
	var out bytes.Buffer
	p := ui.New(&out, &out, 80)

	require.NoError(t, p.Markdown("# Report\n\nsome **bold** text\n"))
	assert.Contains(t, out.String(), "Report")
	assert.Contains(t, out.String(), "bold")
}
