// Package service compiles and runs YAML query documents.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/satishbabariya/rootquery/internal/adapters/database"
	"github.com/satishbabariya/rootquery/internal/core/query/domain"
	"github.com/satishbabariya/rootquery/internal/core/query/orderby"
	"github.com/satishbabariya/rootquery/internal/debug"
	"github.com/satishbabariya/rootquery/pkg/client"
)

// QueryService loads query documents and turns them into statements.
type QueryService struct {
	fs afero.Fs
}

// NewQueryService creates a new query service reading through fs.
func NewQueryService(fs afero.Fs) *QueryService {
	return &QueryService{fs: fs}
}

// Load reads and parses a query document.
func (s *QueryService) Load(path string) (*Document, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes a query document.
func (s *QueryService) Save(path string, doc *Document) error {
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, path, data, 0o644)
}

// Compile compiles doc for its own dialect without a database connection.
func (s *QueryService) Compile(doc *Document) (domain.Statement, error) {
	offline, err := database.NewClient(database.Config{Provider: doc.Dialect})
	if err != nil {
		return domain.Statement{}, err
	}
	q, err := doc.Apply(client.NewWithCapability(offline).From(doc.Table))
	if err != nil {
		return domain.Statement{}, err
	}
	return q.Compile()
}

// Execute runs doc through c. The statement is compiled for the dialect of
// c, which wins over the document's dialect.
func (s *QueryService) Execute(ctx context.Context, c *client.Client, doc *Document) (domain.Statement, []domain.Row, error) {
	if got := c.Capability().Dialect(); string(got) != doc.Dialect {
		debug.Warn("document dialect differs from connection", "document", doc.Dialect, "connection", got)
	}
	q, err := doc.Apply(c.From(doc.Table))
	if err != nil {
		return domain.Statement{}, nil, err
	}
	stmt, err := q.Compile()
	if err != nil {
		return domain.Statement{}, nil, err
	}
	rows, err := q.Execute(ctx)
	if err != nil {
		return stmt, nil, err
	}
	return stmt, rows, nil
}

// Explain renders doc and its compiled statement as a Markdown report.
func (s *QueryService) Explain(doc *Document) (string, error) {
	stmt, err := s.Compile(doc)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Query on `%s`\n\n", doc.Table)
	fmt.Fprintf(&b, "**Dialect:** %s\n\n", stmt.Dialect)
	b.WriteString("## SQL\n\n```sql\n" + stmt.SQL + "\n```\n\n")

	if len(stmt.Params) > 0 {
		b.WriteString("## Parameters\n\n| # | Value |\n|---|---|\n")
		for i, p := range stmt.Params {
			fmt.Fprintf(&b, "| %d | `%v` |\n", i+1, p)
		}
		b.WriteString("\n")
	}

	if strings.TrimSpace(doc.Order) != "" {
		orders, err := orderby.ParseOrders(doc.Order)
		if err != nil {
			return "", err
		}
		b.WriteString("## Ordering\n\n")
		b.WriteString(strings.Join(lo.Map(orders, func(o domain.Order, _ int) string {
			return "- " + o.String()
		}), "\n"))
		b.WriteString("\n")
	}
	return b.String(), nil
}
