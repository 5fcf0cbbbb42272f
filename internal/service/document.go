package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
	"github.com/satishbabariya/rootquery/internal/core/query/orderby"
	"github.com/satishbabariya/rootquery/pkg/client"
)

// ErrInvalidDocument is returned for documents that cannot describe a query.
var ErrInvalidDocument = errors.New("invalid query document")

// Document is a query written as YAML.
type Document struct {
	Dialect   string      `yaml:"dialect"`
	Table     string      `yaml:"table"`
	Select    []string    `yaml:"select,omitempty"`
	Distinct  bool        `yaml:"distinct,omitempty"`
	Where     []Condition `yaml:"where,omitempty"`
	GroupBy   []string    `yaml:"group_by,omitempty"`
	Order     string      `yaml:"order,omitempty"`
	Limit     int         `yaml:"limit,omitempty"`
	Offset    int         `yaml:"offset,omitempty"`
	ForUpdate bool        `yaml:"for_update,omitempty"`
}

// Condition is one filter term. Conditions are combined with AND.
type Condition struct {
	Field string      `yaml:"field"`
	Op    string      `yaml:"op"`
	Value interface{} `yaml:"value,omitempty"`
}

// ParseDocument decodes a YAML document. Unknown keys are rejected.
func ParseDocument(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Dialect == "" {
		doc.Dialect = string(domain.PostgreSQL)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the fields that need no parsing.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Table) == "" {
		return fmt.Errorf("%w: table is required", ErrInvalidDocument)
	}
	if d.Limit < 0 || d.Offset < 0 {
		return fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidDocument)
	}
	for i, c := range d.Where {
		if c.Field == "" {
			return fmt.Errorf("%w: where[%d] has no field", ErrInvalidDocument, i)
		}
		if _, ok := operators[strings.ToLower(c.Op)]; !ok {
			return fmt.Errorf("%w: where[%d] has unknown op %q", ErrInvalidDocument, i, c.Op)
		}
	}
	return nil
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Apply builds the document onto a root query of the same table.
func (d *Document) Apply(q *client.RootQuery) (*client.RootQuery, error) {
	selection, err := expressions(d.Select)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	if len(selection) > 0 {
		q = q.Select(selection...)
	}
	if d.Distinct {
		q = q.Distinct()
	}

	for i, c := range d.Where {
		p, err := c.Predicate()
		if err != nil {
			return nil, fmt.Errorf("where[%d]: %w", i, err)
		}
		q = q.Where(p)
	}

	grouping, err := expressions(d.GroupBy)
	if err != nil {
		return nil, fmt.Errorf("group_by: %w", err)
	}
	if len(grouping) > 0 {
		q = q.GroupBy(grouping...)
	}

	if strings.TrimSpace(d.Order) != "" {
		q = q.OrderByString(d.Order)
	}
	if d.Limit > 0 || d.Offset > 0 {
		q = q.Limit(d.Limit, d.Offset)
	}
	if d.ForUpdate {
		q = q.ForUpdate()
	}
	return q, q.Err()
}

var operators = map[string]func(field domain.Expression, value interface{}) (domain.Predicate, error){
	"eq":       comparison(domain.Eq),
	"ne":       comparison(domain.Ne),
	"lt":       comparison(domain.LessThan),
	"lte":      comparison(domain.LessOrEqual),
	"gt":       comparison(domain.GreaterThan),
	"gte":      comparison(domain.GreaterOrEqual),
	"in":       list(domain.In),
	"not_in":   list(domain.NotIn),
	"like":     like(false),
	"ilike":    like(true),
	"is_null":  nullCheck(domain.IsNull),
	"not_null": nullCheck(domain.IsNotNull),
}

// Predicate converts the condition into a filter predicate.
func (c Condition) Predicate() (domain.Predicate, error) {
	build, ok := operators[strings.ToLower(c.Op)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown op %q", ErrInvalidDocument, c.Op)
	}
	field, err := expression(c.Field)
	if err != nil {
		return nil, err
	}
	return build(field, c.Value)
}

func comparison[P domain.Predicate](fn func(l, r domain.Expression) P) func(domain.Expression, interface{}) (domain.Predicate, error) {
	return func(field domain.Expression, value interface{}) (domain.Predicate, error) {
		if value == nil {
			return nil, fmt.Errorf("%w: comparison needs a value; use is_null", ErrInvalidDocument)
		}
		return fn(field, domain.Lit(value)), nil
	}
}

func list[P domain.Predicate](fn func(e domain.Expression, values ...domain.Expression) P) func(domain.Expression, interface{}) (domain.Predicate, error) {
	return func(field domain.Expression, value interface{}) (domain.Predicate, error) {
		items, ok := value.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: in/not_in needs a list, got %T", ErrInvalidDocument, value)
		}
		values := make([]domain.Expression, len(items))
		for i, item := range items {
			values[i] = domain.Lit(item)
		}
		return fn(field, values...), nil
	}
}

func like(insensitive bool) func(domain.Expression, interface{}) (domain.Predicate, error) {
	return func(field domain.Expression, value interface{}) (domain.Predicate, error) {
		pattern, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: like needs a string pattern, got %T", ErrInvalidDocument, value)
		}
		return domain.Like{Expr: field, Pattern: domain.Lit(pattern), Insensitive: insensitive}, nil
	}
}

func nullCheck(fn func(domain.Expression) domain.NullCheck) func(domain.Expression, interface{}) (domain.Predicate, error) {
	return func(field domain.Expression, _ interface{}) (domain.Predicate, error) {
		return fn(field), nil
	}
}

// expression parses a column, function call or literal using the ORDER BY
// expression grammar.
func expression(text string) (domain.Expression, error) {
	terms, err := orderby.Parse(text)
	if err != nil {
		return nil, err
	}
	if len(terms) != 1 || terms[0].Expr == nil {
		return nil, fmt.Errorf("%w: %q is not a single expression", ErrInvalidDocument, text)
	}
	return terms[0].Expr, nil
}

func expressions(texts []string) ([]domain.Expression, error) {
	exprs := make([]domain.Expression, 0, len(texts))
	for _, t := range texts {
		e, err := expression(t)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}
