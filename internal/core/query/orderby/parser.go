// Package orderby parses ORDER BY clauses and order lists such as
// "age desc, name asc nulls first" into ordering terms.
package orderby

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
)

// parser is the Participle parser instance.
var parser = participle.MustBuild[rawClause](
	participle.Lexer(OrderByLexer),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Ident"),
	participle.UseLookahead(4),
)

// Term is one parsed ordering item.
type Term struct {
	// Expr is the parsed expression. It is nil for placeholders and
	// parenthesised groups, which only carry Text.
	Expr      domain.Expression
	Text      string
	Direction domain.Direction
	Nulls     domain.NullOrdering
}

// Parse parses a clause with or without its leading ORDER BY keywords.
func Parse(input string) ([]Term, error) {
	raw, err := parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse order by: %w", err)
	}
	terms := make([]Term, 0, len(raw.Items))
	for _, item := range raw.Items {
		expr, text, err := convertExpr(item.Expr)
		if err != nil {
			return nil, err
		}
		direction, err := domain.ParseDirection(item.Direction)
		if err != nil {
			return nil, err
		}
		nulls, err := domain.ParseNullOrdering(item.Nulls)
		if err != nil {
			return nil, err
		}
		terms = append(terms, Term{
			Expr:      expr,
			Text:      text,
			Direction: direction,
			Nulls:     nulls,
		})
	}
	return terms, nil
}

// ParseClause extracts and parses the top-level ORDER BY clause of a full
// SELECT statement. Clauses inside subqueries are ignored. It returns no
// terms when the statement has no ORDER BY of its own.
func ParseClause(sql string) ([]Term, error) {
	tokens, err := tokenize(sql)
	if err != nil {
		return nil, fmt.Errorf("parse order by: %w", err)
	}

	start, end := -1, len(sql)
	depth := 0
	for i, tok := range tokens {
		if tok.Type == punctType {
			switch tok.Value {
			case "(":
				depth++
			case ")":
				depth--
			}
			if depth < 0 || (depth == 0 && tok.Value == ";") {
				end = tok.Pos.Offset
				break
			}
			continue
		}
		if depth != 0 {
			continue
		}
		if start < 0 {
			if isKeyword(tok, "ORDER") && i+1 < len(tokens) && isKeyword(tokens[i+1], "BY") {
				start = tok.Pos.Offset
			}
			continue
		}
		if isKeyword(tok, "LIMIT") || isKeyword(tok, "OFFSET") || isKeyword(tok, "FOR") {
			end = tok.Pos.Offset
			break
		}
	}
	if start < 0 {
		return nil, nil
	}
	return Parse(sql[start:end])
}

var (
	identType = OrderByLexer.Symbols()["Ident"]
	punctType = OrderByLexer.Symbols()["Punct"]
	spaceType = OrderByLexer.Symbols()["Whitespace"]
)

// tokenize lexes sql, dropping whitespace and the trailing EOF token.
func tokenize(sql string) ([]lexer.Token, error) {
	lex, err := OrderByLexer.Lex("", strings.NewReader(sql))
	if err != nil {
		return nil, err
	}
	all, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	tokens := make([]lexer.Token, 0, len(all))
	for _, tok := range all {
		if tok.EOF() || tok.Type == spaceType {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func isKeyword(tok lexer.Token, keyword string) bool {
	return tok.Type == identType && strings.EqualFold(tok.Value, keyword)
}

// ToOrders converts terms into validated orders.
func ToOrders(terms []Term) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(terms))
	for _, t := range terms {
		if t.Expr == nil {
			return nil, &domain.InvalidOrderError{Reason: fmt.Sprintf("cannot order by %s", t.Text)}
		}
		o, err := domain.NewOrder(t.Expr, t.Direction, t.Nulls)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// ParseOrders parses an order list straight into orders.
func ParseOrders(input string) ([]domain.Order, error) {
	terms, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return ToOrders(terms)
}

func convertExpr(e *rawExpr) (domain.Expression, string, error) {
	switch {
	case e.Placeholder != "":
		return nil, e.Placeholder, nil
	case e.Number != "":
		if i, err := strconv.ParseInt(e.Number, 10, 64); err == nil {
			return domain.Lit(i), e.Number, nil
		}
		f, err := strconv.ParseFloat(e.Number, 64)
		if err != nil {
			return nil, "", fmt.Errorf("parse order by: bad number %q: %w", e.Number, err)
		}
		return domain.Lit(f), e.Number, nil
	case e.String != "":
		s := strings.ReplaceAll(e.String[1:len(e.String)-1], "''", "'")
		return domain.Lit(s), e.String, nil
	case e.Star:
		return domain.Star, "*", nil
	case e.Call != nil:
		args := make([]domain.Expression, 0, len(e.Call.Args))
		texts := make([]string, 0, len(e.Call.Args))
		for _, a := range e.Call.Args {
			expr, text, err := convertExpr(a)
			if err != nil {
				return nil, "", err
			}
			if expr == nil {
				return nil, e.Call.Name + "(...)", nil
			}
			args = append(args, expr)
			texts = append(texts, text)
		}
		return domain.Func(e.Call.Name, args...), e.Call.Name + "(" + strings.Join(texts, ", ") + ")", nil
	case e.Column != nil:
		parts := make([]string, len(e.Column.Parts))
		for i, p := range e.Column.Parts {
			parts[i] = unquoteIdent(p)
		}
		text := strings.Join(parts, ".")
		switch len(parts) {
		case 1:
			return domain.Column{Name: parts[0]}, text, nil
		case 2:
			return domain.Column{Table: parts[0], Name: parts[1]}, text, nil
		default:
			return nil, "", fmt.Errorf("parse order by: too many qualifiers in %q", text)
		}
	case e.Group != nil:
		return nil, e.Group.text(), nil
	default:
		return nil, "", fmt.Errorf("parse order by: empty expression at %s", e.Pos)
	}
}

func unquoteIdent(s string) string {
	if len(s) < 2 {
		return s
	}
	switch q := s[0]; q {
	case '"', '`':
		if s[len(s)-1] == q {
			return strings.ReplaceAll(s[1:len(s)-1], string([]byte{q, q}), string(q))
		}
	}
	return s
}
