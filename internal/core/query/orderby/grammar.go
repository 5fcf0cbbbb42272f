package orderby

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// rawClause is the parse tree of a whole clause.
type rawClause struct {
	Pos     lexer.Position
	OrderBy bool       `( @"ORDER" "BY" )?`
	Items   []*rawItem `@@ ( "," @@ )*`
}

type rawItem struct {
	Pos       lexer.Position
	Expr      *rawExpr `@@`
	Direction string   `@( "ASC" | "DESC" )?`
	Nulls     string   `( "NULLS" @( "FIRST" | "LAST" ) )?`
}

type rawExpr struct {
	Pos         lexer.Position
	Placeholder string     `  @Placeholder`
	Number      string     `| @Number`
	String      string     `| @String`
	Star        bool       `| @"*"`
	Call        *rawCall   `| @@`
	Column      *rawColumn `| @@`
	Group       *rawGroup  `| @@`
}

type rawCall struct {
	Name string     `@Ident "("`
	Args []*rawExpr `( @@ ( "," @@ )* )? ")"`
}

type rawColumn struct {
	Parts []string `@( Ident | QuotedIdent ) ( "." @( Ident | QuotedIdent | "*" ) )*`
}

// rawGroup is a parenthesised token run, usually a subquery.
type rawGroup struct {
	Tokens []*rawToken `"(" @@* ")"`
}

type rawToken struct {
	Group *rawGroup `  @@`
	Text  string    `| @( Ident | QuotedIdent | Placeholder | Number | String | Op | "," | "." | "*" )`
}

func (g *rawGroup) text() string {
	parts := make([]string, len(g.Tokens))
	for i, t := range g.Tokens {
		if t.Group != nil {
			parts[i] = t.Group.text()
		} else {
			parts[i] = t.Text
		}
	}
	return "(" + strings.Join(parts, " ") + ")"
}
