package orderby

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// OrderByLexer defines the token types of an ORDER BY clause. It also
// tokenizes whole compiled statements. Keywords are plain identifiers that
// the parser matches case-insensitively, so columns may be named first,
// last or order.
var OrderByLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Quoted identifiers: "ident" (PostgreSQL, SQLite) and `ident` (MySQL)
	{Name: "QuotedIdent", Pattern: "\"(?:[^\"]|\"\")*\"|`(?:[^`]|``)*`"},

	// Literals
	{Name: "String", Pattern: `'(?:[^']|'')*'`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Placeholder", Pattern: `\$\d+|\?`},

	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},

	// Punctuation and operators
	{Name: "Punct", Pattern: `[(),.*;:\[\]]`},
	{Name: "Op", Pattern: `[<>=!]+|[-+/%|]+`},

	{Name: "Whitespace", Pattern: `\s+`},
})
