// Package token defines the lexical tokens produced by the lexer and
// consumed by the parser.
package token

import "fmt"

// Type classifies a Token. Most operators and punctuation are
// represented by their own single ASCII byte rather than a named
// constant, so that user-defined operators (installed by an `op`
// declaration) share the same representation as the built-in ones.
type Type int

const (
	EOF Type = iota
	FUNC
	EXTERN
	IDENT
	NUMBER
	STRING
	IF
	THEN
	ELSE
	ELSIF
	FOR
	IN
	OP
	IMPORT
	END
	VAR

	// BYTE marks a token whose identity is the single ASCII byte in
	// Token.Byte: '(', ')', ',', ';', '=', or any operator character,
	// built-in or user-defined.
	BYTE
)

var names = map[Type]string{
	EOF:    "EOF",
	FUNC:   "func",
	EXTERN: "extern",
	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",
	IF:     "if",
	THEN:   "then",
	ELSE:   "else",
	ELSIF:  "elsif",
	FOR:    "for",
	IN:     "in",
	OP:     "op",
	IMPORT: "import",
	END:    "end",
	VAR:    "var",
	BYTE:   "BYTE",
}

func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "UNKNOWN"
}

// Keywords maps reserved identifier spellings to their Type. Anything
// not present here and starting with a letter lexes as IDENT.
var Keywords = map[string]Type{
	"func":   FUNC,
	"extern": EXTERN,
	"if":     IF,
	"then":   THEN,
	"else":   ELSE,
	"elsif":  ELSIF,
	"for":    FOR,
	"in":     IN,
	"op":     OP,
	"import": IMPORT,
	"end":    END,
	"var":    VAR,
}

// Token is a single lexical unit: a tagged value carrying its
// position within the source for diagnostics.
type Token struct {
	Type   Type
	Ident  string  // IDENT spelling, or the raw STRING contents
	Num    float64 // NUMBER value
	Byte   byte    // valid when Type == BYTE
	Line   int
	Column int
}

// Is reports whether the token is the single-byte operator/punctuation b.
func (t Token) Is(b byte) bool {
	return t.Type == BYTE && t.Byte == b
}

func (t Token) String() string {
	switch t.Type {
	case IDENT:
		return fmt.Sprintf("IDENT(%s)", t.Ident)
	case NUMBER:
		return fmt.Sprintf("NUMBER(%g)", t.Num)
	case STRING:
		return fmt.Sprintf("STRING(%q)", t.Ident)
	case BYTE:
		return fmt.Sprintf("%q", t.Byte)
	default:
		return t.Type.String()
	}
}
