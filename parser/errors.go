package parser

import "fmt"

// SyntaxError is returned by every parse rule that fails: an
// unexpected token, a missing required token, or a malformed
// operator/function declaration.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

// Error returns the bare message; position is reported separately by
// the shared diag.Reporter, which already knows the active file and
// the lexer's current line/column — embedding them here too would
// print every diagnostic's position twice.
func (e SyntaxError) Error() string {
	return e.Message
}

func syntaxErrorf(line, column int, format string, args ...any) SyntaxError {
	return SyntaxError{Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}
