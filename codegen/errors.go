package codegen

import "fmt"

// Error is returned by every lowering rule that fails: an unbound
// name, a call with the wrong arity, an invalid assignment target, or
// a conflicting redefinition.
type Error struct {
	Line    int
	Column  int
	Message string
}

// Error returns the bare message; position is reported separately by
// the shared diag.Reporter (see parser.SyntaxError.Error for why).
func (e *Error) Error() string {
	return e.Message
}

func errorf(line, column int, format string, args ...any) *Error {
	return &Error{Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}
