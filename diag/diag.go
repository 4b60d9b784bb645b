// Package diag is the single error-reporting sink used by the lexer,
// parser, and codegen.
//
// Rather than a package-level singleton holding a pointer to "the
// current lexer" (fragile across nested imports), a Reporter is
// constructed once per driver tree and threaded explicitly into every
// component that can fail. Its PositionFunc is repointed by the
// driver whenever control returns from a nested import, so it always
// blames the file/line/column that is actually active.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// PositionFunc reports the file name and 0-indexed line/column the
// reporter should currently attribute errors to.
type PositionFunc func() (file string, line, column int)

// Reporter is the explicit error sink threaded through the front end.
type Reporter struct {
	out      io.Writer
	position PositionFunc
	errColor *color.Color
}

// New constructs a Reporter that writes to out, colorizing "Error:"
// lines unless color output is disabled process-wide (color.NoColor).
func New(out io.Writer) *Reporter {
	return &Reporter{
		out:      out,
		position: func() (string, int, int) { return "?", 0, 0 },
		errColor: color.New(color.FgRed),
	}
}

// Stderr is a convenience constructor writing to os.Stderr.
func Stderr() *Reporter { return New(os.Stderr) }

// SetPosition repoints the reporter at a new active lexer's position
// callback. The driver calls this once per file it begins running,
// and again after a nested import returns.
func (r *Reporter) SetPosition(fn PositionFunc) {
	r.position = fn
}

// Errorf formats and prints a diagnostic as
// "Error: <msg>, in <file>:<line>:<col>" without returning a value;
// used by callers that only need the side effect (e.g. the driver's
// own recovery loop).
func (r *Reporter) Errorf(format string, args ...any) {
	file, line, col := r.position()
	msg := fmt.Sprintf(format, args...)
	r.errColor.Fprintf(r.out, "Error: %s, in %s:%d:%d\n", msg, file, line, col)
}

// Fatal reports a diagnostic and exits the process. Used for the CLI's
// unrecoverable failures: runtime prelude registration, a source file
// that `run` or `ir` cannot open, and REPL setup or input errors.
func (r *Reporter) Fatal(format string, args ...any) {
	file, line, col := r.position()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(r.out, "💥 Error: %s, in %s:%d:%d\n", msg, file, line, col)
	os.Exit(1)
}
