// Package runtime supplies the language's built-in functions: the I/O
// and timing primitives a wtf program can call without declaring them
// itself, plus sin/cos/exit for programs that do declare them via
// `extern`.
package runtime

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/wtflang/wtfc/ssa"
)

// Prelude registers every built-in as an extern on module, writing
// output through out. It must run before any source file is
// compiled, so that a user `extern sin(x)` (etc.) resolves against an
// already-registered, identically-shaped declaration instead of a bare
// prototype with no implementation.
func Prelude(module *ssa.Module, out io.Writer) error {
	builtins := []struct {
		name  string
		arity int
		fn    ssa.ExternFunc
	}{
		{"pchar", 1, pchar(out)},
		{"pdoub", 1, pdoub(out)},
		{"pline", 0, pline(out)},
		{"plines", 1, plines(out)},
		{"wait", 1, wait},
		{"clrscr", 0, clrscr(out)},
		{"sin", 1, func(args []float64) float64 { return math.Sin(args[0]) }},
		{"cos", 1, func(args []float64) float64 { return math.Cos(args[0]) }},
		{"exit", 1, exit},
	}
	for _, b := range builtins {
		if err := module.RegisterExtern(b.name, b.arity, b.fn); err != nil {
			return err
		}
	}
	return nil
}

// pchar writes the low byte of ascii as a single character.
func pchar(out io.Writer) ssa.ExternFunc {
	return func(args []float64) float64 {
		fmt.Fprintf(out, "%c", byte(args[0]))
		return 0
	}
}

// pdoub writes num in Go's default floating-point format.
func pdoub(out io.Writer) ssa.ExternFunc {
	return func(args []float64) float64 {
		fmt.Fprint(out, args[0])
		return 0
	}
}

// pline writes a single newline.
func pline(out io.Writer) ssa.ExternFunc {
	return func(args []float64) float64 {
		fmt.Fprintln(out)
		return 0
	}
}

// plines writes n newlines (n truncated toward zero); a non-positive
// count writes nothing.
func plines(out io.Writer) ssa.ExternFunc {
	return func(args []float64) float64 {
		for n := int(args[0]); n > 0; n-- {
			fmt.Fprintln(out)
		}
		return 0
	}
}

// wait sleeps for the given number of microseconds, matching the
// reference implementation's usleep(time) call.
func wait(args []float64) float64 {
	time.Sleep(time.Duration(args[0]) * time.Microsecond)
	return 0
}

// clrscr writes the ANSI "clear screen, home cursor" escape sequence.
func clrscr(out io.Writer) ssa.ExternFunc {
	return func(args []float64) float64 {
		fmt.Fprint(out, "\x1b[H\x1b[2J")
		return 0
	}
}

// exit terminates the process with the given status code; like the
// reference implementation's libc exit(), it never returns to the
// caller.
func exit(args []float64) float64 {
	os.Exit(int(args[0]))
	return 0
}
