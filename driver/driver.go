// Package driver orchestrates one source file at a time: it owns the
// lexer and parser for that file, dispatches each top-level construct
// to codegen, and JIT-executes anonymous top-level expressions
// immediately. An `import` spawns a nested Driver over another file,
// sharing this session's Codegen and PrecedenceTable so definitions
// and operator precedence carry across files, the way a single
// compilation session would.
package driver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wtflang/wtfc/ast"
	"github.com/wtflang/wtfc/codegen"
	"github.com/wtflang/wtfc/diag"
	"github.com/wtflang/wtfc/lexer"
	"github.com/wtflang/wtfc/parser"
	"github.com/wtflang/wtfc/token"
)

// Driver reads one file's worth of top-level constructs and lowers
// them through a shared Codegen.
type Driver struct {
	codegen *codegen.Codegen
	prec    *parser.PrecedenceTable
	diag    *diag.Reporter

	lex *lexer.Lexer
	p   *parser.Parser

	// dir is the directory of the file currently being run, so that an
	// `import` inside it resolves relative to that file rather than to
	// the process's own working directory.
	dir string

	// anonSeq disambiguates successive anonymous top-level
	// expressions, each of which is erased from the module right
	// after it runs, so there's never more than one "in flight" —
	// but a friendly distinct name keeps diagnostics readable.
	anonSeq int
}

// New returns a Driver sharing cg, prec and d with every nested
// import driver spawned from it.
func New(cg *codegen.Codegen, prec *parser.PrecedenceTable, d *diag.Reporter) *Driver {
	return &Driver{codegen: cg, prec: prec, diag: d, lex: lexer.New()}
}

// Run lexes and compiles filename from the start, dispatching every
// top-level construct until EOF. Parse and codegen failures are
// reported and the session continues (a parse failure skips one
// token; a codegen failure resumes at the token after the construct,
// which the parse already consumed); Run itself only returns an
// error if filename cannot be opened.
func (d *Driver) Run(filename string) error {
	if err := d.lex.SetInputFile(filename, 0); err != nil {
		return err
	}
	defer d.lex.Close()
	d.dir = filepath.Dir(filename)

	d.diag.SetPosition(func() (string, int, int) {
		line, col := d.lex.Position()
		return d.lex.Filename(), line, col
	})

	d.p = parser.New(d.lex, d.prec, d.diag)
	d.p.Advance()

	for {
		if d.p.Current().Type == token.EOF {
			return nil
		}
		d.dispatch()
	}
}

// dispatch handles exactly one top-level construct and never returns
// an error: failures are reported through diag (a parse failure also
// skips one token), so the session continues.
func (d *Driver) dispatch() {
	switch d.p.Current().Type {
	case token.FUNC:
		fn, err := d.p.ParseDefinition()
		if err != nil {
			d.report(err)
			return
		}
		if _, err := d.codegen.LowerFunction(fn); err != nil {
			d.report(err)
		}

	case token.EXTERN:
		proto, err := d.p.ParseExtern()
		if err != nil {
			d.report(err)
			return
		}
		if _, err := d.codegen.LowerExtern(proto); err != nil {
			d.report(err)
		}

	case token.OP:
		op, err := d.p.ParseOperator()
		if err != nil {
			d.report(err)
			return
		}
		if _, err := d.codegen.LowerOperator(op); err != nil {
			d.report(err)
		}

	case token.IMPORT:
		imp, err := d.p.ParseImport()
		if err != nil {
			d.report(err)
			return
		}
		d.runImport(imp)

	case token.END:
		d.p.Advance()

	default:
		if d.p.Current().Is(';') {
			d.p.Advance()
			return
		}
		d.runTopLevelExpr()
	}
}

// runImport compiles imp.Filename (with ".wtf" appended, resolved
// relative to this driver's own file's directory) through a nested
// Driver sharing this session's codegen and precedence table, then
// re-points the shared error reporter back at this driver's own lexer.
// ParseImport has already advanced past the filename, so the current
// token is the first one after the import statement.
func (d *Driver) runImport(imp ast.Import) {
	path := imp.Filename
	if !strings.HasSuffix(path, ".wtf") {
		path += ".wtf"
	}
	path = filepath.Join(d.dir, path)

	child := New(d.codegen, d.prec, d.diag)
	if err := child.Run(path); err != nil {
		d.diag.Errorf("%s", err.Error())
	}

	d.diag.SetPosition(func() (string, int, int) {
		line, col := d.lex.Position()
		return d.lex.Filename(), line, col
	})
}

// runTopLevelExpr wraps a bare expression in an anonymous function,
// lowers it, JIT-compiles and invokes it once, and erases it from the
// module immediately so the next anonymous expression doesn't collide
// with it as a "redefinition".
func (d *Driver) runTopLevelExpr() {
	fn, err := d.p.ParseTopLevelExpr()
	if err != nil {
		d.report(err)
		return
	}
	d.anonSeq++
	name := fmt.Sprintf("__anon_expr_%d", d.anonSeq)
	fn.Proto.Name = name

	if _, err := d.codegen.LowerFunction(fn); err != nil {
		d.report(err)
		return
	}
	defer d.codegen.Module.EraseFunction(name)

	compiled, err := d.codegen.Module.JIT(name)
	if err != nil {
		d.report(err)
		return
	}
	compiled(nil)
}

func (d *Driver) report(err error) {
	d.diag.Errorf("%s", err.Error())
	if _, ok := err.(parser.SyntaxError); ok {
		d.p.Advance()
	}
}
