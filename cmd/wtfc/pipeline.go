package main

import (
	"os"

	"github.com/wtflang/wtfc/codegen"
	"github.com/wtflang/wtfc/diag"
	"github.com/wtflang/wtfc/driver"
	"github.com/wtflang/wtfc/parser"
	"github.com/wtflang/wtfc/runtime"
	"github.com/wtflang/wtfc/ssa"
)

// driverBundle keeps the pieces a subcommand needs after a file has
// been run: the module itself, for introspection (the `ir` command),
// and the Driver, reusable across several files in one REPL session.
type driverBundle struct {
	Module *ssa.Module
	Codegen *codegen.Codegen
	Prec    *parser.PrecedenceTable
	Diag    *diag.Reporter
	Driver  *driver.Driver
}

// buildBundle constructs one compilation session: a Module preloaded
// with the built-in runtime, a Codegen lowering into it, and a Driver
// ready to Run any number of files against that shared state. Failing
// to register the runtime prelude leaves the JIT unable to resolve
// any program's built-ins, so it is reported through Reporter.Fatal
// rather than returned for a caller to recover from.
func buildBundle(out, errOut *os.File) *driverBundle {
	module := ssa.NewModule()
	d := diag.New(errOut)
	if err := runtime.Prelude(module, out); err != nil {
		d.Fatal("failed to initialize JIT runtime: %s", err)
	}
	cg := codegen.New(module)
	prec := parser.NewPrecedenceTable()
	drv := driver.New(cg, prec, d)
	return &driverBundle{Module: module, Codegen: cg, Prec: prec, Diag: d, Driver: drv}
}
