package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// runCmd implements the `run` command.
type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Compile and execute a .wtf source file" }
func (*runCmd) Usage() string {
	return `run <file>:
  Lex, parse, JIT-compile and execute a source file, top to bottom.
`
}
func (*runCmd) SetFlags(*flag.FlagSet) {}

func (*runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "💥 file not provided")
		return subcommands.ExitUsageError
	}

	bundle := buildBundle(os.Stdout, os.Stderr)

	if err := bundle.Driver.Run(args[0]); err != nil {
		bundle.Diag.Fatal("%s", err)
	}
	return subcommands.ExitSuccess
}
