package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/google/subcommands"

	"github.com/wtflang/wtfc/lexer"
	"github.com/wtflang/wtfc/token"
)

// replCmd implements the `repl` command: a line-editing session that
// buffers input until a complete top-level construct has been typed,
// then runs it through the same Driver a file would use.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive session" }
func (*replCmd) Usage() string {
	return `repl:
  Read, compile and execute one top-level construct at a time.
`
}
func (*replCmd) SetFlags(*flag.FlagSet) {}

func (*replCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	bundle := buildBundle(os.Stdout, os.Stderr)

	rl, err := readline.New(readyPrompt)
	if err != nil {
		bundle.Diag.Fatal("%s", err)
	}
	defer rl.Close()

	scratch := filepath.Join(os.TempDir(), fmt.Sprintf("wtfc-repl-%d.wtf", os.Getpid()))
	defer os.Remove(scratch)

	color.New(color.FgGreen).Println("Welcome to wtfc!")

	var buf strings.Builder
	for {
		if buf.Len() == 0 {
			rl.SetPrompt(readyPrompt)
		} else {
			rl.SetPrompt(continuePrompt)
		}

		line, err := rl.Readline()
		switch {
		case err == readline.ErrInterrupt:
			buf.Reset()
			continue
		case err == io.EOF:
			return subcommands.ExitSuccess
		case err != nil:
			bundle.Diag.Fatal("%s", err)
		}

		if buf.Len() == 0 && strings.TrimSpace(line) == "exit" {
			return subcommands.ExitSuccess
		}

		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(line)

		if err := os.WriteFile(scratch, []byte(buf.String()), 0o644); err != nil {
			bundle.Diag.Errorf("%s", err)
			buf.Reset()
			continue
		}
		if !blockComplete(scratch) {
			continue
		}

		if err := bundle.Driver.Run(scratch); err != nil {
			bundle.Diag.Errorf("%s", err)
		}
		buf.Reset()
	}
}

var (
	readyPrompt    = color.CyanString(">>> ")
	continuePrompt = color.CyanString("... ")
)

// blockComplete tokenizes the scratch file written so far and reports
// whether it holds a complete top-level construct: every
// func/if/for/op opened has a matching `end`, and the last token isn't
// an operator or comma still expecting an operand. A lexing error
// (e.g. an unterminated string) is treated as "still typing" rather
// than a hard failure, mirroring the reference REPL's
// wait-for-more-input behavior around unfinished input.
func blockComplete(scratchPath string) bool {
	lex := lexer.New()
	if err := lex.SetInputFile(scratchPath, 0); err != nil {
		return true
	}
	defer lex.Close()

	depth := 0
	var last token.Token
	for {
		tok, err := lex.GetToken()
		if err != nil {
			return false
		}
		if tok.Type == token.EOF {
			break
		}
		switch tok.Type {
		case token.FUNC, token.IF, token.FOR, token.OP:
			depth++
		case token.END:
			depth--
		}
		last = tok
	}
	if depth > 0 {
		return false
	}
	if last.Type == token.BYTE {
		switch last.Byte {
		case '+', '-', '*', '/', '<', '=', ',', '(':
			return false
		}
	}
	return true
}
