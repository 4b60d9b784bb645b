// Package parser implements a Pratt-style expression parser with a
// user-mutable operator precedence table (ParseBinOpRHS), plus
// recursive descent for everything else: conditionals, for-loops,
// var/function/operator/extern declarations, and imports.
package parser

import (
	"github.com/wtflang/wtfc/ast"
	"github.com/wtflang/wtfc/diag"
	"github.com/wtflang/wtfc/lexer"
	"github.com/wtflang/wtfc/token"
)

// Parser consumes tokens one at a time from a lexer.Lexer, maintaining
// the current token and a shared precedence table that `op`
// declarations mutate in place.
type Parser struct {
	lex  *lexer.Lexer
	diag *diag.Reporter
	prec *PrecedenceTable

	cur token.Token
}

// New constructs a Parser reading from lex, reporting through d, and
// sharing prec with any sibling/nested parsers in the same driver
// tree. Call Advance once before the first Parse* call to prime cur.
func New(lex *lexer.Lexer, prec *PrecedenceTable, d *diag.Reporter) *Parser {
	return &Parser{lex: lex, diag: d, prec: prec}
}

// Current returns the token the parser is currently positioned at.
func (p *Parser) Current() token.Token { return p.cur }

// Precedence exposes the shared table so the driver can query it
// (e.g. to decide whether the current token should start a new
// top-level expression) without reaching into parser internals.
func (p *Parser) Precedence() *PrecedenceTable { return p.prec }

// Advance fetches the next token from the lexer into cur. A lexing
// error is reported through the shared diag.Reporter and cur is left
// as an EOF token, ending the current parse attempt.
func (p *Parser) Advance() {
	tok, err := p.lex.GetToken()
	if err != nil {
		p.diag.Errorf("%s", err.Error())
		tok = token.Token{Type: token.EOF}
	}
	p.cur = tok
}

func (p *Parser) errorf(format string, args ...any) SyntaxError {
	line, column := p.cur.Line, p.cur.Column
	return syntaxErrorf(line, column, format, args...)
}

// expect advances past the current token if it is the byte b,
// otherwise returns a SyntaxError naming what was expected.
func (p *Parser) expect(b byte, what string) error {
	if !p.cur.Is(b) {
		return p.errorf("Expected '%s'", what)
	}
	p.Advance()
	return nil
}

// expectType advances past the current token if it has type t,
// otherwise returns a SyntaxError.
func (p *Parser) expectType(t token.Type, what string) error {
	if p.cur.Type != t {
		return p.errorf("Expected %s", what)
	}
	p.Advance()
	return nil
}

// ParseExpression parses a unary expression followed by any number of
// binary operators, climbing precedence per ParseBinOpRHS.
func (p *Parser) ParseExpression() (ast.Node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return p.parseBinOpRHS(0, lhs)
}

// parseUnary recognizes a leading non-'(' ',' single-byte operator as
// a prefix unary operator (built-in or user-defined) and recurses;
// otherwise it falls through to parsePrimary.
func (p *Parser) parseUnary() (ast.Node, error) {
	if p.cur.Type == token.BYTE && p.cur.Byte != '(' && p.cur.Byte != ',' {
		line, col := p.cur.Line, p.cur.Column
		op := p.cur.Byte
		p.Advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Op: op, Operand: operand, Line: line, Column: col}, nil
	}
	return p.parsePrimary()
}

// parseBinOpRHS is Pratt/precedence-climbing: it consumes operators
// whose precedence is at least minPrec, recursing with a bumped
// minimum whenever the following operator binds tighter than the one
// just consumed (left-associative otherwise).
func (p *Parser) parseBinOpRHS(minPrec int, lhs ast.Node) (ast.Node, error) {
	for {
		if p.cur.Type != token.BYTE {
			return lhs, nil
		}
		opPrec := p.prec.Precedence(p.cur.Byte)
		if opPrec < minPrec {
			return lhs, nil
		}

		op := p.cur.Byte
		line, col := p.cur.Line, p.cur.Column
		p.Advance()

		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		if p.cur.Type == token.BYTE {
			nextPrec := p.prec.Precedence(p.cur.Byte)
			if nextPrec > opPrec {
				rhs, err = p.parseBinOpRHS(opPrec+1, rhs)
				if err != nil {
					return nil, err
				}
			}
		}

		lhs = ast.Binary{Op: op, Lhs: lhs, Rhs: rhs, Line: line, Column: col}
	}
}

// parsePrimary dispatches on the current token to parse the smallest
// self-contained expression form.
func (p *Parser) parsePrimary() (ast.Node, error) {
	switch p.cur.Type {
	case token.IDENT:
		name := p.cur.Ident
		line, col := p.cur.Line, p.cur.Column
		p.Advance()
		if !p.cur.Is('(') {
			return ast.Variable{Name: name}, nil
		}
		p.Advance()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return ast.Call{Callee: name, Args: args, Line: line, Column: col}, nil

	case token.NUMBER:
		v := p.cur.Num
		p.Advance()
		return ast.Number{Value: v}, nil

	case token.IF:
		return p.parseConditional()

	case token.FOR:
		return p.parseFor()

	case token.VAR:
		return p.parseVarExpr()

	case token.END:
		// A stray `end` inside an argument list (e.g. `f(if c then a
		// else b end)`) is silently eaten so the enclosing `if` can be
		// used as a call argument.
		p.Advance()
		return p.parsePrimary()

	case token.BYTE:
		if p.cur.Byte == '(' {
			p.Advance()
			expr, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expect(')', ")"); err != nil {
				return nil, err
			}
			return expr, nil
		}
	}

	if p.cur.Type == token.EOF {
		return nil, p.errorf("Unexpected EOF")
	}
	return nil, p.errorf("Expected expression")
}

// parseArgs parses a comma-separated argument list up to and
// including the closing ')'. An `end` token encountered while scanning
// arguments is eaten rather than treated as a terminator, so that an
// `if ... end` construct can appear as an argument.
func (p *Parser) parseArgs() ([]ast.Node, error) {
	var args []ast.Node
	for !p.cur.Is(')') {
		if p.cur.Type == token.EOF {
			return nil, p.errorf("Expected ')'")
		}
		if p.cur.Type == token.END {
			p.Advance()
			continue
		}
		arg, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur.Is(',') {
			p.Advance()
		}
	}
	p.Advance() // consume ')'
	return args, nil
}

// parseVarExpr parses `var IDENT = expr`.
func (p *Parser) parseVarExpr() (ast.Node, error) {
	p.Advance() // consume 'var'
	if p.cur.Type != token.IDENT {
		return nil, p.errorf("Expected variable name")
	}
	name := p.cur.Ident
	p.Advance()
	if err := p.expect('=', "="); err != nil {
		return nil, err
	}
	init, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return ast.Var{Name: name, Init: init}, nil
}
