package parser

import (
	"github.com/wtflang/wtfc/ast"
	"github.com/wtflang/wtfc/token"
)

// ParsePrototype parses `IDENT ( IDENT* )`, params separated by
// optional commas.
func (p *Parser) ParsePrototype() (ast.Prototype, error) {
	if p.cur.Type != token.IDENT {
		return ast.Prototype{}, p.errorf("Expected function name in prototype")
	}
	name := p.cur.Ident
	line, col := p.cur.Line, p.cur.Column
	p.Advance()

	if err := p.expect('(', "("); err != nil {
		return ast.Prototype{}, err
	}
	var params []string
	for !p.cur.Is(')') {
		if p.cur.Type != token.IDENT {
			return ast.Prototype{}, p.errorf("Expected parameter name")
		}
		params = append(params, p.cur.Ident)
		p.Advance()
		if p.cur.Is(',') {
			p.Advance()
		}
	}
	p.Advance() // consume ')'

	return ast.Prototype{Name: name, Params: params, Line: line, Column: col}, nil
}

// ParseDefinition parses `func PROTOTYPE BLOCK end`.
func (p *Parser) ParseDefinition() (ast.Function, error) {
	p.Advance() // consume 'func'
	proto, err := p.ParsePrototype()
	if err != nil {
		return ast.Function{}, err
	}
	body, err := p.parseBlockUntil(token.END)
	if err != nil {
		return ast.Function{}, err
	}
	if err := p.expectType(token.END, "'end'"); err != nil {
		return ast.Function{}, err
	}
	return ast.Function{Proto: proto, Body: body}, nil
}

// ParseExtern parses `extern PROTOTYPE`.
func (p *Parser) ParseExtern() (ast.Prototype, error) {
	p.Advance() // consume 'extern'
	return p.ParsePrototype()
}

// ParseOperator parses `op CHAR NUMBER ( IDENT{1,2} ) BLOCK end` and,
// as a side effect, installs the parsed precedence into the shared
// table before returning — this is the only place the precedence
// table is mutated, and it takes effect for every expression parsed
// afterward by this parser and any parser sharing the same table.
func (p *Parser) ParseOperator() (ast.Operator, error) {
	p.Advance() // consume 'op'

	if p.cur.Type != token.BYTE {
		return ast.Operator{}, p.errorf("Expected a single operator character after 'op'")
	}
	symbol := p.cur.Byte
	line, col := p.cur.Line, p.cur.Column
	p.Advance()

	if p.cur.Type != token.NUMBER {
		return ast.Operator{}, p.errorf("Expected a precedence number after operator character")
	}
	precedence := int(p.cur.Num)
	p.Advance()

	if err := p.expect('(', "("); err != nil {
		return ast.Operator{}, err
	}
	var params []string
	for !p.cur.Is(')') {
		if p.cur.Type != token.IDENT {
			return ast.Operator{}, p.errorf("Expected parameter name")
		}
		params = append(params, p.cur.Ident)
		p.Advance()
		if p.cur.Is(',') {
			p.Advance()
		}
	}
	p.Advance() // consume ')'

	if len(params) != 1 && len(params) != 2 {
		return ast.Operator{}, p.errorf("Operator definitions take exactly 1 (unary) or 2 (binary) parameters")
	}

	body, err := p.parseBlockUntil(token.END)
	if err != nil {
		return ast.Operator{}, err
	}
	if err := p.expectType(token.END, "'end'"); err != nil {
		return ast.Operator{}, err
	}

	op := ast.Operator{Symbol: symbol, Precedence: precedence, Params: params, Body: body, Line: line, Column: col}
	p.prec.Set(symbol, precedence)
	return op, nil
}

// ParseImport parses `import STRING`.
func (p *Parser) ParseImport() (ast.Import, error) {
	p.Advance() // consume 'import'
	if p.cur.Type != token.STRING {
		return ast.Import{}, p.errorf("Expected a file name string after 'import'")
	}
	filename := p.cur.Ident
	resumeAt := int64(p.lex.Offset())
	p.Advance()
	return ast.Import{Filename: filename, ResumeAt: resumeAt}, nil
}

// ParseTopLevelExpr wraps a bare top-level expression in an anonymous,
// zero-argument function so it can be lowered and JIT-executed
// immediately like any other function.
func (p *Parser) ParseTopLevelExpr() (ast.Function, error) {
	expr, err := p.ParseExpression()
	if err != nil {
		return ast.Function{}, err
	}
	return ast.Function{
		Proto: ast.Prototype{Name: ""},
		Body:  ast.Block{Exprs: []ast.Node{expr}},
	}, nil
}
