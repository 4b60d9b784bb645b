package parser

import (
	"github.com/wtflang/wtfc/ast"
	"github.com/wtflang/wtfc/token"
)

// parseConditional parses one or more if/elsif branches terminated by
// a mandatory else block:
//
//	if COND then BLOCK (elsif COND then BLOCK)* else BLOCK end
func (p *Parser) parseConditional() (ast.Node, error) {
	var branches []ast.Branch

	for p.cur.Type == token.IF || p.cur.Type == token.ELSIF {
		p.Advance()
		cond, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectType(token.THEN, "'then'"); err != nil {
			return nil, err
		}
		body, err := p.parseBlockUntil(token.ELSIF, token.ELSE)
		if err != nil {
			return nil, err
		}
		branches = append(branches, ast.Branch{Cond: cond, Body: body})
	}

	if err := p.expectType(token.ELSE, "'else'"); err != nil {
		return nil, err
	}
	elseBody, err := p.parseBlockUntil(token.END)
	if err != nil {
		return nil, err
	}
	if err := p.expectType(token.END, "'end'"); err != nil {
		return nil, err
	}

	return ast.Conditional{Branches: branches, Else: elseBody}, nil
}

// parseFor parses `for IDENT = init, end [, step] in BLOCK end`.
func (p *Parser) parseFor() (ast.Node, error) {
	p.Advance() // consume 'for'
	if p.cur.Type != token.IDENT {
		return nil, p.errorf("Expected identifier after 'for'")
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
	if err := p.expect(',', ","); err != nil {
		return nil, err
	}
	end, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	var step ast.Node
	if p.cur.Is(',') {
		p.Advance()
		step, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
	}

	if err := p.expectType(token.IN, "'in'"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockUntil(token.END)
	if err != nil {
		return nil, err
	}
	if err := p.expectType(token.END, "'end'"); err != nil {
		return nil, err
	}

	return ast.For{Iter: name, Init: init, End: end, Step: step, Body: body}, nil
}

// parseBlockUntil parses a sequence of semicolon/newline-separated
// expressions up to (but not consuming) a token whose type is one of
// terminators.
func (p *Parser) parseBlockUntil(terminators ...token.Type) (ast.Block, error) {
	var exprs []ast.Node
	for {
		if p.cur.Type == token.EOF {
			return ast.Block{}, p.errorf("Unexpected EOF inside block")
		}
		for _, t := range terminators {
			if p.cur.Type == t {
				return ast.Block{Exprs: exprs}, nil
			}
		}
		if p.cur.Is(';') {
			p.Advance()
			continue
		}
		expr, err := p.ParseExpression()
		if err != nil {
			return ast.Block{}, err
		}
		exprs = append(exprs, expr)
	}
}
