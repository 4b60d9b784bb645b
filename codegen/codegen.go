// Package codegen lowers the tagged-sum AST into the ssa package's
// intermediate representation: one Codegen per compilation session,
// shared across every top-level construct and every nested driver
// spawned by an import, so that functions, externs and operators
// defined in one file are visible while compiling another.
package codegen

import (
	"github.com/wtflang/wtfc/ast"
	"github.com/wtflang/wtfc/ssa"
)

// Codegen holds the backend module and the NamedValues symbol table:
// the mapping from a currently-in-scope name to the stack slot backing
// it. NamedValues is cleared on entry to every function; a for loop's
// induction variable is restored to its prior binding (or removed)
// when the loop's scope exits, while a var binding lasts until the end
// of the function.
type Codegen struct {
	Module *ssa.Module

	b     *ssa.Builder
	named map[string]*ssa.Instr
}

// New returns a Codegen lowering into module.
func New(module *ssa.Module) *Codegen {
	return &Codegen{Module: module}
}

// LowerExtern declares proto in the module without a body. A repeated
// extern naming a function already declared or defined with the same
// arity is accepted silently (ssa.Module.DeclarePrototype); only an
// arity mismatch is an error.
func (c *Codegen) LowerExtern(proto ast.Prototype) (*ssa.Function, error) {
	return c.lowerPrototype(proto)
}

// LowerFunction lowers a full function definition: prototype, entry
// block with parameter slots, body, and return. The function is
// erased from the module if lowering or verifying its body fails, so
// a half-built definition never lingers for a later call to resolve
// against.
func (c *Codegen) LowerFunction(fn ast.Function) (*ssa.Function, error) {
	ssaFn, err := c.lowerPrototype(fn.Proto)
	if err != nil {
		return nil, err
	}

	b, err := c.Module.BeginFunction(ssaFn)
	if err != nil {
		return nil, errorf(fn.Proto.Line, fn.Proto.Column, "Redefinition of function '%s'", fn.Proto.Name)
	}

	c.named = make(map[string]*ssa.Instr, len(fn.Proto.Params))
	c.b = b
	for i, name := range fn.Proto.Params {
		arg := b.Param(i)
		slot := b.Alloca(name)
		b.Store(slot, arg)
		c.named[name] = slot
	}

	bodyVal, err := c.lowerBlock(fn.Body)
	if err != nil {
		c.Module.EraseFunction(fn.Proto.Name)
		return nil, err
	}
	b.Ret(bodyVal)

	if err := ssa.Verify(ssaFn); err != nil {
		c.Module.EraseFunction(fn.Proto.Name)
		return nil, err
	}
	return ssaFn, nil
}

// LowerOperator lowers an `op` declaration exactly like a function
// named "binary<sym>" or "unary<sym>" (ast.Operator.FuncName); the
// precedence-table side effect is the parser's responsibility, not
// codegen's.
func (c *Codegen) LowerOperator(op ast.Operator) (*ssa.Function, error) {
	proto := ast.Prototype{Name: op.FuncName(), Params: op.Params, Line: op.Line, Column: op.Column}
	return c.LowerFunction(ast.Function{Proto: proto, Body: op.Body})
}

func (c *Codegen) lowerPrototype(proto ast.Prototype) (*ssa.Function, error) {
	fn, err := c.Module.DeclarePrototype(proto.Name, proto.Params)
	if err != nil {
		return nil, errorf(proto.Line, proto.Column, "Redefinition of function '%s': %s", proto.Name, err)
	}
	return fn, nil
}

// lowerBlock lowers every expression in order, yielding the value of
// the last one (0.0 for an empty block).
func (c *Codegen) lowerBlock(blk ast.Block) (*ssa.Instr, error) {
	var last *ssa.Instr
	for _, expr := range blk.Exprs {
		v, err := c.lowerExpr(expr)
		if err != nil {
			return nil, err
		}
		last = v
	}
	if last == nil {
		last = c.b.ConstFloat(0)
	}
	return last, nil
}

// lowerExpr dispatches on node's concrete type — a static type switch
// over the tagged-sum AST, replacing double-dispatch visitors.
func (c *Codegen) lowerExpr(node ast.Node) (*ssa.Instr, error) {
	switch n := node.(type) {
	case ast.Number:
		return c.b.ConstFloat(n.Value), nil
	case ast.Variable:
		return c.lowerVariable(n)
	case ast.Binary:
		return c.lowerBinary(n)
	case ast.Unary:
		return c.lowerUnary(n)
	case ast.Call:
		return c.lowerCall(n)
	case ast.Conditional:
		return c.lowerConditional(n)
	case ast.For:
		return c.lowerFor(n)
	case ast.Var:
		return c.lowerVar(n)
	case ast.Block:
		return c.lowerBlock(n)
	default:
		return nil, errorf(0, 0, "codegen: cannot lower %T as an expression", node)
	}
}

func (c *Codegen) lowerVariable(n ast.Variable) (*ssa.Instr, error) {
	slot, ok := c.named[n.Name]
	if !ok {
		return nil, errorf(0, 0, "Unknown variable '%s'", n.Name)
	}
	return c.b.Load(slot), nil
}

func (c *Codegen) lowerBinary(n ast.Binary) (*ssa.Instr, error) {
	if n.Op == '=' {
		target, ok := n.Lhs.(ast.Variable)
		if !ok {
			return nil, errorf(n.Line, n.Column, "Left hand of assignment must be a variable")
		}
		slot, ok := c.named[target.Name]
		if !ok {
			return nil, errorf(n.Line, n.Column, "Unknown variable '%s'", target.Name)
		}
		val, err := c.lowerExpr(n.Rhs)
		if err != nil {
			return nil, err
		}
		c.b.Store(slot, val)
		return val, nil
	}

	lhs, err := c.lowerExpr(n.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := c.lowerExpr(n.Rhs)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case '+', '-', '*', '/':
		return c.b.BinOp(n.Op, lhs, rhs), nil
	case '<':
		return c.b.CmpLT(lhs, rhs), nil
	default:
		fn, ok := c.Module.Lookup("binary" + string(n.Op))
		if !ok {
			return nil, errorf(n.Line, n.Column, "Unknown binary operator '%c'", n.Op)
		}
		if fn.Arity() != 2 {
			return nil, errorf(n.Line, n.Column, "Wrong number of arguments to operator '%c'", n.Op)
		}
		return c.b.Call(fn, []*ssa.Instr{lhs, rhs}), nil
	}
}

func (c *Codegen) lowerUnary(n ast.Unary) (*ssa.Instr, error) {
	fn, ok := c.Module.Lookup("unary" + string(n.Op))
	if !ok {
		return nil, errorf(n.Line, n.Column, "Unknown unary operator '%c'", n.Op)
	}
	if fn.Arity() != 1 {
		return nil, errorf(n.Line, n.Column, "Wrong number of arguments to operator '%c'", n.Op)
	}
	operand, err := c.lowerExpr(n.Operand)
	if err != nil {
		return nil, err
	}
	return c.b.Call(fn, []*ssa.Instr{operand}), nil
}

func (c *Codegen) lowerCall(n ast.Call) (*ssa.Instr, error) {
	fn, ok := c.Module.Lookup(n.Callee)
	if !ok {
		return nil, errorf(n.Line, n.Column, "Unknown function referenced '%s'", n.Callee)
	}
	if fn.Arity() != len(n.Args) {
		return nil, errorf(n.Line, n.Column, "Wrong number of arguments for '%s'", n.Callee)
	}
	args := make([]*ssa.Instr, len(n.Args))
	for i, a := range n.Args {
		v, err := c.lowerExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return c.b.Call(fn, args), nil
}

// lowerConditional builds a merge block with a phi whose arity equals
// len(branches)+1: one (value, block) pair per if/elsif branch plus
// the mandatory else.
func (c *Codegen) lowerConditional(n ast.Conditional) (*ssa.Instr, error) {
	merge := c.b.NewBlock("merge")

	type incoming struct {
		val *ssa.Instr
		blk *ssa.Block
	}
	var edges []incoming

	for _, branch := range n.Branches {
		cond, err := c.lowerExpr(branch.Cond)
		if err != nil {
			return nil, err
		}
		then := c.b.NewBlock("then")
		next := c.b.NewBlock("next")
		c.b.CondBr(cond, then, next)

		c.b.SetInsertPoint(then)
		val, err := c.lowerBlock(branch.Body)
		if err != nil {
			return nil, err
		}
		edges = append(edges, incoming{val, c.b.Block()})
		c.b.Br(merge)

		c.b.SetInsertPoint(next)
	}

	elseVal, err := c.lowerBlock(n.Else)
	if err != nil {
		return nil, err
	}
	edges = append(edges, incoming{elseVal, c.b.Block()})
	c.b.Br(merge)

	c.b.SetInsertPoint(merge)
	phi := c.b.Phi(merge)
	for _, e := range edges {
		phi.AddIncoming(e.blk, e.val)
	}
	return phi, nil
}

// lowerFor lowers a do-while-shaped loop: the body runs once before
// the end condition is ever tested, matching the reference language's
// semantics. The loop's own value is the last value its body produced
// (bodyVal dominates afterloop, whose only predecessor is loop).
func (c *Codegen) lowerFor(n ast.For) (*ssa.Instr, error) {
	slot := c.b.Alloca(n.Iter)
	initVal, err := c.lowerExpr(n.Init)
	if err != nil {
		return nil, err
	}
	c.b.Store(slot, initVal)

	prior, hadPrior := c.named[n.Iter]
	c.named[n.Iter] = slot
	defer func() {
		if hadPrior {
			c.named[n.Iter] = prior
		} else {
			delete(c.named, n.Iter)
		}
	}()

	loop := c.b.NewBlock("loop")
	c.b.Br(loop)
	c.b.SetInsertPoint(loop)

	bodyVal, err := c.lowerBlock(n.Body)
	if err != nil {
		return nil, err
	}

	var stepVal *ssa.Instr
	if n.Step != nil {
		stepVal, err = c.lowerExpr(n.Step)
		if err != nil {
			return nil, err
		}
	} else {
		stepVal = c.b.ConstFloat(1)
	}
	cur := c.b.Load(slot)
	next := c.b.BinOp('+', cur, stepVal)
	c.b.Store(slot, next)

	endVal, err := c.lowerExpr(n.End)
	if err != nil {
		return nil, err
	}

	after := c.b.NewBlock("afterloop")
	c.b.CondBr(endVal, loop, after)
	c.b.SetInsertPoint(after)

	return bodyVal, nil
}

func (c *Codegen) lowerVar(n ast.Var) (*ssa.Instr, error) {
	initVal, err := c.lowerExpr(n.Init)
	if err != nil {
		return nil, err
	}
	slot := c.b.Alloca(n.Name)
	c.b.Store(slot, initVal)
	c.named[n.Name] = slot
	return initVal, nil
}
