package ssa

// Builder emits instructions into a function's blocks, one insertion
// point at a time, mirroring an IRBuilder: it never validates
// semantics (arity, redefinition) itself — codegen does that before
// calling in.
type Builder struct {
	fn  *Function
	cur *Block
}

// NewBuilder returns a builder for fn positioned at block at, for use
// when BeginFunction already ran.
func NewBuilder(fn *Function, at *Block) *Builder {
	return &Builder{fn: fn, cur: at}
}

// Block returns the current insertion block.
func (b *Builder) Block() *Block { return b.cur }

// Entry returns the function's entry block, where every Alloca is
// placed regardless of the current insertion point.
func (b *Builder) Entry() *Block { return b.fn.Entry }

// NewBlock creates a block owned by the builder's function, without
// changing the insertion point.
func (b *Builder) NewBlock(name string) *Block { return b.fn.newBlock(name) }

// SetInsertPoint redirects subsequent emission to blk.
func (b *Builder) SetInsertPoint(blk *Block) { b.cur = blk }

// Param returns the instruction representing the idx'th parameter.
// Codegen calls this once per parameter at function entry and binds
// the result in its symbol table; there is no separate "declare
// params" step.
func (b *Builder) Param(idx int) *Instr {
	i := &Instr{Op: OpParam, ParamIndex: idx}
	b.cur.append(i)
	return i
}

// ConstFloat emits a floating-point literal.
func (b *Builder) ConstFloat(v float64) *Instr {
	i := &Instr{Op: OpConst, Imm: v}
	b.cur.append(i)
	return i
}

// Alloca reserves a named stack slot in the function's entry block
// (ahead of its terminator, if it already has one), returning the
// address value Load/Store operate on.
func (b *Builder) Alloca(name string) *Instr {
	i := &Instr{Op: OpAlloca, Name: name}
	i.ID = b.fn.allocID()
	entry := b.fn.Entry
	i.Block = entry
	if term := entry.Terminator(); term != nil {
		n := len(entry.Instrs)
		entry.Instrs = append(entry.Instrs[:n-1:n-1], i, term)
	} else {
		entry.Instrs = append(entry.Instrs, i)
	}
	return i
}

// Load reads the current value of a stack slot.
func (b *Builder) Load(addr *Instr) *Instr {
	i := &Instr{Op: OpLoad, Addr: addr}
	b.cur.append(i)
	return i
}

// Store writes val into a stack slot.
func (b *Builder) Store(addr, val *Instr) *Instr {
	i := &Instr{Op: OpStore, Addr: addr, Value: val}
	b.cur.append(i)
	return i
}

// BinOp emits a binary float operation for sign in {'+','-','*','/'}.
func (b *Builder) BinOp(sign byte, a, bb *Instr) *Instr {
	i := &Instr{Op: OpBinary, Sign: sign, A: a, B: bb}
	b.cur.append(i)
	return i
}

// CmpLT emits an unordered less-than comparison (true, i.e. 1.0, if
// either operand is NaN), collapsed to a 0.0/1.0 float result — the
// backend contract spec'd for `<`, matching FCmpULT in the reference
// codegen. The complementary condbr truthy test is ordered
// not-equal-to-zero instead, so a NaN loop/if condition always takes
// the "else"/loop-exit edge.
func (b *Builder) CmpLT(a, bb *Instr) *Instr {
	i := &Instr{Op: OpCmpLT, A: a, B: bb}
	b.cur.append(i)
	return i
}

// Call emits a call to callee with the given argument values.
func (b *Builder) Call(callee *Function, args []*Instr) *Instr {
	i := &Instr{Op: OpCall, Callee: callee, Args: args}
	b.cur.append(i)
	return i
}

// Phi creates a phi instruction at the head of block and returns it;
// incoming edges are added afterward with AddIncoming.
func (b *Builder) Phi(block *Block) *Instr {
	return block.prependPhi()
}

// AddIncoming records that when control reaches the phi's block from
// pred, its value is v.
func (i *Instr) AddIncoming(pred *Block, v *Instr) {
	i.Incoming = append(i.Incoming, PhiEdge{Pred: pred, Value: v})
}

// Br emits an unconditional branch, terminating the current block.
func (b *Builder) Br(target *Block) *Instr {
	i := &Instr{Op: OpBr, Target: target}
	b.cur.append(i)
	addPred(target, b.cur)
	return i
}

// CondBr emits a conditional branch, terminating the current block.
// cond is treated as true when non-zero.
func (b *Builder) CondBr(cond *Instr, then, els *Block) *Instr {
	i := &Instr{Op: OpCondBr, Cond: cond, Then: then, Else: els}
	b.cur.append(i)
	addPred(then, b.cur)
	addPred(els, b.cur)
	return i
}

// Ret emits a return, terminating the current block.
func (b *Builder) Ret(v *Instr) *Instr {
	i := &Instr{Op: OpRet, Value: v}
	b.cur.append(i)
	return i
}
