// Package ssa is the JIT backend: a small SSA intermediate
// representation with basic blocks, phi nodes and stack-slot
// alloca/load/store, a memory-to-register promotion pass, and a
// closure-compilation JIT that turns a Function into a native Go
// callable without an external assembler.
package ssa

// Op identifies the operation an Instr performs.
type Op int

const (
	OpConst  Op = iota // Imm
	OpParam            // ParamIndex
	OpAlloca           // Name; address identity only, never evaluated
	OpLoad             // Addr
	OpStore            // Addr, Value
	OpBinary           // Sign, A, B
	OpCmpLT            // A, B -> 0.0/1.0, unordered (NaN -> 1.0)
	OpCall             // Callee, Args
	OpPhi              // Incoming
	OpBr               // Target
	OpCondBr           // Cond, Then, Else
	OpRet              // Value
)

// PhiEdge pairs an incoming value with the predecessor block it flows
// from.
type PhiEdge struct {
	Pred  *Block
	Value *Instr
}

// Instr is both an SSA value and, for the control/store ops, a
// statement. Every producer of a float result is an *Instr; operands
// reference the producing instruction directly rather than a separate
// value type.
type Instr struct {
	ID    int
	Op    Op
	Block *Block

	Imm        float64 // OpConst
	ParamIndex int     // OpParam
	Name       string  // OpAlloca

	Addr  *Instr // OpLoad/OpStore: the alloca being addressed
	Value *Instr // OpStore: value stored; OpRet: value returned

	Sign byte   // OpBinary: '+' '-' '*' '/'
	A, B *Instr // OpBinary/OpCmpLT operands

	Callee *Function // OpCall
	Args   []*Instr  // OpCall

	Incoming []PhiEdge // OpPhi

	Target     *Block // OpBr
	Cond       *Instr // OpCondBr
	Then, Else *Block // OpCondBr

	// replacedBy is set by the mem2reg pass when this instruction's
	// value (a Load, or a trivial Phi) has been proven equal to
	// another value; readers must follow the chain via resolve().
	replacedBy *Instr
}

// resolve follows the replacedBy chain installed by mem2reg to the
// final defining instruction.
func resolve(i *Instr) *Instr {
	for i.replacedBy != nil {
		i = i.replacedBy
	}
	return i
}

// IsTerminator reports whether i ends a block.
func (i *Instr) IsTerminator() bool {
	switch i.Op {
	case OpBr, OpCondBr, OpRet:
		return true
	default:
		return false
	}
}
