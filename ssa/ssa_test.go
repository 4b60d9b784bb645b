package ssa

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAdd builds `func add(a, b) a + b end`.
func buildAdd(t *testing.T, m *Module) {
	t.Helper()
	fn, err := m.DeclarePrototype("add", []string{"a", "b"})
	require.NoError(t, err)
	b, err := m.BeginFunction(fn)
	require.NoError(t, err)

	a := b.Param(0)
	bb := b.Param(1)
	sum := b.BinOp('+', a, bb)
	b.Ret(sum)
}

func TestStraightLineArithmetic(t *testing.T) {
	m := NewModule()
	buildAdd(t, m)

	fn, err := m.JIT("add")
	require.NoError(t, err)
	assert.Equal(t, 7.0, fn([]float64{3, 4}))
}

// buildAbs builds a function using a mutable local and a conditional,
// equivalent to:
//
//	func abs(x)
//	  var r = x
//	  if x < 0 then
//	    r = 0 - x
//	  else
//	    r = x
//	  end
//	  r
//	end
func buildAbs(t *testing.T, m *Module) {
	t.Helper()
	fn, err := m.DeclarePrototype("abs", []string{"x"})
	require.NoError(t, err)
	b, err := m.BeginFunction(fn)
	require.NoError(t, err)

	x := b.Param(0)
	slot := b.Alloca("r")
	b.Store(slot, x)

	thenBlk := b.NewBlock("then")
	elseBlk := b.NewBlock("else")
	mergeBlk := b.NewBlock("merge")

	zero := b.ConstFloat(0)
	cond := b.CmpLT(x, zero)
	b.CondBr(cond, thenBlk, elseBlk)

	b.SetInsertPoint(thenBlk)
	neg := b.BinOp('-', zero, x)
	b.Store(slot, neg)
	b.Br(mergeBlk)

	b.SetInsertPoint(elseBlk)
	b.Store(slot, x)
	b.Br(mergeBlk)

	b.SetInsertPoint(mergeBlk)
	result := b.Load(slot)
	b.Ret(result)
}

func TestConditionalWithMutableSlot(t *testing.T) {
	m := NewModule()
	buildAbs(t, m)

	fn, err := m.JIT("abs")
	require.NoError(t, err)
	assert.Equal(t, 5.0, fn([]float64{-5}))
	assert.Equal(t, 5.0, fn([]float64{5}))
	assert.Equal(t, 0.0, fn([]float64{0}))
}

// buildSum builds a loop-accumulator function that tests its exit
// condition before each iteration, summing i = 1..n:
//
//	acc = 0; i = 1
//	loop:  if n < i goto after
//	body:  acc = acc + i; i = i + 1; goto loop
//	after: return acc
func buildSum(t *testing.T, m *Module) {
	t.Helper()
	fn, err := m.DeclarePrototype("sumto", []string{"n"})
	require.NoError(t, err)
	b, err := m.BeginFunction(fn)
	require.NoError(t, err)

	n := b.Param(0)
	accSlot := b.Alloca("acc")
	iterSlot := b.Alloca("i")
	b.Store(accSlot, b.ConstFloat(0))
	b.Store(iterSlot, b.ConstFloat(1))

	loopBlk := b.NewBlock("loop")
	bodyBlk := b.NewBlock("body")
	afterBlk := b.NewBlock("after")

	b.Br(loopBlk)

	b.SetInsertPoint(loopBlk)
	iCur := b.Load(iterSlot)
	cond := b.CmpLT(n, iCur) // n < i  => loop body runs while NOT (n < i)
	b.CondBr(cond, afterBlk, bodyBlk)

	b.SetInsertPoint(bodyBlk)
	accCur := b.Load(accSlot)
	iBody := b.Load(iterSlot)
	newAcc := b.BinOp('+', accCur, iBody)
	b.Store(accSlot, newAcc)
	nextI := b.BinOp('+', iBody, b.ConstFloat(1))
	b.Store(iterSlot, nextI)
	b.Br(loopBlk)

	b.SetInsertPoint(afterBlk)
	final := b.Load(accSlot)
	b.Ret(final)
}

func TestLoopWithMem2Reg(t *testing.T) {
	m := NewModule()
	buildSum(t, m)

	fn, err := m.JIT("sumto")
	require.NoError(t, err)
	assert.Equal(t, 15.0, fn([]float64{5})) // 1+2+3+4+5
	assert.Equal(t, 0.0, fn([]float64{0}))
}

func TestMem2RegPromotesLoopSlots(t *testing.T) {
	m := NewModule()
	buildSum(t, m)

	fn, ok := m.Lookup("sumto")
	require.True(t, ok)
	require.NoError(t, Verify(fn))
	RunMem2Reg(fn)

	for _, blk := range fn.Blocks {
		for _, i := range blk.Instrs {
			if i.Op == OpLoad {
				assert.NotNil(t, i.replacedBy, "expected load %q to be promoted", blk.Name)
			}
		}
	}
}

func TestExternCall(t *testing.T) {
	m := NewModule()
	require.NoError(t, m.RegisterExtern("double", 1, func(args []float64) float64 {
		return args[0] * 2
	}))

	fn, err := m.DeclarePrototype("useDouble", []string{"x"})
	require.NoError(t, err)
	b, err := m.BeginFunction(fn)
	require.NoError(t, err)
	x := b.Param(0)
	doubleFn, _ := m.Lookup("double")
	b.Ret(b.Call(doubleFn, []*Instr{x}))

	compiled, err := m.JIT("useDouble")
	require.NoError(t, err)
	assert.Equal(t, 8.0, compiled([]float64{4}))
}

func TestRedefinitionErrors(t *testing.T) {
	m := NewModule()
	fn, err := m.DeclarePrototype("f", []string{"a"})
	require.NoError(t, err)
	_, err = m.BeginFunction(fn)
	require.NoError(t, err)

	_, err = m.BeginFunction(fn)
	require.Error(t, err)

	_, err = m.DeclarePrototype("f", []string{"a", "b"})
	require.Error(t, err)
}

func TestExternRedeclarationWhenIdenticalIsSilent(t *testing.T) {
	m := NewModule()
	require.NoError(t, m.RegisterExtern("sin", 1, func(args []float64) float64 { return args[0] }))
	require.NoError(t, m.RegisterExtern("sin", 1, func(args []float64) float64 { return args[0] }))

	_, err := m.DeclarePrototype("sin", []string{"x"})
	require.NoError(t, err)
}

// buildCmpLT builds `func cmplt(a, b) a < b end`.
func buildCmpLT(t *testing.T, m *Module) {
	t.Helper()
	fn, err := m.DeclarePrototype("cmplt", []string{"a", "b"})
	require.NoError(t, err)
	b, err := m.BeginFunction(fn)
	require.NoError(t, err)
	b.Ret(b.CmpLT(b.Param(0), b.Param(1)))
}

// buildNaNBranch builds a function that branches on 0/0 (NaN),
// returning 1 from the "then" edge and 2 from the "else" edge.
func buildNaNBranch(t *testing.T, m *Module) {
	t.Helper()
	fn, err := m.DeclarePrototype("nanBranch", nil)
	require.NoError(t, err)
	b, err := m.BeginFunction(fn)
	require.NoError(t, err)

	zero := b.ConstFloat(0)
	nan := b.BinOp('/', zero, zero)

	thenBlk := b.NewBlock("then")
	elseBlk := b.NewBlock("else")
	b.CondBr(nan, thenBlk, elseBlk)

	b.SetInsertPoint(thenBlk)
	b.Ret(b.ConstFloat(1))

	b.SetInsertPoint(elseBlk)
	b.Ret(b.ConstFloat(2))
}

// TestNaNBoundary pins the two halves of the NaN-handling contract:
// `<` is unordered (NaN counts as less-than anything), while a branch
// condition's truthy test is ordered (NaN never takes the "then"
// edge), matching FCmpULT/FCmpONE in the reference codegen.
func TestNaNBoundary(t *testing.T) {
	m := NewModule()
	buildCmpLT(t, m)
	buildNaNBranch(t, m)

	cmplt, err := m.JIT("cmplt")
	require.NoError(t, err)
	nan := math.NaN()
	assert.Equal(t, 1.0, cmplt([]float64{nan, 1}), "NaN < 1 should be unordered-true")
	assert.Equal(t, 1.0, cmplt([]float64{1, nan}), "1 < NaN should be unordered-true")
	assert.Equal(t, 0.0, cmplt([]float64{1, 2}), "ordinary comparisons are unaffected")

	nanBranch, err := m.JIT("nanBranch")
	require.NoError(t, err)
	assert.Equal(t, 2.0, nanBranch(nil), "a NaN condition must take the else edge")
}

func TestVerifyRejectsMissingTerminator(t *testing.T) {
	m := NewModule()
	fn, err := m.DeclarePrototype("bad", nil)
	require.NoError(t, err)
	_, err = m.BeginFunction(fn)
	require.NoError(t, err)
	fn.Entry.Instrs = append(fn.Entry.Instrs, &Instr{Op: OpConst, Imm: 1})

	require.Error(t, Verify(fn))
}
