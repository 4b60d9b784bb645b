package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtflang/wtfc/ast"
	"github.com/wtflang/wtfc/ssa"
)

func jitRun(t *testing.T, m *ssa.Module, name string, args []float64) float64 {
	t.Helper()
	fn, err := m.JIT(name)
	require.NoError(t, err)
	return fn(args)
}

func TestLowerArithmeticFunction(t *testing.T) {
	m := ssa.NewModule()
	c := New(m)

	fn := ast.Function{
		Proto: ast.Prototype{Name: "add", Params: []string{"a", "b"}},
		Body: ast.Block{Exprs: []ast.Node{
			ast.Binary{Op: '+', Lhs: ast.Variable{Name: "a"}, Rhs: ast.Variable{Name: "b"}},
		}},
	}
	_, err := c.LowerFunction(fn)
	require.NoError(t, err)

	assert.Equal(t, 7.0, jitRun(t, m, "add", []float64{3, 4}))
}

func TestLowerAssignment(t *testing.T) {
	m := ssa.NewModule()
	c := New(m)

	fn := ast.Function{
		Proto: ast.Prototype{Name: "f", Params: []string{"x"}},
		Body: ast.Block{Exprs: []ast.Node{
			ast.Binary{Op: '=', Lhs: ast.Variable{Name: "x"}, Rhs: ast.Number{Value: 99}},
			ast.Variable{Name: "x"},
		}},
	}
	_, err := c.LowerFunction(fn)
	require.NoError(t, err)
	assert.Equal(t, 99.0, jitRun(t, m, "f", []float64{1}))
}

func TestAssignmentRequiresVariableLHS(t *testing.T) {
	m := ssa.NewModule()
	c := New(m)

	fn := ast.Function{
		Proto: ast.Prototype{Name: "bad"},
		Body: ast.Block{Exprs: []ast.Node{
			ast.Binary{Op: '=', Lhs: ast.Number{Value: 1}, Rhs: ast.Number{Value: 2}},
		}},
	}
	_, err := c.LowerFunction(fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Left hand of assignment must be a variable")
}

func TestUnknownVariableError(t *testing.T) {
	m := ssa.NewModule()
	c := New(m)
	fn := ast.Function{
		Proto: ast.Prototype{Name: "f"},
		Body:  ast.Block{Exprs: []ast.Node{ast.Variable{Name: "nope"}}},
	}
	_, err := c.LowerFunction(fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown variable 'nope'")
}

func TestCallArityChecked(t *testing.T) {
	m := ssa.NewModule()
	c := New(m)

	_, err := c.LowerFunction(ast.Function{
		Proto: ast.Prototype{Name: "one", Params: []string{"a"}},
		Body:  ast.Block{Exprs: []ast.Node{ast.Variable{Name: "a"}}},
	})
	require.NoError(t, err)

	_, err = c.LowerFunction(ast.Function{
		Proto: ast.Prototype{Name: "caller"},
		Body: ast.Block{Exprs: []ast.Node{
			ast.Call{Callee: "one", Args: []ast.Node{ast.Number{Value: 1}, ast.Number{Value: 2}}},
		}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Wrong number of arguments")
}

func TestConditionalLowering(t *testing.T) {
	m := ssa.NewModule()
	c := New(m)

	fn := ast.Function{
		Proto: ast.Prototype{Name: "sign", Params: []string{"x"}},
		Body: ast.Block{Exprs: []ast.Node{
			ast.Conditional{
				Branches: []ast.Branch{
					{Cond: ast.Binary{Op: '<', Lhs: ast.Variable{Name: "x"}, Rhs: ast.Number{Value: 0}},
						Body: ast.Block{Exprs: []ast.Node{ast.Unary{Op: '-', Operand: ast.Number{Value: 1}}}}},
				},
				Else: ast.Block{Exprs: []ast.Node{ast.Number{Value: 1}}},
			},
		}},
	}
	_, err := c.LowerFunction(ast.Function{
		Proto: ast.Prototype{Name: "unary-", Params: []string{"a"}},
		Body:  ast.Block{Exprs: []ast.Node{ast.Binary{Op: '-', Lhs: ast.Number{Value: 0}, Rhs: ast.Variable{Name: "a"}}}},
	})
	require.NoError(t, err)

	_, err = c.LowerFunction(fn)
	require.NoError(t, err)

	assert.Equal(t, -1.0, jitRun(t, m, "sign", []float64{-5}))
	assert.Equal(t, 1.0, jitRun(t, m, "sign", []float64{5}))
}

func TestForLowering(t *testing.T) {
	m := ssa.NewModule()
	c := New(m)

	fn := ast.Function{
		Proto: ast.Prototype{Name: "sumto", Params: []string{"n"}},
		Body: ast.Block{Exprs: []ast.Node{
			ast.Var{Name: "acc", Init: ast.Number{Value: 0}},
			ast.For{
				Iter: "i",
				Init: ast.Number{Value: 1},
				End: ast.Binary{Op: '<', Lhs: ast.Variable{Name: "i"},
					Rhs: ast.Binary{Op: '+', Lhs: ast.Variable{Name: "n"}, Rhs: ast.Number{Value: 1}}},
				Body: ast.Block{Exprs: []ast.Node{
					ast.Binary{Op: '=', Lhs: ast.Variable{Name: "acc"},
						Rhs: ast.Binary{Op: '+', Lhs: ast.Variable{Name: "acc"}, Rhs: ast.Variable{Name: "i"}}},
				}},
			},
			ast.Variable{Name: "acc"},
		}},
	}
	_, err := c.LowerFunction(fn)
	require.NoError(t, err)
	assert.Equal(t, 15.0, jitRun(t, m, "sumto", []float64{5}))
}

func TestUserDefinedBinaryOperator(t *testing.T) {
	m := ssa.NewModule()
	c := New(m)

	_, err := c.LowerOperator(ast.Operator{
		Symbol: '|', Precedence: 30, Params: []string{"a", "b"},
		Body: ast.Block{Exprs: []ast.Node{ast.Binary{Op: '+', Lhs: ast.Variable{Name: "a"}, Rhs: ast.Variable{Name: "b"}}}},
	})
	require.NoError(t, err)

	_, err = c.LowerFunction(ast.Function{
		Proto: ast.Prototype{Name: "useOp"},
		Body: ast.Block{Exprs: []ast.Node{
			ast.Binary{Op: '|', Lhs: ast.Number{Value: 3}, Rhs: ast.Number{Value: 4}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, jitRun(t, m, "useOp", nil))
}

func TestRedefinitionOfFunctionWithBody(t *testing.T) {
	m := ssa.NewModule()
	c := New(m)
	body := ast.Block{Exprs: []ast.Node{ast.Number{Value: 1}}}

	_, err := c.LowerFunction(ast.Function{Proto: ast.Prototype{Name: "f"}, Body: body})
	require.NoError(t, err)

	_, err = c.LowerFunction(ast.Function{Proto: ast.Prototype{Name: "f"}, Body: body})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Redefinition of function")
}

func TestExternThenCall(t *testing.T) {
	m := ssa.NewModule()
	require.NoError(t, m.RegisterExtern("sin", 1, func(args []float64) float64 { return args[0] }))

	c := New(m)
	_, err := c.LowerExtern(ast.Prototype{Name: "sin", Params: []string{"x"}})
	require.NoError(t, err)

	_, err = c.LowerFunction(ast.Function{
		Proto: ast.Prototype{Name: "useSin", Params: []string{"x"}},
		Body:  ast.Block{Exprs: []ast.Node{ast.Call{Callee: "sin", Args: []ast.Node{ast.Variable{Name: "x"}}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2.5, jitRun(t, m, "useSin", []float64{2.5}))
}
