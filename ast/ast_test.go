package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperatorFuncName(t *testing.T) {
	unary := Operator{Symbol: '!', Params: []string{"a"}}
	assert.Equal(t, "unary!", unary.FuncName())

	binary := Operator{Symbol: ':', Params: []string{"a", "b"}}
	assert.Equal(t, "binary:", binary.FuncName())
}

func TestNodesSatisfyNode(t *testing.T) {
	var nodes []Node = []Node{
		Number{Value: 1},
		Variable{Name: "x"},
		Binary{Op: '+'},
		Unary{Op: '-'},
		Call{Callee: "f"},
		Conditional{},
		For{},
		Var{Name: "x"},
		Block{},
		Prototype{Name: "f"},
		Function{},
		Operator{},
		Import{Filename: "a"},
	}
	assert.Len(t, nodes, 13)
}
