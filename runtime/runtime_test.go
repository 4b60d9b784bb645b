package runtime

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtflang/wtfc/ssa"
)

func TestPreludeRegistersBuiltins(t *testing.T) {
	m := ssa.NewModule()
	var out bytes.Buffer
	require.NoError(t, Prelude(m, &out))

	for _, name := range []string{"pchar", "pdoub", "pline", "plines", "wait", "clrscr", "sin", "cos", "exit"} {
		_, ok := m.Lookup(name)
		assert.True(t, ok, "expected %s to be registered", name)
	}
}

func TestPrintingBuiltinsWriteToInjectedWriter(t *testing.T) {
	m := ssa.NewModule()
	var out bytes.Buffer
	require.NoError(t, Prelude(m, &out))

	fn, ok := m.Lookup("pchar")
	require.True(t, ok)
	fn.Extern([]float64{65})
	assert.Equal(t, "A", out.String())

	out.Reset()
	fn, ok = m.Lookup("pdoub")
	require.True(t, ok)
	fn.Extern([]float64{3.5})
	assert.Equal(t, "3.5", out.String())

	out.Reset()
	fn, ok = m.Lookup("pline")
	require.True(t, ok)
	fn.Extern(nil)
	assert.Equal(t, "\n", out.String())

	out.Reset()
	fn, ok = m.Lookup("plines")
	require.True(t, ok)
	fn.Extern([]float64{3})
	assert.Equal(t, "\n\n\n", out.String())
}

func TestSinCos(t *testing.T) {
	m := ssa.NewModule()
	var out bytes.Buffer
	require.NoError(t, Prelude(m, &out))

	sinFn, _ := m.Lookup("sin")
	assert.InDelta(t, 0.0, sinFn.Extern([]float64{0}), 1e-9)

	cosFn, _ := m.Lookup("cos")
	assert.InDelta(t, 1.0, cosFn.Extern([]float64{0}), 1e-9)
}
