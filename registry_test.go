package lsystem

import (
	"testing"

	"github.com/hananel42/L-system-studio/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, []rune{'+', '-', 'F', 'X', '[', ']'}, reg.Names())
	assert.Equal(t, 6, reg.Len())

	f, err := reg.Lookup('F')
	require.NoError(t, err)
	assert.Equal(t, "l=10, c=0", f.Defaults().String())
	assert.Equal(t, "forward(l,1,c)", f.Action().Text())
	assert.True(t, f.Defined())
}

func TestRegistry_Define(t *testing.T) {
	reg := NewRegistry()

	a, err := reg.Define('A', ParseParams("x=1"), "forward(x)")
	require.NoError(t, err)

	// Redefinition keeps identity.
	b, err := reg.Define('A', ParseParams("x=2, y"), "angle(y)")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, "x=2, y=0", a.Defaults().String())
	assert.Equal(t, "angle(y)", a.Action().Text())

	// A script that does not compile leaves the type untouched.
	_, err = reg.Define('A', nil, "forward(f(1))")
	var call *expr.DisallowedCallError
	require.ErrorAs(t, err, &call)
	assert.Equal(t, "angle(y)", a.Action().Text())
}

func TestRegistry_DefaultsAreCopies(t *testing.T) {
	reg := NewRegistry()
	a := mustDefine(t, reg, 'A', "x=1", "")

	d := a.Defaults()
	d[0].Value = expr.Number(9)
	assert.Equal(t, 1.0, a.Defaults().Get("x").Float())
}

func TestRegistry_Undefine(t *testing.T) {
	reg := DefaultRegistry()
	x, err := reg.Lookup('X')
	require.NoError(t, err)

	assert.True(t, reg.Undefine('X'))
	assert.False(t, reg.Undefine('X'))
	assert.False(t, x.Defined())

	_, err = reg.Lookup('X')
	var unknown *UnknownSymbolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, `unknown symbol type: 'X'`, err.Error())

	// Defining the key again creates a new type.
	y := mustDefine(t, reg, 'X', "", "")
	assert.NotSame(t, x, y)
	assert.False(t, x.Defined())
}
