package lsystem

import (
	"math"
	"testing"

	"github.com/hananel42/L-system-studio/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRule(t *testing.T) {
	reg := DefaultRegistry()

	r, err := NewRule(reg, 'F', "l > 2", " F(l/2) [+F] ", 0.5)
	require.NoError(t, err)
	assert.Equal(t, 'F', r.Trigger().Name())
	assert.Equal(t, "l > 2", r.Condition().Text())
	assert.Equal(t, 0.5, r.Probability())
	assert.Equal(t, 5, r.OutputSize())
	assert.Equal(t, "F(l > 2) -> F(l/2) [+F] : 0.5", r.String())

	body := r.Body()
	require.Len(t, body, 5)
	assert.Equal(t, "F(l/2)", body[0].String())
	assert.Equal(t, "[", body[1].String())
}

func TestNewRule_Errors(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		name    string
		trigger rune
		cond    string
		body    string
		p       float64
		check   func(t *testing.T, err error)
	}{
		{"unknown trigger", 'Q', "", "F", 1, func(t *testing.T, err error) {
			var unknown *UnknownSymbolError
			require.ErrorAs(t, err, &unknown)
			assert.Equal(t, 'Q', unknown.Name)
		}},
		{"unknown body symbol", 'F', "", "FQ", 1, func(t *testing.T, err error) {
			var unknown *UnknownSymbolError
			require.ErrorAs(t, err, &unknown)
			assert.Equal(t, 'Q', unknown.Name)
		}},
		{"probability above one", 'F', "", "F", 1.5, nil},
		{"negative probability", 'F', "", "F", -0.1, nil},
		{"NaN probability", 'F', "", "F", math.NaN(), nil},
		{"call in condition", 'F', "sin(l) > 0", "F", 1, func(t *testing.T, err error) {
			var call *expr.DisallowedCallError
			require.ErrorAs(t, err, &call)
		}},
		{"call in body", 'F', "", "F(max(l, 2))", 1, func(t *testing.T, err error) {
			var call *expr.DisallowedCallError
			require.ErrorAs(t, err, &call)
			assert.Equal(t, "max", call.Name)
		}},
		{"unbalanced body", 'F', "", "F(l", 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRule(reg, tt.trigger, tt.cond, tt.body, tt.p)
			require.Error(t, err)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestRule_TryFire(t *testing.T) {
	reg := DefaultRegistry()
	r, err := NewRule(reg, 'F', "l >= 10 && c == 0", "F(l-1, 'red')+", 0.5)
	require.NoError(t, err)

	f, _ := reg.Lookup('F')
	plus, _ := reg.Lookup('+')

	t.Run("fires", func(t *testing.T) {
		rng := &fixedRand{value: 0.5}
		out, ok, err := r.TryFire(NewSymbol(f), rng)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, out, 2)
		assert.Equal(t, "F(9, 'red')", out[0].String())
		assert.Equal(t, "+(1)", out[1].String())
		assert.Equal(t, 1, rng.draws)
	})

	t.Run("draw above probability", func(t *testing.T) {
		rng := &fixedRand{value: 0.51}
		_, ok, err := r.TryFire(NewSymbol(f), rng)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 1, rng.draws)
	})

	t.Run("other type still draws", func(t *testing.T) {
		rng := &fixedRand{value: 0}
		_, ok, err := r.TryFire(NewSymbol(plus), rng)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 1, rng.draws)
	})

	t.Run("guard false", func(t *testing.T) {
		sym := NewSymbol(f)
		sym.Params = sym.Params.With("l", expr.Number(3))
		_, ok, err := r.TryFire(sym, &fixedRand{})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("fresh parameter lists", func(t *testing.T) {
		a, _, _ := r.TryFire(NewSymbol(f), &fixedRand{})
		b, _, _ := r.TryFire(NewSymbol(f), &fixedRand{})
		a[0].Params[0].Value = expr.Number(100)
		assert.Equal(t, 9.0, b[0].Params.Get("l").Float())
		assert.Equal(t, 10.0, f.Defaults().Get("l").Float())
	})
}

func TestRule_SeesRedefinedDefaults(t *testing.T) {
	reg := DefaultRegistry()
	r, err := NewRule(reg, 'X', "", "F", 1)
	require.NoError(t, err)

	mustDefine(t, reg, 'F', "l=25", "forward(l)")
	x, _ := reg.Lookup('X')
	out, ok, err := r.TryFire(NewSymbol(x), &fixedRand{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "F(25)", out[0].String())
}

func TestRawSymbol_Compile(t *testing.T) {
	reg := NewRegistry()
	a := mustDefine(t, reg, 'A', "x=1, y=2", "")

	list, err := expr.CompileList("n*2, n*3, n*4")
	require.NoError(t, err)
	sym, err := RawSymbol{Type: a, Args: list}.Compile(expr.Map{"n": expr.Number(5)})
	require.NoError(t, err)
	assert.Equal(t, "A(10, 15)", sym.String(), "surplus values are dropped")

	list, err = expr.CompileList("7")
	require.NoError(t, err)
	sym, err = RawSymbol{Type: a, Args: list}.Compile(expr.Map{})
	require.NoError(t, err)
	assert.Equal(t, "A(7, 2)", sym.String(), "missing values keep defaults")

	reg.Undefine('A')
	_, err = RawSymbol{Type: a}.Compile(expr.Map{})
	var unknown *UnknownSymbolError
	assert.ErrorAs(t, err, &unknown)
}
