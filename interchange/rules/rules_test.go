package rules

import (
	"testing"

	lsystem "github.com/hananel42/L-system-studio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Definition
	}{
		{"F -> FF", Definition{Trigger: 'F', Body: "FF", Probability: 1}},
		{"  X->F[+X]F[-X]+X : 0.25 ", Definition{Trigger: 'X', Body: "F[+X]F[-X]+X", Probability: 0.25}},
		{"A(n < 4) -> F(n*10) A(n+1)", Definition{Trigger: 'A', Condition: "n < 4", Body: "F(n*10) A(n+1)", Probability: 1}},
		{"A( d>5 && c != 0 ) -> B : .5", Definition{Trigger: 'A', Condition: "d>5 && c != 0", Body: "B", Probability: 0.5}},
		{"B : x > 1 and not y -> F : 1", Definition{Trigger: 'B', Condition: "x > 1 and not y", Body: "F", Probability: 1}},
		{"F -> F(l > 2 ? l/2 : l)", Definition{Trigger: 'F', Body: "F(l > 2 ? l/2 : l)", Probability: 1}},
		{"+ -> -", Definition{Trigger: '+', Body: "-", Probability: 1}},
		{"X ->", Definition{Trigger: 'X', Probability: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok, err := ParseLine(tt.line)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine_Skipped(t *testing.T) {
	for _, line := range []string{"", "   ", "# comment", "  # F -> FF"} {
		_, ok, err := ParseLine(line)
		require.NoError(t, err)
		assert.False(t, ok, line)
	}
}

func TestParse(t *testing.T) {
	text := "# plant\nX -> F+[[X]-X]-F[-FX]+X\n\nF -> FF : 0.9\r\n"
	defs, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, 2, defs[0].Line)
	assert.Equal(t, 4, defs[1].Line)
	assert.Equal(t, 0.9, defs[1].Probability)
	assert.Equal(t, "F : True -> FF : 0.9", defs[1].String())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("F -> FF\nthis is not a rule\n")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, "this is not a rule", pe.Text)
	assert.Contains(t, err.Error(), "line 2")

	_, err = Parse("F -> FF : 1.2.3")
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Line)
}

func TestBuild(t *testing.T) {
	reg := lsystem.DefaultRegistry()
	rs, err := Build(reg, "X -> F[+X]F[-X]+X\nF(l > 1) -> F(l/2)F(l/2) : 0.5")
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, 'X', rs[0].Trigger().Name())
	assert.Equal(t, "F(l > 1) -> F(l/2)F(l/2) : 0.5", rs[1].String())
}

func TestBuild_CompileErrorNamesLine(t *testing.T) {
	reg := lsystem.DefaultRegistry()

	_, err := Build(reg, "F -> FF\n\nX -> FQ")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Line)

	var unknown *lsystem.UnknownSymbolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 'Q', unknown.Name)

	_, err = Build(reg, "F -> F : 2")
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Line)
}
