package lsif

import (
	"context"
	"io"
	"math"
	"os"
	"strings"
	"testing"

	lsystem "github.com/hananel42/L-system-studio"
	"github.com/hananel42/L-system-studio/expr"
	"github.com/hananel42/L-system-studio/interchange/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAll(t *testing.T, r io.Reader) []*Format {
	t.Helper()
	dec := NewDecoder(r)
	var out []*Format
	for {
		f, err := dec.Decode()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, f)
	}
}

func TestDecoder_Stream(t *testing.T) {
	file, err := os.Open("testdata/stream.yaml")
	require.NoError(t, err)
	defer file.Close()

	formats := decodeAll(t, file)
	require.Len(t, formats, 2)

	bush := formats[0]
	assert.Equal(t, "X", bush.Axiom)
	require.NotNil(t, bush.Seed)
	assert.Equal(t, int64(42), *bush.Seed)
	assert.Equal(t, ParamList{{Name: "l", Raw: "8"}, {Name: "c", Raw: "#2a6", Quoted: true}}, bush.Symbols[0].Params)
	assert.Equal(t, ParamList{{Name: "d", Raw: "360/14"}}, bush.Symbols[1].Params)
	assert.Len(t, bush.Rules, 3)

	koch := formats[1]
	assert.Nil(t, koch.Seed)
	assert.Equal(t, RuleList{"# Koch", "F -> F+F-F-F+F", ""}, koch.Rules)
}

func TestImport(t *testing.T) {
	file, err := os.Open("testdata/stream.yaml")
	require.NoError(t, err)
	defer file.Close()
	formats := decodeAll(t, file)

	bush, err := formats[0].Import()
	require.NoError(t, err)
	assert.Equal(t, 6, bush.Registry.Len(), "builtins are redefined, not duplicated")
	assert.Len(t, bush.Rules, 3)
	assert.Equal(t, 2, bush.Iterations)

	plus, err := bush.Registry.Lookup('+')
	require.NoError(t, err)
	assert.InDelta(t, 360.0/14, plus.Defaults().Get("d").Float(), 1e-12)
	f, err := bush.Registry.Lookup('F')
	require.NoError(t, err)
	assert.Equal(t, expr.String("#2a6"), f.Defaults().Get("c"))

	first, err := runGrammar(t, bush)
	require.NoError(t, err)
	second, err := runGrammar(t, bush)
	require.NoError(t, err)
	assert.Equal(t, first, second, "seeded grammars are reproducible")

	koch, err := formats[1].Import()
	require.NoError(t, err)
	out, err := runGrammar(t, koch)
	require.NoError(t, err)
	assert.Equal(t, "F(1)+(90)F(1)-(-90)F(1)-(-90)F(1)+(90)F(1)", out)

	assert.InDelta(t, 3, turtleEnd(t, koch), 1e-9)
}

func runGrammar(t *testing.T, g lsystem.Grammar) (string, error) {
	t.Helper()
	ls := g.System()
	err := ls.DerivateUntil(context.Background(), uint(g.Iterations))
	return ls.Export().String(), err
}

// turtleEnd returns the distance between the first and last point drawn.
func turtleEnd(t *testing.T, g lsystem.Grammar) float64 {
	t.Helper()
	ls := g.System()
	require.NoError(t, ls.DerivateUntil(context.Background(), uint(g.Iterations)))
	pen := &endPen{heading: -90}
	require.NoError(t, ls.Export().Draw(pen))
	return math.Hypot(pen.x, pen.y)
}

type endPen struct{ x, y, heading float64 }

func (p *endPen) Forward(length, _ float64, _ string) {
	rad := p.heading * math.Pi / 180
	p.x += length * math.Cos(rad)
	p.y += length * math.Sin(rad)
}

func (p *endPen) Angle(d float64) { p.heading += d }
func (p *endPen) Push()           {}
func (p *endPen) Pop()            {}
func (p *endPen) PenUp()          {}
func (p *endPen) PenDown()        {}

func TestImport_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"long symbol name", "axiom: F\nsymbols:\n  - name: FF\n", "single character"},
		{"bad default", "axiom: F\nsymbols:\n  - name: F\n    params: {l: 1 +}\n", "parameter l"},
		{"call in action", "axiom: F\nsymbols:\n  - name: F\n    action: forward(sqrt(2))\n", "sqrt"},
		{"unknown body symbol", "axiom: F\nsymbols:\n  - name: F\nrules:\n  - F -> FG\n", "line 1"},
		{"negative iterations", "axiom: F\niterations: -1\n", "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formats := decodeAll(t, strings.NewReader(tt.doc))
			require.Len(t, formats, 1)
			_, err := formats[0].Import()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestImport_RuleParseErrorNamesEntry(t *testing.T) {
	formats := decodeAll(t, strings.NewReader("axiom: F\nbuiltins: true\nrules:\n  - F -> FF\n  - nonsense\n"))
	_, err := formats[0].Import()
	var pe *rules.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
}

func TestDecoder_UnknownField(t *testing.T) {
	_, err := NewDecoder(strings.NewReader("axiom: F\ncolour: red\n")).Decode()
	require.Error(t, err)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw    string
		quoted bool
		want   expr.Value
	}{
		{"", false, expr.Number(0)},
		{"2.5", false, expr.Number(2.5)},
		{"360/8", false, expr.Number(45)},
		{"PI * 2", false, expr.Number(2 * math.Pi)},
		{"true", false, expr.Bool(true)},
		{"2 > 3", false, expr.Bool(false)},
		{"#ff0000", true, expr.String("#ff0000")},
		{"1+1", true, expr.String("1+1")},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseValue(tt.raw, tt.quoted)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseValue("unknown_constant * 2", false)
	assert.Error(t, err)
}
