package lsystem

import (
	"testing"

	"github.com/hananel42/L-system-studio/expr"
	"github.com/stretchr/testify/assert"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"l=10, c=0", "l=10, c=0"},
		{"a", "a=0"},
		{" w = 2.5 ,c='#f00'", "w=2.5, c='#f00'"},
		{`s="x"`, "s='x'"},
		{"n=abc", "n=0"},
		{"a=1, a=2", "a=2"},
		{",,=3, b=-1", "b=-1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseParams(tt.in).String())
		})
	}
}

func TestParams(t *testing.T) {
	p := ParseParams("l=10, c='red'")

	v, ok := p.Lookup("c")
	assert.True(t, ok)
	assert.Equal(t, expr.String("red"), v)

	_, ok = p.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 0.0, p.Get("missing").Float())

	assert.Equal(t, []string{"l", "c"}, p.Names())

	q := p.With("l", expr.Number(3)).With("w", expr.Number(1))
	assert.Equal(t, "l=3, c='red', w=1", q.String())
	assert.Equal(t, "l=10, c='red'", p.String())
	assert.False(t, p.Equal(q))
	assert.True(t, p.Equal(p.Clone()))
}
