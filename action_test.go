package lsystem

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hananel42/L-system-studio/expr"
	"github.com/hananel42/L-system-studio/turtle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPen struct {
	calls []string
}

func (p *recordingPen) Forward(length, width float64, color string) {
	p.calls = append(p.calls, fmt.Sprintf("forward %v %v %s", length, width, color))
}

func (p *recordingPen) Angle(delta float64) { p.calls = append(p.calls, fmt.Sprintf("angle %v", delta)) }
func (p *recordingPen) Push()               { p.calls = append(p.calls, "push") }
func (p *recordingPen) Pop()                { p.calls = append(p.calls, "pop") }
func (p *recordingPen) PenUp()              { p.calls = append(p.calls, "penup") }
func (p *recordingPen) PenDown()            { p.calls = append(p.calls, "pendown") }

func TestAction_ForwardOnTurtle(t *testing.T) {
	action, err := CompileAction("forward(l,1,c)")
	require.NoError(t, err)

	tt := turtle.New()
	action.Run(ParseParams("l=10, c='#000'"), tt)

	want := []turtle.Segment{{X1: 0, Y1: 0, X2: 0, Y2: -10, Width: 1, Color: "#000"}}
	if diff := cmp.Diff(want, tt.Segments(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, -10, tt.State().Y, 1e-9)
}

func TestAction_Run(t *testing.T) {
	tests := []struct {
		name   string
		script string
		params string
		want   []string
	}{
		{"positional", "forward(5, 2, '#123456')", "", []string{"forward 5 2 #123456"}},
		{"keywords", "forward(width=3, len = l*2)", "l=4", []string{"forward 8 3 black"}},
		{"zero length and width use defaults", "forward(0, 0)", "", []string{"forward 0 1 black"}},
		{"hue colour", "forward(1, 1, 120)", "", []string{"forward 1 1 #00ff00"}},
		{"rgb triple", "forward(1, 1, 255, 0, r)", "r=128", []string{"forward 1 1 #ff0080"}},
		{"two colour values are black", "forward(1, 1, 'a', 'b')", "", []string{"forward 1 1 black"}},
		{"missing parameter reads as zero", "angle(missing)", "", []string{"angle 0"}},
		{"structure", "push(); angle(d); penup(); forward(1); pendown(); pop()", "d=-30",
			[]string{"push", "angle -30", "penup", "forward 1 1 black", "pendown", "pop"}},
		{"case insensitive", "Forward(2); ANGLE(deg=45)", "", []string{"forward 2 1 black", "angle 45"}},
		{"empty", "", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := CompileAction(tt.script)
			require.NoError(t, err)

			pen := &recordingPen{}
			action.Run(ParseParams(tt.params), pen)
			assert.Equal(t, tt.want, pen.calls)
		})
	}
}

func TestAction_SkipsUnknownClauses(t *testing.T) {
	action, err := CompileAction("forward(10); jump(3); push(); pop(1); forward(colour=1); nonsense")
	require.NoError(t, err)

	assert.Equal(t, 2, action.Len())
	assert.Equal(t, []string{"jump(3)", "pop(1)", "forward(colour=1)", "nonsense"}, action.Skipped())

	pen := &recordingPen{}
	action.Run(expr.Map{}, pen)
	assert.Equal(t, []string{"forward 10 1 black", "push"}, pen.calls)
}

func TestAction_CompileErrors(t *testing.T) {
	_, err := CompileAction("forward(Math.cos(1))")
	var call *expr.DisallowedCallError
	require.ErrorAs(t, err, &call)
	assert.Equal(t, "cos", call.Name)

	_, err = CompileAction("angle({})")
	var syntax *expr.InvalidSyntaxError
	require.ErrorAs(t, err, &syntax)
	assert.Equal(t, '{', syntax.Char)
}

func TestAction_Text(t *testing.T) {
	action, err := CompileAction("  forward(l) ")
	require.NoError(t, err)
	assert.Equal(t, "forward(l)", action.Text())
}
