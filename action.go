package lsystem

import (
	"math"
	"regexp"
	"strings"

	"github.com/hananel42/L-system-studio/expr"
	"github.com/hananel42/L-system-studio/turtle"
	"github.com/pkg/errors"
)

// Pen receives the drawing primitives of an Action. *turtle.Turtle is a Pen.
type Pen interface {
	Forward(length, width float64, color string)
	Angle(delta float64)
	Push()
	Pop()
	PenUp()
	PenDown()
}

var _ Pen = (*turtle.Turtle)(nil)

type opcode uint8

const (
	opForward opcode = iota
	opAngle
	opPush
	opPop
	opPenUp
	opPenDown
)

// slots lists, per primitive, the argument names in positional order. The
// last slot of forward collects every remaining argument so that a colour can
// be given as an RGB triple.
var primitives = map[string]struct {
	op    opcode
	slots []string
}{
	"forward": {opForward, []string{"len", "width", "color"}},
	"angle":   {opAngle, []string{"deg"}},
	"push":    {opPush, nil},
	"pop":     {opPop, nil},
	"penup":   {opPenUp, nil},
	"pendown": {opPenDown, nil},
}

var (
	clauseRegex  = regexp.MustCompile(`(?s)^\s*([A-Za-z]+)\s*\((.*)\)\s*$`)
	keywordRegex = regexp.MustCompile(`(?s)^([A-Za-z_][A-Za-z0-9_]*)\s*=([^=].*)?$`)
)

type instruction struct {
	op   opcode
	args map[string]expr.List
}

// Action is a compiled drawing script.
type Action struct {
	text    string
	code    []instruction
	skipped []string
}

// CompileAction compiles a semicolon separated drawing script made of
// forward(len[, width[, color]]), angle(deg), push(), pop(), penup() and
// pendown(). Arguments are expression lists, positional or written as
// name=value. Clauses that are not one of these primitives are skipped and
// reported by Skipped; an argument that does not compile is an error.
func CompileAction(script string) (*Action, error) {
	a := &Action{text: strings.TrimSpace(script)}
	for _, clause := range expr.SplitTopLevel(a.text, ';') {
		if clause == "" {
			continue
		}
		ins, ok, err := compileClause(clause)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compile action clause %q", clause)
		}
		if !ok {
			a.skipped = append(a.skipped, clause)
			continue
		}
		a.code = append(a.code, ins)
	}
	return a, nil
}

func compileClause(clause string) (instruction, bool, error) {
	m := clauseRegex.FindStringSubmatch(clause)
	if m == nil {
		return instruction{}, false, nil
	}
	prim, ok := primitives[strings.ToLower(m[1])]
	if !ok {
		return instruction{}, false, nil
	}

	var args []string
	if inner := strings.TrimSpace(m[2]); inner != "" {
		args = expr.SplitTopLevel(inner, ',')
	}
	if len(prim.slots) == 0 {
		return instruction{op: prim.op}, len(args) == 0, nil
	}

	texts := make(map[string][]string)
	for i, arg := range args {
		slot := prim.slots[min(i, len(prim.slots)-1)]
		if km := keywordRegex.FindStringSubmatch(arg); km != nil {
			name := strings.ToLower(km[1])
			if !hasSlot(prim.slots, name) {
				return instruction{}, false, nil
			}
			slot, arg = name, strings.TrimSpace(km[2])
		}
		texts[slot] = append(texts[slot], arg)
	}

	ins := instruction{op: prim.op, args: make(map[string]expr.List, len(texts))}
	for slot, parts := range texts {
		list, err := expr.CompileList(strings.Join(parts, ","))
		if err != nil {
			return instruction{}, false, err
		}
		ins.args[slot] = list
	}
	return ins, true, nil
}

func hasSlot(slots []string, name string) bool {
	for _, s := range slots {
		if s == name {
			return true
		}
	}
	return false
}

func (a *Action) Text() string { return a.text }

// Len returns the number of compiled primitives.
func (a *Action) Len() int { return len(a.code) }

// Skipped returns the clauses that were not recognised.
func (a *Action) Skipped() []string { return append([]string(nil), a.skipped...) }

// Run evaluates the arguments against env and drives pen.
func (a *Action) Run(env expr.Environment, pen Pen) {
	for _, ins := range a.code {
		switch ins.op {
		case opForward:
			length := ins.number("len", env, 0)
			width := ins.number("width", env, 1)
			color := turtle.Black
			if vals := ins.args["color"].Eval(env); len(vals) > 0 {
				color = turtle.ResolveColor(vals...)
			}
			pen.Forward(length, width, color)
		case opAngle:
			pen.Angle(ins.number("deg", env, 0))
		case opPush:
			pen.Push()
		case opPop:
			pen.Pop()
		case opPenUp:
			pen.PenUp()
		case opPenDown:
			pen.PenDown()
		}
	}
}

// number returns the first value of the slot, or def when it is missing, zero
// or not a number.
func (ins instruction) number(slot string, env expr.Environment, def float64) float64 {
	vals := ins.args[slot].Eval(env)
	if len(vals) == 0 {
		return def
	}
	f := vals[0].Float()
	if f == 0 || math.IsNaN(f) {
		return def
	}
	return f
}
