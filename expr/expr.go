// Package expr compiles the restricted arithmetic and boolean language used in
// symbol parameters, rule guards and drawing actions.
//
// Expressions are parsed into a tree of Literal, ParamRef, BinaryOp, UnaryOp
// and Conditional nodes and evaluated by walking it against an Environment.
// Function calls are rejected at compile time, so evaluation has no side
// effects. Identifiers that are not reserved literals read parameters and
// yield 0 when the parameter is missing.
package expr

import (
	"math"
	"strings"
)

// Environment resolves parameter names during evaluation.
type Environment interface {
	Lookup(name string) (Value, bool)
}

// Map is an Environment backed by a plain map.
type Map map[string]Value

func (m Map) Lookup(name string) (Value, bool) {
	v, ok := m[name]
	return v, ok
}

// Evaluator is a compiled expression. It is immutable and safe to share.
type Evaluator struct {
	text string
	root Node
}

// Compile compiles a single arithmetic expression.
func Compile(text string) (*Evaluator, error) {
	return compile(text, false)
}

func compile(text string, condition bool) (*Evaluator, error) {
	if strings.TrimSpace(text) == "" {
		return nil, compileErr(text, ErrEmpty)
	}
	if err := checkStructure(text, condition); err != nil {
		return nil, compileErr(text, err)
	}
	toks, err := tokenize(text, condition)
	if err != nil {
		return nil, compileErr(text, err)
	}
	root, err := parse(toks)
	if err != nil {
		return nil, compileErr(text, err)
	}
	return &Evaluator{text: text, root: root}, nil
}

// Text returns the source the evaluator was compiled from.
func (e *Evaluator) Text() string { return e.text }

// Root returns the expression tree.
func (e *Evaluator) Root() Node { return e.root }

// Eval evaluates the expression against env.
func (e *Evaluator) Eval(env Environment) (Value, error) {
	return e.root.Eval(env)
}

// Float evaluates the expression as a number; failures and non-numeric
// results yield 0.
func (e *Evaluator) Float(env Environment) float64 {
	v, err := e.root.Eval(env)
	if err != nil {
		return 0
	}
	f := v.Float()
	if math.IsNaN(f) {
		return 0
	}
	return f
}

// Condition is a compiled rule guard. The zero value and a Condition compiled
// from blank text are always true.
type Condition struct {
	eval *Evaluator
}

// CompileCondition compiles a guard. Besides the canonical operators it
// accepts &, |, !, and, or, not, True and False.
func CompileCondition(text string) (Condition, error) {
	if strings.TrimSpace(text) == "" {
		return Condition{}, nil
	}
	e, err := compile(text, true)
	if err != nil {
		return Condition{}, err
	}
	return Condition{eval: e}, nil
}

// Text returns the guard source, "True" for an unconditional guard.
func (c Condition) Text() string {
	if c.eval == nil {
		return "True"
	}
	return c.eval.text
}

// Test evaluates the guard. Evaluation failures count as false.
func (c Condition) Test(env Environment) bool {
	if c.eval == nil {
		return true
	}
	v, err := c.eval.Eval(env)
	if err != nil {
		return false
	}
	return v.Truthy()
}

// List is an ordered list of independently compiled expressions, written as
// comma separated clauses.
type List struct {
	text  string
	items []*Evaluator
}

// CompileList compiles every non-empty clause of text. The first compile
// error is returned.
func CompileList(text string) (List, error) {
	l := List{text: strings.TrimSpace(text)}
	if l.text == "" {
		return l, nil
	}
	for _, part := range SplitTopLevel(l.text, ',') {
		if part == "" {
			continue
		}
		e, err := Compile(part)
		if err != nil {
			return List{}, err
		}
		l.items = append(l.items, e)
	}
	return l, nil
}

func (l List) Text() string { return l.text }

func (l List) Len() int { return len(l.items) }

// Eval evaluates each clause in order. A clause that fails evaluates to 0
// without affecting the others.
func (l List) Eval(env Environment) []Value {
	if len(l.items) == 0 {
		return nil
	}
	out := make([]Value, len(l.items))
	for i, e := range l.items {
		v, err := e.Eval(env)
		if err != nil {
			v = Number(0)
		}
		out[i] = v
	}
	return out
}
