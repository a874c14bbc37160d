package expr

import (
	"math"
	"strings"
)

// Node is one vertex of a compiled expression tree. The concrete types are
// Literal, ParamRef, BinaryOp, UnaryOp and Conditional.
type Node interface {
	Eval(env Environment) (Value, error)
}

// Literal is a constant.
type Literal struct {
	Value Value
}

func (n *Literal) Eval(Environment) (Value, error) { return n.Value, nil }

// ParamRef reads a named parameter, defaulting to 0 when it is absent.
type ParamRef struct {
	Name string
}

func (n *ParamRef) Eval(env Environment) (Value, error) {
	if env == nil {
		return Number(0), nil
	}
	if v, ok := env.Lookup(n.Name); ok {
		return v, nil
	}
	return Number(0), nil
}

// BinaryOp applies Op to two operands. && and || short-circuit.
type BinaryOp struct {
	Op          string
	Left, Right Node
}

func (n *BinaryOp) Eval(env Environment) (Value, error) {
	l, err := n.Left.Eval(env)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case "&&":
		if !l.Truthy() {
			return l, nil
		}
		return n.Right.Eval(env)
	case "||":
		if l.Truthy() {
			return l, nil
		}
		return n.Right.Eval(env)
	}

	r, err := n.Right.Eval(env)
	if err != nil {
		return Value{}, err
	}

	switch n.Op {
	case "+":
		if l.kind == KindString || r.kind == KindString {
			return String(l.Text() + r.Text()), nil
		}
		return Number(l.num + r.num), nil
	case "==", "===":
		return Bool(equal(l, r, n.Op == "===")), nil
	case "!=", "!==":
		return Bool(!equal(l, r, n.Op == "!==")), nil
	case "<", "<=", ">", ">=":
		if l.kind == KindString && r.kind == KindString {
			return Bool(compareOrdered(strings.Compare(l.str, r.str), n.Op)), nil
		}
		a, b := l.Float(), r.Float()
		if math.IsNaN(a) || math.IsNaN(b) {
			return Bool(false), nil
		}
		c := 0
		if a < b {
			c = -1
		} else if a > b {
			c = 1
		}
		return Bool(compareOrdered(c, n.Op)), nil
	}

	a, err := numeric(n.Op, l)
	if err != nil {
		return Value{}, err
	}
	b, err := numeric(n.Op, r)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case "-":
		return Number(a - b), nil
	case "*":
		return Number(a * b), nil
	case "/":
		return Number(a / b), nil
	case "%":
		return Number(math.Mod(a, b)), nil
	case "**":
		return Number(math.Pow(a, b)), nil
	}
	return Value{}, &EvalError{Op: n.Op, Operand: l}
}

// UnaryOp applies a prefix operator.
type UnaryOp struct {
	Op      string
	Operand Node
}

func (n *UnaryOp) Eval(env Environment) (Value, error) {
	v, err := n.Operand.Eval(env)
	if err != nil {
		return Value{}, err
	}
	if n.Op == "!" {
		return Bool(!v.Truthy()), nil
	}
	f, err := numeric(n.Op, v)
	if err != nil {
		return Value{}, err
	}
	if n.Op == "-" {
		return Number(-f), nil
	}
	return Number(f), nil
}

// Conditional is the ternary operator.
type Conditional struct {
	Cond, Then, Else Node
}

func (n *Conditional) Eval(env Environment) (Value, error) {
	c, err := n.Cond.Eval(env)
	if err != nil {
		return Value{}, err
	}
	if c.Truthy() {
		return n.Then.Eval(env)
	}
	return n.Else.Eval(env)
}

func numeric(op string, v Value) (float64, error) {
	f := v.Float()
	if v.kind == KindString && math.IsNaN(f) {
		return 0, &EvalError{Op: op, Operand: v}
	}
	return f, nil
}

func equal(l, r Value, strict bool) bool {
	if l.kind == r.kind || strict {
		return l.Equal(r)
	}
	return l.Float() == r.Float()
}

func compareOrdered(c int, op string) bool {
	switch op {
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	default:
		return c >= 0
	}
}
