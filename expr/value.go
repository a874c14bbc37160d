package expr

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the dynamic type of a Value.
type Kind uint8

const (
	KindNumber Kind = iota
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is the result of evaluating an expression, and the type of a symbol
// parameter. The zero Value is the number 0.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean Value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

func (v Value) Kind() Kind { return v.kind }

// Float coerces v to a number. Booleans are 0 or 1, strings are parsed and
// yield NaN when they do not hold a number.
func (v Value) Float() float64 {
	switch v.kind {
	case KindString:
		f, ok := parseNumber(v.str)
		if !ok {
			return math.NaN()
		}
		return f
	default:
		return v.num
	}
}

// Truthy reports whether v counts as true in a condition.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	default:
		return v.num != 0 && !math.IsNaN(v.num)
	}
}

// Text returns the string form of v.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	default:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
}

func (v Value) String() string {
	return v.Text()
}

// Equal reports strict equality: same kind and same content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindString {
		return v.str == o.str
	}
	return v.num == o.num
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
