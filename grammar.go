package lsystem

import (
	"context"
	"strings"

	"github.com/hananel42/L-system-studio/expr"
)

// Symbol is one occurrence of a SymbolType with bound parameter values.
type Symbol struct {
	Type   *SymbolType
	Params Params
}

// NewSymbol returns an occurrence of t carrying t's default parameters.
func NewSymbol(t *SymbolType) Symbol {
	return Symbol{Type: t, Params: t.Defaults()}
}

// Clone copies s with its own parameter list.
func (s Symbol) Clone() Symbol {
	return Symbol{Type: s.Type, Params: s.Params.Clone()}
}

// Equal reports whether both symbols have the same type and parameters.
func (s Symbol) Equal(o Symbol) bool {
	return s.Type == o.Type && s.Params.Equal(o.Params)
}

// Symbol stringifier, e.g. F(10, '#000')
func (s Symbol) String() string {
	out := string(s.Type.Name())
	if len(s.Params) == 0 {
		return out
	}
	vals := make([]string, len(s.Params))
	for i, kv := range s.Params {
		vals[i] = literal(kv.Value)
	}
	return out + "(" + strings.Join(vals, ", ") + ")"
}

// RawSymbol is a symbol in a rule body: a type and the uncompiled parameter
// expressions evaluated when the rule fires.
type RawSymbol struct {
	Type *SymbolType
	Args expr.List
}

// Compile evaluates the argument list against the triggering symbol's
// parameters and binds the results by position to the type's parameters.
// Surplus results are dropped; parameters without a result keep their
// default.
func (r RawSymbol) Compile(trigger expr.Environment) (Symbol, error) {
	if !r.Type.Defined() {
		return Symbol{}, &UnknownSymbolError{Name: r.Type.Name()}
	}
	params := r.Type.Defaults()
	for i, v := range r.Args.Eval(trigger) {
		if i >= len(params) {
			break
		}
		params[i].Value = v
	}
	return Symbol{Type: r.Type, Params: params}, nil
}

func (r RawSymbol) String() string {
	if r.Args.Len() == 0 {
		return string(r.Type.Name())
	}
	return string(r.Type.Name()) + "(" + r.Args.Text() + ")"
}

// Axiom is a symbol sequence. It has value semantics: accessors return copies
// and rewriting produces a new Axiom.
type Axiom struct {
	symbols []Symbol
}

// NewAxiom copies symbols into a new Axiom.
func NewAxiom(symbols ...Symbol) Axiom {
	out := make([]Symbol, len(symbols))
	for i, s := range symbols {
		out[i] = s.Clone()
	}
	return Axiom{symbols: out}
}

// ParseAxiom builds an axiom from text, one symbol per rune, with default
// parameters. Runes that are not registered are dropped.
func ParseAxiom(reg *Registry, text string) Axiom {
	var symbols []Symbol
	for _, r := range text {
		t, err := reg.Lookup(r)
		if err != nil {
			continue
		}
		symbols = append(symbols, NewSymbol(t))
	}
	return Axiom{symbols: symbols}
}

func (a Axiom) Len() int { return len(a.symbols) }

// At returns a copy of the i-th symbol.
func (a Axiom) At(i int) Symbol { return a.symbols[i].Clone() }

// Symbols returns a copy of the sequence.
func (a Axiom) Symbols() []Symbol {
	return NewAxiom(a.symbols...).symbols
}

// Equal compares two sequences symbol by symbol.
func (a Axiom) Equal(b Axiom) bool {
	if len(a.symbols) != len(b.symbols) {
		return false
	}
	for i := range a.symbols {
		if !a.symbols[i].Equal(b.symbols[i]) {
			return false
		}
	}
	return true
}

func (a Axiom) String() string {
	var b strings.Builder
	for _, s := range a.symbols {
		b.WriteString(s.String())
	}
	return b.String()
}

// Draw replays each symbol's action, in order, on pen.
func (a Axiom) Draw(pen Pen) error {
	for _, s := range a.symbols {
		if !s.Type.Defined() {
			return &UnknownSymbolError{Name: s.Type.Name()}
		}
		if action := s.Type.Action(); action != nil {
			action.Run(s.Params, pen)
		}
	}
	return nil
}

// Run rewrites a for the given number of generations with an unseeded random
// source. Use New with WithSeed for reproducible output.
func (a Axiom) Run(rules []*Rule, iterations int) (Axiom, error) {
	return Run(context.Background(), a, rules, iterations)
}

// Grammar is everything needed to expand and draw a system, as produced by
// the interchange formats.
type Grammar struct {
	Registry   *Registry
	Rules      []*Rule
	Axiom      Axiom
	Iterations int
	MaxLength  int

	// Seed is set only when the definition asked for a reproducible run.
	Seed *int64
}

// System returns an LSystem for g. The grammar's seed and length ceiling, if
// any, apply before opts so callers can still override them.
func (g Grammar) System(opts ...Option) *LSystem {
	var base []Option
	if g.Seed != nil {
		base = append(base, WithSeed(*g.Seed))
	}
	if g.MaxLength > 0 {
		base = append(base, WithMaxLength(g.MaxLength))
	}
	return New(g.Axiom, g.Rules, append(base, opts...)...)
}
