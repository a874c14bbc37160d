package lsystem

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/hananel42/L-system-studio/expr"
	"github.com/pkg/errors"
)

// Rule rewrites one symbol type. A rule is compiled once and immutable
// afterwards.
type Rule struct {
	trigger     *SymbolType
	condition   expr.Condition
	probability float64
	body        []RawSymbol
	bodyText    string
}

// NewRule compiles a rule for trigger. An empty condition is always true. Body
// symbols are registry keys, each optionally followed by a parenthesised
// parameter list evaluated against the triggering symbol.
func NewRule(reg *Registry, trigger rune, condition, body string, probability float64) (*Rule, error) {
	t, err := reg.Lookup(trigger)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return nil, errors.Errorf("probability %v of rule for %q is outside [0, 1]", probability, trigger)
	}
	cond, err := expr.CompileCondition(condition)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid condition of rule for %q", trigger)
	}
	raws, err := parseBody(reg, body)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid body of rule for %q", trigger)
	}
	return &Rule{
		trigger:     t,
		condition:   cond,
		probability: probability,
		body:        raws,
		bodyText:    strings.TrimSpace(body),
	}, nil
}

func (r *Rule) Trigger() *SymbolType      { return r.trigger }
func (r *Rule) Condition() expr.Condition { return r.condition }
func (r *Rule) Probability() float64      { return r.probability }
func (r *Rule) OutputSize() int           { return len(r.body) }
func (r *Rule) Body() []RawSymbol         { return append([]RawSymbol(nil), r.body...) }

// String renders the rule in its definition syntax.
func (r *Rule) String() string {
	return fmt.Sprintf("%c(%s) -> %s : %v", r.trigger.Name(), r.condition.Text(), r.bodyText, r.probability)
}

// TryFire decides whether the rule rewrites s and, if so, returns the
// replacement. The random draw always happens first, so every call consumes
// exactly one value from rng whether or not the type and guard match.
func (r *Rule) TryFire(s Symbol, rng Random) ([]Symbol, bool, error) {
	if rng.Float64() > r.probability {
		return nil, false, nil
	}
	if s.Type != r.trigger {
		return nil, false, nil
	}
	if !r.trigger.Defined() {
		return nil, false, &UnknownSymbolError{Name: r.trigger.Name()}
	}
	if !r.condition.Test(s.Params) {
		return nil, false, nil
	}
	out := make([]Symbol, 0, len(r.body))
	for _, raw := range r.body {
		sym, err := raw.Compile(s.Params)
		if err != nil {
			return nil, false, err
		}
		out = append(out, sym)
	}
	return out, true, nil
}

// validate checks that every type the rule refers to is still defined.
func (r *Rule) validate() error {
	if !r.trigger.Defined() {
		return &UnknownSymbolError{Name: r.trigger.Name()}
	}
	for _, raw := range r.body {
		if !raw.Type.Defined() {
			return &UnknownSymbolError{Name: raw.Type.Name()}
		}
	}
	return nil
}

func parseBody(reg *Registry, body string) ([]RawSymbol, error) {
	runes := []rune(body)
	var out []RawSymbol
	for i := 0; i < len(runes); i++ {
		if unicode.IsSpace(runes[i]) {
			continue
		}
		t, err := reg.Lookup(runes[i])
		if err != nil {
			return nil, err
		}
		raw := RawSymbol{Type: t}

		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j < len(runes) && runes[j] == '(' {
			end, err := closingParen(runes, j)
			if err != nil {
				return nil, err
			}
			raw.Args, err = expr.CompileList(string(runes[j+1 : end]))
			if err != nil {
				return nil, err
			}
			i = end
		}
		out = append(out, raw)
	}
	return out, nil
}

// closingParen returns the index of the parenthesis matching runes[open],
// skipping string literals.
func closingParen(runes []rune, open int) (int, error) {
	depth := 0
	var quote rune
	escape := false
	for i := open; i < len(runes); i++ {
		r := runes[i]
		if quote != 0 {
			switch {
			case escape:
				escape = false
			case r == '\\':
				escape = true
			case r == quote:
				quote = 0
			}
			continue
		}
		switch r {
		case '\'', '"':
			quote = r
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, errors.Errorf("unbalanced parenthesis at offset %d", open)
}
