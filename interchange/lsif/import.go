package lsif

import (
	"unicode/utf8"

	lsystem "github.com/hananel42/L-system-studio"
	"github.com/hananel42/L-system-studio/interchange"
	"github.com/hananel42/L-system-studio/interchange/rules"
	"github.com/pkg/errors"
)

var _ interchange.Format = (*Format)(nil)

// Import defines the symbols in order, then compiles the rules and the axiom
// against them.
func (format *Format) Import() (lsystem.Grammar, error) {
	if format.Iterations < 0 {
		return lsystem.Grammar{}, errors.Errorf("iterations must not be negative, got %d", format.Iterations)
	}

	reg := lsystem.NewRegistry()
	if format.Builtins {
		reg = lsystem.DefaultRegistry()
	}

	for i, s := range format.Symbols {
		name, size := utf8.DecodeRuneInString(s.Name)
		if name == utf8.RuneError || size != len(s.Name) {
			return lsystem.Grammar{}, errors.Errorf("symbol %d: name %q must be a single character", i, s.Name)
		}

		var params lsystem.Params
		for _, p := range s.Params {
			v, err := parseValue(p.Raw, p.Quoted)
			if err != nil {
				return lsystem.Grammar{}, errors.Wrapf(err, "Error while parsing symbol %q parameter %s", s.Name, p.Name)
			}
			params = params.With(p.Name, v)
		}

		if _, err := reg.Define(name, params, s.Action); err != nil {
			return lsystem.Grammar{}, err
		}
	}

	defs, err := rules.ParseLines(format.Rules)
	if err != nil {
		return lsystem.Grammar{}, err
	}
	built, err := rules.Compile(reg, defs)
	if err != nil {
		return lsystem.Grammar{}, err
	}

	return lsystem.Grammar{
		Registry:   reg,
		Rules:      built,
		Axiom:      lsystem.ParseAxiom(reg, format.Axiom),
		Iterations: format.Iterations,
		MaxLength:  format.MaxLength,
		Seed:       format.Seed,
	}, nil
}
