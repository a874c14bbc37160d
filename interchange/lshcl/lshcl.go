// Package lshcl reads grammars written in HCL:
//
//	axiom      = "X"
//	iterations = 4
//	seed       = 7
//
//	symbol "F" {
//	  action = "forward(l, 1, c)"
//	  param "l" { default = 10 }
//	  param "c" { default = "#2a6" }
//	}
//
//	rules = [
//	  "X -> F[+X]F[-X]+X",
//	  "F -> FF",
//	]
//
// Defaults may be any constant HCL expression; numbers, strings and bools are
// kept, null reads as 0.
package lshcl

import (
	"unicode/utf8"

	lsystem "github.com/hananel42/L-system-studio"
	"github.com/hananel42/L-system-studio/expr"
	"github.com/hananel42/L-system-studio/interchange"
	"github.com/hananel42/L-system-studio/interchange/rules"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Format is the decoded body of a grammar file.
type Format struct {
	Axiom      string     `hcl:"axiom"`
	Iterations int        `hcl:"iterations,optional"`
	Seed       *cty.Value `hcl:"seed,optional"`
	MaxLength  int        `hcl:"max_length,optional"`
	Builtins   bool       `hcl:"builtins,optional"`
	Rules      []string   `hcl:"rules,optional"`
	Symbols    []*Symbol  `hcl:"symbol,block"`
}

type Symbol struct {
	Name   string   `hcl:"name,label"`
	Action string   `hcl:"action,optional"`
	Params []*Param `hcl:"param,block"`
}

type Param struct {
	Name    string     `hcl:"name,label"`
	Default *cty.Value `hcl:"default,optional"`
}

var _ interchange.Format = (*Format)(nil)

// Parse decodes src. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Format, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to parse HCL file %s", filename)
	}
	return decode(file.Body, filename)
}

// Load reads and decodes the file at path.
func Load(path string) (*Format, error) {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to parse HCL file %s", path)
	}
	return decode(file.Body, path)
}

func decode(body hcl.Body, filename string) (*Format, error) {
	var f Format
	if diags := gohcl.DecodeBody(body, nil, &f); diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to decode HCL file %s", filename)
	}
	return &f, nil
}

// Import defines the symbol blocks in order, then compiles the rules and the
// axiom against them.
func (f *Format) Import() (lsystem.Grammar, error) {
	if f.Iterations < 0 {
		return lsystem.Grammar{}, errors.Errorf("iterations must not be negative, got %d", f.Iterations)
	}

	var seed *int64
	if f.Seed != nil && !f.Seed.IsNull() {
		var s int64
		if err := gocty.FromCtyValue(*f.Seed, &s); err != nil {
			return lsystem.Grammar{}, errors.Wrap(err, "invalid seed")
		}
		seed = &s
	}

	reg := lsystem.NewRegistry()
	if f.Builtins {
		reg = lsystem.DefaultRegistry()
	}
	for _, s := range f.Symbols {
		name, size := utf8.DecodeRuneInString(s.Name)
		if name == utf8.RuneError || size != len(s.Name) {
			return lsystem.Grammar{}, errors.Errorf("symbol %q: name must be a single character", s.Name)
		}

		var params lsystem.Params
		for _, p := range s.Params {
			v := expr.Number(0)
			if p.Default != nil {
				var err error
				if v, err = toValue(*p.Default); err != nil {
					return lsystem.Grammar{}, errors.Wrapf(err, "symbol %q parameter %s", s.Name, p.Name)
				}
			}
			params = params.With(p.Name, v)
		}

		if _, err := reg.Define(name, params, s.Action); err != nil {
			return lsystem.Grammar{}, err
		}
	}

	defs, err := rules.ParseLines(f.Rules)
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
		Axiom:      lsystem.ParseAxiom(reg, f.Axiom),
		Iterations: f.Iterations,
		MaxLength:  f.MaxLength,
		Seed:       seed,
	}, nil
}

// toValue converts a primitive cty value.
func toValue(v cty.Value) (expr.Value, error) {
	if v.IsNull() {
		return expr.Number(0), nil
	}
	if !v.IsWhollyKnown() {
		return expr.Value{}, errors.New("value is not known")
	}
	switch v.Type() {
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return expr.Number(f), nil
	case cty.String:
		return expr.String(v.AsString()), nil
	case cty.Bool:
		return expr.Bool(v.True()), nil
	}
	return expr.Value{}, errors.Errorf("unsupported type %s", v.Type().FriendlyName())
}
