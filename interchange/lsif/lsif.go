// Package lsif is the reference implementation for the L-System Interchange
// Format, a YAML document describing symbols, rules and an axiom:
//
//	axiom: X
//	iterations: 5
//	seed: 42
//	symbols:
//	  - name: F
//	    params: {l: 10, c: '#2a6'}
//	    action: forward(l, 1, c)
//	  - name: "+"
//	    params: d=25
//	    action: angle(d)
//	rules:
//	  - X -> F+[[X]-X]-F[-FX]+X
//	  - F -> FF
//
// A stream may hold several documents separated by ---.
package lsif

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format struct {
	Axiom      string   `yaml:"axiom"`
	Iterations int      `yaml:"iterations"`
	Seed       *int64   `yaml:"seed,omitempty"`
	MaxLength  int      `yaml:"max_length,omitempty"`
	Builtins   bool     `yaml:"builtins,omitempty"`
	Symbols    []Symbol `yaml:"symbols"`
	Rules      RuleList `yaml:"rules"`
}

type Symbol struct {
	Name   string    `yaml:"name"`
	Params ParamList `yaml:"params,omitempty"`
	Action string    `yaml:"action,omitempty"`
}

// ParamList keeps parameters in declaration order. It decodes either a
// mapping or the "l=10, c=0" text form.
type ParamList []Param

type Param struct {
	Name string
	// Raw is the scalar as written; Quoted is set when it was a quoted string.
	Raw    string
	Quoted bool
}

func (pl *ParamList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*pl = nil
		for _, part := range strings.Split(node.Value, ",") {
			name, raw, _ := strings.Cut(part, "=")
			name, raw = strings.TrimSpace(name), strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			p := Param{Name: name, Raw: raw}
			if n := len(raw); n >= 2 && (raw[0] == '\'' || raw[0] == '"') && raw[n-1] == raw[0] {
				p.Raw, p.Quoted = raw[1:n-1], true
			}
			*pl = append(*pl, p)
		}
		return nil
	case yaml.MappingNode:
		*pl = make(ParamList, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if val.Kind != yaml.ScalarNode {
				return errors.Errorf("line %d: parameter %q must be a scalar", val.Line, key.Value)
			}
			*pl = append(*pl, Param{
				Name:   key.Value,
				Raw:    val.Value,
				Quoted: val.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0,
			})
		}
		return nil
	}
	return errors.Errorf("line %d: params must be a mapping or a string", node.Line)
}

// RuleList accepts a sequence of rule lines or a block of text.
type RuleList []string

func (rl *RuleList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*rl = strings.Split(node.Value, "\n")
		return nil
	}
	var lines []string
	if err := node.Decode(&lines); err != nil {
		return err
	}
	*rl = lines
	return nil
}

type Decoder struct {
	in          io.Reader
	yamlDecoder *yaml.Decoder
}

func NewDecoder(in io.Reader) *Decoder {
	yd := yaml.NewDecoder(in)
	yd.KnownFields(true)
	return &Decoder{
		in:          in,
		yamlDecoder: yd,
	}
}

// Decode reads the next document. It returns io.EOF once the stream is
// exhausted.
func (dec *Decoder) Decode() (*Format, error) {
	format := &Format{}
	// Read until yaml multi-document delimiter and/or until EOF
	err := dec.yamlDecoder.Decode(format)
	return format, err
}
