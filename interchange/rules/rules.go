// Package rules parses the textual rule syntax:
//
//	X(cond) -> body : p
//	X : cond -> body : p
//	X -> body
//
// Blank lines and lines starting with # are ignored. The condition defaults to
// True and the probability to 1.
package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	lsystem "github.com/hananel42/L-system-studio"
	"github.com/pkg/errors"
)

// Definition is a parsed, not yet compiled, rule.
type Definition struct {
	Line        int
	Trigger     rune
	Condition   string
	Body        string
	Probability float64
}

// String renders d in the colon form.
func (d Definition) String() string {
	cond := d.Condition
	if cond == "" {
		cond = "True"
	}
	return fmt.Sprintf("%c : %s -> %s : %v", d.Trigger, cond, d.Body, d.Probability)
}

// ParseError reports a rule line that could not be parsed or compiled.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: cannot parse rule %q: %v", e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("line %d: cannot parse rule %q", e.Line, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	colonForm = regexp.MustCompile(`^(\S)\s*:\s*(.*?)\s*->\s*(.*?)\s*(?::\s*([0-9.]+)\s*)?$`)
	parenForm = regexp.MustCompile(`^(\S)\s*\(\s*(.*?)\s*\)\s*->\s*(.*?)\s*(?::\s*([0-9.]+)\s*)?$`)
	plainForm = regexp.MustCompile(`^(\S)\s*->\s*(.*?)\s*(?::\s*([0-9.]+)\s*)?$`)
)

// ParseLine parses a single rule. ok is false for blank and comment lines.
func ParseLine(line string) (def Definition, ok bool, err error) {
	raw := strings.TrimSpace(line)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return Definition{}, false, nil
	}

	var trigger, cond, body, prob string
	if m := colonForm.FindStringSubmatch(raw); m != nil {
		trigger, cond, body, prob = m[1], m[2], m[3], m[4]
	} else if m := parenForm.FindStringSubmatch(raw); m != nil {
		trigger, cond, body, prob = m[1], m[2], m[3], m[4]
	} else if m := plainForm.FindStringSubmatch(raw); m != nil {
		trigger, body, prob = m[1], m[2], m[3]
	} else {
		return Definition{}, false, &ParseError{Text: raw}
	}

	def = Definition{Condition: cond, Body: body, Probability: 1}
	def.Trigger, _ = utf8.DecodeRuneInString(trigger)
	if prob != "" {
		p, err := strconv.ParseFloat(prob, 64)
		if err != nil {
			return Definition{}, false, &ParseError{Text: raw, Err: err}
		}
		def.Probability = p
	}
	return def, true, nil
}

// Parse parses every line of text.
func Parse(text string) ([]Definition, error) {
	return ParseLines(strings.Split(text, "\n"))
}

// ParseLines parses one rule per entry. Line numbers count entries from 1.
func ParseLines(lines []string) ([]Definition, error) {
	var defs []Definition
	for i, line := range lines {
		def, ok, err := ParseLine(line)
		if err != nil {
			return nil, atLine(err, i+1)
		}
		if !ok {
			continue
		}
		def.Line = i + 1
		defs = append(defs, def)
	}
	return defs, nil
}

// Compile builds the rules against reg, keeping their order.
func Compile(reg *lsystem.Registry, defs []Definition) ([]*lsystem.Rule, error) {
	out := make([]*lsystem.Rule, 0, len(defs))
	for _, d := range defs {
		r, err := lsystem.NewRule(reg, d.Trigger, d.Condition, d.Body, d.Probability)
		if err != nil {
			return nil, &ParseError{Line: d.Line, Text: d.String(), Err: err}
		}
		out = append(out, r)
	}
	return out, nil
}

// Build parses and compiles text in one go.
func Build(reg *lsystem.Registry, text string) ([]*lsystem.Rule, error) {
	defs, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return Compile(reg, defs)
}

func atLine(err error, line int) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Line = line
		return pe
	}
	return errors.Wrapf(err, "line %d", line)
}
