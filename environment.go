package lsystem

import (
	"strconv"
	"strings"

	"github.com/hananel42/L-system-studio/expr"
)

// Param is one named parameter value.
type Param struct {
	Name  string
	Value expr.Value
}

// Params is an ordered parameter mapping. Order is declaration order and is
// what positional parameter lists bind against. Params implements
// expr.Environment.
type Params []Param

// Lookup returns the value bound to name.
func (p Params) Lookup(name string) (expr.Value, bool) {
	for _, kv := range p {
		if kv.Name == name {
			return kv.Value, true
		}
	}
	return expr.Value{}, false
}

// Get returns the value bound to name, or 0.
func (p Params) Get(name string) expr.Value {
	v, _ := p.Lookup(name)
	return v
}

// Names returns the parameter names in order.
func (p Params) Names() []string {
	names := make([]string, len(p))
	for i, kv := range p {
		names[i] = kv.Name
	}
	return names
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	copy(out, p)
	return out
}

// With returns a copy of p where name is bound to v. An existing name keeps
// its position, a new one is appended.
func (p Params) With(name string, v expr.Value) Params {
	out := p.Clone()
	for i := range out {
		if out[i].Name == name {
			out[i].Value = v
			return out
		}
	}
	return append(out, Param{Name: name, Value: v})
}

// Equal reports whether p and o bind the same names, in the same order, to
// equal values.
func (p Params) Equal(o Params) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i].Name != o[i].Name || !p[i].Value.Equal(o[i].Value) {
			return false
		}
	}
	return true
}

// String renders p as "l=10, c='#000'".
func (p Params) String() string {
	parts := make([]string, len(p))
	for i, kv := range p {
		parts[i] = kv.Name + "=" + literal(kv.Value)
	}
	return strings.Join(parts, ", ")
}

// ParseParams reads the parameter syntax of the symbol editor: comma
// separated "name=value" pairs where a bare name defaults to 0. Quoted values
// are strings; other values that are not numbers become 0.
func ParseParams(text string) Params {
	var out Params
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, raw, found := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		v := expr.Number(0)
		if found {
			v = parseDefault(strings.TrimSpace(raw))
		}
		out = out.With(name, v)
	}
	return out
}

func parseDefault(raw string) expr.Value {
	if n := len(raw); n >= 2 && (raw[0] == '\'' || raw[0] == '"') && raw[n-1] == raw[0] {
		return expr.String(raw[1 : n-1])
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return expr.Number(0)
	}
	return expr.Number(f)
}

// literal formats v the way it would be written in a parameter list.
func literal(v expr.Value) string {
	if v.Kind() == expr.KindString {
		return "'" + strings.ReplaceAll(v.Text(), "'", `\'`) + "'"
	}
	return v.Text()
}
