package lsystem

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// SymbolType is a named category of symbol: a single rune key, ordered default
// parameters and a drawing action. It is owned by a Registry.
type SymbolType struct {
	name rune
	reg  *Registry

	defaults Params
	action   *Action
	retired  atomic.Bool
}

func (t *SymbolType) Name() rune { return t.name }

// Defaults returns a copy of the default parameters.
func (t *SymbolType) Defaults() Params {
	t.reg.mu.RLock()
	defer t.reg.mu.RUnlock()
	return t.defaults.Clone()
}

// Action returns the compiled drawing action.
func (t *SymbolType) Action() *Action {
	t.reg.mu.RLock()
	defer t.reg.mu.RUnlock()
	return t.action
}

// Defined reports whether the type is still registered.
func (t *SymbolType) Defined() bool {
	return !t.retired.Load()
}

func (t *SymbolType) String() string { return string(t.name) }

// Registry maps symbol keys to their types. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[rune]*SymbolType
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[rune]*SymbolType)}
}

// DefaultRegistry returns the symbol set the editor starts with.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	defs := []struct {
		name   rune
		params string
		action string
	}{
		{'F', "l=10, c=0", "forward(l,1,c)"},
		{'+', "d=1", "angle(d)"},
		{'-', "d=-1", "angle(d)"},
		{'[', "", "push()"},
		{']', "", "pop()"},
		{'X', "", ""},
	}
	for _, d := range defs {
		if _, err := reg.Define(d.name, ParseParams(d.params), d.action); err != nil {
			panic(err)
		}
	}
	return reg
}

// Define compiles script and registers or replaces the type name. Replacing a
// type keeps its identity, so rules that reference it see the new defaults and
// action. When script does not compile the registry is left unchanged.
func (r *Registry) Define(name rune, defaults Params, script string) (*SymbolType, error) {
	action, err := CompileAction(script)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to define symbol %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.types[name]; ok {
		t.defaults = defaults.Clone()
		t.action = action
		return t, nil
	}
	t := &SymbolType{name: name, reg: r, defaults: defaults.Clone(), action: action}
	r.types[name] = t
	return t, nil
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name rune) (*SymbolType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	if !ok {
		return nil, &UnknownSymbolError{Name: name}
	}
	return t, nil
}

// Undefine removes name. Rules and symbols still holding the type fail with
// UnknownSymbolError from then on. It reports whether name was defined.
func (r *Registry) Undefine(name rune) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.types[name]
	if !ok {
		return false
	}
	t.retired.Store(true)
	delete(r.types, name)
	return true
}

// Names returns the registered keys in ascending order.
func (r *Registry) Names() []rune {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]rune, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}
