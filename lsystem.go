// Package lsystem implements parametric, conditional and stochastic
// Lindenmayer systems: symbol types with default parameters and drawing
// actions, guarded probabilistic rewriting rules and the engine that expands
// an axiom generation by generation.
package lsystem

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/hananel42/L-system-studio/internal/ctxlog"
)

// DefaultMaxLength bounds the length of a generation.
const DefaultMaxLength = 500000

// Random is the uniform [0, 1) source rules draw from. *rand.Rand satisfies
// it.
type Random interface {
	Float64() float64
}

// LSystem holds an axiom and its rules and rewrites it one generation (tier)
// at a time.
type LSystem struct {
	rules []*Rule

	currentTier uint

	rng  Random
	tier Axiom

	mu sync.Mutex

	maxLength int
}

type Option func(*LSystem)

// WithRand injects the random source. Runs are reproducible only with a
// deterministic source.
func WithRand(r Random) Option {
	return func(ls *LSystem) { ls.rng = r }
}

// WithSeed uses a math/rand source seeded with seed.
func WithSeed(seed int64) Option {
	return func(ls *LSystem) { ls.rng = rand.New(rand.NewSource(seed)) }
}

// WithMaxLength sets the generation length ceiling. Values below 1 restore
// DefaultMaxLength.
func WithMaxLength(n int) Option {
	return func(ls *LSystem) {
		if n < 1 {
			n = DefaultMaxLength
		}
		ls.maxLength = n
	}
}

// New prepares a system starting from axiom. Rules are tried in the given
// order.
func New(axiom Axiom, rules []*Rule, opts ...Option) *LSystem {
	ls := &LSystem{
		rules:     append([]*Rule(nil), rules...),
		tier:      NewAxiom(axiom.symbols...),
		maxLength: DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(ls)
	}
	if ls.rng == nil {
		ls.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return ls
}

// Run expands axiom for the given number of generations. When the length
// ceiling is hit it returns the last complete generation with a
// *TooLargeError.
func Run(ctx context.Context, axiom Axiom, rules []*Rule, iterations int, opts ...Option) (Axiom, error) {
	ls := New(axiom, rules, opts...)
	if iterations < 0 {
		iterations = 0
	}
	err := ls.DerivateUntil(ctx, uint(iterations))
	return ls.Export(), err
}

/*
Derivate rewrites the current tier once.

For every symbol the rules are tried in order and the first one that fires
supplies the replacement; a symbol no rule fires for is copied unchanged.
Every rule tried draws from the random source, matching or not, so the
sequence of draws only depends on the tier and the rule order.

The new tier never shares parameter lists with the old one. If it grows past
the length ceiling the current tier is kept and a *TooLargeError returned.
*/
func (ls *LSystem) Derivate(ctx context.Context) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	logger := ctxlog.FromContext(ctx)

	for _, r := range ls.rules {
		if err := r.validate(); err != nil {
			return err
		}
	}

	input := ls.tier.symbols
	output := make([]Symbol, 0, len(input))
	fired := 0
	for _, sym := range input {
		if !sym.Type.Defined() {
			return &UnknownSymbolError{Name: sym.Type.Name()}
		}

		applied := false
		for _, r := range ls.rules {
			replacement, ok, err := r.TryFire(sym, ls.rng)
			if err != nil {
				return err
			}
			if ok {
				output = append(output, replacement...)
				applied = true
				fired++
				break
			}
		}
		if !applied {
			output = append(output, sym.Clone())
		}

		if len(output) > ls.maxLength {
			err := &TooLargeError{Generation: ls.currentTier + 1, Length: len(output), Limit: ls.maxLength}
			logger.Warn("Expansion stopped at length ceiling.", "tier", ls.currentTier, "length", len(input), "limit", ls.maxLength)
			return err
		}
	}

	ls.tier = Axiom{symbols: output}
	ls.currentTier++

	logger.Debug("Generation rewritten.", "tier", ls.currentTier, "length", len(output), "fired", fired)
	return nil
}

// DerivateUntil runs generations until the given number of tiers is reached.
func (ls *LSystem) DerivateUntil(ctx context.Context, tiers uint) error {
	for ls.CurrentTier() < tiers {
		if err := ls.Derivate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Export returns the current tier.
func (ls *LSystem) Export() Axiom {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	return NewAxiom(ls.tier.symbols...)
}

func (ls *LSystem) CurrentTier() uint {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	return ls.currentTier
}

// Rules returns the rules in firing order.
func (ls *LSystem) Rules() []*Rule {
	return append([]*Rule(nil), ls.rules...)
}
