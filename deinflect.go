// Package deinflect provides a morphological deinflection engine: given a
// surface (inflected) string, it enumerates every dictionary-form
// candidate reachable by repeatedly reversing a language's transform
// rules, tracking the grammatical conditions each reversal requires and
// produces.
//
// The engine knows nothing about any particular language. Callers supply
// a JSON transform descriptor (package descriptor) via AddDescriptor;
// everything after that — the condition bitmask algebra and the search
// itself — is generic.
package deinflect

import (
	"iter"

	"github.com/jtransform/deinflect/condition"
	"github.com/jtransform/deinflect/descriptor"
	"github.com/jtransform/deinflect/transform"
)

// State is one candidate reachable from an Engine.Transform call.
type State = transform.State

// Engine holds a compiled transform descriptor and answers the three
// query operations over it. An Engine with no descriptor loaded answers
// Transform with an empty sequence for every input.
type Engine struct {
	compiled *descriptor.Compiled
	opts     []transform.Option
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*Engine)

// WithMaxDepth overrides the search's trace-depth guard (default
// transform.DefaultMaxDepth) for every call to Transform on this Engine.
func WithMaxDepth(n int) EngineOption {
	return func(e *Engine) {
		e.opts = append(e.opts, transform.WithMaxDepth(n))
	}
}

// New returns an Engine with no descriptor loaded.
func New(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddDescriptor compiles raw (a JSON transform descriptor, see package
// descriptor) and installs it as the Engine's active rule table,
// replacing any descriptor loaded previously.
//
// On error the Engine's prior state, if any, is left untouched: a
// failed AddDescriptor never leaves the Engine partially updated.
func (e *Engine) AddDescriptor(raw []byte) error {
	c, err := descriptor.Compile(raw)
	if err != nil {
		return err
	}
	e.compiled = c
	return nil
}

// Transform enumerates every candidate reachable from source by
// repeatedly reversing the loaded descriptor's rules, in breadth-first
// order (shortest trace first). The sequence is lazy: callers may stop
// iterating at any point. An Engine with no descriptor loaded, or an
// empty source, yields an empty sequence.
func (e *Engine) Transform(source string) iter.Seq[State] {
	if e.compiled == nil {
		return func(func(State) bool) {}
	}
	return transform.Run(e.compiled, source, e.opts...)
}

// ConditionFlagsOf returns the expanded condition bitmask for name, and
// false if name is not declared in the loaded descriptor (or no
// descriptor is loaded).
func (e *Engine) ConditionFlagsOf(name string) (condition.Set, bool) {
	if e.compiled == nil {
		return 0, false
	}
	return e.compiled.Universe.FlagsOf(name)
}

// ConditionsMatch reports whether a candidate's current condition set
// have is compatible with a rule's required set need; see
// condition.Matches for the exact predicate.
func (e *Engine) ConditionsMatch(have, need condition.Set) bool {
	return condition.Matches(have, need)
}

// IsDictionaryForm reports whether name was declared with
// isDictionaryForm: true in the loaded descriptor.
func (e *Engine) IsDictionaryForm(name string) bool {
	if e.compiled == nil {
		return false
	}
	return e.compiled.Universe.IsDictionaryForm(name)
}

// DescriptorHash returns the content hash of the loaded descriptor, or
// the empty string if none is loaded. Useful for cache keys and CLI
// version introspection.
func (e *Engine) DescriptorHash() string {
	if e.compiled == nil {
		return ""
	}
	return e.compiled.Hash()
}
