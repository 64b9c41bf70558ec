// Package transform implements the breadth-first search that enumerates
// every candidate lemma reachable from a surface string by repeatedly
// applying a compiled descriptor's rules.
package transform

import (
	"iter"

	"github.com/jtransform/deinflect/condition"
	"github.com/jtransform/deinflect/descriptor"
)

// DefaultMaxDepth bounds the number of rule applications chained from the
// source string. It is one of the two termination guards (alongside
// visited-set dedup) required to keep rules such as -ge on i-adjectives
// from diverging.
const DefaultMaxDepth = 16

// TraceStep names one rule application on the path from the source
// string to a candidate: Rule is the descriptor rule name, From is the
// string the rule was applied to.
type TraceStep struct {
	Rule string
	From string
}

// State is one candidate reachable from the search's source string.
type State struct {
	Text       string
	Conditions condition.Set
	Trace      []TraceStep
}

// Option configures a Run call.
type Option func(*config)

type config struct {
	maxDepth int
}

// WithMaxDepth overrides DefaultMaxDepth. A state at depth maxDepth is
// still emitted but is not expanded further.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		c.maxDepth = n
	}
}

type visitedKey struct {
	text       string
	conditions condition.Set
}

// Run searches c for every candidate reachable from source and returns
// them as a lazy, BFS-ordered sequence: shallower traces first, ties
// broken by rule order in c.Rules and variant order within each rule.
// Each State's Trace reads in conjugation order (root outward to
// source), even though the search itself peels source outward-in.
//
// Run never returns an error. An empty source yields an empty sequence.
// The search is purely functional: all mutable state (the work list, the
// visited set) is local to this call, so c may be shared by any number
// of concurrent Run calls.
func Run(c *descriptor.Compiled, source string, opts ...Option) iter.Seq[State] {
	cfg := config{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(yield func(State) bool) {
		if source == "" {
			return
		}

		visited := make(map[visitedKey]bool, 64)
		start := State{Text: source, Conditions: condition.All}
		visited[visitedKey{start.Text, start.Conditions}] = true

		queue := []State{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			if !yield(cur) {
				return
			}

			if len(cur.Trace) >= cfg.maxDepth {
				continue
			}

			for _, rule := range c.Rules {
				for _, v := range rule.Variants {
					if !condition.Matches(cur.Conditions, v.ConditionsIn) {
						continue
					}
					next, ok := apply(cur.Text, v)
					if !ok {
						continue
					}
					key := visitedKey{next, v.ConditionsOut}
					if visited[key] {
						continue
					}
					visited[key] = true

					// The search peels the surface string outward-in, so the rule
					// applied here stripped the outermost layer remaining on cur.Text —
					// the FIRST step in conjugation order. Prepend so Trace reads
					// root-to-surface, matching how a dictionary form is built up.
					trace := make([]TraceStep, len(cur.Trace)+1)
					trace[0] = TraceStep{Rule: rule.Name, From: cur.Text}
					copy(trace[1:], cur.Trace)

					queue = append(queue, State{
						Text:       next,
						Conditions: v.ConditionsOut,
						Trace:      trace,
					})
				}
			}
		}
	}
}

// apply computes the candidate produced by applying v to t, and reports
// whether v applies at all given v.Kind and t's shape.
func apply(t string, v descriptor.Variant) (string, bool) {
	switch v.Kind {
	case descriptor.KindSuffix:
		if len(t) <= len(v.PatternIn) || !hasSuffix(t, v.PatternIn) {
			return "", false
		}
		return t[:len(t)-len(v.PatternIn)] + v.Replacement, true

	case descriptor.KindPrefix:
		if len(t) <= len(v.PatternIn) || !hasPrefix(t, v.PatternIn) {
			return "", false
		}
		return v.Replacement + t[len(v.PatternIn):], true

	case descriptor.KindWholeWord:
		if t != v.PatternIn {
			return "", false
		}
		return v.Replacement, true

	default:
		// KindOther: no bundled matcher, never applies.
		return "", false
	}
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
