// Package condition implements the bitmask condition algebra that gates
// transform rule applicability: a fixed universe of named grammatical
// categories, each assigned a bit position, with sub-type relationships
// expanded into flag unions at registration time.
package condition

import (
	"fmt"
)

// Set is a bitmask over the condition universe. The zero value means
// "no constraint"; All means "unrestricted" (the initial value for
// every search).
type Set uint64

// All matches any condition requirement; it is the initial set assigned
// to every search's starting state.
const All Set = ^Set(0)

// maxConditions is the number of distinct condition types a single Set
// can represent. Descriptors are Japanese-scale (well under 32 names in
// practice); 64 leaves generous headroom without requiring a wide-set
// type.
const maxConditions = 64

// TypeDef is the raw, as-declared shape of one condition type, mirroring
// the descriptor JSON's "conditions" object.
type TypeDef struct {
	Name             string
	IsDictionaryForm bool
	SubConditions    []string
}

// Universe is the compiled condition-type table for one descriptor: each
// name maps to a single bit, and to its expanded flags (its own bit OR
// the expanded flags of every transitive sub-type).
type Universe struct {
	bitOf   map[string]int
	flags   map[string]Set
	dict    map[string]bool
	names   []string // registration order, for deterministic iteration
}

// CycleError reports a cycle in the condition sub-type graph, discovered
// during Register. The condition graph must be a DAG: a type's expanded
// flags are a fixed point over its sub-types, which is undefined if any
// type is (transitively) its own sub-type.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("condition: cycle in sub-type graph: %v", e.Path)
}

// UnknownReferenceError reports a sub-type reference to a name that is
// not present in the descriptor's condition set.
type UnknownReferenceError struct {
	From string
	To   string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("condition: %q references unknown sub-type %q", e.From, e.To)
}

// TooManyConditionsError reports a descriptor whose condition universe
// exceeds the bits available in a Set.
type TooManyConditionsError struct {
	Count int
}

func (e *TooManyConditionsError) Error() string {
	return fmt.Sprintf("condition: universe has %d condition types, maximum is %d", e.Count, maxConditions)
}

// Register assigns each top-level condition type a unique bit, in the
// order names is given (the descriptor's declaration order, so that
// compiling the same descriptor twice assigns the same bits and BFS
// tie-breaks stay faithful to the order the descriptor's author wrote
// conditions in), then computes each type's expanded flags: its own bit
// OR (recursively) the expanded flags of its sub-types.
//
// names must contain exactly the keys of defs; Register does not sort
// or otherwise reorder it.
//
// Fails with *UnknownReferenceError if a sub-type name is not declared,
// with *CycleError if the sub-type graph is cyclic, and with
// *TooManyConditionsError if the universe exceeds 64 names.
func Register(names []string, defs map[string]TypeDef) (*Universe, error) {
	if len(defs) > maxConditions {
		return nil, &TooManyConditionsError{Count: len(defs)}
	}

	for _, name := range names {
		for _, sub := range defs[name].SubConditions {
			if _, ok := defs[sub]; !ok {
				return nil, &UnknownReferenceError{From: name, To: sub}
			}
		}
	}

	if cycle := findCycle(defs, names); cycle != nil {
		return nil, &CycleError{Path: cycle}
	}

	u := &Universe{
		bitOf: make(map[string]int, len(names)),
		flags: make(map[string]Set, len(names)),
		dict:  make(map[string]bool, len(names)),
		names: names,
	}
	for i, name := range names {
		u.bitOf[name] = i
		u.dict[name] = defs[name].IsDictionaryForm
	}

	memo := make(map[string]Set, len(names))
	var expand func(name string) Set
	expand = func(name string) Set {
		if s, ok := memo[name]; ok {
			return s
		}
		s := Set(1) << uint(u.bitOf[name])
		for _, sub := range defs[name].SubConditions {
			s |= expand(sub)
		}
		memo[name] = s
		return s
	}
	for _, name := range names {
		u.flags[name] = expand(name)
	}

	return u, nil
}

// findCycle runs Tarjan's strongly-connected-components algorithm over
// the sub-type graph and returns the first non-trivial SCC (a genuine
// cycle, not a shared sub-type reached from multiple parents) as a
// name path, or nil if the graph is a DAG.
func findCycle(defs map[string]TypeDef, names []string) []string {
	var (
		index   = 0
		stack   []string
		onStack = make(map[string]bool, len(names))
		indices = make(map[string]int, len(names))
		lowlink = make(map[string]int, len(names))
		cycle   []string
	)

	var strongConnect func(v string)
	strongConnect = func(v string) {
		if cycle != nil {
			return
		}
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range defs[v].SubConditions {
			if cycle != nil {
				return
			}
			if _, seen := indices[w]; !seen {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if cycle != nil {
			return
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if len(scc) > 1 || selfLoop(v, defs) {
				cycle = scc
			}
		}
	}

	for _, name := range names {
		if cycle != nil {
			return cycle
		}
		if _, seen := indices[name]; !seen {
			strongConnect(name)
		}
	}
	return cycle
}

func selfLoop(v string, defs map[string]TypeDef) bool {
	for _, sub := range defs[v].SubConditions {
		if sub == v {
			return true
		}
	}
	return false
}

// FlagsOf returns the expanded flags for name, and false if name is not
// in the universe.
func (u *Universe) FlagsOf(name string) (Set, bool) {
	s, ok := u.flags[name]
	return s, ok
}

// IsDictionaryForm reports whether name was declared with
// isDictionaryForm: true.
func (u *Universe) IsDictionaryForm(name string) bool {
	return u.dict[name]
}

// Names returns the condition names in registration (descriptor
// declaration) order.
func (u *Universe) Names() []string {
	out := make([]string, len(u.names))
	copy(out, u.names)
	return out
}

// Matches is the engine's sole applicability gate: a candidate's current
// condition set have is compatible with a rule's required set need if
// they share at least one bit, if need imposes no constraint (zero), or
// if have is unrestricted (All).
func Matches(have, need Set) bool {
	return have&need != 0 || need == 0 || have == All
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
