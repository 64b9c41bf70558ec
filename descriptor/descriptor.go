// Package descriptor decodes and compiles the JSON language transform
// descriptor of spec §6 into a searchable form: a condition universe
// (package condition) and a flat table of rules keyed by name, each with
// its variants resolved to bitmasks so that no further name lookups
// occur during search.
package descriptor

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jtransform/deinflect/condition"
)

// Kind distinguishes the match shape of a variant.
type Kind int

const (
	// KindSuffix requires the candidate to end with PatternIn; the
	// overwhelming common case.
	KindSuffix Kind = iota
	// KindPrefix requires the candidate to start with PatternIn.
	KindPrefix
	// KindWholeWord requires the candidate to equal PatternIn exactly.
	KindWholeWord
	// KindOther is reserved for implementation extensions; a variant
	// with this kind never applies, since the engine has no matcher
	// for it.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindSuffix:
		return "suffix"
	case KindPrefix:
		return "prefix"
	case KindWholeWord:
		return "wholeword"
	default:
		return "other"
	}
}

func parseKind(s string) (Kind, bool) {
	switch s {
	case "suffix", "":
		return KindSuffix, true
	case "prefix":
		return KindPrefix, true
	case "wholeword":
		return KindWholeWord, true
	case "other":
		return KindOther, true
	default:
		return 0, false
	}
}

// Variant is one concrete suffix/prefix/whole-word substitution, with
// condition references already resolved to bitmasks.
type Variant struct {
	Kind          Kind
	PatternIn     string
	Replacement   string
	ConditionsIn  condition.Set
	ConditionsOut condition.Set
}

// Rule is a named transform comprising an ordered list of independent
// variants.
type Rule struct {
	Name     string
	Variants []Variant
}

// Compiled is the result of Compile: a condition universe plus a flat,
// declaration-ordered list of rules ready for transform.Run. Compiled is
// immutable and safe for concurrent use by any number of callers.
type Compiled struct {
	Language string
	Universe *condition.Universe
	Rules    []Rule
}

// rawDescriptor mirrors the JSON shape of spec §6 exactly. Conditions and
// Transforms are decoded as raw objects rather than maps so that
// orderedKeys can recover the descriptor author's declaration order,
// which Go's map-based json.Unmarshal would otherwise discard.
type rawDescriptor struct {
	Language   string          `json:"language"`
	Conditions json.RawMessage `json:"conditions"`
	Transforms json.RawMessage `json:"transforms"`
}

type rawCondition struct {
	Name             string   `json:"name"`
	IsDictionaryForm bool     `json:"isDictionaryForm"`
	SubConditions    []string `json:"subConditions"`
}

type rawTransformRule struct {
	Name  string         `json:"name"`
	Rules []rawRuleEntry `json:"rules"`
}

type rawRuleEntry struct {
	Type          string   `json:"type"`
	IsInflected   string   `json:"isInflected"`
	Deinflected   string   `json:"deinflected"`
	Deinflect     string   `json:"deinflect"`
	ConditionsIn  []string `json:"conditionsIn"`
	ConditionsOut []string `json:"conditionsOut"`
}

// Compile parses raw as a language transform descriptor and compiles it
// into a Compiled engine state. Descriptor errors (UnknownCondition,
// MalformedDescriptor, EmptyOrDegenerateRule) are collected across every
// rule and variant rather than stopping at the first one found, then
// joined (via errors.Join — unwrap with Errors, or descriptor.IsXxx /
// errors.As against the joined error) into a single returned error. On
// error the caller's prior engine state, if any, is left untouched
// (Compile never mutates shared state).
func Compile(raw []byte) (*Compiled, error) {
	var rd rawDescriptor
	if err := json.Unmarshal(raw, &rd); err != nil {
		return nil, &ErrMalformedDescriptor{Reason: err.Error()}
	}

	conditionNames, err := orderedKeys(rd.Conditions)
	if err != nil {
		return nil, &ErrMalformedDescriptor{Reason: fmt.Sprintf("conditions: %s", err)}
	}
	var conditions map[string]rawCondition
	if len(conditionNames) > 0 {
		if err := json.Unmarshal(rd.Conditions, &conditions); err != nil {
			return nil, &ErrMalformedDescriptor{Reason: fmt.Sprintf("conditions: %s", err)}
		}
	}

	defs := make(map[string]condition.TypeDef, len(conditionNames))
	for _, name := range conditionNames {
		c := conditions[name]
		defs[name] = condition.TypeDef{
			Name:             name,
			IsDictionaryForm: c.IsDictionaryForm,
			SubConditions:    c.SubConditions,
		}
	}

	universe, err := condition.Register(conditionNames, defs)
	if err != nil {
		return nil, translateConditionError(err)
	}

	ruleNames, err := orderedKeys(rd.Transforms)
	if err != nil {
		return nil, &ErrMalformedDescriptor{Reason: fmt.Sprintf("transforms: %s", err)}
	}
	var transforms map[string]rawTransformRule
	if len(ruleNames) > 0 {
		if err := json.Unmarshal(rd.Transforms, &transforms); err != nil {
			return nil, &ErrMalformedDescriptor{Reason: fmt.Sprintf("transforms: %s", err)}
		}
	}

	var errs []error
	rules := make([]Rule, 0, len(ruleNames))
	for _, name := range ruleNames {
		rule, ruleErrs := compileRule(name, transforms[name], universe)
		if len(ruleErrs) > 0 {
			errs = append(errs, ruleErrs...)
			continue
		}
		rules = append(rules, rule)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Compiled{
		Language: rd.Language,
		Universe: universe,
		Rules:    rules,
	}, nil
}

// orderedKeys walks raw (a JSON object, or absent/null) with
// json.Decoder.Token and returns its top-level keys in source order.
// json.Unmarshal into a Go map cannot preserve this order; Compile needs
// it so that rule/condition declaration order survives into BFS
// tie-breaking and bit assignment, per spec.
func orderedKeys(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}

	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string key")
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// compileRule compiles every variant of raw, collecting every error
// found rather than stopping at the first: callers (deinflect validate
// in particular) report every fault in a descriptor in one pass.
func compileRule(name string, raw rawTransformRule, universe *condition.Universe) (Rule, []error) {
	if len(raw.Rules) == 0 {
		return Rule{}, []error{&ErrEmptyOrDegenerateRule{Rule: name, Reason: "no variants"}}
	}

	var errs []error
	variants := make([]Variant, 0, len(raw.Rules))
	for i, entry := range raw.Rules {
		v, err := compileVariant(name, i, entry, universe)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		variants = append(variants, v)
	}
	if len(errs) > 0 {
		return Rule{}, errs
	}

	return Rule{Name: name, Variants: variants}, nil
}

func compileVariant(ruleName string, idx int, entry rawRuleEntry, universe *condition.Universe) (Variant, error) {
	kind, ok := parseKind(entry.Type)
	if !ok {
		return Variant{}, &ErrMalformedDescriptor{
			Reason: fmt.Sprintf("rule %q variant %d: unknown type %q", ruleName, idx, entry.Type),
		}
	}

	replacement := entry.Deinflected
	if replacement == "" && entry.Deinflect != "" {
		replacement = entry.Deinflect
	}

	patternIn := entry.IsInflected

	if (kind == KindSuffix || kind == KindPrefix || kind == KindWholeWord) && patternIn == "" && replacement == "" {
		return Variant{}, &ErrMalformedDescriptor{
			Reason: fmt.Sprintf("rule %q variant %d: zero-length pattern with kind %q", ruleName, idx, kind),
		}
	}

	condIn, err := resolveSet(ruleName, idx, "conditionsIn", entry.ConditionsIn, universe)
	if err != nil {
		return Variant{}, err
	}
	condOut, err := resolveSet(ruleName, idx, "conditionsOut", entry.ConditionsOut, universe)
	if err != nil {
		return Variant{}, err
	}

	if patternIn == replacement && condIn == condOut {
		return Variant{}, &ErrEmptyOrDegenerateRule{
			Rule:   ruleName,
			Reason: fmt.Sprintf("variant %d is a no-op: pattern equals replacement and conditions are unchanged", idx),
		}
	}

	return Variant{
		Kind:          kind,
		PatternIn:     patternIn,
		Replacement:   replacement,
		ConditionsIn:  condIn,
		ConditionsOut: condOut,
	}, nil
}

func resolveSet(ruleName string, idx int, field string, names []string, universe *condition.Universe) (condition.Set, error) {
	var set condition.Set
	for _, name := range names {
		flags, ok := universe.FlagsOf(name)
		if !ok {
			return 0, &ErrUnknownCondition{Rule: ruleName, VariantIndex: idx, Field: field, Name: name}
		}
		set |= flags
	}
	return set, nil
}

func translateConditionError(err error) error {
	switch e := err.(type) {
	case *condition.UnknownReferenceError:
		return &ErrUnknownCondition{Rule: "<condition " + e.From + ">", Field: "subConditions", Name: e.To}
	case *condition.CycleError:
		return &ErrMalformedDescriptor{Reason: fmt.Sprintf("condition sub-type cycle: %v", e.Path)}
	case *condition.TooManyConditionsError:
		return &ErrMalformedDescriptor{Reason: e.Error()}
	default:
		return err
	}
}

// Hash returns a content-addressed fingerprint of the compiled rule
// table, stable across process restarts for identical descriptor input.
// It has no bearing on search semantics; it exists for CLI/version
// introspection and cache-key use.
func (c *Compiled) Hash() string {
	h := sha256.New()
	h.Write([]byte("deinflect/descriptor/v1\x00"))
	h.Write([]byte(c.Language))
	for _, name := range c.Universe.Names() {
		flags, _ := c.Universe.FlagsOf(name)
		fmt.Fprintf(h, "\x00cond:%s:%d", name, flags)
	}
	for _, r := range c.Rules {
		for _, v := range r.Variants {
			fmt.Fprintf(h, "\x00rule:%s:%d:%s:%s:%d:%d", r.Name, v.Kind, v.PatternIn, v.Replacement, v.ConditionsIn, v.ConditionsOut)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
