package descriptor

import (
	"errors"
	"fmt"
)

// ErrUnknownCondition reports a reference (in conditionsIn, conditionsOut,
// or subConditions) to a condition name absent from the universe.
type ErrUnknownCondition struct {
	Rule         string
	VariantIndex int
	Field        string
	Name         string
}

func (e *ErrUnknownCondition) Error() string {
	return fmt.Sprintf("descriptor: rule %q variant %d: %s references unknown condition %q",
		e.Rule, e.VariantIndex, e.Field, e.Name)
}

// ErrMalformedDescriptor reports structural problems in the JSON input:
// an unparseable document, a "conditions" or "transforms" value that is
// not an object, an unrecognized variant kind, a suffix, prefix or
// whole-word variant whose pattern and replacement are both empty, a
// condition sub-type cycle, or a
// condition universe larger than a Set can hold. Missing fields are not
// checked; they decode as empty values.
type ErrMalformedDescriptor struct {
	Reason string
}

func (e *ErrMalformedDescriptor) Error() string {
	return fmt.Sprintf("descriptor: malformed: %s", e.Reason)
}

// ErrEmptyOrDegenerateRule reports a rule with no variants, or a variant
// that is a no-op (pattern equals replacement and conditions are
// unchanged) — both rejected at compile time per spec §4.3's third
// cycle guard.
type ErrEmptyOrDegenerateRule struct {
	Rule   string
	Reason string
}

func (e *ErrEmptyOrDegenerateRule) Error() string {
	return fmt.Sprintf("descriptor: rule %q: %s", e.Rule, e.Reason)
}

// Errors flattens err into its component errors. Compile joins every
// fault found while compiling a descriptor with errors.Join, so a
// caller that wants to report each one individually (deinflect
// validate, in particular) unwraps with Errors rather than assuming err
// describes a single fault. If err was not produced by errors.Join, err
// itself is the sole element.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// IsUnknownCondition reports whether err is, or wraps, an
// *ErrUnknownCondition.
func IsUnknownCondition(err error) bool {
	var e *ErrUnknownCondition
	return errors.As(err, &e)
}

// IsMalformedDescriptor reports whether err is, or wraps, an
// *ErrMalformedDescriptor.
func IsMalformedDescriptor(err error) bool {
	var e *ErrMalformedDescriptor
	return errors.As(err, &e)
}

// IsEmptyOrDegenerateRule reports whether err is, or wraps, an
// *ErrEmptyOrDegenerateRule.
func IsEmptyOrDegenerateRule(err error) bool {
	var e *ErrEmptyOrDegenerateRule
	return errors.As(err, &e)
}
