package condition

import (
	"fmt"
	"sort"
	"testing"
)

// sortedNames returns defs's keys in sorted order, for tests where
// registration order is incidental rather than the thing under test.
func sortedNames(defs map[string]TypeDef) []string {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestRegisterExpandsSubTypes(t *testing.T) {
	defs := map[string]TypeDef{
		"v5":  {Name: "v5", SubConditions: []string{"v5k", "v5s"}},
		"v5k": {Name: "v5k"},
		"v5s": {Name: "v5s"},
		"v1":  {Name: "v1", IsDictionaryForm: true},
	}

	u, err := Register(sortedNames(defs), defs)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	v5, ok := u.FlagsOf("v5")
	if !ok {
		t.Fatal("v5 not found")
	}
	v5k, _ := u.FlagsOf("v5k")
	v5s, _ := u.FlagsOf("v5s")

	if v5&v5k == 0 {
		t.Errorf("v5 flags %b do not include v5k bit %b", v5, v5k)
	}
	if v5&v5s == 0 {
		t.Errorf("v5 flags %b do not include v5s bit %b", v5, v5s)
	}
	if v5k&v5s != 0 {
		t.Errorf("v5k and v5s should not share bits: %b, %b", v5k, v5s)
	}

	if !u.IsDictionaryForm("v1") {
		t.Error("v1 should be a dictionary form")
	}
	if u.IsDictionaryForm("v5") {
		t.Error("v5 should not be a dictionary form")
	}
}

func TestRegisterDeterministicBitAssignment(t *testing.T) {
	defs := map[string]TypeDef{
		"zeta":  {Name: "zeta"},
		"alpha": {Name: "alpha"},
		"mu":    {Name: "mu"},
	}
	names := []string{"zeta", "alpha", "mu"}

	u1, err := Register(names, defs)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	u2, err := Register(names, defs)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, name := range names {
		f1, _ := u1.FlagsOf(name)
		f2, _ := u2.FlagsOf(name)
		if f1 != f2 {
			t.Errorf("non-deterministic bit assignment for %q: %b vs %b", name, f1, f2)
		}
	}
}

func TestRegisterUnknownSubCondition(t *testing.T) {
	defs := map[string]TypeDef{
		"v5": {Name: "v5", SubConditions: []string{"v5-ghost"}},
	}
	_, err := Register(sortedNames(defs), defs)
	var uerr *UnknownReferenceError
	if err == nil {
		t.Fatal("expected UnknownReferenceError, got nil")
	}
	if !asUnknown(err, &uerr) {
		t.Fatalf("expected *UnknownReferenceError, got %T: %v", err, err)
	}
	if uerr.From != "v5" || uerr.To != "v5-ghost" {
		t.Errorf("unexpected error fields: %+v", uerr)
	}
}

func TestRegisterSelfLoopCycle(t *testing.T) {
	defs := map[string]TypeDef{
		"a": {Name: "a", SubConditions: []string{"a"}},
	}
	_, err := Register(sortedNames(defs), defs)
	var cerr *CycleError
	if !asCycle(err, &cerr) {
		t.Fatalf("expected *CycleError, got %T: %v", err, err)
	}
}

func TestRegisterMutualCycle(t *testing.T) {
	defs := map[string]TypeDef{
		"a": {Name: "a", SubConditions: []string{"b"}},
		"b": {Name: "b", SubConditions: []string{"a"}},
	}
	_, err := Register(sortedNames(defs), defs)
	var cerr *CycleError
	if !asCycle(err, &cerr) {
		t.Fatalf("expected *CycleError, got %T: %v", err, err)
	}
}

func TestRegisterDiamondIsNotACycle(t *testing.T) {
	// v1 and v5 both declare vk as a sub-type: a DAG, not a cycle.
	defs := map[string]TypeDef{
		"vk": {Name: "vk"},
		"v1": {Name: "v1", SubConditions: []string{"vk"}},
		"v5": {Name: "v5", SubConditions: []string{"vk"}},
	}
	if _, err := Register(sortedNames(defs), defs); err != nil {
		t.Fatalf("diamond-shaped sub-type graph should not be a cycle: %v", err)
	}
}

func TestRegisterTooManyConditions(t *testing.T) {
	defs := make(map[string]TypeDef, maxConditions+1)
	for i := 0; i < maxConditions+1; i++ {
		name := fmt.Sprintf("cond%d", i)
		defs[name] = TypeDef{Name: name}
	}
	_, err := Register(sortedNames(defs), defs)
	var terr *TooManyConditionsError
	if !asTooMany(err, &terr) {
		t.Fatalf("expected *TooManyConditionsError, got %T: %v", err, err)
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		have Set
		need Set
		want bool
	}{
		{"shared bit", 0b101, 0b100, true},
		{"no shared bit", 0b001, 0b100, false},
		{"unconstrained need", 0b001, 0, true},
		{"unrestricted have", All, 0b100, true},
		{"unrestricted have, zero need", All, 0, true},
		{"disjoint, non-zero need, non-ALL have", 0b010, 0b100, false},
	}
	for _, tt := range tests {
		if got := Matches(tt.have, tt.need); got != tt.want {
			t.Errorf("%s: Matches(%b, %b) = %v, want %v", tt.name, tt.have, tt.need, got, tt.want)
		}
	}
}

func TestNamesPreservesDeclarationOrder(t *testing.T) {
	defs := map[string]TypeDef{
		"zeta":  {Name: "zeta"},
		"alpha": {Name: "alpha"},
	}
	// Deliberately not alphabetical: Register must keep this order, not
	// re-sort it, since BFS tie-breaking depends on it.
	declared := []string{"zeta", "alpha"}

	u, err := Register(declared, defs)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	names := u.Names()
	if len(names) != 2 || names[0] != "zeta" || names[1] != "alpha" {
		t.Errorf("Names() = %v, want declaration order [zeta alpha]", names)
	}
}

// asUnknown/asCycle/asTooMany avoid importing errors.As in every test
// while still asserting concrete types, matching the teacher's habit of
// small local helpers over repeated boilerplate.
func asUnknown(err error, target **UnknownReferenceError) bool {
	e, ok := err.(*UnknownReferenceError)
	if ok {
		*target = e
	}
	return ok
}

func asCycle(err error, target **CycleError) bool {
	e, ok := err.(*CycleError)
	if ok {
		*target = e
	}
	return ok
}

func asTooMany(err error, target **TooManyConditionsError) bool {
	e, ok := err.(*TooManyConditionsError)
	if ok {
		*target = e
	}
	return ok
}
