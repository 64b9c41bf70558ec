package deinflect

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// update rewrites the golden fixtures under testdata/golden with the
// engine's current output, in the style of github.com/sebdah/goldie/v2's
// -update flag, hand-rolled here since goldie itself is not a
// dependency of this module.
var update = flag.Bool("update", false, "rewrite golden fixtures with the engine's current output")

// goldenState is the JSON shape a golden fixture records for one
// yielded transform.State: enough to catch a regression in text,
// condition bit assignment, or trace order/content.
type goldenState struct {
	Text       string   `json:"text"`
	Conditions uint64   `json:"conditions"`
	Trace      []string `json:"trace"`
}

func goldenStatesFor(e *Engine, source string) []goldenState {
	states := make([]goldenState, 0)
	for s := range e.Transform(source) {
		names := make([]string, len(s.Trace))
		for i, step := range s.Trace {
			names[i] = step.Rule
		}
		states = append(states, goldenState{Text: s.Text, Conditions: uint64(s.Conditions), Trace: names})
	}
	return states
}

func assertGolden(t *testing.T, name string, got []goldenState) {
	t.Helper()
	path := filepath.Join("testdata", "golden", name+".json")

	gotJSON, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		t.Fatalf("marshaling golden output for %s: %v", name, err)
	}
	gotJSON = append(gotJSON, '\n')

	if *update {
		if err := os.WriteFile(path, gotJSON, 0o644); err != nil {
			t.Fatalf("writing golden fixture %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading golden fixture %s (run go test -update to create it): %v", path, err)
	}
	if string(want) != string(gotJSON) {
		t.Errorf("golden mismatch for %s:\n--- want ---\n%s\n--- got ---\n%s", name, want, gotJSON)
	}
}

// TestGoldenScenarios pins the engine's full candidate enumeration
// (text, condition bits, and trace) for six of spec §8's end-to-end
// scenarios against recorded fixtures, catching any change to BFS
// order, condition bit assignment, or trace direction that the
// narrower hasState-style assertions in transform_test.go wouldn't
// notice because they only check for a single expected candidate's
// presence, not the complete reachable set.
func TestGoldenScenarios(t *testing.T) {
	e := New()
	if err := e.AddDescriptor(loadFixture(t)); err != nil {
		t.Fatalf("AddDescriptor: %v", err)
	}

	scenarios := []struct {
		name, source string
	}{
		{"polite_past", "食べました"},
		{"causative_passive_contraction", "買わされる"},
		{"te_shimau_chain", "行ってしまう"},
		{"illegal_inflection_unreachable", "すた"},
		{"ge_ki_cycle_guard", "かわいげ"},
		{"spurious_progressive_blocked", "食べて"},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			assertGolden(t, sc.name, goldenStatesFor(e, sc.source))
		})
	}
}
