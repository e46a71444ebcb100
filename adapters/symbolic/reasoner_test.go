package symbolic

import (
	"fmt"
	"testing"

	"neurosym/domain/core"
	"neurosym/domain/knowledge"
)

var classes = []string{"low", "high"}

func thresholdRule(id string, class string, confidence float64, min float64) knowledge.Rule {
	return knowledge.Rule{
		ID:         core.RuleID(id),
		Class:      class,
		Confidence: confidence,
		When: func(f []float64) (bool, error) {
			return f[0] >= min, nil
		},
	}
}

func baseWith(t *testing.T, rules ...knowledge.Rule) *knowledge.Base {
	t.Helper()
	base, err := knowledge.NewBaseWithRules(rules)
	if err != nil {
		t.Fatalf("Building knowledge base failed: %v", err)
	}
	return base
}

// TestReasoner_WeightedVoting verifies firing rules vote with their
// confidence.
func TestReasoner_WeightedVoting(t *testing.T) {
	base := baseWith(t,
		thresholdRule("r1", "high", 0.9, 5),
		thresholdRule("r2", "high", 0.6, 3),
		thresholdRule("r3", "low", 0.8, 100),
	)
	reasoner := NewReasoner(base, classes)

	dist, trace, err := reasoner.Reason([]float64{6})
	if err != nil {
		t.Fatalf("Reason failed: %v", err)
	}
	if got := dist.Weights[1]; got != 1.5 {
		t.Errorf("Vote for high = %f, expected 1.5", got)
	}
	if got := dist.Weights[0]; got != 0 {
		t.Errorf("Vote for low = %f, expected 0", got)
	}
	if len(trace.Fired()) != 2 {
		t.Errorf("Fired rules = %d, expected 2", len(trace.Fired()))
	}
}

// TestReasoner_TraceCoversEveryRule verifies the trace records every rule in
// insertion order with exactly one outcome, and firing entries are a subset
// of the base.
func TestReasoner_TraceCoversEveryRule(t *testing.T) {
	rules := []knowledge.Rule{
		thresholdRule("a", "low", 0.5, 0),
		thresholdRule("b", "high", 0.5, 100),
		thresholdRule("c", "low", 0.5, 0),
	}
	reasoner := NewReasoner(baseWith(t, rules...), classes)

	_, trace, err := reasoner.Reason([]float64{1})
	if err != nil {
		t.Fatalf("Reason failed: %v", err)
	}
	if len(trace.Entries) != len(rules) {
		t.Fatalf("Trace has %d entries, expected %d", len(trace.Entries), len(rules))
	}
	for i, rule := range rules {
		if trace.Entries[i].RuleID != rule.ID {
			t.Errorf("Entry %d is %s, expected %s", i, trace.Entries[i].RuleID, rule.ID)
		}
	}
	known := map[core.RuleID]bool{"a": true, "b": true, "c": true}
	for _, e := range trace.Fired() {
		if !known[e.RuleID] {
			t.Errorf("Trace fired unknown rule %s", e.RuleID)
		}
	}
}

// TestReasoner_ContainsRuleErrors verifies a failing or panicking rule is
// recorded in the trace and the pass still terminates with the remaining
// votes.
func TestReasoner_ContainsRuleErrors(t *testing.T) {
	failing := knowledge.Rule{
		ID: "failing", Class: "low", Confidence: 0.5,
		When: func(f []float64) (bool, error) {
			return false, fmt.Errorf("%w: lookup failed", core.ErrRuleEvaluation)
		},
	}
	panicking := knowledge.Rule{
		ID: "panicking", Class: "low", Confidence: 0.5,
		When: func(f []float64) (bool, error) {
			var empty []float64
			return empty[3] > 0, nil
		},
	}
	healthy := thresholdRule("healthy", "high", 0.7, 0)

	reasoner := NewReasoner(baseWith(t, failing, panicking, healthy), classes)

	dist, trace, err := reasoner.Reason([]float64{1})
	if err != nil {
		t.Fatalf("Reason aborted instead of containing rule failures: %v", err)
	}
	if len(trace.Errors()) != 2 {
		t.Errorf("Trace errors = %d, expected 2", len(trace.Errors()))
	}
	if dist.Weights[1] != 0.7 {
		t.Errorf("Healthy rule vote = %f, expected 0.7", dist.Weights[1])
	}
}

// TestReasoner_UnknownClassAssertion verifies a rule asserting outside the
// label space is contained as a per-rule error.
func TestReasoner_UnknownClassAssertion(t *testing.T) {
	rogue := thresholdRule("rogue", "unknown-class", 0.9, 0)
	reasoner := NewReasoner(baseWith(t, rogue), classes)

	dist, trace, err := reasoner.Reason([]float64{1})
	if err != nil {
		t.Fatalf("Reason failed: %v", err)
	}
	if dist.Mass() != 0 {
		t.Errorf("Unknown-class assertion added vote mass %f", dist.Mass())
	}
	if len(trace.Errors()) != 1 {
		t.Errorf("Trace errors = %d, expected 1", len(trace.Errors()))
	}
}

// TestVerdict_TieBreaksToEarliestFired verifies equal votes resolve to the
// class asserted by the earliest-fired rule.
func TestVerdict_TieBreaksToEarliestFired(t *testing.T) {
	base := baseWith(t,
		thresholdRule("first", "high", 0.5, 0),
		thresholdRule("second", "low", 0.5, 0),
	)
	reasoner := NewReasoner(base, classes)

	dist, trace, err := reasoner.Reason([]float64{1})
	if err != nil {
		t.Fatalf("Reason failed: %v", err)
	}
	if dist.Weights[0] != dist.Weights[1] {
		t.Fatalf("Expected tied votes, got %v", dist.Weights)
	}
	// "high" (index 1) fired first; plain ArgMax would pick index 0
	if got := Verdict(dist, trace); got != 1 {
		t.Errorf("Verdict = %d, expected 1 (earliest-fired class)", got)
	}
}

// TestReasoner_AddKnowledgeRejectsDuplicates verifies duplicate ids surface
// through the reasoner.
func TestReasoner_AddKnowledgeRejectsDuplicates(t *testing.T) {
	reasoner := NewReasoner(baseWith(t, thresholdRule("r1", "low", 0.5, 0)), classes)

	err := reasoner.AddKnowledge(thresholdRule("r1", "high", 0.9, 0))
	if !core.IsDuplicateRuleError(err) {
		t.Fatalf("Expected duplicate rule error, got %v", err)
	}
}

// TestReasoner_EmptyBase verifies reasoning over no rules yields an empty
// distribution and empty trace, not an error.
func TestReasoner_EmptyBase(t *testing.T) {
	reasoner := NewReasoner(knowledge.NewBase(), classes)

	dist, trace, err := reasoner.Reason([]float64{1, 2, 3})
	if err != nil {
		t.Fatalf("Reason failed: %v", err)
	}
	if dist.Mass() != 0 {
		t.Errorf("Empty base produced vote mass %f", dist.Mass())
	}
	if len(trace.Entries) != 0 {
		t.Errorf("Empty base produced %d trace entries", len(trace.Entries))
	}
}
