package knowledge

import (
	"testing"

	"neurosym/domain/core"
)

func alwaysFires(features []float64) (bool, error) { return true, nil }

func testRule(id string, class string) Rule {
	return Rule{
		ID:         core.RuleID(id),
		Class:      class,
		Confidence: 0.8,
		When:       alwaysFires,
	}
}

// TestBase_AddPreservesInsertionOrder verifies rules come back in the order
// they were added.
func TestBase_AddPreservesInsertionOrder(t *testing.T) {
	base := NewBase()
	ids := []string{"r3", "r1", "r2"}
	for _, id := range ids {
		if err := base.Add(testRule(id, "a")); err != nil {
			t.Fatalf("Add(%s) failed: %v", id, err)
		}
	}

	rules := base.Rules()
	if len(rules) != len(ids) {
		t.Fatalf("Expected %d rules, got %d", len(ids), len(rules))
	}
	for i, id := range ids {
		if rules[i].ID != core.RuleID(id) {
			t.Errorf("Position %d: expected %s, got %s", i, id, rules[i].ID)
		}
	}
}

// TestBase_DuplicateRuleLeavesBaseUnchanged verifies a rejected duplicate
// does not alter the base in any observable way.
func TestBase_DuplicateRuleLeavesBaseUnchanged(t *testing.T) {
	base := NewBase()
	if err := base.Add(testRule("r1", "a")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := base.Add(testRule("r2", "b")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	before := base.Rules()

	err := base.Add(testRule("r1", "c"))
	if !core.IsDuplicateRuleError(err) {
		t.Fatalf("Expected duplicate rule error, got %v", err)
	}

	after := base.Rules()
	if len(after) != len(before) {
		t.Fatalf("Base size changed after rejected add: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if after[i].ID != before[i].ID || after[i].Class != before[i].Class {
			t.Errorf("Rule %d changed after rejected add", i)
		}
	}
}

// TestBase_AddValidatesRules verifies malformed rules are rejected
func TestBase_AddValidatesRules(t *testing.T) {
	cases := []struct {
		name string
		rule Rule
	}{
		{"empty id", Rule{Class: "a", Confidence: 0.5, When: alwaysFires}},
		{"empty class", Rule{ID: "r", Confidence: 0.5, When: alwaysFires}},
		{"zero confidence", Rule{ID: "r", Class: "a", Confidence: 0, When: alwaysFires}},
		{"confidence above one", Rule{ID: "r", Class: "a", Confidence: 1.5, When: alwaysFires}},
		{"nil predicate", Rule{ID: "r", Class: "a", Confidence: 0.5}},
	}

	for _, tc := range cases {
		base := NewBase()
		if err := base.Add(tc.rule); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
		if base.Len() != 0 {
			t.Errorf("%s: base not empty after rejected add", tc.name)
		}
	}
}

// TestBase_CloneIsIndependent verifies mutations of a clone never reach the
// original.
func TestBase_CloneIsIndependent(t *testing.T) {
	base := NewBase()
	if err := base.Add(testRule("r1", "a")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	clone := base.Clone()
	if err := clone.Add(testRule("r2", "b")); err != nil {
		t.Fatalf("Add to clone failed: %v", err)
	}

	if base.Len() != 1 {
		t.Errorf("Original grew with the clone: %d rules", base.Len())
	}
	if clone.Len() != 2 {
		t.Errorf("Clone has %d rules, expected 2", clone.Len())
	}
	if !clone.Contains("r1") {
		t.Error("Clone lost the original rule")
	}
}
