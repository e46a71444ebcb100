package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestParseRunID tests run ID parsing
func TestParseRunID(t *testing.T) {
	tests := []struct {
		input    string
		expected RunID
		hasError bool
	}{
		{"valid-run", RunID("valid-run"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tc := range tests {
		got, err := ParseRunID(tc.input)
		if tc.hasError {
			if err == nil {
				t.Errorf("ParseRunID(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRunID(%q): unexpected error %v", tc.input, err)
		}
		if got != tc.expected {
			t.Errorf("ParseRunID(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

// TestParseRuleID tests rule ID parsing
func TestParseRuleID(t *testing.T) {
	if _, err := ParseRuleID(""); err == nil {
		t.Error("Expected error for empty rule ID")
	}
	got, err := ParseRuleID("high-risk")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != RuleID("high-risk") {
		t.Errorf("ParseRuleID = %q", got)
	}
}
