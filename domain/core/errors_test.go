package core

import (
	"fmt"
	"testing"
)

// TestErrorHelpers verifies constructors pair with their Is helpers through
// wrapping.
func TestErrorHelpers(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"untrained", NewUntrainedModelError("Predict"), IsUntrainedModelError},
		{"duplicate rule", NewDuplicateRuleError("r1"), IsDuplicateRuleError},
		{"fusion dimension", NewFusionDimensionError(3, 4), IsFusionDimensionError},
		{"run configuration", NewRunConfigurationError("run_id", "missing"), IsRunConfigurationError},
		{"metric conflict", NewMetricConflictError("accuracy", 0.9, 0.8), IsMetricConflictError},
		{"not found", NewNotFoundError("run", "abc"), IsNotFoundError},
	}

	for _, tc := range cases {
		if !tc.check(tc.err) {
			t.Errorf("%s: helper did not match its constructor", tc.name)
		}
		wrapped := fmt.Errorf("outer: %w", tc.err)
		if !tc.check(wrapped) {
			t.Errorf("%s: helper did not match through wrapping", tc.name)
		}
		if tc.check(fmt.Errorf("unrelated")) {
			t.Errorf("%s: helper matched an unrelated error", tc.name)
		}
	}
}
