package fusion

import (
	"math"
	"testing"

	"neurosym/domain/core"
	domain "neurosym/domain/fusion"
)

func agreeingInput() domain.Input {
	classes := []string{"a", "b"}
	return domain.Input{
		Neural:   domain.Distribution{Classes: classes, Weights: []float64{1, 0}},
		Symbolic: domain.Distribution{Classes: classes, Weights: []float64{0.9, 0}},
	}
}

// TestLate_FullAgreementYieldsFullConfidence verifies even-split late fusion
// of two branches that both put all mass on one class fuses to confidence 1
// for that class.
func TestLate_FullAgreementYieldsFullConfidence(t *testing.T) {
	strategy := NewLateDefault()

	dist, weights, err := strategy.Fuse(agreeingInput())
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}
	if weights.Neural != 0.5 || weights.Symbolic != 0.5 {
		t.Errorf("Default weights = %+v, expected even split", weights)
	}
	if math.Abs(dist.Weights[0]-1.0) > 1e-9 {
		t.Errorf("Agreed class confidence = %f, expected 1.0", dist.Weights[0])
	}
	if math.Abs(dist.Weights[1]) > 1e-9 {
		t.Errorf("Other class mass = %f, expected 0", dist.Weights[1])
	}
}

// TestLate_WeightValidation verifies invalid weight pairs are rejected at
// construction.
func TestLate_WeightValidation(t *testing.T) {
	cases := []struct{ neural, symbolic float64 }{
		{0.7, 0.7},
		{-0.2, 1.2},
		{0.3, 0.3},
	}
	for _, tc := range cases {
		if _, err := NewLate(tc.neural, tc.symbolic); err == nil {
			t.Errorf("NewLate(%.1f, %.1f) accepted invalid weights", tc.neural, tc.symbolic)
		}
	}

	if _, err := NewLate(0.6, 0.4); err != nil {
		t.Errorf("NewLate(0.6, 0.4) rejected valid weights: %v", err)
	}
}

// TestLate_DimensionMismatchFailsHard verifies mismatched label spaces are
// never truncated.
func TestLate_DimensionMismatchFailsHard(t *testing.T) {
	strategy := NewLateDefault()
	in := domain.Input{
		Neural:   domain.Distribution{Classes: []string{"a", "b", "c"}, Weights: []float64{0.5, 0.3, 0.2}},
		Symbolic: domain.Distribution{Classes: []string{"a", "b", "c", "d"}, Weights: []float64{1, 0, 0, 0}},
	}

	_, _, err := strategy.Fuse(in)
	if !core.IsFusionDimensionError(err) {
		t.Fatalf("Expected fusion dimension error, got %v", err)
	}
}

// TestLate_WeightedSum verifies the fused distribution is the weighted sum
// of the normalized branches.
func TestLate_WeightedSum(t *testing.T) {
	strategy, err := NewLate(0.8, 0.2)
	if err != nil {
		t.Fatalf("NewLate failed: %v", err)
	}
	classes := []string{"a", "b"}
	in := domain.Input{
		Neural:   domain.Distribution{Classes: classes, Weights: []float64{0.75, 0.25}},
		Symbolic: domain.Distribution{Classes: classes, Weights: []float64{0, 1}},
	}

	dist, _, err := strategy.Fuse(in)
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}
	if math.Abs(dist.Weights[0]-0.6) > 1e-9 {
		t.Errorf("Fused weight for a = %f, expected 0.8*0.75", dist.Weights[0])
	}
	if math.Abs(dist.Weights[1]-0.4) > 1e-9 {
		t.Errorf("Fused weight for b = %f, expected 0.8*0.25 + 0.2*1", dist.Weights[1])
	}
}
