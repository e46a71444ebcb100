package perturb

import (
	"math"
	"math/rand"
	"testing"
)

// TestBoundedNoise_RespectsBound verifies no perturbation exceeds the
// configured magnitude.
func TestBoundedNoise_RespectsBound(t *testing.T) {
	noise := NewBoundedNoise(0.5, 0.2)
	features := make([][]float64, 50)
	for i := range features {
		features[i] = []float64{float64(i), float64(-i), 0.5}
	}

	out := noise.Perturb(rand.New(rand.NewSource(1)), features)
	for i, row := range out {
		for j, v := range row {
			delta := math.Abs(v - features[i][j])
			if delta > 0.2+1e-12 {
				t.Errorf("Perturbation at [%d][%d] = %f exceeds bound 0.2", i, j, delta)
			}
		}
	}
}

// TestBoundedNoise_DoesNotMutateInput verifies the input matrix is untouched
func TestBoundedNoise_DoesNotMutateInput(t *testing.T) {
	noise := NewBoundedNoise(0.1, 0.3)
	features := [][]float64{{1, 2}, {3, 4}}

	noise.Perturb(rand.New(rand.NewSource(1)), features)
	if features[0][0] != 1 || features[0][1] != 2 || features[1][0] != 3 || features[1][1] != 4 {
		t.Errorf("Input mutated: %v", features)
	}
}

// TestBoundedNoise_DeterministicPerSeed verifies identical generators
// produce identical perturbations.
func TestBoundedNoise_DeterministicPerSeed(t *testing.T) {
	noise := NewBoundedNoise(0.1, 0.3)
	features := [][]float64{{1, 2, 3}, {4, 5, 6}}

	first := noise.Perturb(rand.New(rand.NewSource(9)), features)
	second := noise.Perturb(rand.New(rand.NewSource(9)), features)
	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("Seeded perturbation diverged at [%d][%d]", i, j)
			}
		}
	}
}

// TestBoundedNoise_ActuallyPerturbs verifies the noise model is not a no-op
func TestBoundedNoise_ActuallyPerturbs(t *testing.T) {
	noise := NewBoundedNoise(0.1, 0.3)
	features := [][]float64{{1, 2, 3, 4, 5}}

	out := noise.Perturb(rand.New(rand.NewSource(3)), features)
	changed := false
	for j := range out[0] {
		if out[0][j] != features[0][j] {
			changed = true
		}
	}
	if !changed {
		t.Error("Perturbation left every value unchanged")
	}
}

// TestBoundedNoise_Defaults verifies zero configuration falls back to the
// default spread and bound.
func TestBoundedNoise_Defaults(t *testing.T) {
	noise := NewBoundedNoise(0, 0)
	if noise.Sigma != 0.05 {
		t.Errorf("Default sigma = %f, expected 0.05", noise.Sigma)
	}
	if math.Abs(noise.Bound-0.15) > 1e-12 {
		t.Errorf("Default bound = %f, expected 3*sigma", noise.Bound)
	}
}
