package ports

import (
	"math/rand"
)

// Perturber is the pluggable perturbation strategy behind the robustness
// score.
type Perturber interface {
	// Name identifies the noise model for the evaluation report
	Name() string

	// Perturb returns a perturbed copy of the feature matrix. The input is
	// never mutated.
	Perturb(rng *rand.Rand, features [][]float64) [][]float64
}
