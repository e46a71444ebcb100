package perturb

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"neurosym/ports"
)

// BoundedNoise perturbs features with additive Gaussian noise clamped to a
// configurable magnitude. This is the default noise model behind the
// robustness score: Sigma controls the spread, Bound caps each
// perturbation so inputs stay within a known envelope.
type BoundedNoise struct {
	Sigma float64
	Bound float64
}

// NewBoundedNoise creates the default noise model
func NewBoundedNoise(sigma, bound float64) *BoundedNoise {
	if sigma <= 0 {
		sigma = 0.05
	}
	if bound <= 0 {
		bound = 3 * sigma
	}
	return &BoundedNoise{Sigma: sigma, Bound: bound}
}

// Name identifies the noise model for the evaluation report
func (b *BoundedNoise) Name() string { return "bounded_gaussian_noise" }

// Perturb returns a noisy copy of the feature matrix. Samples are drawn by
// inverse-transform through the Normal quantile so the provided generator
// fully determines the sequence.
func (b *BoundedNoise) Perturb(rng *rand.Rand, features [][]float64) [][]float64 {
	normal := distuv.Normal{Mu: 0, Sigma: b.Sigma}

	out := make([][]float64, len(features))
	for i, row := range features {
		noisy := make([]float64, len(row))
		for j, v := range row {
			u := rng.Float64()
			if u <= 0 {
				u = 1e-12
			} else if u >= 1 {
				u = 1 - 1e-12
			}
			delta := normal.Quantile(u)
			if delta > b.Bound {
				delta = b.Bound
			} else if delta < -b.Bound {
				delta = -b.Bound
			}
			noisy[j] = v + delta
		}
		out[i] = noisy
	}
	return out
}

var _ ports.Perturber = (*BoundedNoise)(nil)
