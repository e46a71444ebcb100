package fusion

import (
	"math"
	"math/rand"

	domain "neurosym/domain/fusion"
)

// gateFeatures is the dimensionality of the gate's input summary
const gateFeatures = 4

// Attention is gated fusion: a small trainable function of both branch
// outputs produces the scalar weight used in the weighted sum. The gate is
// alpha = sigmoid(w . g + b) over a four-feature summary of the branches
// (neural peak probability, neural entropy, symbolic vote mass, branch
// agreement), so its output is confined to the weight simplex
// (alpha, 1-alpha) by construction.
type Attention struct {
	w    [gateFeatures]float64
	b    float64
	lr   float64
	seen int
}

// NewAttention creates an attention-fusion strategy with the gate
// initialized near an even split.
func NewAttention(learningRate float64, rng *rand.Rand) *Attention {
	if learningRate <= 0 {
		learningRate = 0.1
	}
	a := &Attention{lr: learningRate}
	for i := range a.w {
		a.w[i] = rng.NormFloat64() * 0.01
	}
	return a
}

// Name identifies the strategy
func (a *Attention) Name() string { return "attention" }

// Fuse combines the branches under the gate's current weight
func (a *Attention) Fuse(in domain.Input) (domain.Distribution, Weights, error) {
	if err := in.Validate(); err != nil {
		return domain.Distribution{}, Weights{}, err
	}
	alpha := a.gate(in)
	w := Weights{Neural: alpha, Symbolic: 1 - alpha}
	return combine(in, w), w, nil
}

// Train fits the gate by SGD on the fused cross-entropy over labeled
// instances. Called once after the neural branch has converged; the branch
// distributions themselves stay fixed.
func (a *Attention) Train(inputs []domain.Input, labels []int, epochs int) error {
	if len(inputs) == 0 {
		return nil
	}
	for epoch := 0; epoch < epochs; epoch++ {
		for i, in := range inputs {
			if err := in.Validate(); err != nil {
				return err
			}
			a.step(in, labels[i])
		}
	}
	return nil
}

// step applies one gradient update for a single instance
func (a *Attention) step(in domain.Input, label int) {
	g := a.summary(in)
	z := a.b
	for i, f := range g {
		z += a.w[i] * f
	}
	alpha := sigmoid(z)

	neural := in.Neural.Normalize()
	symbolic := in.Symbolic.Normalize()
	pn := neural.Weights[label]
	ps := symbolic.Weights[label]
	fused := alpha*pn + (1-alpha)*ps
	if fused < 1e-12 {
		fused = 1e-12
	}

	// d(-log fused)/dz = -(pn - ps) * alpha * (1 - alpha) / fused
	grad := -(pn - ps) * alpha * (1 - alpha) / fused
	for i, f := range g {
		a.w[i] -= a.lr * grad * f
	}
	a.b -= a.lr * grad
	a.seen++
}

// gate computes the current alpha for an input
func (a *Attention) gate(in domain.Input) float64 {
	g := a.summary(in)
	z := a.b
	for i, f := range g {
		z += a.w[i] * f
	}
	return sigmoid(z)
}

// summary condenses both branch outputs into the gate's feature vector
func (a *Attention) summary(in domain.Input) [gateFeatures]float64 {
	neural := in.Neural.Normalize()
	symbolic := in.Symbolic.Normalize()

	peak := neural.Weights[neural.ArgMax()]
	entropy := neural.Entropy()
	mass := in.Symbolic.Mass()
	agreement := 0.0
	if neural.ArgMax() == symbolic.ArgMax() {
		agreement = 1.0
	}
	return [gateFeatures]float64{peak, entropy, math.Min(mass, 1), agreement}
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
