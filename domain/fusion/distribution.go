package fusion

import (
	"math"

	"neurosym/domain/core"
)

// Distribution is a per-class weight vector over a fixed, ordered label
// space. It is not required to sum to one until Normalize is called.
type Distribution struct {
	Classes []string  `json:"classes"`
	Weights []float64 `json:"weights"`
}

// NewDistribution creates a zero distribution over the given label space
func NewDistribution(classes []string) Distribution {
	return Distribution{
		Classes: classes,
		Weights: make([]float64, len(classes)),
	}
}

// Dim returns the cardinality of the label space
func (d Distribution) Dim() int {
	return len(d.Weights)
}

// Mass returns the total weight across classes
func (d Distribution) Mass() float64 {
	var sum float64
	for _, w := range d.Weights {
		sum += w
	}
	return sum
}

// Normalize scales weights to sum to one. A zero distribution normalizes to
// uniform so downstream fusion always receives a valid simplex point.
func (d Distribution) Normalize() Distribution {
	out := Distribution{Classes: d.Classes, Weights: make([]float64, len(d.Weights))}
	sum := d.Mass()
	if sum <= 0 {
		for i := range out.Weights {
			out.Weights[i] = 1.0 / float64(len(out.Weights))
		}
		return out
	}
	for i, w := range d.Weights {
		out.Weights[i] = w / sum
	}
	return out
}

// ArgMax returns the index of the highest-weighted class. Ties resolve to
// the earliest class in label-space order.
func (d Distribution) ArgMax() int {
	best := 0
	for i, w := range d.Weights {
		if w > d.Weights[best] {
			best = i
		}
	}
	return best
}

// Entropy returns the Shannon entropy of the normalized distribution
func (d Distribution) Entropy() float64 {
	n := d.Normalize()
	var h float64
	for _, p := range n.Weights {
		if p > 0 {
			h -= p * math.Log(p)
		}
	}
	return h
}

// Input pairs the two branch outputs for one instance. Both components must
// reference the same label space.
type Input struct {
	Neural   Distribution `json:"neural"`
	Symbolic Distribution `json:"symbolic"`
}

// Validate enforces the fatal precondition that both branches share one
// label space, in ordering and cardinality. Mismatch is never silently
// truncated.
func (in Input) Validate() error {
	if in.Neural.Dim() != in.Symbolic.Dim() {
		return core.NewFusionDimensionError(in.Neural.Dim(), in.Symbolic.Dim())
	}
	for i, c := range in.Neural.Classes {
		if in.Symbolic.Classes[i] != c {
			return core.NewFusionDimensionError(in.Neural.Dim(), in.Symbolic.Dim())
		}
	}
	return nil
}
