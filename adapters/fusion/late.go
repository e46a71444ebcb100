package fusion

import (
	"fmt"

	domain "neurosym/domain/fusion"
)

// Late is deterministic weighted-sum fusion with fixed weights and no
// learned parameters.
type Late struct {
	weights Weights
}

// NewLate creates a late-fusion strategy. Weights must be non-negative and
// sum to one; nil weights default to an even split.
func NewLate(neuralWeight, symbolicWeight float64) (*Late, error) {
	sum := neuralWeight + symbolicWeight
	if neuralWeight < 0 || symbolicWeight < 0 || sum < 0.999 || sum > 1.001 {
		return nil, fmt.Errorf("late fusion weights (%.3f, %.3f) must be non-negative and sum to 1",
			neuralWeight, symbolicWeight)
	}
	return &Late{weights: Weights{Neural: neuralWeight, Symbolic: symbolicWeight}}, nil
}

// NewLateDefault creates late fusion with an even split
func NewLateDefault() *Late {
	return &Late{weights: Weights{Neural: 0.5, Symbolic: 0.5}}
}

// Name identifies the strategy
func (l *Late) Name() string { return "late" }

// Fuse combines the branches under the fixed weights
func (l *Late) Fuse(in domain.Input) (domain.Distribution, Weights, error) {
	if err := in.Validate(); err != nil {
		return domain.Distribution{}, Weights{}, err
	}
	return combine(in, l.weights), l.weights, nil
}
