package fusion

import (
	domain "neurosym/domain/fusion"
)

// Strategy combines the two branch distributions into a fused class
// distribution plus the branch weights actually applied. Implementations
// hard-fail on label-space mismatch with core.ErrFusionDimension; no
// strategy ever truncates to the smaller space.
type Strategy interface {
	Name() string

	// Fuse returns the fused distribution and the (neural, symbolic)
	// weights used, which the explainer needs for contribution
	// decomposition.
	Fuse(in domain.Input) (domain.Distribution, Weights, error)
}

// Weights are the branch weights applied for one fusion call. They lie on
// the weight simplex: both non-negative, summing to one.
type Weights struct {
	Neural   float64 `json:"neural"`
	Symbolic float64 `json:"symbolic"`
}

// combine computes w_n*neural + w_s*symbolic over normalized inputs
func combine(in domain.Input, w Weights) domain.Distribution {
	neural := in.Neural.Normalize()
	symbolic := in.Symbolic.Normalize()

	out := domain.NewDistribution(neural.Classes)
	for i := range out.Weights {
		out.Weights[i] = w.Neural*neural.Weights[i] + w.Symbolic*symbolic.Weights[i]
	}
	return out
}
