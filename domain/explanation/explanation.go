package explanation

import (
	"neurosym/domain/knowledge"
)

// Explanation decomposes one prediction into the contribution of each
// branch under the fusion weights actually applied, together with the
// symbolic reasoning trace. Immutable once produced.
type Explanation struct {
	Prediction     int       `json:"prediction"`
	PredictedClass string    `json:"predicted_class"`
	Confidence     float64   `json:"confidence"`
	Classes        []string  `json:"classes"`
	NeuralWeight   float64   `json:"neural_weight"`
	SymbolicWeight float64   `json:"symbolic_weight"`
	// Per-class contribution of each branch after fusion weighting; the
	// element-wise sum is the fused class distribution.
	NeuralContribution   []float64        `json:"neural_contribution"`
	SymbolicContribution []float64        `json:"symbolic_contribution"`
	// SymbolicVerdict is the class index the symbolic branch would answer
	// on its own, ties resolved by the earliest fired rule.
	SymbolicVerdict int              `json:"symbolic_verdict"`
	SymbolicClass   string           `json:"symbolic_class"`
	Trace           *knowledge.Trace `json:"trace"`
}

// GlobalExplanation aggregates per-class average contributions across a
// dataset sample.
type GlobalExplanation struct {
	Classes              []string  `json:"classes"`
	NeuralContribution   []float64 `json:"avg_neural_contribution"`
	SymbolicContribution []float64 `json:"avg_symbolic_contribution"`
	Instances            int       `json:"instances"`
	Skipped              int       `json:"skipped"`
}
