package ports

import (
	"context"

	"neurosym/domain/dataset"
	"neurosym/domain/experiment"
	"neurosym/domain/explanation"
)

// Model is the sole runtime surface the core exposes. Callers outside the
// core interact only through Fit/Predict/Explain/Evaluate. Every operation
// except Fit requires a prior successful Fit and fails with
// core.ErrUntrainedModel otherwise. Fit is the only mutator; the remaining
// operations are pure functions of their inputs and the trained state.
type Model interface {
	// Fit trains the model and blocks until a terminal parameter state is
	// reached.
	Fit(ctx context.Context, train *dataset.Dataset) error

	// Predict returns a class index per input row. Deterministic for
	// identical input and identical trained state.
	Predict(ctx context.Context, features [][]float64) ([]int, error)

	// PredictProba returns the fused class distribution per input row
	PredictProba(ctx context.Context, features [][]float64) ([][]float64, error)

	// Explain derives the explanation for a single instance
	Explain(ctx context.Context, features []float64) (*explanation.Explanation, error)

	// Evaluate computes the evaluation report against held-out data
	Evaluate(ctx context.Context, test *dataset.Dataset) (*experiment.EvaluationReport, error)

	// Classes returns the ordered label space the model predicts over
	Classes() []string
}
