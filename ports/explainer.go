package ports

import (
	"context"

	"neurosym/domain/core"
	"neurosym/domain/dataset"
	"neurosym/domain/explanation"
)

// Explainer derives human-readable justifications from a trained model,
// independent of which fusion strategy the model was built with.
type Explainer interface {
	// ExplainInstance explains one prediction
	ExplainInstance(ctx context.Context, features []float64) (*explanation.Explanation, error)

	// ExplainGlobal aggregates per-class average contributions across a
	// dataset sample, skipping instances that fail reasoning.
	ExplainGlobal(ctx context.Context, sample *dataset.Dataset) (*explanation.GlobalExplanation, error)

	// VisualizeExplanation renders an explanation and returns a reference
	// to the written artifact.
	VisualizeExplanation(ctx context.Context, exp *explanation.Explanation) (*core.Artifact, error)
}
