package app

import (
	"context"
	"fmt"

	"neurosym/adapters/report"
	"neurosym/domain/core"
	"neurosym/domain/dataset"
	"neurosym/domain/explanation"
	"neurosym/internal"
	"neurosym/ports"
)

// FusionExplainer derives explanations from any model and renders them as
// stored artifacts. It does not know which fusion strategy the model runs;
// the contribution decomposition comes from the model itself.
type FusionExplainer struct {
	model    ports.Model
	storage  ports.Storage
	renderer *report.Renderer
	logger   *internal.Logger
}

// NewFusionExplainer creates an explainer over a trained model
func NewFusionExplainer(model ports.Model, storage ports.Storage) *FusionExplainer {
	return &FusionExplainer{
		model:    model,
		storage:  storage,
		renderer: report.NewRenderer(),
		logger:   internal.DefaultLogger,
	}
}

// ExplainInstance explains one prediction
func (e *FusionExplainer) ExplainInstance(ctx context.Context, features []float64) (*explanation.Explanation, error) {
	return e.model.Explain(ctx, features)
}

// ExplainGlobal averages per-class branch contributions across a sample.
// Instances whose explanation fails are skipped and counted, not fatal.
func (e *FusionExplainer) ExplainGlobal(ctx context.Context, sample *dataset.Dataset) (*explanation.GlobalExplanation, error) {
	if err := sample.Validate(); err != nil {
		return nil, fmt.Errorf("invalid explanation sample: %w", err)
	}

	classes := e.model.Classes()
	global := &explanation.GlobalExplanation{
		Classes:              classes,
		NeuralContribution:   make([]float64, len(classes)),
		SymbolicContribution: make([]float64, len(classes)),
	}

	for i, row := range sample.Features {
		exp, err := e.model.Explain(ctx, row)
		if err != nil {
			e.logger.Debug("skipping instance %d in global explanation: %v", i, err)
			global.Skipped++
			continue
		}
		for c := range classes {
			global.NeuralContribution[c] += exp.NeuralContribution[c]
			global.SymbolicContribution[c] += exp.SymbolicContribution[c]
		}
		global.Instances++
	}

	if global.Instances == 0 {
		return nil, fmt.Errorf("explanation failed for all %d instances", global.Skipped)
	}
	for c := range classes {
		global.NeuralContribution[c] /= float64(global.Instances)
		global.SymbolicContribution[c] /= float64(global.Instances)
	}
	return global, nil
}

// VisualizeExplanation renders an explanation as markdown plus HTML and
// writes both through storage. The returned artifact references the HTML
// rendering.
func (e *FusionExplainer) VisualizeExplanation(ctx context.Context, exp *explanation.Explanation) (*core.Artifact, error) {
	if exp == nil {
		return nil, fmt.Errorf("nil explanation")
	}

	md := e.renderer.Explanation(exp)
	artifact := core.NewArtifact(core.ArtifactExplanation, "")

	mdKey := fmt.Sprintf("explanations/%s.md", artifact.ID)
	if err := e.storage.Put(ctx, mdKey, []byte(md)); err != nil {
		return nil, fmt.Errorf("store explanation markdown: %w", err)
	}

	htmlKey := fmt.Sprintf("explanations/%s.html", artifact.ID)
	if err := e.storage.Put(ctx, htmlKey, e.renderer.ToHTML(md)); err != nil {
		return nil, fmt.Errorf("store explanation html: %w", err)
	}

	artifact.Key = htmlKey
	return &artifact, nil
}

var _ ports.Explainer = (*FusionExplainer)(nil)
