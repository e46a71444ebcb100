package app

import (
	"context"

	"neurosym/domain/core"
	"neurosym/domain/dataset"
	"neurosym/domain/experiment"
	"neurosym/domain/explanation"
	"neurosym/domain/knowledge"
)

func testRuleFor(id string, class string) knowledge.Rule {
	return knowledge.Rule{
		ID:         core.RuleID(id),
		Class:      class,
		Confidence: 0.5,
		When:       func(f []float64) (bool, error) { return true, nil },
	}
}

// fixedModel predicts by thresholding feature 0 and explains with a
// constant trace, giving the evaluator a fully controlled subject.
type fixedModel struct {
	classes   []string
	threshold float64
	fired     bool
}

func (m *fixedModel) Fit(ctx context.Context, train *dataset.Dataset) error { return nil }

func (m *fixedModel) Predict(ctx context.Context, features [][]float64) ([]int, error) {
	out := make([]int, len(features))
	for i, row := range features {
		if row[0] >= m.threshold {
			out[i] = 1
		}
	}
	return out, nil
}

func (m *fixedModel) PredictProba(ctx context.Context, features [][]float64) ([][]float64, error) {
	preds, _ := m.Predict(ctx, features)
	out := make([][]float64, len(preds))
	for i, p := range preds {
		row := make([]float64, len(m.classes))
		row[p] = 1
		out[i] = row
	}
	return out, nil
}

func (m *fixedModel) Explain(ctx context.Context, features []float64) (*explanation.Explanation, error) {
	trace := knowledge.NewTrace()
	if m.fired {
		trace.RecordFired("threshold", m.classes[1], 0.9)
	} else {
		trace.RecordNotFired("threshold")
	}
	pred := 0
	if features[0] >= m.threshold {
		pred = 1
	}
	return &explanation.Explanation{
		Prediction:           pred,
		PredictedClass:       m.classes[pred],
		Confidence:           1,
		Classes:              m.classes,
		NeuralWeight:         0.5,
		SymbolicWeight:       0.5,
		NeuralContribution:   make([]float64, len(m.classes)),
		SymbolicContribution: make([]float64, len(m.classes)),
		Trace:                trace,
	}, nil
}

func (m *fixedModel) Evaluate(ctx context.Context, test *dataset.Dataset) (*experiment.EvaluationReport, error) {
	return nil, nil
}

func (m *fixedModel) Classes() []string { return m.classes }
