package app

import (
	"context"
	"fmt"

	"neurosym/domain/dataset"
	"neurosym/domain/experiment"
	"neurosym/internal"
	"neurosym/ports"
)

// Evaluator computes the three evaluation dimensions against held-out data.
// The dimensions are independent: a failure in one is recorded as a warning
// on the report and the others still complete.
type Evaluator struct {
	perturber ports.Perturber
	rng       ports.RNG
	seed      int64
	logger    *internal.Logger
}

// NewEvaluator creates an evaluator. The perturber defines the noise model
// behind the robustness score; the seed pins its sampling.
func NewEvaluator(perturber ports.Perturber, rng ports.RNG, seed int64) *Evaluator {
	return &Evaluator{
		perturber: perturber,
		rng:       rng,
		seed:      seed,
		logger:    internal.DefaultLogger,
	}
}

// Evaluate runs all dimensions over the test set and aggregates one report
func (e *Evaluator) Evaluate(ctx context.Context, model ports.Model, test *dataset.Dataset) (*experiment.EvaluationReport, error) {
	if err := test.Validate(); err != nil {
		return nil, fmt.Errorf("invalid evaluation data: %w", err)
	}

	report := &experiment.EvaluationReport{Instances: test.Len()}

	preds, err := model.Predict(ctx, test.Features)
	if err != nil {
		// Without predictions there is nothing to score against
		return nil, fmt.Errorf("predict on evaluation data: %w", err)
	}
	report.Classification = classificationMetrics(preds, test.Labels, len(model.Classes()))

	robustness, err := e.robustness(ctx, model, test.Features, preds)
	if err != nil {
		e.logger.Warn("robustness evaluation failed: %v", err)
		report.Robustness = -1
		report.Warnings = append(report.Warnings, experiment.MetricWarning{
			Metric: "robustness_score",
			Reason: err.Error(),
		})
	} else {
		report.Robustness = robustness
	}

	explainability, err := e.explainability(ctx, model, test.Features)
	if err != nil {
		e.logger.Warn("explainability evaluation failed: %v", err)
		report.Explainability = -1
		report.Warnings = append(report.Warnings, experiment.MetricWarning{
			Metric: "explainability_score",
			Reason: err.Error(),
		})
	} else {
		report.Explainability = explainability
	}

	return report, nil
}

// robustness is prediction consistency under the configured perturbation:
// the fraction of instances whose prediction survives the noise.
func (e *Evaluator) robustness(ctx context.Context, model ports.Model, features [][]float64, clean []int) (float64, error) {
	if e.perturber == nil {
		return 0, fmt.Errorf("no perturbation strategy configured")
	}
	if len(features) == 0 {
		return 0, fmt.Errorf("empty evaluation set")
	}

	perturbed := e.perturber.Perturb(e.rng.Stream("perturbation", e.seed), features)
	noisy, err := model.Predict(ctx, perturbed)
	if err != nil {
		return 0, fmt.Errorf("predict on perturbed data (%s): %w", e.perturber.Name(), err)
	}

	consistent := 0
	for i := range clean {
		if clean[i] == noisy[i] {
			consistent++
		}
	}
	return float64(consistent) / float64(len(clean)), nil
}

// explainability is the fraction of instances whose reasoning trace contains
// at least one firing rule. Instances whose explanation itself fails count
// as unexplained rather than aborting the dimension.
func (e *Evaluator) explainability(ctx context.Context, model ports.Model, features [][]float64) (float64, error) {
	if len(features) == 0 {
		return 0, fmt.Errorf("empty evaluation set")
	}

	explained := 0
	failed := 0
	for _, row := range features {
		exp, err := model.Explain(ctx, row)
		if err != nil {
			failed++
			continue
		}
		if exp.Trace != nil && exp.Trace.HasFired() {
			explained++
		}
	}
	if failed == len(features) {
		return 0, fmt.Errorf("explanation failed for all %d instances", failed)
	}
	if failed > 0 {
		e.logger.Debug("explanation failed for %d/%d instances", failed, len(features))
	}
	return float64(explained) / float64(len(features)), nil
}

// classificationMetrics computes accuracy and support-weighted precision,
// recall, and F1 from a confusion matrix.
func classificationMetrics(preds, labels []int, numClasses int) experiment.ClassificationMetrics {
	n := len(labels)
	if n == 0 {
		return experiment.ClassificationMetrics{}
	}

	confusion := make([][]int, numClasses)
	for i := range confusion {
		confusion[i] = make([]int, numClasses)
	}
	correct := 0
	for i := range labels {
		if labels[i] >= 0 && labels[i] < numClasses && preds[i] >= 0 && preds[i] < numClasses {
			confusion[labels[i]][preds[i]]++
		}
		if preds[i] == labels[i] {
			correct++
		}
	}

	var precision, recall, f1 float64
	for c := 0; c < numClasses; c++ {
		tp := confusion[c][c]
		var support, predicted int
		for k := 0; k < numClasses; k++ {
			support += confusion[c][k]
			predicted += confusion[k][c]
		}
		if support == 0 {
			continue
		}

		var p, r float64
		if predicted > 0 {
			p = float64(tp) / float64(predicted)
		}
		r = float64(tp) / float64(support)
		var f float64
		if p+r > 0 {
			f = 2 * p * r / (p + r)
		}

		weight := float64(support) / float64(n)
		precision += weight * p
		recall += weight * r
		f1 += weight * f
	}

	return experiment.ClassificationMetrics{
		Accuracy:  float64(correct) / float64(n),
		Precision: precision,
		Recall:    recall,
		F1:        f1,
	}
}
