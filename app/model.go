package app

import (
	"context"

	adapterfusion "neurosym/adapters/fusion"
	"neurosym/adapters/neural"
	"neurosym/adapters/symbolic"
	"neurosym/domain/core"
	"neurosym/domain/dataset"
	"neurosym/domain/experiment"
	"neurosym/domain/explanation"
	"neurosym/domain/fusion"
	"neurosym/domain/knowledge"
	"neurosym/internal"
	"neurosym/internal/errors"
	"neurosym/ports"
)

// HybridClassifier combines the trainable neural branch with the symbolic
// reasoner under a fusion strategy fixed at construction time. It is the
// concrete Model the builder hands out; everything outside the core sees
// only the ports.Model contract.
type HybridClassifier struct {
	classes  []string
	pipeline ports.Pipeline
	reasoner ports.Reasoner
	strategy adapterfusion.Strategy
	hyper    experiment.Hyperparameters
	rng      ports.RNG
	eval     *Evaluator
	logger   *internal.Logger

	net     *neural.MLP
	trained bool
}

// Fit trains the pipeline, the neural branch, and (for attention fusion)
// the gate, in that order, blocking until a terminal state is reached.
func (m *HybridClassifier) Fit(ctx context.Context, train *dataset.Dataset) error {
	if err := train.Validate(); err != nil {
		return errors.Wrap(err, "invalid training data")
	}
	if train.NumClasses() != len(m.classes) {
		return core.NewFusionDimensionError(len(m.classes), train.NumClasses())
	}

	scaled, err := m.pipeline.FitTransform(train.Features)
	if err != nil {
		return errors.Wrap(err, "fit pipeline")
	}

	m.net = neural.NewMLP(train.Width(), len(m.classes), m.hyper,
		m.rng.Stream("neural-init", m.hyper.Seed))
	if err := m.net.Fit(scaled, train.Labels, m.rng.Stream("neural-sgd", m.hyper.Seed)); err != nil {
		return errors.Wrap(err, "fit neural branch")
	}
	m.trained = true

	if gate, ok := m.strategy.(*adapterfusion.Attention); ok {
		inputs, _, err := m.branchOutputs(train.Features)
		if err != nil {
			m.trained = false
			return errors.Wrap(err, "prepare gate training inputs")
		}
		if err := gate.Train(inputs, train.Labels, m.hyper.Epochs); err != nil {
			m.trained = false
			return errors.Wrap(err, "fit attention gate")
		}
	}

	m.logger.Info("trained hybrid classifier: %d instances, %d classes, fusion=%s",
		train.Len(), len(m.classes), m.strategy.Name())
	return nil
}

// Predict returns the fused class index per input row
func (m *HybridClassifier) Predict(ctx context.Context, features [][]float64) ([]int, error) {
	fused, _, err := m.fuseAll(features, "Predict")
	if err != nil {
		return nil, err
	}
	out := make([]int, len(fused))
	for i, dist := range fused {
		out[i] = dist.ArgMax()
	}
	return out, nil
}

// PredictProba returns the fused class distribution per input row
func (m *HybridClassifier) PredictProba(ctx context.Context, features [][]float64) ([][]float64, error) {
	fused, _, err := m.fuseAll(features, "PredictProba")
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(fused))
	for i, dist := range fused {
		out[i] = dist.Normalize().Weights
	}
	return out, nil
}

// Explain decomposes the prediction for one instance into the contribution
// of each branch under the fusion weights actually applied.
func (m *HybridClassifier) Explain(ctx context.Context, features []float64) (*explanation.Explanation, error) {
	if !m.trained {
		return nil, core.NewUntrainedModelError("Explain")
	}

	inputs, traces, err := m.branchOutputs([][]float64{features})
	if err != nil {
		return nil, err
	}
	in, trace := inputs[0], traces[0]

	fused, weights, err := m.strategy.Fuse(in)
	if err != nil {
		return nil, err
	}
	fused = fused.Normalize()

	neuralDist := in.Neural.Normalize()
	symbolicDist := in.Symbolic.Normalize()
	neuralContrib := make([]float64, len(m.classes))
	symbolicContrib := make([]float64, len(m.classes))
	for i := range m.classes {
		neuralContrib[i] = weights.Neural * neuralDist.Weights[i]
		symbolicContrib[i] = weights.Symbolic * symbolicDist.Weights[i]
	}

	pred := fused.ArgMax()
	symVerdict := symbolic.Verdict(symbolicDist, trace)
	return &explanation.Explanation{
		Prediction:           pred,
		PredictedClass:       m.classes[pred],
		Confidence:           fused.Weights[pred],
		Classes:              m.classes,
		NeuralWeight:         weights.Neural,
		SymbolicWeight:       weights.Symbolic,
		NeuralContribution:   neuralContrib,
		SymbolicContribution: symbolicContrib,
		SymbolicVerdict:      symVerdict,
		SymbolicClass:        m.classes[symVerdict],
		Trace:                trace,
	}, nil
}

// Evaluate computes the evaluation report against held-out data
func (m *HybridClassifier) Evaluate(ctx context.Context, test *dataset.Dataset) (*experiment.EvaluationReport, error) {
	if !m.trained {
		return nil, core.NewUntrainedModelError("Evaluate")
	}
	return m.eval.Evaluate(ctx, m, test)
}

// Classes returns the ordered label space the model predicts over
func (m *HybridClassifier) Classes() []string {
	return m.classes
}

// Reasoner exposes the symbolic branch so knowledge can be added between
// training epochs. Callers must not interleave AddKnowledge with in-flight
// predictions on the same model.
func (m *HybridClassifier) Reasoner() ports.Reasoner {
	return m.reasoner
}

// MarshalWeights serializes the trained neural parameter state
func (m *HybridClassifier) MarshalWeights() ([]byte, error) {
	if !m.trained {
		return nil, core.NewUntrainedModelError("MarshalWeights")
	}
	return m.net.MarshalWeights()
}

// fuseAll runs both branches and the fusion strategy over every row
func (m *HybridClassifier) fuseAll(features [][]float64, op string) ([]fusion.Distribution, []*knowledge.Trace, error) {
	if !m.trained {
		return nil, nil, core.NewUntrainedModelError(op)
	}
	inputs, traces, err := m.branchOutputs(features)
	if err != nil {
		return nil, nil, err
	}
	fused := make([]fusion.Distribution, len(inputs))
	for i, in := range inputs {
		dist, _, err := m.strategy.Fuse(in)
		if err != nil {
			return nil, nil, err
		}
		fused[i] = dist
	}
	return fused, traces, nil
}

// branchOutputs computes the neural distribution and symbolic distribution
// for every row. Symbolic reasoning runs on the raw features; the pipeline
// only feeds the neural branch, so rules stay expressed in input units.
func (m *HybridClassifier) branchOutputs(features [][]float64) ([]fusion.Input, []*knowledge.Trace, error) {
	scaled, err := m.pipeline.Transform(features)
	if err != nil {
		return nil, nil, errors.Wrap(err, "transform features")
	}
	probs, err := m.net.Proba(scaled)
	if err != nil {
		return nil, nil, errors.Wrap(err, "neural forward pass")
	}

	inputs := make([]fusion.Input, len(features))
	traces := make([]*knowledge.Trace, len(features))
	for i, row := range features {
		symbolic, trace, err := m.reasoner.Reason(row)
		if err != nil {
			return nil, nil, errors.Wrap(err, "symbolic reasoning")
		}
		inputs[i] = fusion.Input{
			Neural:   fusion.Distribution{Classes: m.classes, Weights: probs[i]},
			Symbolic: symbolic,
		}
		traces[i] = trace
	}
	return inputs, traces, nil
}

var _ ports.Model = (*HybridClassifier)(nil)
