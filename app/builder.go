package app

import (
	"strings"

	adapterfusion "neurosym/adapters/fusion"
	"neurosym/adapters/perturb"
	"neurosym/adapters/pipeline"
	adapterrng "neurosym/adapters/rng"
	"neurosym/adapters/symbolic"
	"neurosym/domain/core"
	"neurosym/domain/experiment"
	"neurosym/domain/knowledge"
	"neurosym/internal"
	"neurosym/ports"
)

// Builder constructs models from declarative configuration. Construction is
// the only place strategies, knowledge bases, and seeds come together; after
// BuildModel returns, the configuration is immutable for the model's
// lifetime.
type Builder struct {
	rng       ports.RNG
	perturber ports.Perturber
	bases     map[string]*knowledge.Base
	logger    *internal.Logger
}

// NewBuilder creates a builder with the default RNG and noise model
func NewBuilder() *Builder {
	return &Builder{
		rng:       adapterrng.New(),
		perturber: perturb.NewBoundedNoise(0, 0),
		bases:     make(map[string]*knowledge.Base),
		logger:    internal.DefaultLogger,
	}
}

// WithPerturber overrides the noise model behind the robustness score
func (b *Builder) WithPerturber(p ports.Perturber) *Builder {
	b.perturber = p
	return b
}

// RegisterKnowledgeBase makes a named knowledge base resolvable as a
// knowledge_base_source. Each built model receives its own clone; the
// registered base is never shared mutable state.
func (b *Builder) RegisterKnowledgeBase(name string, base *knowledge.Base) {
	b.bases[name] = base
}

// BuildModel validates the configuration and assembles a hybrid classifier
// from it. Configuration problems surface here, before any training.
func (b *Builder) BuildModel(cfg experiment.ModelConfig) (ports.Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := b.resolveKnowledgeBase(cfg.KnowledgeBaseSource)
	if err != nil {
		return nil, err
	}

	hyper := cfg.Hyperparameters.Defaults()

	var strategy adapterfusion.Strategy
	switch cfg.FusionStrategy {
	case experiment.FusionLate:
		if len(cfg.FusionWeights) == 2 {
			strategy, err = adapterfusion.NewLate(cfg.FusionWeights[0], cfg.FusionWeights[1])
			if err != nil {
				return nil, core.NewRunConfigurationError("fusion_weights", err.Error())
			}
		} else {
			strategy = adapterfusion.NewLateDefault()
		}
	case experiment.FusionAttention:
		strategy = adapterfusion.NewAttention(hyper.LearningRate,
			b.rng.Stream("attention-init", hyper.Seed))
	}

	b.logger.Debug("built model: fusion=%s, rules=%d, classes=%d",
		cfg.FusionStrategy, base.Len(), len(cfg.Classes))

	return &HybridClassifier{
		classes:  cfg.Classes,
		pipeline: pipeline.NewStandardScaler(),
		reasoner: symbolic.NewReasoner(base, cfg.Classes),
		strategy: strategy,
		hyper:    hyper,
		rng:      b.rng,
		eval:     NewEvaluator(b.perturber, b.rng, hyper.Seed),
		logger:   internal.DefaultLogger,
	}, nil
}

// resolveKnowledgeBase turns a knowledge_base_source into a knowledge base
// owned by the new model. "file:<path>" loads a rule-set document; any other
// non-empty value looks up a registered base and clones it; empty means the
// model starts with no symbolic knowledge.
func (b *Builder) resolveKnowledgeBase(source string) (*knowledge.Base, error) {
	if source == "" {
		return knowledge.NewBase(), nil
	}
	if path, ok := strings.CutPrefix(source, "file:"); ok {
		base, err := symbolic.LoadRuleSet(path)
		if err != nil {
			return nil, core.NewRunConfigurationError("knowledge_base_source", err.Error())
		}
		return base, nil
	}
	if base, ok := b.bases[source]; ok {
		return base.Clone(), nil
	}
	return nil, core.NewRunConfigurationError("knowledge_base_source",
		"unknown source "+source)
}
