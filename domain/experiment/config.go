package experiment

import (
	"fmt"

	"neurosym/domain/core"
)

// FusionStrategy selects how the branch outputs are combined. The choice is
// made at configuration time, not per call.
type FusionStrategy string

const (
	FusionLate      FusionStrategy = "late"
	FusionAttention FusionStrategy = "attention"
)

// Architecture identifies a neural variant
type Architecture string

const (
	ArchitectureMLP Architecture = "mlp"
)

// Hyperparameters for the trainable components
type Hyperparameters struct {
	LearningRate float64 `json:"learning_rate" yaml:"learning_rate"`
	BatchSize    int     `json:"batch_size" yaml:"batch_size"`
	Epochs       int     `json:"epochs" yaml:"epochs"`
	HiddenSize   int     `json:"hidden_size" yaml:"hidden_size"`
	Seed         int64   `json:"seed" yaml:"seed"`
}

// Defaults fills zero-valued hyperparameters with sane defaults
func (h Hyperparameters) Defaults() Hyperparameters {
	if h.LearningRate <= 0 {
		h.LearningRate = 0.05
	}
	if h.BatchSize <= 0 {
		h.BatchSize = 16
	}
	if h.Epochs <= 0 {
		h.Epochs = 50
	}
	if h.HiddenSize <= 0 {
		h.HiddenSize = 16
	}
	if h.Seed == 0 {
		h.Seed = 42
	}
	return h
}

// ModelConfig enumerates everything needed to construct a model
type ModelConfig struct {
	Architecture        Architecture    `json:"architecture" yaml:"architecture"`
	KnowledgeBaseSource string          `json:"knowledge_base_source" yaml:"knowledge_base_source"`
	FusionStrategy      FusionStrategy  `json:"fusion_strategy" yaml:"fusion_strategy"`
	FusionWeights       []float64       `json:"fusion_weights,omitempty" yaml:"fusion_weights,omitempty"`
	Hyperparameters     Hyperparameters `json:"hyperparameters" yaml:"hyperparameters"`
	Classes             []string        `json:"classes" yaml:"classes"`
}

// Validate fails fast on a malformed model configuration
func (c ModelConfig) Validate() error {
	switch c.Architecture {
	case ArchitectureMLP:
	case "":
		return core.NewRunConfigurationError("architecture", "missing")
	default:
		return core.NewRunConfigurationError("architecture", fmt.Sprintf("unknown variant %q", c.Architecture))
	}

	switch c.FusionStrategy {
	case FusionLate:
		if len(c.FusionWeights) > 0 {
			if len(c.FusionWeights) != 2 {
				return core.NewRunConfigurationError("fusion_weights", "late fusion takes exactly two weights")
			}
			sum := c.FusionWeights[0] + c.FusionWeights[1]
			if sum < 0.999 || sum > 1.001 {
				return core.NewRunConfigurationError("fusion_weights",
					fmt.Sprintf("weights must sum to 1, got %.4f", sum))
			}
			if c.FusionWeights[0] < 0 || c.FusionWeights[1] < 0 {
				return core.NewRunConfigurationError("fusion_weights", "weights must be non-negative")
			}
		}
	case FusionAttention:
		if len(c.FusionWeights) > 0 {
			return core.NewRunConfigurationError("fusion_weights", "attention fusion learns its weights")
		}
	case "":
		return core.NewRunConfigurationError("fusion_strategy", "missing")
	default:
		return core.NewRunConfigurationError("fusion_strategy", fmt.Sprintf("unknown strategy %q", c.FusionStrategy))
	}

	if len(c.Classes) < 2 {
		return core.NewRunConfigurationError("classes", "need at least two classes")
	}
	return nil
}

// Snapshot flattens the configuration into trackable parameters
func (c ModelConfig) Snapshot() map[string]interface{} {
	h := c.Hyperparameters.Defaults()
	return map[string]interface{}{
		"architecture":          string(c.Architecture),
		"knowledge_base_source": c.KnowledgeBaseSource,
		"fusion_strategy":       string(c.FusionStrategy),
		"learning_rate":         h.LearningRate,
		"batch_size":            h.BatchSize,
		"epochs":                h.Epochs,
		"hidden_size":           h.HiddenSize,
		"seed":                  h.Seed,
		"num_classes":           len(c.Classes),
	}
}

// RunConfig is the declarative description of one experiment run
type RunConfig struct {
	RunID            core.RunID  `json:"run_id" yaml:"run_id"`
	ModelConfig      ModelConfig `json:"model_config" yaml:"model_config"`
	DataRef          string      `json:"data_reference" yaml:"data_reference"`
	MetricsToCompute []string    `json:"metrics_to_compute" yaml:"metrics_to_compute"`
	// DataVersion identifies the dataset revision for reproducibility
	DataVersion string `json:"data_version,omitempty" yaml:"data_version,omitempty"`
}

// Validate fails fast, before any training begins
func (c RunConfig) Validate() error {
	if c.RunID == "" {
		return core.NewRunConfigurationError("run_id", "missing")
	}
	if c.DataRef == "" {
		return core.NewRunConfigurationError("data_reference", "missing")
	}
	if len(c.MetricsToCompute) == 0 {
		return core.NewRunConfigurationError("metrics_to_compute", "missing")
	}
	return c.ModelConfig.Validate()
}

// BatchConfig drives a batch of runs
type BatchConfig struct {
	Name        string      `json:"name" yaml:"name"`
	Runs        []RunConfig `json:"runs" yaml:"runs"`
	Parallelism int         `json:"parallelism,omitempty" yaml:"parallelism,omitempty"`
}
