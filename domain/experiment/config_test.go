package experiment

import (
	"testing"

	"neurosym/domain/core"
)

func validModelConfig() ModelConfig {
	return ModelConfig{
		Architecture:   ArchitectureMLP,
		FusionStrategy: FusionLate,
		Classes:        []string{"a", "b"},
	}
}

// TestModelConfig_Validate exercises the fail-fast configuration checks
func TestModelConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*ModelConfig)
		wantErr bool
	}{
		{"valid late", func(c *ModelConfig) {}, false},
		{"valid late with weights", func(c *ModelConfig) { c.FusionWeights = []float64{0.7, 0.3} }, false},
		{"valid attention", func(c *ModelConfig) { c.FusionStrategy = FusionAttention }, false},
		{"missing architecture", func(c *ModelConfig) { c.Architecture = "" }, true},
		{"unknown architecture", func(c *ModelConfig) { c.Architecture = "transformer" }, true},
		{"missing fusion strategy", func(c *ModelConfig) { c.FusionStrategy = "" }, true},
		{"unknown fusion strategy", func(c *ModelConfig) { c.FusionStrategy = "early" }, true},
		{"three late weights", func(c *ModelConfig) { c.FusionWeights = []float64{0.5, 0.3, 0.2} }, true},
		{"late weights not summing to one", func(c *ModelConfig) { c.FusionWeights = []float64{0.7, 0.7} }, true},
		{"negative late weight", func(c *ModelConfig) { c.FusionWeights = []float64{-0.2, 1.2} }, true},
		{"attention with explicit weights", func(c *ModelConfig) {
			c.FusionStrategy = FusionAttention
			c.FusionWeights = []float64{0.5, 0.5}
		}, true},
		{"single class", func(c *ModelConfig) { c.Classes = []string{"a"} }, true},
	}

	for _, tc := range cases {
		cfg := validModelConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if tc.wantErr && !core.IsRunConfigurationError(err) {
			t.Errorf("%s: expected run configuration error, got %v", tc.name, err)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
	}
}

// TestRunConfig_Validate verifies run-level required fields
func TestRunConfig_Validate(t *testing.T) {
	valid := RunConfig{
		RunID:            "run-1",
		ModelConfig:      validModelConfig(),
		DataRef:          "synthetic:demo",
		MetricsToCompute: []string{"accuracy"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Valid config rejected: %v", err)
	}

	missingID := valid
	missingID.RunID = ""
	if err := missingID.Validate(); !core.IsRunConfigurationError(err) {
		t.Errorf("Expected error for missing run id, got %v", err)
	}

	missingData := valid
	missingData.DataRef = ""
	if err := missingData.Validate(); !core.IsRunConfigurationError(err) {
		t.Errorf("Expected error for missing data reference, got %v", err)
	}

	missingMetrics := valid
	missingMetrics.MetricsToCompute = nil
	if err := missingMetrics.Validate(); !core.IsRunConfigurationError(err) {
		t.Errorf("Expected error for missing metrics, got %v", err)
	}
}

// TestHyperparameters_Defaults verifies zero values are filled and set
// values survive.
func TestHyperparameters_Defaults(t *testing.T) {
	h := Hyperparameters{}.Defaults()
	if h.LearningRate <= 0 || h.BatchSize <= 0 || h.Epochs <= 0 || h.HiddenSize <= 0 || h.Seed == 0 {
		t.Errorf("Defaults left zero values: %+v", h)
	}

	set := Hyperparameters{LearningRate: 0.01, BatchSize: 8, Epochs: 5, HiddenSize: 4, Seed: 99}.Defaults()
	if set.LearningRate != 0.01 || set.BatchSize != 8 || set.Epochs != 5 || set.HiddenSize != 4 || set.Seed != 99 {
		t.Errorf("Defaults overwrote explicit values: %+v", set)
	}
}

// TestModelConfig_SnapshotIsStable verifies two identical configurations
// snapshot to identical parameter maps, the basis of the fingerprint.
func TestModelConfig_SnapshotIsStable(t *testing.T) {
	a := validModelConfig().Snapshot()
	b := validModelConfig().Snapshot()

	fpA := core.ConfigFingerprint(a)
	fpB := core.ConfigFingerprint(b)
	if fpA != fpB {
		t.Errorf("Identical configurations produced different fingerprints: %s vs %s", fpA, fpB)
	}
}
