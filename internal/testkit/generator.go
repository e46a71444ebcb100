package testkit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"neurosym/adapters/rng"
	"neurosym/adapters/symbolic"
	"neurosym/domain/core"
	"neurosym/domain/dataset"
	"neurosym/domain/knowledge"
	"neurosym/ports"
)

// SyntheticSpec describes a Gaussian-cluster classification problem: one
// cluster per class, centered on that class's feature means.
type SyntheticSpec struct {
	Name     string
	Classes  []string
	Means    [][]float64 // one mean vector per class
	Sigma    float64
	PerClass int
	Seed     int64
}

// Generate materializes the spec into a dataset. Rows are interleaved
// across classes so an ordered split keeps every class on both sides.
func (s SyntheticSpec) Generate() (*dataset.Dataset, error) {
	if len(s.Classes) != len(s.Means) {
		return nil, fmt.Errorf("spec has %d classes but %d mean vectors", len(s.Classes), len(s.Means))
	}
	if s.PerClass < 1 {
		return nil, fmt.Errorf("spec needs at least one instance per class")
	}

	gen := rng.New().Stream("synthetic-"+s.Name, s.Seed)
	width := len(s.Means[0])

	var features [][]float64
	var labels []int
	for i := 0; i < s.PerClass; i++ {
		for c, mean := range s.Means {
			if len(mean) != width {
				return nil, fmt.Errorf("class %d mean has width %d, expected %d", c, len(mean), width)
			}
			row := make([]float64, width)
			for j, m := range mean {
				row[j] = m + gen.NormFloat64()*s.Sigma
			}
			features = append(features, row)
			labels = append(labels, c)
		}
	}
	return dataset.New(features, labels, s.Classes)
}

// DemoSpec is a three-class, four-feature problem whose clusters the demo
// rule set separates on feature 0.
func DemoSpec(perClass int, seed int64) SyntheticSpec {
	return SyntheticSpec{
		Name:    "demo",
		Classes: []string{"low", "medium", "high"},
		Means: [][]float64{
			{1.0, 2.0, 0.5, 1.5},
			{4.0, 3.0, 2.0, 2.5},
			{7.0, 4.0, 3.5, 3.5},
		},
		Sigma:    0.6,
		PerClass: perClass,
		Seed:     seed,
	}
}

// DemoRuleSet is the symbolic counterpart of DemoSpec: threshold rules on
// feature 0 matching the cluster centers.
func DemoRuleSet() symbolic.RuleSetDoc {
	return symbolic.RuleSetDoc{
		Name: "demo",
		Rules: []symbolic.RuleSpec{
			{
				ID:          "low-feature0",
				Description: "feature 0 in the low band",
				Class:       "low",
				Confidence:  0.9,
				When:        symbolic.ConditionSpec{Feature: 0, Op: "lt", Value: 2.5},
			},
			{
				ID:          "medium-feature0",
				Description: "feature 0 in the medium band",
				Class:       "medium",
				Confidence:  0.8,
				When:        symbolic.ConditionSpec{Feature: 0, Op: "between", Value: 2.5, Upper: 5.5},
			},
			{
				ID:          "high-feature0",
				Description: "feature 0 in the high band",
				Class:       "high",
				Confidence:  0.9,
				When:        symbolic.ConditionSpec{Feature: 0, Op: "gt", Value: 5.5},
			},
		},
	}
}

// DemoKnowledgeBase compiles the demo rule set
func DemoKnowledgeBase() (*knowledge.Base, error) {
	return symbolic.CompileRuleSet(DemoRuleSet())
}

// Provider resolves data references to datasets. It understands the
// built-in synthetic problems plus "file:<path>" JSON dataset files.
type Provider struct{}

// NewProvider creates the default data provider
func NewProvider() *Provider {
	return &Provider{}
}

// Resolve maps a data reference to a dataset
func (p *Provider) Resolve(ctx context.Context, ref string) (*dataset.Dataset, error) {
	if path, ok := strings.CutPrefix(ref, "file:"); ok {
		return loadDatasetFile(path)
	}
	switch ref {
	case "synthetic:demo":
		return DemoSpec(40, 7).Generate()
	case "synthetic:demo-small":
		return DemoSpec(10, 7).Generate()
	default:
		// An unresolvable reference is a configuration fault, so the run's
		// record carries the run-configuration marker
		return nil, core.NewRunConfigurationError("data_reference",
			fmt.Sprintf("unknown reference %q", ref))
	}
}

// loadDatasetFile reads a dataset from a JSON file
func loadDatasetFile(path string) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	var ds dataset.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return &ds, nil
}

var _ ports.DataProvider = (*Provider)(nil)
