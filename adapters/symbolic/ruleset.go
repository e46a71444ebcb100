package symbolic

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"neurosym/domain/core"
	"neurosym/domain/knowledge"
)

// RuleSpec is the declarative form of a rule as it appears in a rule-set
// document. The predicate is a single threshold condition over one feature;
// composite conditions are expressed as separate rules voting for the same
// class.
type RuleSpec struct {
	ID          string        `yaml:"id" json:"id"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Class       string        `yaml:"class" json:"class"`
	Confidence  float64       `yaml:"confidence" json:"confidence"`
	When        ConditionSpec `yaml:"when" json:"when"`
}

// ConditionSpec describes a threshold predicate over one feature
type ConditionSpec struct {
	Feature int     `yaml:"feature" json:"feature"`
	Op      string  `yaml:"op" json:"op"`
	Value   float64 `yaml:"value" json:"value"`
	// Upper is the inclusive upper bound for the between operator
	Upper float64 `yaml:"upper,omitempty" json:"upper,omitempty"`
}

// RuleSetDoc is a rule-set document
type RuleSetDoc struct {
	Name  string     `yaml:"name" json:"name"`
	Rules []RuleSpec `yaml:"rules" json:"rules"`
}

// Compile turns a rule spec into an executable rule
func (s RuleSpec) Compile() (knowledge.Rule, error) {
	pred, err := s.When.compile()
	if err != nil {
		return knowledge.Rule{}, fmt.Errorf("rule %s: %w", s.ID, err)
	}
	return knowledge.Rule{
		ID:          core.RuleID(s.ID),
		Description: s.Description,
		Class:       s.Class,
		Confidence:  s.Confidence,
		When:        pred,
	}, nil
}

func (c ConditionSpec) compile() (knowledge.Predicate, error) {
	feature := c.Feature
	value := c.Value
	upper := c.Upper

	check := func(features []float64) (float64, error) {
		if feature < 0 || feature >= len(features) {
			return 0, fmt.Errorf("%w: feature %d outside input of width %d",
				core.ErrRuleEvaluation, feature, len(features))
		}
		return features[feature], nil
	}

	switch c.Op {
	case "gt":
		return func(f []float64) (bool, error) {
			v, err := check(f)
			return err == nil && v > value, err
		}, nil
	case "ge":
		return func(f []float64) (bool, error) {
			v, err := check(f)
			return err == nil && v >= value, err
		}, nil
	case "lt":
		return func(f []float64) (bool, error) {
			v, err := check(f)
			return err == nil && v < value, err
		}, nil
	case "le":
		return func(f []float64) (bool, error) {
			v, err := check(f)
			return err == nil && v <= value, err
		}, nil
	case "between":
		return func(f []float64) (bool, error) {
			v, err := check(f)
			return err == nil && v >= value && v <= upper, err
		}, nil
	default:
		return nil, fmt.Errorf("unknown operator %q", c.Op)
	}
}

// CompileRuleSet builds a knowledge base from a rule-set document
func CompileRuleSet(doc RuleSetDoc) (*knowledge.Base, error) {
	base := knowledge.NewBase()
	for _, spec := range doc.Rules {
		rule, err := spec.Compile()
		if err != nil {
			return nil, err
		}
		if err := base.Add(rule); err != nil {
			return nil, err
		}
	}
	return base, nil
}

// ParseRuleSet reads a YAML rule-set document
func ParseRuleSet(data []byte) (RuleSetDoc, error) {
	var doc RuleSetDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RuleSetDoc{}, fmt.Errorf("parse rule set: %w", err)
	}
	return doc, nil
}

// LoadRuleSet reads and compiles a rule-set file
func LoadRuleSet(path string) (*knowledge.Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load rule set: %w", err)
	}
	doc, err := ParseRuleSet(data)
	if err != nil {
		return nil, err
	}
	return CompileRuleSet(doc)
}
