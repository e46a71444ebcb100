package symbolic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"neurosym/domain/core"
)

const demoRuleSetYAML = `
name: credit
rules:
  - id: low-score
    description: applicant score below cutoff
    class: reject
    confidence: 0.9
    when:
      feature: 0
      op: lt
      value: 550
  - id: mid-score
    class: review
    confidence: 0.6
    when:
      feature: 0
      op: between
      value: 550
      upper: 700
  - id: high-score
    class: approve
    confidence: 0.85
    when:
      feature: 0
      op: ge
      value: 700
`

// TestParseRuleSet_RoundTrip verifies a YAML document compiles into an
// executable knowledge base with working predicates.
func TestParseRuleSet_RoundTrip(t *testing.T) {
	doc, err := ParseRuleSet([]byte(demoRuleSetYAML))
	require.NoError(t, err)
	require.Equal(t, "credit", doc.Name)
	require.Len(t, doc.Rules, 3)

	base, err := CompileRuleSet(doc)
	require.NoError(t, err)
	require.Equal(t, 3, base.Len())

	reasoner := NewReasoner(base, []string{"reject", "review", "approve"})
	dist, trace, err := reasoner.Reason([]float64{620})
	require.NoError(t, err)
	require.Equal(t, 1, dist.ArgMax(), "620 should land in the review band")
	require.Len(t, trace.Fired(), 1)
}

// TestConditionSpec_UnknownOperator verifies compilation rejects operators
// outside the vocabulary.
func TestConditionSpec_UnknownOperator(t *testing.T) {
	spec := RuleSpec{
		ID: "bad", Class: "a", Confidence: 0.5,
		When: ConditionSpec{Feature: 0, Op: "approximately", Value: 1},
	}
	_, err := spec.Compile()
	require.Error(t, err)
	require.Contains(t, err.Error(), "approximately")
}

// TestConditionSpec_FeatureOutOfRange verifies predicates fail with the rule
// evaluation error when the feature index exceeds the input width.
func TestConditionSpec_FeatureOutOfRange(t *testing.T) {
	spec := RuleSpec{
		ID: "wide", Class: "a", Confidence: 0.5,
		When: ConditionSpec{Feature: 10, Op: "gt", Value: 1},
	}
	rule, err := spec.Compile()
	require.NoError(t, err)

	_, err = rule.When([]float64{1, 2})
	require.Error(t, err)
	require.ErrorIs(t, err, core.ErrRuleEvaluation)
}

// TestParseRuleSet_Malformed verifies broken YAML is rejected
func TestParseRuleSet_Malformed(t *testing.T) {
	_, err := ParseRuleSet([]byte("rules: [not: valid: yaml"))
	require.Error(t, err)
}
