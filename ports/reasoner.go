package ports

import (
	"neurosym/domain/fusion"
	"neurosym/domain/knowledge"
)

// Reasoner evaluates a knowledge base against an input. Many Reason calls
// may run concurrently; AddKnowledge requires exclusive access relative to
// in-flight reasoning on the same knowledge base.
type Reasoner interface {
	// Reason evaluates every rule in insertion order and returns the
	// assertion distribution plus a fresh trace owned by the caller.
	Reason(features []float64) (fusion.Distribution, *knowledge.Trace, error)

	// AddKnowledge appends a rule, rejecting duplicate identifiers with
	// core.ErrDuplicateRule.
	AddKnowledge(rule knowledge.Rule) error

	// ExplainReasoning returns the trace for an input without the
	// distribution.
	ExplainReasoning(features []float64) (*knowledge.Trace, error)

	// Classes returns the ordered label space assertions map into
	Classes() []string
}
