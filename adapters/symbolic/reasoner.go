package symbolic

import (
	"fmt"

	"neurosym/domain/fusion"
	"neurosym/domain/knowledge"
	"neurosym/internal"
	"neurosym/ports"
)

// Reasoner evaluates every rule of a knowledge base against an input in
// insertion order and produces an assertion distribution by weighted voting
// across classes. A rule that fails during evaluation is recorded in the
// trace as a rule_error entry instead of aborting the pass, so reasoning is
// total over any well-typed input.
type Reasoner struct {
	base    *knowledge.Base
	classes []string
	idx     map[string]int
	logger  *internal.Logger
}

// NewReasoner creates a reasoner over the given label space
func NewReasoner(base *knowledge.Base, classes []string) *Reasoner {
	idx := make(map[string]int, len(classes))
	for i, c := range classes {
		idx[c] = i
	}
	return &Reasoner{
		base:    base,
		classes: classes,
		idx:     idx,
		logger:  internal.DefaultLogger,
	}
}

// Classes returns the ordered label space assertions map into
func (r *Reasoner) Classes() []string {
	return r.classes
}

// Reason evaluates all rules and returns the vote distribution plus a fresh
// trace. Vote weight is the rule confidence. Use Verdict to resolve the
// distribution to a single class with the insertion-order tie break.
func (r *Reasoner) Reason(features []float64) (fusion.Distribution, *knowledge.Trace, error) {
	dist := fusion.NewDistribution(r.classes)
	trace := knowledge.NewTrace()

	for _, rule := range r.base.Rules() {
		fired, err := evaluate(rule, features)
		if err != nil {
			trace.RecordError(rule.ID, err)
			r.logger.Debug("rule %s errored on input: %v", rule.ID, err)
			continue
		}
		if !fired {
			trace.RecordNotFired(rule.ID)
			continue
		}

		classIdx, ok := r.idx[rule.Class]
		if !ok {
			// Assertion outside the label space: contained like any other
			// per-rule failure.
			trace.RecordError(rule.ID, fmt.Errorf("asserted unknown class %q", rule.Class))
			continue
		}
		dist.Weights[classIdx] += rule.Confidence
		trace.RecordFired(rule.ID, rule.Class, rule.Confidence)
	}

	return dist, trace, nil
}

// AddKnowledge appends a rule to the underlying base. Callers must not
// invoke this concurrently with Reason on the same base; the base's
// reader-writer lock serializes the update against in-flight reads.
func (r *Reasoner) AddKnowledge(rule knowledge.Rule) error {
	return r.base.Add(rule)
}

// ExplainReasoning returns the trace for an input
func (r *Reasoner) ExplainReasoning(features []float64) (*knowledge.Trace, error) {
	_, trace, err := r.Reason(features)
	return trace, err
}

// Verdict resolves a vote distribution to a class index. When several
// classes share the maximal vote, the class asserted by the earliest-fired
// rule among them wins.
func Verdict(dist fusion.Distribution, trace *knowledge.Trace) int {
	best := dist.ArgMax()
	max := dist.Weights[best]

	tied := make(map[string]bool)
	for i, w := range dist.Weights {
		if w == max {
			tied[dist.Classes[i]] = true
		}
	}
	if len(tied) <= 1 {
		return best
	}
	for _, e := range trace.Fired() {
		if tied[e.Class] {
			for i, c := range dist.Classes {
				if c == e.Class {
					return i
				}
			}
		}
	}
	return best
}

// evaluate runs one predicate, converting panics into errors so a single
// bad rule cannot take down the reasoning pass.
func evaluate(rule knowledge.Rule, features []float64) (fired bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			fired = false
			err = fmt.Errorf("predicate panicked: %v", rec)
		}
	}()
	return rule.When(features)
}

var _ ports.Reasoner = (*Reasoner)(nil)
