package knowledge

import (
	"fmt"
	"strings"

	"neurosym/domain/core"
)

// Outcome is the per-rule result of one reasoning pass. Every rule lands in
// exactly one of three states so the trace captures errors uniformly instead
// of relying on suppressed exceptions.
type Outcome string

const (
	OutcomeFired    Outcome = "fired"
	OutcomeNotFired Outcome = "not_fired"
	OutcomeError    Outcome = "rule_error"
)

// TraceEntry records one rule evaluation within a reasoning pass
type TraceEntry struct {
	RuleID     core.RuleID `json:"rule_id"`
	Outcome    Outcome     `json:"outcome"`
	Class      string      `json:"class,omitempty"`
	Confidence float64     `json:"confidence,omitempty"`
	Note       string      `json:"note,omitempty"`
}

// Trace is the ordered sequence of rule evaluations for one input. It is
// created fresh per prediction call and owned exclusively by the caller.
type Trace struct {
	Entries []TraceEntry `json:"entries"`
}

// NewTrace creates an empty trace
func NewTrace() *Trace {
	return &Trace{}
}

// RecordFired appends a firing rule with its assertion
func (t *Trace) RecordFired(id core.RuleID, class string, confidence float64) {
	t.Entries = append(t.Entries, TraceEntry{
		RuleID:     id,
		Outcome:    OutcomeFired,
		Class:      class,
		Confidence: confidence,
	})
}

// RecordNotFired appends a rule whose predicate did not hold
func (t *Trace) RecordNotFired(id core.RuleID) {
	t.Entries = append(t.Entries, TraceEntry{RuleID: id, Outcome: OutcomeNotFired})
}

// RecordError appends a rule whose predicate failed. Reasoning continues;
// the failure is visible here instead of aborting the pass.
func (t *Trace) RecordError(id core.RuleID, err error) {
	t.Entries = append(t.Entries, TraceEntry{
		RuleID:  id,
		Outcome: OutcomeError,
		Note:    err.Error(),
	})
}

// Fired returns the firing entries in evaluation order
func (t *Trace) Fired() []TraceEntry {
	var fired []TraceEntry
	for _, e := range t.Entries {
		if e.Outcome == OutcomeFired {
			fired = append(fired, e)
		}
	}
	return fired
}

// HasFired reports whether at least one rule fired
func (t *Trace) HasFired() bool {
	for _, e := range t.Entries {
		if e.Outcome == OutcomeFired {
			return true
		}
	}
	return false
}

// Errors returns the entries recorded for failing rules
func (t *Trace) Errors() []TraceEntry {
	var errs []TraceEntry
	for _, e := range t.Entries {
		if e.Outcome == OutcomeError {
			errs = append(errs, e)
		}
	}
	return errs
}

// String renders the trace as a human-readable justification
func (t *Trace) String() string {
	if len(t.Entries) == 0 {
		return "no rules evaluated"
	}
	var b strings.Builder
	for i, e := range t.Entries {
		if i > 0 {
			b.WriteString("; ")
		}
		switch e.Outcome {
		case OutcomeFired:
			fmt.Fprintf(&b, "%s asserted %s (%.2f)", e.RuleID, e.Class, e.Confidence)
		case OutcomeError:
			fmt.Fprintf(&b, "%s errored: %s", e.RuleID, e.Note)
		default:
			fmt.Fprintf(&b, "%s did not fire", e.RuleID)
		}
	}
	return b.String()
}
