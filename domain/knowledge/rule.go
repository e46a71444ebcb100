package knowledge

import (
	"fmt"
	"sync"

	"neurosym/domain/core"
)

// Predicate decides whether a rule applies to a feature vector. Predicates
// must be pure: no side effects, no retained state.
type Predicate func(features []float64) (bool, error)

// Rule maps a predicate over input features to a class assertion with an
// attached confidence weight.
type Rule struct {
	ID          core.RuleID `json:"id"`
	Description string      `json:"description"`
	Class       string      `json:"class"`
	Confidence  float64     `json:"confidence"`
	When        Predicate   `json:"-"`
}

// Validate checks the rule is well-formed
func (r Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule has empty id")
	}
	if r.Class == "" {
		return fmt.Errorf("rule %s asserts no class", r.ID)
	}
	if r.Confidence <= 0 || r.Confidence > 1 {
		return fmt.Errorf("rule %s confidence %.3f outside (0, 1]", r.ID, r.Confidence)
	}
	if r.When == nil {
		return fmt.Errorf("rule %s has no predicate", r.ID)
	}
	return nil
}

// Base is an ordered set of symbolic rules. Rule identifiers are unique and
// evaluation order is insertion order. Reads (Rules) may run concurrently;
// Add requires exclusive access relative to in-flight reads.
type Base struct {
	mu    sync.RWMutex
	rules []Rule
	index map[core.RuleID]int
}

// NewBase creates an empty knowledge base
func NewBase() *Base {
	return &Base{index: make(map[core.RuleID]int)}
}

// NewBaseWithRules creates a knowledge base from an ordered rule list
func NewBaseWithRules(rules []Rule) (*Base, error) {
	b := NewBase()
	for _, r := range rules {
		if err := b.Add(r); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Add appends a rule, rejecting duplicates. On error the base is unchanged.
func (b *Base) Add(rule Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.index[rule.ID]; exists {
		return core.NewDuplicateRuleError(rule.ID)
	}
	b.index[rule.ID] = len(b.rules)
	b.rules = append(b.rules, rule)
	return nil
}

// Rules returns the rules in insertion order. The returned slice is a copy;
// callers cannot mutate the base through it.
func (b *Base) Rules() []Rule {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Rule, len(b.rules))
	copy(out, b.rules)
	return out
}

// Len returns the number of rules
func (b *Base) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rules)
}

// Contains reports whether a rule id is present
func (b *Base) Contains(id core.RuleID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.index[id]
	return ok
}

// Clone returns an independent copy of the base. Each concurrent run works
// against its own clone, never shared mutable state.
func (b *Base) Clone() *Base {
	b.mu.RLock()
	defer b.mu.RUnlock()

	clone := NewBase()
	clone.rules = make([]Rule, len(b.rules))
	copy(clone.rules, b.rules)
	for id, i := range b.index {
		clone.index[id] = i
	}
	return clone
}
