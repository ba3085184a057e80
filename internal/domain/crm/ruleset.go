package crm

import "sync/atomic"

// RuleSet holds the active rules and allows them to be swapped while in use
type RuleSet struct {
	current atomic.Pointer[Rules]
}

// NewRuleSet creates a rule set seeded with rules
func NewRuleSet(rules Rules) *RuleSet {
	rs := &RuleSet{}
	rs.Store(rules)
	return rs
}

// Load returns a snapshot of the active rules
func (rs *RuleSet) Load() Rules {
	if r := rs.current.Load(); r != nil {
		return *r
	}
	return DefaultRules()
}

// Store replaces the active rules
func (rs *RuleSet) Store(rules Rules) {
	rs.current.Store(&rules)
}
