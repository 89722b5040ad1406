package rules

import (
	"sort"
	"time"
)

// ReasonNoRulesTriggered is the default reason when no rule fires.
const ReasonNoRulesTriggered = "allow: no_rules_triggered"

// ReasonEvaluationError is the synthetic reason recorded when evaluation
// itself faults; it always accompanies a BLOCK. A fault inside a single
// rule appends that rule's reason code (see faultReason) so multiple
// faulted rules stay distinguishable in the audit trail.
const ReasonEvaluationError = "block: evaluation_error"

// TriggeredRule records a single rule firing within an evaluation.
type TriggeredRule struct {
	// Name is the rule name.
	Name string

	// Hash is the rule's DSL fingerprint.
	Hash string

	// Action is the outcome the rule contributed. A faulting rule
	// contributes ActionBlock regardless of its declared action.
	Action Action

	// Reason is the audit reason string.
	Reason string

	// Faulted is true when the rule triggered because its predicate
	// panicked rather than matched.
	Faulted bool
}

// Evaluation is the outcome of evaluating a RuleSet against one plan. It is
// created fresh per call and never mutated afterwards.
type Evaluation struct {
	// Action is the fused final action under BLOCK > WARN > ALLOW.
	Action Action

	// TriggeredRules lists every rule that fired, in evaluation order.
	TriggeredRules []TriggeredRule

	// Reasons explains the outcome, one entry per triggered rule, or the
	// no_rules_triggered default.
	Reasons []string

	// PlanHash fingerprints the evaluated plan for audit correlation.
	PlanHash string

	// FactsHash fingerprints the (plan, context) pair.
	FactsHash string

	// Duration is the wall time spent evaluating.
	Duration time.Duration

	// RuleSetHash identifies the ruleset that produced this result.
	RuleSetHash string
}

// TriggeredRuleIDs returns the names of triggered rules in evaluation order.
func (e *Evaluation) TriggeredRuleIDs() []string {
	ids := make([]string, len(e.TriggeredRules))
	for i, t := range e.TriggeredRules {
		ids[i] = t.Name
	}
	return ids
}

// RuleSet is an immutable, deterministically ordered collection of rules.
// Construction sorts by priority descending then name, so evaluation order
// and triggered-rule ordering are identical across calls for a fixed set.
type RuleSet struct {
	rules []*Rule
	hash  string
}

// NewRuleSet builds a ruleset from the given rules. Nil rules are dropped.
// The input slice is copied; the set is immutable after construction and
// needs no locking.
func NewRuleSet(ruleList []*Rule) *RuleSet {
	sorted := make([]*Rule, 0, len(ruleList))
	for _, r := range ruleList {
		if r != nil {
			sorted = append(sorted, r)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Priority.rank(), sorted[j].Priority.rank()
		if ri != rj {
			return ri > rj
		}
		return sorted[i].Name < sorted[j].Name
	})

	return &RuleSet{
		rules: sorted,
		hash:  computeRuleSetHash(sorted),
	}
}

// Rules returns the rules in evaluation order. The returned slice is a copy.
func (rs *RuleSet) Rules() []*Rule {
	out := make([]*Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Len returns the number of rules in the set.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Hash returns the deterministic fingerprint over every rule's
// (name, dsl, action, priority).
func (rs *RuleSet) Hash() string {
	return rs.hash
}

// Evaluate runs every rule against the plan and context and fuses the
// triggered actions through the priority lattice. Every rule is evaluated -
// no short-circuit - so the audit trail stays complete after a block is
// already decided.
//
// Faults cannot soften the outcome: a panic inside one rule records that
// rule as a BLOCK trigger, and a panic in Evaluate itself degrades the whole
// result to BLOCK with an evaluation_error reason. Evaluate never returns
// nil and never panics.
func (rs *RuleSet) Evaluate(plan, context map[string]any) (result *Evaluation) {
	start := time.Now()

	defer func() {
		if recover() != nil {
			result = &Evaluation{
				Action:      ActionBlock,
				Reasons:     []string{ReasonEvaluationError},
				PlanHash:    UnhashableSentinel,
				FactsHash:   UnhashableSentinel,
				Duration:    time.Since(start),
				RuleSetHash: rs.hash,
			}
		}
	}()

	final := ActionAllow
	var triggered []TriggeredRule

	for _, rule := range rs.rules {
		matched, faulted := safeMatch(rule, plan, context)

		switch {
		case faulted:
			// A faulting rule is stronger than a matching one: it blocks
			// regardless of its declared action, so a systemic fault can
			// never silently resolve to allow.
			triggered = append(triggered, TriggeredRule{
				Name:    rule.Name,
				Hash:    rule.Hash,
				Action:  ActionBlock,
				Reason:  faultReason(rule),
				Faulted: true,
			})
			final = final.Escalate(ActionBlock)

		case matched:
			triggered = append(triggered, TriggeredRule{
				Name:   rule.Name,
				Hash:   rule.Hash,
				Action: rule.Action,
				Reason: rule.Reason(),
			})
			final = final.Escalate(rule.Action)
		}
	}

	reasons := make([]string, 0, len(triggered))
	for _, t := range triggered {
		reasons = append(reasons, t.Reason)
	}
	if len(reasons) == 0 {
		reasons = []string{ReasonNoRulesTriggered}
	}

	return &Evaluation{
		Action:         final,
		TriggeredRules: triggered,
		Reasons:        reasons,
		PlanHash:       hashOrSentinel(plan),
		FactsHash: hashOrSentinel(map[string]any{
			"plan":    plan,
			"context": context,
		}),
		Duration:    time.Since(start),
		RuleSetHash: rs.hash,
	}
}

// faultReason renders the audit reason for a rule whose predicate faulted.
func faultReason(r *Rule) string {
	return ReasonEvaluationError + ": " + r.ReasonCode
}

// safeMatch invokes a rule's predicate, converting a panic into a fault
// signal instead of letting it escape.
func safeMatch(rule *Rule, plan, context map[string]any) (matched, faulted bool) {
	defer func() {
		if recover() != nil {
			matched = false
			faulted = true
		}
	}()

	return rule.Matches(plan, context), false
}
