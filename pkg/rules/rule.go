package rules

import (
	"strings"
	"unicode"

	"praxis-hq/sentinel/pkg/dsl"
	"praxis-hq/sentinel/pkg/predicates"
)

// PredicateFunc decides whether a rule triggers for a plan and context.
type PredicateFunc func(plan, context map[string]any) bool

// Definition is the input to rule construction.
type Definition struct {
	// Name identifies the rule; it also derives the rule's reason code.
	Name string

	// Description is free-form documentation.
	Description string

	// Source is the DSL expression deciding when the rule triggers.
	Source string

	// Action is the outcome contributed when the rule triggers.
	Action Action

	// Priority orders the rule within a RuleSet.
	Priority Priority

	// Tags classify the rule (informational).
	Tags []string
}

// Rule is a compiled policy rule. It is immutable after construction and
// safe for concurrent use.
type Rule struct {
	// Name identifies the rule.
	Name string

	// Description is free-form documentation.
	Description string

	// Source is the DSL expression text the rule was compiled from.
	Source string

	// Action is the outcome contributed when the rule triggers.
	Action Action

	// Priority orders the rule within a RuleSet.
	Priority Priority

	// Tags classify the rule.
	Tags []string

	// Hash is the fingerprint of the rule's DSL source.
	Hash string

	// ReasonCode is the audit reason derived from the rule name.
	ReasonCode string

	predicate  PredicateFunc
	compileErr error
}

// New compiles a rule from its definition. Construction never fails: a rule
// whose source does not compile gets a permanently false predicate and the
// compile error is retained for introspection.
func New(def Definition, registry *predicates.Registry) *Rule {
	r := &Rule{
		Name:        def.Name,
		Description: def.Description,
		Source:      def.Source,
		Action:      def.Action,
		Priority:    def.Priority,
		Tags:        append([]string(nil), def.Tags...),
		Hash:        dsl.HashRule(def.Source),
		ReasonCode:  reasonCode(def.Name),
	}

	compiled, err := dsl.Compile(def.Source, registry)
	if err != nil {
		r.compileErr = err
		r.predicate = neverMatch
		return r
	}

	r.predicate = compiled.Eval
	return r
}

// NewWithPredicate builds a rule around a hand-supplied predicate instead of
// compiled DSL. Used for programmatic rules and fault-injection tests.
func NewWithPredicate(def Definition, fn PredicateFunc) *Rule {
	r := &Rule{
		Name:        def.Name,
		Description: def.Description,
		Source:      def.Source,
		Action:      def.Action,
		Priority:    def.Priority,
		Tags:        append([]string(nil), def.Tags...),
		Hash:        dsl.HashRule(def.Source),
		ReasonCode:  reasonCode(def.Name),
	}

	if fn == nil {
		fn = neverMatch
	}
	r.predicate = fn
	return r
}

// Matches reports whether the rule triggers for the plan and context. A rule
// that failed to compile never matches.
func (r *Rule) Matches(plan, context map[string]any) bool {
	return r.predicate(plan, context)
}

// CompileError returns the retained compile error, or nil if the rule's
// source compiled cleanly.
func (r *Rule) CompileError() error {
	return r.compileErr
}

// Reason renders the audit reason string for this rule triggering.
func (r *Rule) Reason() string {
	return string(r.Action) + ": " + r.ReasonCode
}

func neverMatch(map[string]any, map[string]any) bool {
	return false
}

// reasonCode derives an audit reason code from a rule name: lowercase, runs
// of non-alphanumerics collapsed to single underscores.
func reasonCode(name string) string {
	var sb strings.Builder
	lastUnderscore := false

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && sb.Len() > 0 {
			sb.WriteByte('_')
			lastUnderscore = true
		}
	}

	code := strings.TrimSuffix(sb.String(), "_")
	if code == "" {
		return "unnamed_rule"
	}
	return code
}
