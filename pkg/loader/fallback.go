package loader

import "praxis-hq/sentinel/pkg/rules"

// fallbackDefinitions are the hard-coded minimal protections used when the
// rule source is unusable. The set always carries at least one
// CRITICAL/BLOCK and one MEDIUM/WARN rule so the engine never runs with
// zero protective rules.
var fallbackDefinitions = []rules.Definition{
	{
		Name:        "no-user-data-deletes",
		Description: "Destructive deletes of user data are blocked outright.",
		Source:      `equals(action, "delete_user_data")`,
		Action:      rules.ActionBlock,
		Priority:    rules.PriorityCritical,
		Tags:        []string{"destructive", "fallback"},
	},
	{
		Name:        "pii-without-consent",
		Description: "Plans touching PII without recorded consent are blocked.",
		Source:      `and(has_category(tags, "pii"), lacks_consent(context.consent))`,
		Action:      rules.ActionBlock,
		Priority:    rules.PriorityHigh,
		Tags:        []string{"pii", "fallback"},
	},
	{
		Name:        "external-call-review",
		Description: "Outbound external calls are flagged for review.",
		Source:      `equals(action, "external_call")`,
		Action:      rules.ActionWarn,
		Priority:    rules.PriorityMedium,
		Tags:        []string{"egress", "fallback"},
	},
}

// Fallback builds the hard-coded minimal ruleset.
func (l *Loader) Fallback() *rules.RuleSet {
	built := make([]*rules.Rule, 0, len(fallbackDefinitions))
	for _, def := range fallbackDefinitions {
		built = append(built, rules.New(def, l.registry))
	}

	ruleset := rules.NewRuleSet(built)
	l.logger.Warn("fallback ruleset active",
		"rule_count", ruleset.Len(),
		"ruleset_hash", ruleset.Hash(),
	)
	return ruleset
}
