package loader

import (
	"log/slog"
	"strings"

	"praxis-hq/sentinel/pkg/predicates"
	"praxis-hq/sentinel/pkg/rules"
)

// Record is one external rule definition as it appears in the source.
type Record struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	RuleDSL     string   `yaml:"rule_dsl" json:"rule_dsl"`
	Action      string   `yaml:"action" json:"action"`
	Priority    string   `yaml:"priority" json:"priority"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// toDefinition validates the record and converts it to a rule definition.
func (r Record) toDefinition(index int) (rules.Definition, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return rules.Definition{}, &RecordError{Index: index, Message: "missing name"}
	}
	if strings.TrimSpace(r.RuleDSL) == "" {
		return rules.Definition{}, &RecordError{Index: index, Name: name, Message: "missing rule_dsl"}
	}

	action, err := rules.ParseAction(r.Action)
	if err != nil {
		return rules.Definition{}, &RecordError{Index: index, Name: name, Message: "invalid action", Cause: err}
	}

	priority, err := rules.ParsePriority(r.Priority)
	if err != nil {
		return rules.Definition{}, &RecordError{Index: index, Name: name, Message: "invalid priority", Cause: err}
	}

	return rules.Definition{
		Name:        name,
		Description: r.Description,
		Source:      r.RuleDSL,
		Action:      action,
		Priority:    priority,
		Tags:        r.Tags,
	}, nil
}

// Loader builds rules and rulesets from external records.
type Loader struct {
	registry *predicates.Registry
	logger   *slog.Logger
}

// NewLoader creates a loader compiling against the given predicate registry.
func NewLoader(registry *predicates.Registry, logger *slog.Logger) *Loader {
	if registry == nil {
		registry = predicates.NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		registry: registry,
		logger:   logger.With("component", "rule.loader"),
	}
}

// BuildRules converts records to compiled rules. Invalid records are logged
// and skipped; duplicate names keep the first occurrence. Note that a record
// whose DSL fails to compile is NOT skipped: it loads as a permanently false
// rule, preserving its identity in the ruleset hash.
func (l *Loader) BuildRules(records []Record) []*rules.Rule {
	var out []*rules.Rule
	seen := make(map[string]bool)

	for i, record := range records {
		def, err := record.toDefinition(i)
		if err != nil {
			l.logger.Warn("skipping invalid rule record", "error", err)
			continue
		}

		if seen[def.Name] {
			l.logger.Warn("skipping duplicate rule record", "name", def.Name)
			continue
		}
		seen[def.Name] = true

		rule := rules.New(def, l.registry)
		if compileErr := rule.CompileError(); compileErr != nil {
			l.logger.Warn("rule failed to compile, loading as permanently false",
				"name", def.Name,
				"error", compileErr,
			)
		}

		out = append(out, rule)
	}

	return out
}

// BuildRuleSet converts records to a ruleset. When no record survives
// validation the source counts as unusable and the fallback ruleset is
// returned instead.
func (l *Loader) BuildRuleSet(records []Record) *rules.RuleSet {
	built := l.BuildRules(records)
	if len(built) == 0 {
		l.logger.Error("no valid rule records in source, using fallback ruleset",
			"record_count", len(records),
		)
		return l.Fallback()
	}

	ruleset := rules.NewRuleSet(built)
	l.logger.Info("ruleset built",
		"rule_count", ruleset.Len(),
		"skipped", len(records)-len(built),
		"ruleset_hash", ruleset.Hash(),
	)
	return ruleset
}
