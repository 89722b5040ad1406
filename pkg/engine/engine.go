package engine

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"praxis-hq/sentinel/pkg/rules"
)

// MetricsSink receives evaluation telemetry. Implementations live outside
// the hot path's package (see pkg/telemetry/metrics); a nil sink disables
// telemetry.
type MetricsSink interface {
	// RecordEvaluation counts one evaluation with its final action and
	// observes its duration.
	RecordEvaluation(action string, duration time.Duration)

	// RecordRuleHit counts a single rule firing with the action it
	// contributed.
	RecordRuleHit(ruleID, action string)

	// SetActiveRuleSet labels the currently active ruleset hash.
	SetActiveRuleSet(hash string)
}

// Stats is a read-only aggregate snapshot of engine activity.
type Stats struct {
	// TotalEvaluations is the number of plans evaluated.
	TotalEvaluations uint64

	// Allowed, Warned, and Blocked count final actions.
	Allowed uint64
	Warned  uint64
	Blocked uint64

	// RuleSetHash identifies the currently active ruleset.
	RuleSetHash string

	// RuleCount is the number of rules in the active ruleset.
	RuleCount int

	// Recent is a tail of recent audit records, oldest first.
	Recent []AuditRecord
}

// EthicsEngine evaluates candidate plans against one immutable RuleSet and
// records every decision in a bounded audit history. Safe for concurrent
// use; see the package documentation for the fail-closed contract.
type EthicsEngine struct {
	ruleset atomic.Pointer[rules.RuleSet]
	history *auditHistory
	config  *Config
	logger  *slog.Logger
}

// New creates an engine owning the given ruleset.
func New(ruleset *rules.RuleSet, config *Config, logger *slog.Logger) (*EthicsEngine, error) {
	if ruleset == nil {
		return nil, fmt.Errorf("ruleset cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &EthicsEngine{
		history: newAuditHistory(config.AuditCapacity),
		config:  config,
		logger:  logger.With("component", "ethics.engine"),
	}
	e.ruleset.Store(ruleset)

	if config.Metrics != nil {
		config.Metrics.SetActiveRuleSet(ruleset.Hash())
	}

	e.logger.Info("ethics engine initialized",
		"rule_count", ruleset.Len(),
		"ruleset_hash", ruleset.Hash(),
		"audit_capacity", config.AuditCapacity,
	)

	return e, nil
}

// EvaluatePlan evaluates a plan and context against the active ruleset,
// appends a redacted audit record, and returns the result. It never panics
// and never returns nil: any internal fault degrades to BLOCK with an
// evaluation_error reason.
func (e *EthicsEngine) EvaluatePlan(plan, context map[string]any) (result *rules.Evaluation) {
	ruleset := e.ruleset.Load()

	defer func() {
		if recover() != nil {
			result = &rules.Evaluation{
				Action:      rules.ActionBlock,
				Reasons:     []string{rules.ReasonEvaluationError},
				PlanHash:    rules.UnhashableSentinel,
				FactsHash:   rules.UnhashableSentinel,
				RuleSetHash: ruleset.Hash(),
			}
			e.record(result)
		}
	}()

	result = ruleset.Evaluate(plan, context)
	e.record(result)
	return result
}

// IsPlanAllowed reports whether the plan may proceed. WARN counts as
// allowed; only BLOCK refuses.
func (e *EthicsEngine) IsPlanAllowed(plan, context map[string]any) bool {
	return e.EvaluatePlan(plan, context).Action != rules.ActionBlock
}

// Reload atomically swaps in a new ruleset. In-flight evaluations finish
// against the set they started with; readers never observe a partially
// constructed set.
func (e *EthicsEngine) Reload(ruleset *rules.RuleSet) error {
	if ruleset == nil {
		return fmt.Errorf("ruleset cannot be nil")
	}

	old := e.ruleset.Swap(ruleset)

	if e.config.Metrics != nil {
		e.config.Metrics.SetActiveRuleSet(ruleset.Hash())
	}

	e.logger.Info("ruleset reloaded",
		"rule_count", ruleset.Len(),
		"ruleset_hash", ruleset.Hash(),
		"previous_hash", old.Hash(),
	)

	return nil
}

// RuleSet returns the currently active ruleset.
func (e *EthicsEngine) RuleSet() *rules.RuleSet {
	return e.ruleset.Load()
}

// Stats returns aggregate counts and a tail of recent evaluations.
func (e *EthicsEngine) Stats() Stats {
	total, allowed, warned, blocked := e.history.counts()
	ruleset := e.ruleset.Load()

	return Stats{
		TotalEvaluations: total,
		Allowed:          allowed,
		Warned:           warned,
		Blocked:          blocked,
		RuleSetHash:      ruleset.Hash(),
		RuleCount:        ruleset.Len(),
		Recent:           e.history.tail(e.config.StatsTail),
	}
}

// History returns up to n most recent audit records, oldest first.
func (e *EthicsEngine) History(n int) []AuditRecord {
	return e.history.tail(n)
}

// record appends the audit record and emits telemetry and logs.
func (e *EthicsEngine) record(eval *rules.Evaluation) {
	rec := newAuditRecord(eval)
	e.history.append(rec)

	if m := e.config.Metrics; m != nil {
		m.RecordEvaluation(string(eval.Action), eval.Duration)
		for _, t := range eval.TriggeredRules {
			m.RecordRuleHit(t.Name, string(t.Action))
		}
	}

	switch eval.Action {
	case rules.ActionBlock:
		e.logger.Warn("plan blocked",
			"plan_hash", eval.PlanHash,
			"triggered", eval.TriggeredRuleIDs(),
			"reasons", eval.Reasons,
			"duration", eval.Duration,
		)
	case rules.ActionWarn:
		e.logger.Info("plan allowed with warnings",
			"plan_hash", eval.PlanHash,
			"triggered", eval.TriggeredRuleIDs(),
			"duration", eval.Duration,
		)
	default:
		e.logger.Debug("plan allowed",
			"plan_hash", eval.PlanHash,
			"duration", eval.Duration,
		)
	}
}
