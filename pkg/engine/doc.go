// Package engine provides the EthicsEngine: the orchestrator that owns one
// immutable RuleSet, evaluates candidate plans against it, and keeps a
// bounded, concurrency-safe audit history of every decision.
//
// # Basic Usage
//
//	ruleset := loader.NewLoader(registry, logger).LoadFile("rules.yaml")
//	eng, err := engine.New(ruleset, nil, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := eng.EvaluatePlan(plan, ctx)
//	if result.Action == rules.ActionBlock {
//	    return fmt.Errorf("blocked: %v", result.Reasons)
//	}
//
// # Audit Trail
//
// Every evaluation appends a redacted AuditRecord - hashes, rule IDs, reason
// codes, and timing, never plan contents - to a capped ring buffer (default
// 1000 entries, oldest evicted first). Stats exposes aggregate counts and a
// tail of recent records.
//
// # Fail-Closed Contract
//
// EvaluatePlan and IsPlanAllowed never panic and never return an error: any
// internal fault that escapes the lower layers degrades the result to BLOCK
// with an evaluation_error reason. Callers distinguish outcomes solely via
// the result's Action field.
//
// # Thread Safety
//
// Any number of goroutines may evaluate concurrently. The active RuleSet is
// read-only and swapped atomically on Reload (a single pointer swap, so
// readers never observe a partially constructed set); the audit buffer is
// guarded by its own mutex.
package engine
