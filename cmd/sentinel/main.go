// Sentinel is a deterministic policy gate for agent plans.
//
// It compiles declarative rules into an in-process evaluator that decides
// whether a candidate plan is allowed, allowed with warnings, or blocked,
// and records every decision in a redacted audit history.
//
// Usage:
//
//	# Evaluate a plan against a rule file
//	sentinel evaluate --rules rules.yaml --plan plan.json
//
//	# Validate rule files
//	sentinel lint --file rules.yaml
//
//	# Stream plans through a long-lived gate with hot rule reload
//	tail -f plans.ndjson | sentinel gate --rules rules.yaml
//
//	# Show version information
//	sentinel version
package main

func main() {
	Execute()
}
