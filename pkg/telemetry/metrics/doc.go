// Package metrics provides Prometheus collectors for plan evaluation
// telemetry. EvaluationMetrics implements the engine's MetricsSink
// collaborator interface.
//
// Metrics:
//   - sentinel_evaluations_total: evaluations by final action
//   - sentinel_rule_hits_total: rule firings by (rule_id, action)
//   - sentinel_evaluation_duration_seconds: evaluation duration histogram
//   - sentinel_ruleset_info: gauge labeled with the active ruleset hash
package metrics
