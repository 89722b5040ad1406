package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"praxis-hq/sentinel/pkg/engine"
)

// Config contains configuration for evaluation metrics.
type Config struct {
	// Namespace prefixes all metric names. Default: "sentinel".
	Namespace string
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() *Config {
	return &Config{Namespace: "sentinel"}
}

// EvaluationMetrics tracks plan evaluation telemetry.
type EvaluationMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	ruleHitsTotal      *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	rulesetInfo        *prometheus.GaugeVec

	// mu guards the active ruleset hash label so reloads clear the
	// previous hash's gauge.
	mu         sync.Mutex
	activeHash string
}

var _ engine.MetricsSink = (*EvaluationMetrics)(nil)

// NewEvaluationMetrics creates and registers evaluation metrics with the
// provided registry.
func NewEvaluationMetrics(cfg *Config, registry *prometheus.Registry) *EvaluationMetrics {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	em := &EvaluationMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "evaluations_total",
				Help:      "Total number of plan evaluations by final action",
			},
			[]string{"action"},
		),

		ruleHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rule_hits_total",
				Help:      "Total number of rule firings by rule and contributed action",
			},
			[]string{"rule_id", "action"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of plan evaluation in seconds",
				// Pure CPU work targeting sub-millisecond p95
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
		),

		rulesetInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "ruleset_info",
				Help:      "Set to 1 for the currently active ruleset hash",
			},
			[]string{"ruleset_hash"},
		),
	}

	registry.MustRegister(
		em.evaluationsTotal,
		em.ruleHitsTotal,
		em.evaluationDuration,
		em.rulesetInfo,
	)

	return em
}

// RecordEvaluation counts one evaluation with its final action and observes
// its duration.
func (em *EvaluationMetrics) RecordEvaluation(action string, duration time.Duration) {
	em.evaluationsTotal.WithLabelValues(action).Inc()
	em.evaluationDuration.Observe(duration.Seconds())
}

// RecordRuleHit counts a single rule firing with the action it contributed.
func (em *EvaluationMetrics) RecordRuleHit(ruleID, action string) {
	em.ruleHitsTotal.WithLabelValues(ruleID, action).Inc()
}

// SetActiveRuleSet labels the active ruleset hash, clearing the previous
// hash's series so only one hash reads 1 at a time.
func (em *EvaluationMetrics) SetActiveRuleSet(hash string) {
	em.mu.Lock()
	defer em.mu.Unlock()

	if em.activeHash != "" && em.activeHash != hash {
		em.rulesetInfo.DeleteLabelValues(em.activeHash)
	}
	em.activeHash = hash
	em.rulesetInfo.WithLabelValues(hash).Set(1)
}
