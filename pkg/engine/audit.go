package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"praxis-hq/sentinel/pkg/rules"
)

// AuditRecord is the redacted record of one evaluation. It carries hashes,
// identifiers, and timing - never plan or context contents.
type AuditRecord struct {
	// ID uniquely identifies this record.
	ID string

	// Timestamp is when the evaluation completed.
	Timestamp time.Time

	// PlanHash fingerprints the evaluated plan.
	PlanHash string

	// FactsHash fingerprints the (plan, context) pair.
	FactsHash string

	// Action is the final fused action.
	Action rules.Action

	// TriggeredRuleIDs lists the rules that fired, in evaluation order.
	TriggeredRuleIDs []string

	// ReasonCodes explains the outcome.
	ReasonCodes []string

	// Duration is the evaluation wall time.
	Duration time.Duration

	// RuleSetHash identifies the ruleset that produced the decision.
	RuleSetHash string
}

// auditHistory is a mutex-guarded ring buffer of audit records with running
// aggregate counters. The buffer is the only mutable shared state in the
// engine.
type auditHistory struct {
	mu       sync.Mutex
	records  []AuditRecord
	next     int
	size     int
	capacity int

	total   uint64
	allowed uint64
	warned  uint64
	blocked uint64
}

func newAuditHistory(capacity int) *auditHistory {
	return &auditHistory{
		records:  make([]AuditRecord, capacity),
		capacity: capacity,
	}
}

// append records an evaluation, evicting the oldest record once the buffer
// is full.
func (h *auditHistory) append(rec AuditRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records[h.next] = rec
	h.next = (h.next + 1) % h.capacity
	if h.size < h.capacity {
		h.size++
	}

	h.total++
	switch rec.Action {
	case rules.ActionBlock:
		h.blocked++
	case rules.ActionWarn:
		h.warned++
	default:
		h.allowed++
	}
}

// tail returns up to n most recent records in chronological order.
func (h *auditHistory) tail(n int) []AuditRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n > h.size {
		n = h.size
	}
	if n <= 0 {
		return nil
	}

	out := make([]AuditRecord, n)
	start := (h.next - n + h.capacity) % h.capacity
	for i := 0; i < n; i++ {
		out[i] = h.records[(start+i)%h.capacity]
	}
	return out
}

// counts returns the aggregate counters.
func (h *auditHistory) counts() (total, allowed, warned, blocked uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total, h.allowed, h.warned, h.blocked
}

// newAuditRecord builds the redacted record for an evaluation result.
func newAuditRecord(eval *rules.Evaluation) AuditRecord {
	return AuditRecord{
		ID:               uuid.NewString(),
		Timestamp:        time.Now().UTC(),
		PlanHash:         eval.PlanHash,
		FactsHash:        eval.FactsHash,
		Action:           eval.Action,
		TriggeredRuleIDs: eval.TriggeredRuleIDs(),
		ReasonCodes:      append([]string(nil), eval.Reasons...),
		Duration:         eval.Duration,
		RuleSetHash:      eval.RuleSetHash,
	}
}
