package rules

import (
	"fmt"
	"strings"
)

// Action is the outcome a rule contributes when it triggers.
type Action string

const (
	// ActionAllow permits the plan.
	ActionAllow Action = "allow"

	// ActionWarn permits the plan but flags it for attention.
	ActionWarn Action = "warn"

	// ActionBlock rejects the plan.
	ActionBlock Action = "block"
)

// severity orders actions for the lattice fold: BLOCK > WARN > ALLOW.
func (a Action) severity() int {
	switch a {
	case ActionBlock:
		return 2
	case ActionWarn:
		return 1
	default:
		return 0
	}
}

// Escalate returns the more severe of two actions. The fold is monotonic:
// once BLOCK, always BLOCK.
func (a Action) Escalate(other Action) Action {
	if other.severity() > a.severity() {
		return other
	}
	return a
}

// ParseAction parses a case-insensitive action name.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "allow":
		return ActionAllow, nil
	case "warn":
		return ActionWarn, nil
	case "block":
		return ActionBlock, nil
	default:
		return "", fmt.Errorf("invalid action %q (want allow, warn, or block)", s)
	}
}

// Priority orders rules for deterministic evaluation. Higher priority rules
// evaluate first; priority does not change the lattice outcome, only the
// reporting order.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// rank orders priorities for sorting (higher evaluates first).
func (p Priority) rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ParsePriority parses a case-insensitive priority name.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "critical":
		return PriorityCritical, nil
	default:
		return "", fmt.Errorf("invalid priority %q (want low, medium, high, or critical)", s)
	}
}
