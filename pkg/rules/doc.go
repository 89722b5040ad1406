// Package rules defines compiled policy rules and the immutable RuleSet that
// evaluates them against a plan and context.
//
// A Rule binds a name, a DSL source expression, an action, and a priority
// into a predicate compiled once at construction. Construction never fails:
// a rule whose source does not compile becomes permanently false, so a bad
// rule can weaken protection for its own clause only, never crash the set.
//
// A RuleSet sorts its rules deterministically (priority descending, then
// name) and evaluates every rule on every call - no short-circuit - so the
// audit trail is complete even after a block is already decided. Triggered
// actions fuse through the priority lattice BLOCK > WARN > ALLOW; the fold
// is monotonic, so once a block is recorded no later rule can soften it.
//
// # Fail-Closed Ladder
//
// Faults escalate, never vanish:
//
//   - compile failure: the rule is permanently false (can only fail to fire)
//   - panic inside a single rule's predicate: that rule is recorded as a
//     BLOCK trigger with an evaluation_error reason
//   - panic in Evaluate itself: the whole result degrades to BLOCK
//
// # Hashing
//
// Plan, facts, and ruleset hashes are SHA-256 over RFC 8785 canonical JSON,
// giving reproducible fingerprints for audit correlation and change
// detection. They carry no cryptographic integrity claim. Unhashable inputs
// degrade to a sentinel value instead of faulting the evaluation.
//
// # Thread Safety
//
// Rules and RuleSets are immutable after construction and need no locking;
// any number of goroutines may call Evaluate concurrently.
package rules
