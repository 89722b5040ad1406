// Package predicates provides the pure boolean predicate library used by
// compiled rule expressions.
//
// Every predicate is total: it accepts already-resolved argument values and
// returns a bool, converting any internal fault (bad regex, unparsable unit
// string, malformed URL) into false instead of panicking or returning an
// error. This is the innermost layer of the fail-closed design - a predicate
// can refuse to match, but it can never take down an evaluation.
//
// Predicates are looked up by name through a Registry, which also carries
// per-predicate arity bounds so the DSL compiler can reject malformed calls
// at compile time. The logical combinators (and/or/not) are not registry
// entries; they are structural node types in the DSL itself.
//
// # Tag Handling
//
// Rule authors hand tags to predicates in whatever shape their upstream
// producer emits: a list of strings, a list of tagged objects, a map of
// tag name to confidence, or a comma-separated string. NormalizeTags folds
// all of these into a canonical []Tag once, at the boundary, so individual
// predicates never branch on shape.
//
// # Thread Safety
//
// A Registry is immutable after construction and safe for concurrent use.
// The package-level regex cache is guarded by a mutex.
package predicates
