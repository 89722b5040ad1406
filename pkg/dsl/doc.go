// Package dsl implements the rule expression language: a small ASCII
// function-call DSL that is tokenized, parsed into a typed AST, validated
// against the predicate registry, and compiled into a closure evaluated
// against a (plan, context) pair.
//
// # Grammar
//
//	expr           := logical_call | predicate_call
//	logical_call   := ("and" | "or" | "not") "(" expr_list ")"
//	predicate_call := IDENT "(" arg_list ")"
//	arg            := STRING | NUMBER | "true" | "false" | "null" | path
//	path           := IDENT ("." IDENT)*
//
// String literals are quoted with single or double quotes and support
// backslash escapes; embedded commas and parentheses inside quotes are not
// treated as separators. Bare dotted identifiers are path references: paths
// prefixed "context." resolve against the evaluation context, everything
// else resolves against the plan. A missing path resolves to nil.
//
// Example:
//
//	and(equals(action, "delete_user_data"), greater_than(params.size, 1000))
//
// # Fail-Closed Contract
//
// Compile returns *SyntaxError for unknown predicates, malformed syntax, or
// arity violations. Callers must substitute an always-false predicate for a
// rule whose source fails to compile; the error never escapes the rule
// boundary. Any panic during closure evaluation is recovered and yields
// false.
//
// # Thread Safety
//
// A CompiledExpr is immutable and safe for concurrent evaluation.
package dsl
