package dsl

import "fmt"

// SyntaxError indicates the rule source failed to compile: malformed syntax,
// an unknown predicate, or an arity violation. It never escapes the rule
// boundary - callers substitute an always-false predicate for the rule.
type SyntaxError struct {
	// Source is the rule source text that failed to compile.
	Source string

	// Pos is the byte offset of the error within Source (-1 if unknown).
	Pos int

	// Message describes the failure.
	Message string
}

// Error returns the error message.
func (e *SyntaxError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("dsl syntax error at offset %d: %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("dsl syntax error: %s", e.Message)
}

func syntaxErrorf(source string, pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Source:  source,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}
