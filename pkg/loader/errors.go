package loader

import "fmt"

// RecordError indicates a single rule record failed validation. The record
// is skipped; the rest of the source still loads.
type RecordError struct {
	// Index is the record's position in the source.
	Index int

	// Name is the record's name, when present.
	Name string

	// Message describes the failure.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message.
func (e *RecordError) Error() string {
	label := e.Name
	if label == "" {
		label = fmt.Sprintf("#%d", e.Index)
	}
	if e.Cause != nil {
		return fmt.Sprintf("rule record %s: %s: %v", label, e.Message, e.Cause)
	}
	return fmt.Sprintf("rule record %s: %s", label, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RecordError) Unwrap() error {
	return e.Cause
}

// SourceError indicates the whole rule source is unusable. Callers fall back
// to the hard-coded minimal ruleset.
type SourceError struct {
	// Path is the source path, when loading from a file.
	Path string

	// Message describes the failure.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message.
func (e *SourceError) Error() string {
	if e.Path != "" {
		if e.Cause != nil {
			return fmt.Sprintf("rule source %q: %s: %v", e.Path, e.Message, e.Cause)
		}
		return fmt.Sprintf("rule source %q: %s", e.Path, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("rule source: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rule source: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *SourceError) Unwrap() error {
	return e.Cause
}
