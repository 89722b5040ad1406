package dsl

import (
	"errors"
	"testing"

	"praxis-hq/sentinel/pkg/predicates"
)

func mustCompile(t *testing.T, source string) *CompiledExpr {
	t.Helper()
	expr, err := Compile(source, predicates.NewRegistry())
	if err != nil {
		t.Fatalf("Compile(%q) unexpected error: %v", source, err)
	}
	return expr
}

// TestCompileValidation tests that Compile rejects unknown predicates and
// wrong arities at compile time, not evaluation time
func TestCompileValidation(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		wantError bool
	}{
		{name: "valid predicate", source: `equals(action, "x")`},
		{name: "valid nested logical", source: `or(is_empty(a), and(is_present(b), not(is_empty(c))))`},
		{name: "unknown predicate", source: `frobnicate(a)`, wantError: true},
		{name: "wrong arity", source: `equals(a)`, wantError: true},
		{name: "unknown predicate deep in tree", source: `and(is_empty(a), frobnicate(b))`, wantError: true},
		{name: "syntax error", source: `equals(a,`, wantError: true},
	}

	registry := predicates.NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.source, registry)
			if (err != nil) != tt.wantError {
				t.Fatalf("Compile(%q) error = %v, wantError %v", tt.source, err, tt.wantError)
			}
			if err != nil {
				var syntaxErr *SyntaxError
				if !errors.As(err, &syntaxErr) {
					t.Errorf("Compile(%q) error type = %T, want *SyntaxError", tt.source, err)
				}
			}
		})
	}
}

// TestEval tests compiled expression evaluation against plan and context maps
func TestEval(t *testing.T) {
	plan := map[string]any{
		"action": "delete_user_data",
		"target": "https://api.example.com/users",
		"params": map[string]any{
			"size_bytes": float64(2048),
			"retention":  "30d",
		},
		"tags": []any{"email", "exfiltration"},
	}
	context := map[string]any{
		"consent":     false,
		"environment": "production",
		"user": map[string]any{
			"role": "admin",
		},
	}

	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{name: "plan path equals", source: `equals(action, "delete_user_data")`, want: true},
		{name: "plan path differs", source: `equals(action, "read_profile")`, want: false},
		{name: "context path", source: `equals(context.environment, "production")`, want: true},
		{name: "nested plan path", source: `greater_than(params.size_bytes, 1000)`, want: true},
		{name: "nested context path", source: `equals(context.user.role, "admin")`, want: true},
		{name: "missing path resolves to nil", source: `is_empty(no.such.path)`, want: true},
		{name: "missing context path", source: `is_present(context.missing)`, want: false},
		{name: "and all true", source: `and(equals(action, "delete_user_data"), lacks_consent(context.consent))`, want: true},
		{name: "and one false", source: `and(equals(action, "delete_user_data"), equals(context.environment, "staging"))`, want: false},
		{name: "or one true", source: `or(equals(action, "noop"), is_present(target))`, want: true},
		{name: "not inverts", source: `not(is_empty(action))`, want: true},
		{name: "tags through path", source: `has_category(tags, "pii")`, want: true},
		{name: "high risk combination", source: `high_risk_tag_combination(tags)`, want: true},
		{name: "literal-only predicate", source: `equals("a", "a")`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := mustCompile(t, tt.source)
			if got := expr.Eval(plan, context); got != tt.want {
				t.Errorf("Eval(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

// TestEvalNilMaps tests that nil plan and context maps evaluate without faulting
func TestEvalNilMaps(t *testing.T) {
	expr := mustCompile(t, `is_empty(anything)`)
	if !expr.Eval(nil, nil) {
		t.Error("expected missing path on nil plan to read as empty")
	}

	expr = mustCompile(t, `is_present(context.consent)`)
	if expr.Eval(nil, nil) {
		t.Error("expected missing context path on nil context to read as absent")
	}
}

// TestEvalRecoversPanic tests that a faulting expression refuses to match
// instead of propagating the panic. The malformed not() node below cannot be
// produced by Parse; it stands in for a predicate that panics at runtime.
func TestEvalRecoversPanic(t *testing.T) {
	faulting := &LogicalNode{Op: OpNot, Children: nil}
	expr := &CompiledExpr{
		source:   "not()",
		root:     faulting,
		registry: predicates.NewRegistry(),
	}

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Eval propagated panic: %v", r)
		}
	}()
	if expr.Eval(nil, nil) {
		t.Error("expected faulting expression to evaluate false")
	}
}

// TestEvalEagerChildren tests that every child of a logical node runs even
// when the outcome is already decided: a faulting sibling of a true or()
// child still faults the whole expression
func TestEvalEagerChildren(t *testing.T) {
	faulting := &LogicalNode{Op: OpNot, Children: nil}
	registry := predicates.NewRegistry()

	alwaysTrue, err := Parse(`equals("a", "a")`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	expr := &CompiledExpr{
		source:   `or(equals("a", "a"), not())`,
		root:     &LogicalNode{Op: OpOr, Children: []Expr{alwaysTrue, faulting}},
		registry: registry,
	}

	if expr.Eval(nil, nil) {
		t.Error("expected the faulting sibling to run and fault the whole expression")
	}
}
