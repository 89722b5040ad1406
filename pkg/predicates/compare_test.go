package predicates

import "testing"

// TestPredContains tests substring and element membership matching
func TestPredContains(t *testing.T) {
	tests := []struct {
		name     string
		haystack any
		needle   any
		want     bool
	}{
		{name: "substring match", haystack: "delete_user_data", needle: "user", want: true},
		{name: "substring miss", haystack: "read_profile", needle: "delete", want: false},
		{name: "element membership", haystack: []any{"a", "b", "c"}, needle: "b", want: true},
		{name: "element miss", haystack: []any{"a", "b"}, needle: "z", want: false},
		{name: "numeric element across types", haystack: []any{1, 2, 3}, needle: float64(2), want: true},
		{name: "nil haystack", haystack: nil, needle: "x", want: false},
		{name: "non-string non-slice haystack", haystack: 42, needle: "4", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := predContains([]any{tt.haystack, tt.needle}); got != tt.want {
				t.Errorf("contains(%v, %v) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
			}
		})
	}
}

// TestPredEquals tests equality with numeric coercion
func TestPredEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "equal strings", a: "delete", b: "delete", want: true},
		{name: "different strings", a: "delete", b: "read", want: false},
		{name: "int vs float64", a: 1000, b: float64(1000), want: true},
		{name: "numeric string vs number", a: "1000", b: float64(1000), want: true},
		{name: "both nil", a: nil, b: nil, want: true},
		{name: "one nil", a: nil, b: "x", want: false},
		{name: "bools", a: true, b: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := predEquals([]any{tt.a, tt.b}); got != tt.want {
				t.Errorf("equals(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// TestNumericComparisons tests greater_than and less_than coercion rules
func TestNumericComparisons(t *testing.T) {
	tests := []struct {
		name        string
		a, b        any
		wantGreater bool
		wantLess    bool
	}{
		{name: "int vs float", a: 2000, b: float64(1000), wantGreater: true, wantLess: false},
		{name: "equal values", a: 5, b: 5.0, wantGreater: false, wantLess: false},
		{name: "numeric strings", a: "10", b: "20", wantGreater: false, wantLess: true},
		{name: "non-numeric never matches", a: "abc", b: 10, wantGreater: false, wantLess: false},
		{name: "nil never matches", a: nil, b: 10, wantGreater: false, wantLess: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := predGreaterThan([]any{tt.a, tt.b}); got != tt.wantGreater {
				t.Errorf("greater_than(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.wantGreater)
			}
			if got := predLessThan([]any{tt.a, tt.b}); got != tt.wantLess {
				t.Errorf("less_than(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.wantLess)
			}
		})
	}
}

// TestPredMatches tests regex matching and bad-pattern fail-closed behavior
func TestPredMatches(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		pattern any
		want    bool
	}{
		{name: "simple match", value: "delete_user_data", pattern: `^delete_`, want: true},
		{name: "no match", value: "read_profile", pattern: `^delete_`, want: false},
		{name: "bad pattern never matches", value: "anything", pattern: `[unclosed`, want: false},
		{name: "nil value never matches", value: nil, pattern: `.*`, want: false},
		{name: "non-string pattern never matches", value: "x", pattern: 42, want: false},
		{name: "numeric value stringified", value: 1234, pattern: `^12`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := predMatches([]any{tt.value, tt.pattern}); got != tt.want {
				t.Errorf("matches(%v, %v) = %v, want %v", tt.value, tt.pattern, got, tt.want)
			}
		})
	}
}

// TestEmptinessPredicates tests is_empty and is_present
func TestEmptinessPredicates(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		wantEmpty bool
	}{
		{name: "nil", value: nil, wantEmpty: true},
		{name: "empty string", value: "", wantEmpty: true},
		{name: "non-empty string", value: "x", wantEmpty: false},
		{name: "empty slice", value: []any{}, wantEmpty: true},
		{name: "non-empty slice", value: []any{1}, wantEmpty: false},
		{name: "empty map", value: map[string]any{}, wantEmpty: true},
		{name: "zero number is not empty", value: 0, wantEmpty: false},
		{name: "false is not empty", value: false, wantEmpty: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := predIsEmpty([]any{tt.value}); got != tt.wantEmpty {
				t.Errorf("is_empty(%v) = %v, want %v", tt.value, got, tt.wantEmpty)
			}
			if got := predIsPresent([]any{tt.value}); got != !tt.wantEmpty {
				t.Errorf("is_present(%v) = %v, want %v", tt.value, got, !tt.wantEmpty)
			}
		})
	}
}

// TestPredLacksConsent tests the consent-negation check
func TestPredLacksConsent(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{name: "missing consent lacks", value: nil, want: true},
		{name: "bool true grants", value: true, want: false},
		{name: "bool false lacks", value: false, want: true},
		{name: "string true grants", value: "true", want: false},
		{name: "string granted grants", value: "GRANTED", want: false},
		{name: "string yes grants", value: "yes", want: false},
		{name: "string no lacks", value: "no", want: true},
		{name: "arbitrary string lacks", value: "maybe", want: true},
		{name: "number lacks", value: 1, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := predLacksConsent([]any{tt.value}); got != tt.want {
				t.Errorf("lacks_consent(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

// TestRegistryValidate tests name and arity validation
func TestRegistryValidate(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		name      string
		predicate string
		argCount  int
		wantError bool
	}{
		{name: "known predicate correct arity", predicate: "equals", argCount: 2},
		{name: "unknown predicate", predicate: "no_such_predicate", argCount: 1, wantError: true},
		{name: "too few arguments", predicate: "equals", argCount: 1, wantError: true},
		{name: "too many arguments", predicate: "is_empty", argCount: 2, wantError: true},
		{name: "three-arg predicate", predicate: "tag_confidence", argCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := registry.Validate(tt.predicate, tt.argCount)
			if (err != nil) != tt.wantError {
				t.Errorf("Validate(%q, %d) error = %v, wantError %v", tt.predicate, tt.argCount, err, tt.wantError)
			}
		})
	}
}
