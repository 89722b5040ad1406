package predicates

import (
	"reflect"
	"testing"
)

// TestNormalizeTags tests folding the polymorphic tag shapes into canonical form
func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []Tag
	}{
		{
			name:  "nil input",
			input: nil,
			want:  nil,
		},
		{
			name:  "comma-separated string",
			input: "Email, SSN",
			want: []Tag{
				{Name: "email", Confidence: 1},
				{Name: "ssn", Confidence: 1},
			},
		},
		{
			name:  "string slice",
			input: []string{"phone", "email"},
			want: []Tag{
				{Name: "email", Confidence: 1},
				{Name: "phone", Confidence: 1},
			},
		},
		{
			name:  "any slice of strings",
			input: []any{"injection", "email"},
			want: []Tag{
				{Name: "email", Confidence: 1},
				{Name: "injection", Confidence: 1},
			},
		},
		{
			name: "any slice of objects",
			input: []any{
				map[string]any{"name": "email", "category": "PII", "confidence": 0.8},
				map[string]any{"tag": "malware"},
			},
			want: []Tag{
				{Name: "email", Category: "pii", Confidence: 0.8},
				{Name: "malware", Confidence: 1},
			},
		},
		{
			name: "map of name to confidence",
			input: map[string]any{
				"email": 0.9,
			},
			want: []Tag{
				{Name: "email", Confidence: 0.9},
			},
		},
		{
			name: "map of name to object",
			input: map[string]any{
				"secrets": map[string]any{"category": "security-risk", "confidence": 0.7},
			},
			want: []Tag{
				{Name: "secrets", Category: "security-risk", Confidence: 0.7},
			},
		},
		{
			name: "map object keeps attributes without inner name key",
			input: map[string]any{
				"exfiltration": map[string]any{"confidence": 0.9},
			},
			want: []Tag{
				{Name: "exfiltration", Confidence: 0.9},
			},
		},
		{
			name:  "unrecognized shape",
			input: 42,
			want:  nil,
		},
		{
			name:  "unrecognized elements dropped",
			input: []any{"email", 42, map[string]any{"confidence": 0.5}},
			want: []Tag{
				{Name: "email", Confidence: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%v) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

// TestPredHasTag tests tag membership across input shapes
func TestPredHasTag(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		name string
		tags any
		want bool
		tag  any
	}{
		{name: "string slice hit", tags: []string{"email", "phone"}, tag: "email", want: true},
		{name: "case-insensitive", tags: []string{"Email"}, tag: "EMAIL", want: true},
		{name: "miss", tags: []string{"email"}, tag: "ssn", want: false},
		{name: "object shape hit", tags: []any{map[string]any{"name": "ssn"}}, tag: "ssn", want: true},
		{name: "nil tags", tags: nil, tag: "email", want: false},
		{name: "non-string tag name", tags: []string{"email"}, tag: 42, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := registry.predHasTag([]any{tt.tags, tt.tag}); got != tt.want {
				t.Errorf("has_tag(%v, %v) = %v, want %v", tt.tags, tt.tag, got, tt.want)
			}
		})
	}
}

// TestPredHasCategory tests category resolution through both the tag's own
// field and the taxonomy
func TestPredHasCategory(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		name     string
		tags     any
		category any
		want     bool
	}{
		{name: "taxonomy lookup", tags: []string{"email"}, category: "pii", want: true},
		{name: "explicit category field", tags: []any{map[string]any{"name": "custom", "category": "pii"}}, category: "pii", want: true},
		{name: "explicit field wins over taxonomy", tags: []any{map[string]any{"name": "email", "category": "custom"}}, category: "pii", want: false},
		{name: "miss", tags: []string{"email"}, category: "financial", want: false},
		{name: "unknown tag has no category", tags: []string{"mystery"}, category: "pii", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := registry.predHasCategory([]any{tt.tags, tt.category}); got != tt.want {
				t.Errorf("has_category(%v, %v) = %v, want %v", tt.tags, tt.category, got, tt.want)
			}
		})
	}
}

// TestPredTagConfidence tests the confidence threshold check
func TestPredTagConfidence(t *testing.T) {
	registry := NewRegistry()
	tags := []any{
		map[string]any{"name": "email", "confidence": 0.8},
		map[string]any{"name": "phone", "confidence": 0.3},
	}

	tests := []struct {
		name    string
		tag     any
		minConf any
		want    bool
	}{
		{name: "above threshold", tag: "email", minConf: 0.5, want: true},
		{name: "at threshold", tag: "email", minConf: 0.8, want: true},
		{name: "below threshold", tag: "phone", minConf: 0.5, want: false},
		{name: "absent tag", tag: "ssn", minConf: 0.1, want: false},
		{name: "non-numeric threshold", tag: "email", minConf: "high", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := registry.predTagConfidence([]any{tags, tt.tag, tt.minConf}); got != tt.want {
				t.Errorf("tag_confidence(tags, %v, %v) = %v, want %v", tt.tag, tt.minConf, got, tt.want)
			}
		})
	}

	// Dict-shaped tags carry their confidence and category too.
	dictTags := map[string]any{
		"secrets": map[string]any{"category": "security-risk", "confidence": 0.7},
	}
	if !registry.predTagConfidence([]any{dictTags, "secrets", 0.5}) {
		t.Error("tag_confidence(dict tags, secrets, 0.5) = false, want true")
	}
	if !registry.predHasCategory([]any{dictTags, "security-risk"}) {
		t.Error("has_category(dict tags, security-risk) = false, want true")
	}
}

// TestPredHighRiskTagCombination tests the two-distinct-categories rule
func TestPredHighRiskTagCombination(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		name string
		tags any
		want bool
	}{
		{name: "pii plus security-risk", tags: []string{"email", "exfiltration"}, want: true},
		{name: "single category", tags: []string{"email", "phone"}, want: false},
		{name: "explicit categories", tags: []any{
			map[string]any{"name": "a", "category": "pii"},
			map[string]any{"name": "b", "category": "financial"},
		}, want: true},
		{name: "uncategorized tags ignored", tags: []string{"mystery", "email"}, want: false},
		{name: "empty", tags: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := registry.predHighRiskTagCombination([]any{tt.tags}); got != tt.want {
				t.Errorf("high_risk_tag_combination(%v) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}

// TestWithTaxonomy tests overriding the default taxonomy
func TestWithTaxonomy(t *testing.T) {
	registry := NewRegistry(WithTaxonomy(Taxonomy{
		"internal": {"widget"},
	}))

	if !registry.predHasCategory([]any{[]string{"widget"}, "internal"}) {
		t.Error("expected widget to resolve to the overridden internal category")
	}
	if registry.predHasCategory([]any{[]string{"email"}, "pii"}) {
		t.Error("expected default taxonomy to be replaced, not merged")
	}
}
