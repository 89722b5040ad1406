package rules

import (
	"testing"

	"praxis-hq/sentinel/pkg/predicates"
)

// TestCanonicalHashKeyOrder tests that map key order never changes the hash
func TestCanonicalHashKeyOrder(t *testing.T) {
	a := map[string]any{
		"action": "export",
		"params": map[string]any{"size": float64(10), "kind": "csv"},
	}
	b := map[string]any{
		"params": map[string]any{"kind": "csv", "size": float64(10)},
		"action": "export",
	}

	ha, err := CanonicalHash(a)
	if err != nil {
		t.Fatalf("CanonicalHash(a): %v", err)
	}
	hb, err := CanonicalHash(b)
	if err != nil {
		t.Fatalf("CanonicalHash(b): %v", err)
	}
	if ha != hb {
		t.Errorf("equal structures hashed differently: %q vs %q", ha, hb)
	}

	c := map[string]any{"action": "import"}
	hc, err := CanonicalHash(c)
	if err != nil {
		t.Fatalf("CanonicalHash(c): %v", err)
	}
	if hc == ha {
		t.Error("different structures produced the same hash")
	}
}

// TestCanonicalHashUnhashable tests the sentinel degradation path
func TestCanonicalHashUnhashable(t *testing.T) {
	unmarshalable := map[string]any{"fn": func() {}}
	if _, err := CanonicalHash(unmarshalable); err == nil {
		t.Fatal("expected an error for an unmarshalable value")
	}
	if got := hashOrSentinel(unmarshalable); got != UnhashableSentinel {
		t.Errorf("hashOrSentinel = %q, want %q", got, UnhashableSentinel)
	}
}

// TestRuleSetHashSensitivity tests that the ruleset hash reacts to each
// fingerprint field and nothing else
func TestRuleSetHashSensitivity(t *testing.T) {
	registry := predicates.NewRegistry()
	base := func() []*Rule {
		return []*Rule{
			New(Definition{
				Name:     "r1",
				Source:   `is_empty(x)`,
				Action:   ActionWarn,
				Priority: PriorityMedium,
			}, registry),
		}
	}

	baseHash := NewRuleSet(base()).Hash()
	if baseHash == "" || baseHash == UnhashableSentinel {
		t.Fatalf("base hash = %q", baseHash)
	}

	if NewRuleSet(base()).Hash() != baseHash {
		t.Error("identical rulesets hashed differently")
	}

	mutations := map[string]Definition{
		"name":     {Name: "r2", Source: `is_empty(x)`, Action: ActionWarn, Priority: PriorityMedium},
		"dsl":      {Name: "r1", Source: `is_empty(y)`, Action: ActionWarn, Priority: PriorityMedium},
		"action":   {Name: "r1", Source: `is_empty(x)`, Action: ActionBlock, Priority: PriorityMedium},
		"priority": {Name: "r1", Source: `is_empty(x)`, Action: ActionWarn, Priority: PriorityHigh},
	}
	for field, def := range mutations {
		mutated := NewRuleSet([]*Rule{New(def, registry)}).Hash()
		if mutated == baseHash {
			t.Errorf("changing %s did not change the ruleset hash", field)
		}
	}

	// Description is not part of the fingerprint.
	withDesc := base()
	withDesc[0].Description = "documentation only"
	if NewRuleSet(withDesc).Hash() != baseHash {
		t.Error("description change altered the ruleset hash")
	}
}
