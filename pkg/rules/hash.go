package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// UnhashableSentinel replaces a hash whose input could not be canonicalized.
// Hashes exist for audit correlation only, so an unhashable plan degrades
// the fingerprint, never the decision.
const UnhashableSentinel = "unhashable"

// CanonicalHash returns the SHA-256 hex digest of the RFC 8785 canonical
// JSON form of v. Equal structures hash equal regardless of map iteration
// order or nesting depth.
func CanonicalHash(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("canonical hash: marshal failed: %w", err)
	}

	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", fmt.Errorf("canonical hash: canonicalization failed: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// hashOrSentinel degrades a canonicalization fault to the sentinel value.
func hashOrSentinel(v any) string {
	h, err := CanonicalHash(v)
	if err != nil {
		return UnhashableSentinel
	}
	return h
}

// ruleFingerprint is the per-rule contribution to the ruleset hash. The
// ruleset hash is a pure function of every rule's (name, dsl, action,
// priority): changing any one of them changes the hash.
type ruleFingerprint struct {
	Name     string `json:"name"`
	DSL      string `json:"dsl"`
	Action   string `json:"action"`
	Priority string `json:"priority"`
}

// computeRuleSetHash hashes the sorted rules of a set.
func computeRuleSetHash(sorted []*Rule) string {
	fingerprints := make([]ruleFingerprint, len(sorted))
	for i, r := range sorted {
		fingerprints[i] = ruleFingerprint{
			Name:     r.Name,
			DSL:      r.Source,
			Action:   string(r.Action),
			Priority: string(r.Priority),
		}
	}
	return hashOrSentinel(fingerprints)
}
