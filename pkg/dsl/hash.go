package dsl

import (
	"crypto/sha256"
	"encoding/hex"
)

// ruleHashLen is the length of the hex fingerprint returned by HashRule.
// 16 hex characters (64 bits) is plenty for audit correlation and change
// detection; these hashes carry no security claim.
const ruleHashLen = 16

// HashRule returns a short deterministic fingerprint of rule source text.
// Equal text yields an equal hash; different text yields a different hash
// with overwhelming probability.
func HashRule(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])[:ruleHashLen]
}
