package predicates

import (
	"sort"
	"strings"
)

// Tag is the canonical form of a content tag after boundary normalization.
type Tag struct {
	// Name is the lowercase tag name.
	Name string

	// Category is the lowercase tag category, when the producer supplied one.
	Category string

	// Confidence is the producer's confidence in [0, 1]. Shapes without a
	// confidence default to 1.
	Confidence float64
}

// Taxonomy maps category names to the tag names that belong to them. It
// backs has_category and high_risk_tag_combination for tag shapes that do
// not carry their own category field.
type Taxonomy map[string][]string

// DefaultTaxonomy returns the built-in tag category taxonomy.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		"pii": {
			"email", "phone", "ssn", "address", "name", "dob",
			"passport", "credentials",
		},
		"financial": {
			"credit_card", "bank_account", "iban", "routing_number",
			"payment", "invoice",
		},
		"security-risk": {
			"injection", "exfiltration", "malware", "secrets",
			"privilege_escalation",
		},
		"compliance": {
			"gdpr", "hipaa", "sox", "pci", "audit_scope",
		},
	}
}

// categoryOf returns the taxonomy category for a tag name, or "".
func (t Taxonomy) categoryOf(name string) string {
	for category, names := range t {
		for _, n := range names {
			if n == name {
				return category
			}
		}
	}
	return ""
}

// NormalizeTags folds the polymorphic tag shapes rule inputs arrive in into
// a canonical, name-sorted []Tag:
//
//   - []string or []any of strings: names only
//   - []any of objects: name/tag, category, confidence keys
//   - map of name to confidence, or name to object
//   - comma-separated string
//
// Unrecognized shapes and elements normalize to nothing rather than faulting.
func NormalizeTags(v any) []Tag {
	var tags []Tag

	switch val := v.(type) {
	case nil:
		return nil

	case string:
		for _, part := range strings.Split(val, ",") {
			if name := canonicalTagName(part); name != "" {
				tags = append(tags, Tag{Name: name, Confidence: 1})
			}
		}

	case []string:
		for _, part := range val {
			if name := canonicalTagName(part); name != "" {
				tags = append(tags, Tag{Name: name, Confidence: 1})
			}
		}

	case []any:
		for _, elem := range val {
			if tag, ok := normalizeTagElement(elem); ok {
				tags = append(tags, tag)
			}
		}

	case map[string]any:
		for name, elem := range val {
			canonical := canonicalTagName(name)
			if canonical == "" {
				continue
			}
			tag := Tag{Name: canonical, Confidence: 1}
			switch inner := elem.(type) {
			case map[string]any:
				// The map key is the name; the inner object need not
				// repeat it to keep its category and confidence.
				applyTagAttrs(&tag, inner)
			default:
				if conf, ok := toFloat64(inner); ok {
					tag.Confidence = conf
				}
			}
			tags = append(tags, tag)
		}
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})
	return tags
}

// normalizeTagElement handles a single element of a list-shaped tag input.
func normalizeTagElement(elem any) (Tag, bool) {
	switch val := elem.(type) {
	case string:
		if name := canonicalTagName(val); name != "" {
			return Tag{Name: name, Confidence: 1}, true
		}
		return Tag{}, false
	case map[string]any:
		return normalizeTagObject(val)
	default:
		return Tag{}, false
	}
}

// normalizeTagObject extracts name/category/confidence from an object-shaped
// tag.
func normalizeTagObject(obj map[string]any) (Tag, bool) {
	tag := Tag{Confidence: 1}

	for _, key := range []string{"name", "tag"} {
		if raw, ok := obj[key]; ok {
			if s, ok := raw.(string); ok {
				tag.Name = canonicalTagName(s)
				break
			}
		}
	}
	if tag.Name == "" {
		return Tag{}, false
	}

	applyTagAttrs(&tag, obj)
	return tag, true
}

// applyTagAttrs copies the category and confidence keys of an object-shaped
// tag onto tag, leaving absent keys untouched.
func applyTagAttrs(tag *Tag, obj map[string]any) {
	if raw, ok := obj["category"]; ok {
		if s, ok := raw.(string); ok {
			tag.Category = canonicalTagName(s)
		}
	}
	if raw, ok := obj["confidence"]; ok {
		if conf, ok := toFloat64(raw); ok {
			tag.Confidence = conf
		}
	}
}

func canonicalTagName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// predHasTag checks that the normalized tag set contains the named tag.
func (r *Registry) predHasTag(args []any) bool {
	name, ok := args[1].(string)
	if !ok {
		return false
	}
	want := canonicalTagName(name)

	for _, tag := range NormalizeTags(args[0]) {
		if tag.Name == want {
			return true
		}
	}
	return false
}

// predHasCategory checks that any tag belongs to the named category, either
// through its own category field or through the registry taxonomy.
func (r *Registry) predHasCategory(args []any) bool {
	category, ok := args[1].(string)
	if !ok {
		return false
	}
	want := canonicalTagName(category)

	for _, tag := range NormalizeTags(args[0]) {
		if r.tagCategory(tag) == want {
			return true
		}
	}
	return false
}

// predTagConfidence checks that the named tag is present with at least the
// given confidence.
func (r *Registry) predTagConfidence(args []any) bool {
	name, ok := args[1].(string)
	if !ok {
		return false
	}
	minConf, ok := toFloat64(args[2])
	if !ok {
		return false
	}
	want := canonicalTagName(name)

	for _, tag := range NormalizeTags(args[0]) {
		if tag.Name == want && tag.Confidence >= minConf {
			return true
		}
	}
	return false
}

// predHighRiskTagCombination checks for tags spanning two or more distinct
// risk categories. A single category is a finding; a combination (say PII
// plus security-risk) marks a plan that both touches sensitive data and
// behaves suspiciously.
func (r *Registry) predHighRiskTagCombination(args []any) bool {
	seen := make(map[string]bool)
	for _, tag := range NormalizeTags(args[0]) {
		if category := r.tagCategory(tag); category != "" {
			seen[category] = true
		}
	}
	return len(seen) >= 2
}

// tagCategory resolves a tag's category, preferring the tag's own field over
// the taxonomy.
func (r *Registry) tagCategory(tag Tag) string {
	if tag.Category != "" {
		return tag.Category
	}
	return r.taxonomy.categoryOf(tag.Name)
}
