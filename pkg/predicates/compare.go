package predicates

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// predContains checks whether the first argument contains the second:
// substring match for strings, element membership for slices.
func predContains(args []any) bool {
	haystack, needle := args[0], args[1]
	if haystack == nil {
		return false
	}

	if s, ok := haystack.(string); ok {
		return strings.Contains(s, stringify(needle))
	}

	// Element membership for slices and arrays
	v := reflect.ValueOf(haystack)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		for i := 0; i < v.Len(); i++ {
			if valuesEqual(v.Index(i).Interface(), needle) {
				return true
			}
		}
	}

	return false
}

// predEquals checks value equality with numeric coercion (int vs float64
// from decoded JSON/YAML compare equal).
func predEquals(args []any) bool {
	return valuesEqual(args[0], args[1])
}

// predGreaterThan checks actual > threshold numerically. Non-numeric
// operands never match.
func predGreaterThan(args []any) bool {
	a, aok := toFloat64(args[0])
	b, bok := toFloat64(args[1])
	return aok && bok && a > b
}

// predLessThan checks actual < threshold numerically. Non-numeric operands
// never match.
func predLessThan(args []any) bool {
	a, aok := toFloat64(args[0])
	b, bok := toFloat64(args[1])
	return aok && bok && a < b
}

// predMatches checks the first argument against the regex pattern in the
// second. A missing value or an invalid pattern never matches.
func predMatches(args []any) bool {
	if args[0] == nil {
		return false
	}
	pattern, ok := args[1].(string)
	if !ok {
		return false
	}

	re, err := compileCached(pattern)
	if err != nil {
		return false
	}

	return re.MatchString(stringify(args[0]))
}

// predIsEmpty checks for nil, empty string, or zero-length slice/map.
func predIsEmpty(args []any) bool {
	return isEmptyValue(args[0])
}

// predIsPresent is the negation of is_empty.
func predIsPresent(args []any) bool {
	return !isEmptyValue(args[0])
}

// predLacksConsent checks that the argument is not an affirmative consent
// marker. A missing value lacks consent.
func predLacksConsent(args []any) bool {
	switch v := args[0].(type) {
	case bool:
		return !v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "granted", "y", "1":
			return false
		}
		return true
	default:
		return true
	}
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return val == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

// valuesEqual compares two values, trying numeric comparison first so that
// int and float64 representations of the same number compare equal.
func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	aNum, aok := toFloat64(a)
	bNum, bok := toFloat64(b)
	if aok && bok {
		return aNum == bNum
	}

	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return as == bs
		}
	}

	return reflect.DeepEqual(a, b)
}

// toFloat64 coerces numeric types and numeric strings to float64.
func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// stringify renders a value for substring and regex matching.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// regexCache memoizes compiled patterns. Rule sources are finite, so the
// cache is unbounded; the mutex makes it safe under concurrent evaluation.
var regexCache = struct {
	sync.Mutex
	compiled map[string]*regexp.Regexp
	failed   map[string]bool
}{
	compiled: make(map[string]*regexp.Regexp),
	failed:   make(map[string]bool),
}

func compileCached(pattern string) (*regexp.Regexp, error) {
	regexCache.Lock()
	defer regexCache.Unlock()

	if re, ok := regexCache.compiled[pattern]; ok {
		return re, nil
	}
	if regexCache.failed[pattern] {
		return nil, fmt.Errorf("invalid regex pattern %q", pattern)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		regexCache.failed[pattern] = true
		return nil, err
	}

	regexCache.compiled[pattern] = re
	return re, nil
}
