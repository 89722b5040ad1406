package predicates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ParseBytes parses a byte quantity with decimal or binary unit suffixes:
// "10MB" is 10_000_000, "1KiB" is 1024, and K/M/G/T shorthand is accepted.
// Malformed input returns an error; predicate callers downgrade it to false.
func ParseBytes(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte quantity")
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid byte quantity %q: %w", s, err)
	}
	return n, nil
}

// ParseSeconds parses a duration string into seconds. Bare numbers are
// seconds; the s/ms/us/m/h suffixes follow time.ParseDuration; a "d" suffix
// means days. Malformed input returns an error.
func ParseSeconds(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}

	if strings.HasSuffix(s, "d") {
		days, err := strconv.ParseFloat(strings.TrimSuffix(s, "d"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return days * 86400, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d.Seconds(), nil
}

// predParamBytesLTE checks that a byte-quantity parameter does not exceed a
// limit. A missing parameter passes (nothing to bound); an unparsable
// parameter or limit fails closed.
func predParamBytesLTE(args []any) bool {
	if args[0] == nil {
		return true
	}

	value, ok := coerceBytes(args[0])
	if !ok {
		return false
	}
	limit, ok := coerceBytes(args[1])
	if !ok {
		return false
	}

	return value <= limit
}

// predParamSecondsLTE checks that a duration parameter does not exceed a
// limit. A missing parameter passes; an unparsable parameter or limit fails
// closed.
func predParamSecondsLTE(args []any) bool {
	if args[0] == nil {
		return true
	}

	value, ok := coerceSeconds(args[0])
	if !ok {
		return false
	}
	limit, ok := coerceSeconds(args[1])
	if !ok {
		return false
	}

	return value <= limit
}

// coerceBytes accepts plain numbers (already in bytes) or unit strings.
func coerceBytes(v any) (uint64, bool) {
	if s, ok := v.(string); ok {
		n, err := ParseBytes(s)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	f, ok := toFloat64(v)
	if !ok || f < 0 {
		return 0, false
	}
	return uint64(f), true
}

// coerceSeconds accepts plain numbers (already in seconds) or unit strings.
func coerceSeconds(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		secs, err := ParseSeconds(s)
		if err != nil {
			return 0, false
		}
		return secs, true
	}

	return toFloat64(v)
}
