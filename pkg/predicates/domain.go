package predicates

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// allowedSchemes are the URL schemes accepted during domain canonicalization.
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"ftps":  true,
}

// CanonicalDomain reduces a raw URL or bare host to a canonical lowercase
// ASCII hostname. A scheme is prepended when absent; the scheme must be one
// of http, https, ftp, or ftps; the trailing dot and any port are stripped;
// non-ASCII labels are IDNA-encoded.
//
// Any failure returns the empty string, which no domain predicate matches.
func CanonicalDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return ""
	}

	// Bare hosts with spaces survive url.Parse but are not valid domains.
	if strings.ContainsAny(host, " \t") {
		return ""
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return ""
	}

	return ascii
}

// predDomainIs checks that the URL's canonical host is exactly the target
// domain.
func predDomainIs(args []any) bool {
	rawURL, ok1 := args[0].(string)
	target, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return false
	}

	host := CanonicalDomain(rawURL)
	want := CanonicalDomain(target)
	return host != "" && want != "" && host == want
}

// predDomainETLD1 checks that the URL's host belongs to the target
// registrable domain (eTLD+1). sub.openai.com matches openai.com; a lookalike
// such as notopenai.com does not.
func predDomainETLD1(args []any) bool {
	rawURL, ok1 := args[0].(string)
	target, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return false
	}

	host := CanonicalDomain(rawURL)
	want := CanonicalDomain(target)
	if host == "" || want == "" {
		return false
	}

	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		if etld1 == want {
			return true
		}
	}

	// The target may itself be deeper than a registrable domain
	// (e.g. "internal.example.com"); fall back to a label-boundary suffix match.
	return host == want || strings.HasSuffix(host, "."+want)
}
