package scoring

import (
	"errors"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ErrInvalidDomain is returned when the input cannot be reduced to a domain.
var ErrInvalidDomain = errors.New("invalid domain")

// NormalizeDomain strips scheme, www. prefix, path, query, fragment and port
// from a raw input. It returns the lower-cased domain used by most detectors
// and the case-preserved form, which the typosquatting detector needs because
// visual confusability depends on case (capital I vs lowercase l).
func NormalizeDomain(raw string) (lower, cased string, err error) {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[:i]
	}
	if len(s) >= 4 && strings.EqualFold(s[:4], "www.") {
		s = s[4:]
	}
	s = strings.TrimSuffix(s, ".")
	if s == "" || !strings.Contains(s, ".") {
		return "", "", ErrInvalidDomain
	}
	return strings.ToLower(s), s, nil
}

// RegistrableDomain reduces a host to its eTLD+1. Falls back to the input
// when the public suffix list has no answer (bare TLDs, internal hosts).
func RegistrableDomain(host string) string {
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return registrable
}

// splitTLD separates the name part from the final label. The pattern
// detector scores the two halves independently.
func splitTLD(domain string) (name, tld string) {
	i := strings.LastIndex(domain, ".")
	if i < 0 {
		return domain, ""
	}
	return domain[:i], domain[i+1:]
}
