package sitemap

import (
	"net/url"
	"slices"
	"strings"
)

// DefaultAllowedSchemes lists the URL schemes menu links may use.
var DefaultAllowedSchemes = []string{"http", "https", "mailto", "tel"}

// PlaceholderHref replaces missing or rejected menu URLs.
const PlaceholderHref = "#"

// URLPolicy filters user supplied menu URLs. Relative URLs always pass;
// absolute URLs pass only with an allowed scheme.
type URLPolicy struct {
	schemes []string
}

// NewURLPolicy builds a policy. An empty list falls back to
// DefaultAllowedSchemes.
func NewURLPolicy(schemes ...string) URLPolicy {
	normalized := make([]string, 0, len(schemes))
	for _, scheme := range schemes {
		scheme = strings.ToLower(strings.TrimSpace(scheme))
		if scheme != "" && !slices.Contains(normalized, scheme) {
			normalized = append(normalized, scheme)
		}
	}
	if len(normalized) == 0 {
		normalized = slices.Clone(DefaultAllowedSchemes)
	}
	return URLPolicy{schemes: normalized}
}

// Href returns raw when it is safe to link to and PlaceholderHref otherwise.
func (p URLPolicy) Href(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PlaceholderHref
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return PlaceholderHref
	}
	if parsed.Scheme == "" {
		if parsed.Opaque != "" {
			return PlaceholderHref
		}
		return raw
	}
	schemes := p.schemes
	if len(schemes) == 0 {
		schemes = DefaultAllowedSchemes
	}
	if !slices.Contains(schemes, strings.ToLower(parsed.Scheme)) {
		return PlaceholderHref
	}
	return raw
}
