// Package slugs wraps go-slug with the derivation rules shared by categories,
// posts and pages.
package slugs

import (
	"errors"
	"strings"

	"github.com/goliatone/go-slug"
)

// ErrEmpty is returned when neither an explicit slug nor a fallback was given.
var ErrEmpty = errors.New("slugs: value is empty")

// Derive normalizes explicit when present, otherwise fallback (usually a
// title or name).
func Derive(explicit, fallback string) (string, error) {
	candidate := strings.TrimSpace(explicit)
	if candidate == "" {
		candidate = strings.TrimSpace(fallback)
	}
	if candidate == "" {
		return "", ErrEmpty
	}
	normalized, err := slug.Normalize(candidate)
	if err != nil {
		return "", err
	}
	if normalized == "" {
		return "", ErrEmpty
	}
	return normalized, nil
}

// Valid reports whether value already satisfies the default slug rules.
func Valid(value string) bool {
	return slug.IsValid(value)
}
