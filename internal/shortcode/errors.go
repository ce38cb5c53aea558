package shortcode

import "errors"

var (
	// ErrNotConfigured is returned by Process when the service lacks a loader
	// or has no definition registered under the sitemap name.
	ErrNotConfigured = errors.New("shortcode: service not initialised")
	// ErrDuplicateDefinition indicates an attempt to register a shortcode name twice.
	ErrDuplicateDefinition = errors.New("shortcode: duplicate definition")
	// ErrInvalidDefinition occurs when a definition has no name or no handler.
	ErrInvalidDefinition = errors.New("shortcode: invalid definition")
)
