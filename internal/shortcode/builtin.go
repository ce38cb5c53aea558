package shortcode

import "github.com/goliatone/go-academy-cms/internal/sitemap"

// SitemapName is the name the scanner recognises.
const SitemapName = "sitemap"

// SitemapDefinition renders matches through generator using the options
// parsed from each match's attributes.
func SitemapDefinition(generator FragmentRenderer) Definition {
	return Definition{
		Name:        SitemapName,
		Description: "Categorised index of published posts, pages and menu links",
		Handler: func(data sitemap.Dataset, match Match) string {
			return generator.Render(data, MatchOptions(match))
		},
	}
}

// MatchOptions returns the options for a match, falling back to the defaults
// for a bare `[sitemap]`.
func MatchOptions(match Match) Options {
	if !match.HasAttributes {
		return sitemap.DefaultOptions()
	}
	return ParseOptions(match.AttributesRaw)
}

// RegisterBuiltins adds the sitemap definition to registry.
func RegisterBuiltins(registry *Registry, generator FragmentRenderer) error {
	return registry.Register(SitemapDefinition(generator))
}
