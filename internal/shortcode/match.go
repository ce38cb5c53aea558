package shortcode

// Match is a single `[sitemap ...]` occurrence. Start and End are byte
// offsets into the scanned content with content[Start:End] == FullText.
type Match struct {
	FullText      string
	AttributesRaw string
	HasAttributes bool
	Start         int
	End           int
}
