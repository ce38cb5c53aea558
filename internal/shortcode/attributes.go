package shortcode

import (
	"strings"

	"github.com/goliatone/go-academy-cms/internal/sitemap"
)

// Options are the parsed shortcode attributes.
type Options = sitemap.Options

const (
	attrTitle = "title"
	attrClass = "class"
)

// Attribute is one `key=value` token.
type Attribute struct {
	Key   string
	Value string
}

// ParseOptions reads `title` and `class` from the raw attribute string.
// Parsing never fails: unknown keys and malformed tokens are skipped and a
// repeated key keeps its last value. Values cannot contain whitespace.
func ParseOptions(raw string) Options {
	opts := sitemap.DefaultOptions()
	for _, attr := range Attributes(raw) {
		switch attr.Key {
		case attrTitle:
			opts.ShowTitle = attr.Value != "false"
		case attrClass:
			opts.ClassName = attr.Value
		}
	}
	return opts
}

// Attributes returns the `key=value` tokens of raw, left to right. A token
// is a run of word characters ([A-Za-z0-9_]), `=`, and a value running to
// the next whitespace. Text between tokens is skipped, so `data-title=false`
// yields `title=false` and `a=b=c` yields key `a` with value `b=c`.
func Attributes(raw string) []Attribute {
	var attrs []Attribute
	from := 0
	for from < len(raw) {
		eq := strings.IndexByte(raw[from:], '=')
		if eq < 0 {
			break
		}
		eq += from

		keyStart := eq
		for keyStart > from && isWordByte(raw[keyStart-1]) {
			keyStart--
		}
		valueEnd := eq + 1
		if i := strings.IndexFunc(raw[valueEnd:], isSpace); i < 0 {
			valueEnd = len(raw)
		} else {
			valueEnd += i
		}
		if keyStart == eq || valueEnd == eq+1 {
			from = eq + 1
			continue
		}

		attrs = append(attrs, Attribute{Key: raw[keyStart:eq], Value: raw[eq+1 : valueEnd]})
		from = valueEnd
	}
	return attrs
}

func isWordByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		return true
	}
	return false
}
