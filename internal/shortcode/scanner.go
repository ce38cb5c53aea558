package shortcode

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

const openTag = "[sitemap"

// Scan yields every `[sitemap]` or `[sitemap attrs]` occurrence left to
// right. The sequence is lazy and can be ranged over more than once.
//
// After the literal `[sitemap` a match needs either `]` right away, or at
// least one whitespace character followed by at least one more character
// other than `]`, and then the closing `]`. `[sitemapx]`, `[sitemap ]` and
// unterminated tags are not matches.
func Scan(content string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		offset := 0
		for offset < len(content) {
			match, next, ok := scanFrom(content, offset)
			if !ok {
				return
			}
			if match != nil {
				if !yield(*match) {
					return
				}
			}
			offset = next
		}
	}
}

// Collect returns every match in content.
func Collect(content string) []Match {
	var matches []Match
	for match := range Scan(content) {
		matches = append(matches, match)
	}
	return matches
}

// Contains reports whether content holds at least one match.
func Contains(content string) bool {
	for range Scan(content) {
		return true
	}
	return false
}

// scanFrom looks for the next open tag at or after offset. It returns the
// match found there (nil when the tag is malformed), where scanning resumes,
// and false once no open tag remains.
func scanFrom(content string, offset int) (*Match, int, bool) {
	idx := strings.Index(content[offset:], openTag)
	if idx < 0 {
		return nil, len(content), false
	}
	start := offset + idx
	pos := start + len(openTag)
	if pos >= len(content) {
		return nil, len(content), false
	}

	if content[pos] == ']' {
		end := pos + 1
		return &Match{FullText: content[start:end], Start: start, End: end}, end, true
	}
	space, width := utf8.DecodeRuneInString(content[pos:])
	if !isSpace(space) {
		return nil, start + 1, true
	}

	closing := strings.IndexByte(content[pos:], ']')
	if closing < 0 {
		return nil, start + 1, true
	}
	body := content[pos : pos+closing]
	if len(body) == width {
		return nil, start + 1, true
	}

	// The attribute text starts after the leading whitespace but keeps at
	// least one character.
	attrs := strings.TrimLeftFunc(body, isSpace)
	if attrs == "" {
		_, size := utf8.DecodeLastRuneInString(body)
		attrs = body[len(body)-size:]
	}

	end := pos + closing + 1
	return &Match{
		FullText:      content[start:end],
		AttributesRaw: attrs,
		HasAttributes: true,
		Start:         start,
		End:           end,
	}, end, true
}

// isSpace is the whitespace class shared by the scanner and the attribute
// tokenizer: Unicode white space plus the byte order mark.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
