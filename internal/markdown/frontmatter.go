package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/araddon/dateparse"
)

// FrontMatter is the metadata block at the top of an imported file.
type FrontMatter struct {
	Title    string
	Slug     string
	Excerpt  string
	Status   string
	Category string
	Date     time.Time
	Draft    bool
	Custom   map[string]any
}

// Document is a parsed Markdown file.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	Checksum     []byte
	LastModified time.Time
}

// ParseFrontMatter splits source into its metadata and Markdown body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	fm, err := meta.toFrontMatter()
	if err != nil {
		return FrontMatter{}, nil, err
	}
	return fm, body, nil
}

// BuildDocument parses source into a Document for path.
func BuildDocument(path string, source []byte, modified time.Time) (*Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}
	return &Document{
		FilePath:     path,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title    string         `yaml:"title" toml:"title" json:"title"`
	Slug     string         `yaml:"slug" toml:"slug" json:"slug"`
	Excerpt  string         `yaml:"excerpt" toml:"excerpt" json:"excerpt"`
	Summary  string         `yaml:"summary" toml:"summary" json:"summary"`
	Status   string         `yaml:"status" toml:"status" json:"status"`
	Category string         `yaml:"category" toml:"category" json:"category"`
	Date     any            `yaml:"date" toml:"date" json:"date"`
	Draft    bool           `yaml:"draft" toml:"draft" json:"draft"`
	Custom   map[string]any `yaml:",inline" toml:"-" json:"-"`
}

func (env frontMatterEnvelope) toFrontMatter() (FrontMatter, error) {
	date, err := parseDate(env.Date)
	if err != nil {
		return FrontMatter{}, err
	}
	excerpt := strings.TrimSpace(env.Excerpt)
	if excerpt == "" {
		excerpt = strings.TrimSpace(env.Summary)
	}
	custom := make(map[string]any, len(env.Custom))
	for key, value := range env.Custom {
		custom[key] = value
	}
	return FrontMatter{
		Title:    strings.TrimSpace(env.Title),
		Slug:     strings.TrimSpace(env.Slug),
		Excerpt:  excerpt,
		Status:   strings.ToLower(strings.TrimSpace(env.Status)),
		Category: strings.TrimSpace(env.Category),
		Date:     date,
		Draft:    env.Draft,
		Custom:   custom,
	}, nil
}

// parseDate accepts native YAML/TOML timestamps and the loose formats authors
// tend to type ("March 3, 2024", "2024/03/03 10:00").
func parseDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v.UTC(), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return time.Time{}, nil
		}
		parsed, err := dateparse.ParseIn(strings.TrimSpace(v), time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrDateInvalid, v)
		}
		return parsed.UTC(), nil
	default:
		return parseDate(fmt.Sprint(v))
	}
}
