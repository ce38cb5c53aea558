// Package seed loads dataset fixtures (JSON or YAML) and applies them to the
// store idempotently using deterministic identifiers.
package seed

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-academy-cms/internal/validation"
)

//go:embed schema.json
var schemaDocument []byte

var fixtureSchema = validation.MustCompile("academy-seed.json", schemaDocument)

var (
	ErrFormatUnknown = errors.New("seed: fixture format must be json or yaml")
	ErrFixtureEmpty  = errors.New("seed: fixture is empty")
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Fixture is the full seed document.
type Fixture struct {
	Categories []CategoryFixture `json:"categories" yaml:"categories"`
	Posts      []PostFixture     `json:"posts" yaml:"posts"`
	Pages      []PageFixture     `json:"pages" yaml:"pages"`
	Menus      []MenuFixture     `json:"menus" yaml:"menus"`
}

type CategoryFixture struct {
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description" yaml:"description"`
	Active      *bool  `json:"active" yaml:"active"`
}

// PostFixture references its category by slug or name.
type PostFixture struct {
	Title    string `json:"title" yaml:"title"`
	Slug     string `json:"slug" yaml:"slug"`
	Excerpt  string `json:"excerpt" yaml:"excerpt"`
	Body     string `json:"body" yaml:"body"`
	Status   string `json:"status" yaml:"status"`
	Category string `json:"category" yaml:"category"`
}

type PageFixture struct {
	Title  string `json:"title" yaml:"title"`
	Slug   string `json:"slug" yaml:"slug"`
	Body   string `json:"body" yaml:"body"`
	Status string `json:"status" yaml:"status"`
}

type MenuFixture struct {
	Name   string            `json:"name" yaml:"name"`
	Code   string            `json:"code" yaml:"code"`
	Active *bool             `json:"active" yaml:"active"`
	Items  []MenuItemFixture `json:"items" yaml:"items"`
}

// MenuItemFixture is identified within its menu by Key, falling back to Title.
type MenuItemFixture struct {
	Key      string `json:"key" yaml:"key"`
	Title    string `json:"title" yaml:"title"`
	URL      string `json:"url" yaml:"url"`
	Position *int   `json:"position" yaml:"position"`
	Active   *bool  `json:"active" yaml:"active"`
}

// IdentityKey returns the stable key used for the item's UUID.
func (f MenuItemFixture) IdentityKey() string {
	if key := strings.TrimSpace(f.Key); key != "" {
		return key
	}
	return f.Title
}

// Empty reports whether the fixture carries no records.
func (f *Fixture) Empty() bool {
	return f == nil || len(f.Categories)+len(f.Posts)+len(f.Pages)+len(f.Menus) == 0
}

// FormatFromPath infers the fixture format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrFormatUnknown, path)
	}
}

// LoadFile reads, validates and decodes a fixture file.
func LoadFile(path string) (*Fixture, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(data, format)
}

// Parse validates data against the fixture schema and decodes it.
func Parse(data []byte, format string) (*Fixture, error) {
	var fixture Fixture
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		if err := fixtureSchema.ValidateJSON(data); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		if err := json.Unmarshal(data, &fixture); err != nil {
			return nil, fmt.Errorf("seed: decode json: %w", err)
		}
	case FormatYAML, "yml":
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("seed: decode yaml: %w", err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
		if err := fixtureSchema.ValidateValue(raw); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		if err := yaml.Unmarshal(data, &fixture); err != nil {
			return nil, fmt.Errorf("seed: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormatUnknown, format)
	}
	if fixture.Empty() {
		return nil, ErrFixtureEmpty
	}
	return &fixture, nil
}
