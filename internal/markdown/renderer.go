package markdown

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// RendererOptions controls the goldmark engine and the sanitizing pass.
type RendererOptions struct {
	Extensions []string
	HardWraps  bool
	Emoji      bool
	// Sanitize runs the output through bluemonday's UGC policy. Raw HTML in
	// bodies is only emitted when this is true.
	Sanitize bool
}

// DefaultRendererOptions enables GFM, emoji and sanitizing.
func DefaultRendererOptions() RendererOptions {
	return RendererOptions{Emoji: true, Sanitize: true}
}

// Renderer converts Markdown bodies to HTML. It is safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
}

var _ interfaces.MarkdownRenderer = (*Renderer)(nil)

// NewRenderer builds a Renderer. Shortcode text such as "[sitemap]" passes
// through untouched so it can be expanded after rendering.
func NewRenderer(opts RendererOptions) *Renderer {
	r := &Renderer{engine: newGoldmarkEngine(opts)}
	if opts.Sanitize {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		r.policy = policy
	}
	return r
}

// Render converts markdown to HTML.
func (r *Renderer) Render(ctx context.Context, markdown []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	if r.policy == nil {
		return buf.Bytes(), nil
	}
	return r.policy.SanitizeBytes(buf.Bytes()), nil
}

func newGoldmarkEngine(opts RendererOptions) goldmark.Markdown {
	exts := collectExtensions(opts.Extensions)
	if opts.Emoji {
		exts = append(exts, emoji.Emoji)
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	// Unsafe HTML is only let through when bluemonday scrubs it afterwards.
	if opts.Sanitize {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithExtensions(exts...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}
	return extenders
}
