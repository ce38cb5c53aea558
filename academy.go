// Package academy is the entry point for embedding the accounting academy
// CMS: domain services, the `[sitemap]` shortcode expander and the HTTP
// router, all wired from a single Config.
package academy

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-academy-cms/internal/categories"
	shortcodecmd "github.com/goliatone/go-academy-cms/internal/commands/shortcode"
	"github.com/goliatone/go-academy-cms/internal/di"
	"github.com/goliatone/go-academy-cms/internal/menus"
	"github.com/goliatone/go-academy-cms/internal/pages"
	"github.com/goliatone/go-academy-cms/internal/posts"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// CategoryService exports the category service contract.
type CategoryService = categories.Service

// PostService exports the post service contract.
type PostService = posts.Service

// PageService exports the page service contract.
type PageService = pages.Service

// MenuService exports the menu service contract.
type MenuService = menus.Service

// Option customises the container behind a Module.
type Option = di.Option

// Module represents the top level academy runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Categories() CategoryService {
	return m.container.CategoryService()
}

func (m *Module) Posts() PostService {
	return m.container.PostService()
}

func (m *Module) Pages() PageService {
	return m.container.PageService()
}

func (m *Module) Menus() MenuService {
	return m.container.MenuService()
}

// Shortcodes returns the `[sitemap]` expander.
func (m *Module) Shortcodes() interfaces.ShortcodeService {
	return m.container.ShortcodeService()
}

// Handler returns the public, admin and site routes.
func (m *Module) Handler() http.Handler {
	return m.container.HTTPServer()
}

// Expand writes content to w with every shortcode expanded. Markdown content
// is rendered to HTML first.
func (m *Module) Expand(ctx context.Context, w io.Writer, content string, markdown bool) error {
	return m.container.ExpandCommand().Execute(ctx, shortcodecmd.ExpandContentCommand{
		Content:  content,
		Markdown: markdown,
		Output:   w,
	})
}

// ExpandString is Expand into a string.
func (m *Module) ExpandString(ctx context.Context, content string, markdown bool) (string, error) {
	var out strings.Builder
	if err := m.Expand(ctx, &out, content, markdown); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Close releases resources the module opened.
func (m *Module) Close() error {
	return m.container.Close()
}
