package sitemap

import (
	"context"
	"errors"

	"github.com/goliatone/go-academy-cms/internal/categories"
	"github.com/goliatone/go-academy-cms/internal/menus"
	"github.com/goliatone/go-academy-cms/internal/pages"
	"github.com/goliatone/go-academy-cms/internal/posts"
)

// ErrSourceNotConfigured is returned when a RepositorySource lacks a lister.
var ErrSourceNotConfigured = errors.New("sitemap: data source not configured")

// CategoryLister lists active categories.
type CategoryLister interface {
	ListActive(ctx context.Context) ([]*categories.Category, error)
}

// PostLister lists published posts, newest first, with categories attached.
type PostLister interface {
	ListPublished(ctx context.Context, limit int) ([]*posts.Post, error)
}

// PageLister lists published pages.
type PageLister interface {
	ListPublished(ctx context.Context, limit int) ([]*pages.Page, error)
}

// MenuLister lists active menus with their active items.
type MenuLister interface {
	ListActive(ctx context.Context) ([]*menus.Menu, error)
}

// RepositorySource reads the dataset straight from the content services.
type RepositorySource struct {
	categories CategoryLister
	posts      PostLister
	pages      PageLister
	menus      MenuLister
}

var _ DataSource = (*RepositorySource)(nil)

// NewRepositorySource wires the listers. The domain services satisfy them.
func NewRepositorySource(categoryLister CategoryLister, postLister PostLister, pageLister PageLister, menuLister MenuLister) *RepositorySource {
	return &RepositorySource{
		categories: categoryLister,
		posts:      postLister,
		pages:      pageLister,
		menus:      menuLister,
	}
}

func (s *RepositorySource) ListCategories(ctx context.Context) ([]Category, error) {
	if s.categories == nil {
		return nil, ErrSourceNotConfigured
	}
	records, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(records))
	for _, record := range records {
		out = append(out, FromCategory(record))
	}
	return out, nil
}

func (s *RepositorySource) ListPosts(ctx context.Context, limit int) ([]Post, error) {
	if s.posts == nil {
		return nil, ErrSourceNotConfigured
	}
	records, err := s.posts.ListPublished(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Post, 0, len(records))
	for _, record := range records {
		out = append(out, FromPost(record))
	}
	return out, nil
}

func (s *RepositorySource) ListPages(ctx context.Context, limit int) ([]Page, error) {
	if s.pages == nil {
		return nil, ErrSourceNotConfigured
	}
	records, err := s.pages.ListPublished(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Page, 0, len(records))
	for _, record := range records {
		out = append(out, FromPage(record))
	}
	return out, nil
}

func (s *RepositorySource) ListMenus(ctx context.Context) ([]Menu, error) {
	if s.menus == nil {
		return nil, ErrSourceNotConfigured
	}
	records, err := s.menus.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Menu, 0, len(records))
	for _, record := range records {
		out = append(out, FromMenu(record))
	}
	return out, nil
}

// FromCategory converts a stored category.
func FromCategory(record *categories.Category) Category {
	return Category{ID: record.ID.String(), Name: record.Name}
}

// FromPost converts a stored post.
func FromPost(record *posts.Post) Post {
	return Post{
		ID:           record.ID.String(),
		Title:        record.Title,
		Slug:         record.Slug,
		CategoryName: record.CategoryName(),
	}
}

// FromPage converts a stored page.
func FromPage(record *pages.Page) Page {
	return Page{ID: record.ID.String(), Title: record.Title, Slug: record.Slug}
}

// FromMenu converts a stored menu and the items attached to it.
func FromMenu(record *menus.Menu) Menu {
	menu := Menu{ID: record.ID.String(), Name: record.Name, Items: make([]MenuItem, 0, len(record.Items))}
	for _, item := range record.Items {
		menu.Items = append(menu.Items, MenuItem{
			ID:    item.ID.String(),
			Title: item.Title,
			URL:   item.URLValue(),
		})
	}
	return menu
}
