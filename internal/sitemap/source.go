package sitemap

import (
	"context"
	"slices"
)

// DataSource supplies the four collections rendered by the sitemap.
// Implementations return records in display order.
type DataSource interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListPosts(ctx context.Context, limit int) ([]Post, error)
	ListPages(ctx context.Context, limit int) ([]Page, error)
	ListMenus(ctx context.Context) ([]Menu, error)
}

// StaticSource serves a fixed dataset. It backs previews and tests.
type StaticSource struct {
	Dataset Dataset
}

var _ DataSource = StaticSource{}

// NewStaticSource wraps the dataset.
func NewStaticSource(dataset Dataset) StaticSource {
	return StaticSource{Dataset: dataset}
}

func (s StaticSource) ListCategories(context.Context) ([]Category, error) {
	return slices.Clone(s.Dataset.Categories), nil
}

func (s StaticSource) ListPosts(_ context.Context, limit int) ([]Post, error) {
	return limited(s.Dataset.Posts, limit), nil
}

func (s StaticSource) ListPages(_ context.Context, limit int) ([]Page, error) {
	return limited(s.Dataset.Pages, limit), nil
}

func (s StaticSource) ListMenus(context.Context) ([]Menu, error) {
	return slices.Clone(s.Dataset.Menus), nil
}

func limited[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return slices.Clone(items)
}
