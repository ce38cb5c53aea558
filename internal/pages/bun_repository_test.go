package pages_test

import (
	"context"
	"errors"
	"testing"

	repocache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-academy-cms/internal/pages"
	"github.com/goliatone/go-academy-cms/pkg/testsupport"
)

func TestBunPageRepository_ListAndLookup(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t)
	svc := pages.NewService(pages.NewBunPageRepository(db))

	for _, input := range []pages.CreatePageInput{
		{Title: "Privacy", Status: pages.StatusPublished},
		{Title: "About", Status: pages.StatusPublished},
		{Title: "Draft Page"},
	} {
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("create %s: %v", input.Title, err)
		}
	}

	published, err := svc.ListPublished(ctx, 10)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 2 || published[0].Slug != "about" {
		t.Fatalf("unexpected listing %+v", published)
	}

	var notFound *pages.NotFoundError
	if _, err := svc.GetBySlug(ctx, "missing"); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestBunPageRepository_CachedLookupsBySlugAndStatus(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t)
	cacheService, err := repocache.NewCacheService(repocache.DefaultConfig())
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	svc := pages.NewService(pages.NewBunPageRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer()))

	for _, input := range []pages.CreatePageInput{
		{Title: "About", Status: pages.StatusPublished},
		{Title: "Contact", Status: pages.StatusPublished},
		{Title: "Draft Page"},
	} {
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("create %s: %v", input.Title, err)
		}
	}

	for slug, title := range map[string]string{"about": "About", "contact": "Contact", "draft-page": "Draft Page"} {
		page, err := svc.GetBySlug(ctx, slug)
		if err != nil {
			t.Fatalf("get %s: %v", slug, err)
		}
		if page.Title != title {
			t.Fatalf("slug %s served %q", slug, page.Title)
		}
	}

	published, err := svc.ListPublished(ctx, 10)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	limited, err := svc.ListPublished(ctx, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(published) != 2 || len(limited) != 1 {
		t.Fatalf("expected 2 and 1 pages, got %d and %d", len(published), len(limited))
	}
}
