package posts_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-academy-cms/internal/categories"
	"github.com/goliatone/go-academy-cms/internal/posts"
	"github.com/goliatone/go-academy-cms/pkg/testsupport"
)

func TestBunPostRepository_JoinsCategory(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t)

	categoryRepo := categories.NewBunCategoryRepository(db)
	categorySvc := categories.NewService(categoryRepo)
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	postSvc := posts.NewService(posts.NewBunPostRepository(db),
		posts.WithCategoryLookup(categoryRepo),
		posts.WithClock(func() time.Time {
			current = current.Add(time.Hour)
			return current
		}),
	)

	tax, err := categorySvc.Create(ctx, categories.CreateCategoryInput{Name: "Tax"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := postSvc.Create(ctx, posts.CreatePostInput{Title: "Post A", Status: posts.StatusPublished, CategoryID: &tax.ID}); err != nil {
		t.Fatalf("create post a: %v", err)
	}
	if _, err := postSvc.Create(ctx, posts.CreatePostInput{Title: "Post B", Status: posts.StatusDraft}); err != nil {
		t.Fatalf("create post b: %v", err)
	}

	published, err := postSvc.ListPublished(ctx, 1000)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 1 {
		t.Fatalf("expected 1 published post, got %d", len(published))
	}
	if published[0].Slug != "post-a" || published[0].CategoryName() != "Tax" {
		t.Fatalf("unexpected post %+v", published[0])
	}

	bySlug, err := postSvc.GetBySlug(ctx, "post-b")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if bySlug.Status != posts.StatusDraft {
		t.Fatalf("expected draft, got %q", bySlug.Status)
	}
}

func TestBunPostRepository_CacheKeysFollowFilters(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	serializer := repocache.NewDefaultKeySerializer()
	categoryRepo := categories.NewBunCategoryRepositoryWithCache(db, cacheService, serializer)
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := posts.NewService(posts.NewBunPostRepositoryWithCache(db, cacheService, serializer),
		posts.WithCategoryLookup(categoryRepo),
		posts.WithClock(func() time.Time {
			current = current.Add(time.Hour)
			return current
		}),
	)

	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		if _, err := svc.Create(ctx, posts.CreatePostInput{Title: title, Status: posts.StatusPublished}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	draft, err := svc.Create(ctx, posts.CreatePostInput{Title: "Delta"})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	for slug, title := range map[string]string{"alpha": "Alpha", "beta": "Beta", "gamma": "Gamma"} {
		for range 2 {
			record, err := svc.GetPublishedBySlug(ctx, slug)
			if err != nil {
				t.Fatalf("get %s: %v", slug, err)
			}
			if record.Title != title {
				t.Fatalf("slug %s served %q", slug, record.Title)
			}
		}
	}
	byID, err := svc.Get(ctx, draft.ID)
	if err != nil {
		t.Fatalf("get draft by id: %v", err)
	}
	if byID.Title != "Delta" {
		t.Fatalf("id lookup served %q", byID.Title)
	}

	one, err := svc.ListPublished(ctx, 1)
	if err != nil {
		t.Fatalf("list one: %v", err)
	}
	all, err := svc.ListPublished(ctx, 1000)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(one) != 1 || len(all) != 3 {
		t.Fatalf("expected 1 and 3 published posts, got %d and %d", len(one), len(all))
	}
	everything, err := svc.List(ctx, posts.ListOptions{})
	if err != nil {
		t.Fatalf("list everything: %v", err)
	}
	if len(everything) != 4 {
		t.Fatalf("expected draft in unfiltered list, got %d", len(everything))
	}

	status := posts.StatusPublished
	if _, err := svc.Update(ctx, posts.UpdatePostInput{ID: draft.ID, Status: &status}); err != nil {
		t.Fatalf("publish draft: %v", err)
	}
	all, err = svc.ListPublished(ctx, 1000)
	if err != nil {
		t.Fatalf("list after publish: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected cached listing to refresh after write, got %d", len(all))
	}
}

func TestBunPostRepository_ListHasNoImplicitPageSize(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t)
	svc := posts.NewService(posts.NewBunPostRepository(db))

	for i := range 30 {
		if _, err := svc.Create(ctx, posts.CreatePostInput{Title: fmt.Sprintf("Lesson %02d", i), Status: posts.StatusPublished}); err != nil {
			t.Fatalf("create lesson %d: %v", i, err)
		}
	}
	published, err := svc.ListPublished(ctx, 1000)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 30 {
		t.Fatalf("expected 30 posts, got %d", len(published))
	}
}
