package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-academy-cms/internal/categories"
	"github.com/goliatone/go-academy-cms/internal/markdown"
	"github.com/goliatone/go-academy-cms/internal/menus"
	"github.com/goliatone/go-academy-cms/internal/pages"
	"github.com/goliatone/go-academy-cms/internal/posts"
	"github.com/goliatone/go-academy-cms/internal/shortcode"
	"github.com/goliatone/go-academy-cms/internal/sitemap"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

func TestAdminAPI_CategoryAndPostLifecycle(t *testing.T) {
	server, _ := setupServer(t)

	createResp := doJSONRequest(t, server, http.MethodPost, "/admin/api/categories", map[string]any{
		"name": "Corporate Tax",
	}, http.StatusCreated)
	var category categories.Category
	decodeJSONBody(t, createResp, &category)
	if category.ID == uuid.Nil || category.Slug != "corporate-tax" || !category.IsActive {
		t.Fatalf("unexpected category %+v", category)
	}

	doJSONRequest(t, server, http.MethodPost, "/admin/api/categories", map[string]any{
		"name": "Corporate Tax",
	}, http.StatusConflict)

	postResp := doJSONRequest(t, server, http.MethodPost, "/admin/api/posts", map[string]any{
		"title":       "Deferred Tax Explained",
		"body":        "Deferred tax arises from **timing** differences.",
		"status":      "published",
		"category_id": category.ID.String(),
	}, http.StatusCreated)
	var post posts.Post
	decodeJSONBody(t, postResp, &post)
	if post.Slug != "deferred-tax-explained" || post.PublishedAt == nil {
		t.Fatalf("unexpected post %+v", post)
	}

	postPath := "/admin/api/posts/" + post.ID.String()
	updateResp := doJSONRequest(t, server, http.MethodPut, postPath, map[string]any{
		"title":          "Deferred Tax",
		"clear_category": true,
	}, http.StatusOK)
	var updated posts.Post
	decodeJSONBody(t, updateResp, &updated)
	if updated.Title != "Deferred Tax" || updated.CategoryID != nil {
		t.Fatalf("expected title update and cleared category, got %+v", updated)
	}

	listResp := doJSONRequest(t, server, http.MethodGet, "/admin/api/posts?status=published", nil, http.StatusOK)
	var list []*posts.Post
	decodeJSONBody(t, listResp, &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 published post, got %d", len(list))
	}

	doJSONRequest(t, server, http.MethodDelete, postPath, nil, http.StatusNoContent)
	doJSONRequest(t, server, http.MethodGet, postPath, nil, http.StatusNotFound)
	doJSONRequest(t, server, http.MethodGet, "/admin/api/posts/not-a-uuid", nil, http.StatusBadRequest)
}

func TestAdminAPI_PageValidation(t *testing.T) {
	server, _ := setupServer(t)

	doJSONRequest(t, server, http.MethodPost, "/admin/api/pages", map[string]any{
		"title": "Sitemap",
	}, http.StatusBadRequest)
	doJSONRequest(t, server, http.MethodPost, "/admin/api/pages", map[string]any{
		"title":  "About",
		"status": "archived",
	}, http.StatusBadRequest)
	doJSONRequest(t, server, http.MethodPost, "/admin/api/pages", map[string]any{
		"title":   "About",
		"unknown": true,
	}, http.StatusBadRequest)

	createResp := doJSONRequest(t, server, http.MethodPost, "/admin/api/pages", map[string]any{
		"title": "About",
		"body":  "We teach accounting.",
	}, http.StatusCreated)
	var page pages.Page
	decodeJSONBody(t, createResp, &page)
	if page.Status != pages.StatusDraft {
		t.Fatalf("expected draft page, got %q", page.Status)
	}

	status := pages.StatusPublished
	updateResp := doJSONRequest(t, server, http.MethodPut, "/admin/api/pages/"+page.ID.String(), map[string]any{
		"status": status,
	}, http.StatusOK)
	var updated pages.Page
	decodeJSONBody(t, updateResp, &updated)
	if updated.Status != status {
		t.Fatalf("expected published page, got %q", updated.Status)
	}
}

func TestAdminAPI_MenuItems(t *testing.T) {
	server, _ := setupServer(t)

	menuResp := doJSONRequest(t, server, http.MethodPost, "/admin/api/menus", map[string]any{
		"name": "Footer",
	}, http.StatusCreated)
	var menu menus.Menu
	decodeJSONBody(t, menuResp, &menu)
	if menu.Code != "footer" {
		t.Fatalf("expected derived code footer, got %q", menu.Code)
	}

	itemsPath := "/admin/api/menus/" + menu.ID.String() + "/items"
	itemResp := doJSONRequest(t, server, http.MethodPost, itemsPath, map[string]any{
		"title":    "Contact",
		"url":      "/contact",
		"position": 1,
	}, http.StatusCreated)
	var item menus.MenuItem
	decodeJSONBody(t, itemResp, &item)

	doJSONRequest(t, server, http.MethodPost, itemsPath, map[string]any{
		"title":    "Broken",
		"position": -1,
	}, http.StatusBadRequest)

	updateResp := doJSONRequest(t, server, http.MethodPut, itemsPath+"/"+item.ID.String(), map[string]any{
		"clear_url": true,
	}, http.StatusOK)
	var updated menus.MenuItem
	decodeJSONBody(t, updateResp, &updated)
	if updated.URL != nil {
		t.Fatalf("expected url to be cleared, got %v", *updated.URL)
	}

	byCode := doJSONRequest(t, server, http.MethodGet, "/admin/api/menus?code=footer", nil, http.StatusOK)
	var fetched menus.Menu
	decodeJSONBody(t, byCode, &fetched)
	if len(fetched.Items) != 1 || fetched.Items[0].Title != "Contact" {
		t.Fatalf("expected menu with one item, got %+v", fetched.Items)
	}

	doJSONRequest(t, server, http.MethodDelete, itemsPath+"/"+item.ID.String(), nil, http.StatusNoContent)
	doJSONRequest(t, server, http.MethodDelete, "/admin/api/menus/"+menu.ID.String(), nil, http.StatusNoContent)
	doJSONRequest(t, server, http.MethodGet, "/admin/api/menus/"+menu.ID.String(), nil, http.StatusNotFound)
}

func TestAdminAPI_CacheInvalidate(t *testing.T) {
	invalidator := &countingInvalidator{}
	server := NewServer(WithCacheInvalidators(map[string]interfaces.CacheInvalidator{"posts": invalidator}))

	doJSONRequest(t, server, http.MethodPost, "/admin/api/cache/invalidate", map[string]any{
		"scopes": []string{"posts"},
	}, http.StatusNoContent)
	if invalidator.calls != 1 {
		t.Fatalf("expected one invalidation, got %d", invalidator.calls)
	}
	doJSONRequest(t, server, http.MethodPost, "/admin/api/cache/invalidate", map[string]any{
		"scopes": []string{"themes"},
	}, http.StatusBadRequest)
}

func TestAdminAPI_MissingServicesAnswerUnavailable(t *testing.T) {
	server := NewServer()
	doJSONRequest(t, server, http.MethodGet, "/admin/api/categories", nil, http.StatusServiceUnavailable)
	doJSONRequest(t, server, http.MethodPost, "/admin/api/shortcodes/preview", map[string]any{"content": "x"}, http.StatusServiceUnavailable)
	doJSONRequest(t, server, http.MethodPost, "/admin/api/cache/invalidate", nil, http.StatusServiceUnavailable)
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateCache(context.Context) error {
	c.calls++
	return nil
}

type testServices struct {
	categories categories.Service
	posts      posts.Service
	pages      pages.Service
	menus      menus.Service
}

type stepClock struct {
	current time.Time
}

func (c *stepClock) Now() time.Time {
	c.current = c.current.Add(time.Minute)
	return c.current
}

func setupServer(t *testing.T, opts ...Option) (*Server, testServices) {
	t.Helper()

	clock := &stepClock{current: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	categoryRepo := categories.NewMemoryCategoryRepository()
	services := testServices{
		categories: categories.NewService(categoryRepo),
		posts: posts.NewService(posts.NewMemoryPostRepository(),
			posts.WithClock(clock.Now),
			posts.WithCategoryLookup(categoryRepo),
		),
		pages: pages.NewService(pages.NewMemoryPageRepository()),
		menus: menus.NewService(menus.NewMemoryMenuRepository(), menus.NewMemoryMenuItemRepository()),
	}

	source := sitemap.NewRepositorySource(services.categories, services.posts, services.pages, services.menus)
	base := []Option{
		WithCategoryService(services.categories),
		WithPostService(services.posts),
		WithPageService(services.pages),
		WithMenuService(services.menus),
		WithShortcodeService(shortcode.NewService(sitemap.NewLoader(source))),
		WithMarkdownRenderer(markdown.NewRenderer(markdown.DefaultRendererOptions())),
	}
	return NewServer(append(base, opts...)...), services
}

func doJSONRequest(t *testing.T, handler http.Handler, method, path string, body any, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("expected status %d got %d (%s)", wantStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
