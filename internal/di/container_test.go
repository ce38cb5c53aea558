package di_test

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-academy-cms/internal/categories"
	cachecmd "github.com/goliatone/go-academy-cms/internal/commands/cache"
	seedcmd "github.com/goliatone/go-academy-cms/internal/commands/seed"
	"github.com/goliatone/go-academy-cms/internal/di"
	"github.com/goliatone/go-academy-cms/internal/logging/gologger"
	"github.com/goliatone/go-academy-cms/internal/posts"
	"github.com/goliatone/go-academy-cms/internal/runtimeconfig"
	"github.com/goliatone/go-academy-cms/internal/seed"
	"github.com/goliatone/go-academy-cms/internal/shortcode"
	"github.com/goliatone/go-academy-cms/pkg/testsupport"
)

const fixture = `{
  "categories": [{"name": "Tax"}, {"name": "Audit"}],
  "posts": [
    {"title": "Understanding VAT", "status": "published", "category": "tax"},
    {"title": "Draft Notes", "status": "draft", "category": "tax"}
  ],
  "pages": [{"title": "About", "status": "published", "body": "[sitemap]"}],
  "menus": [{"name": "Footer", "items": [{"title": "Contact", "url": "/contact"}]}]
}`

func memoryConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Markdown.ContentDir = t.TempDir()
	return cfg
}

func newMemoryContainer(t *testing.T, cfg runtimeconfig.Config, opts ...di.Option) *di.Container {
	t.Helper()
	opts = append([]di.Option{di.WithMemoryStorage(), di.WithLogWriter(&bytes.Buffer{})}, opts...)
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Close()
	})
	return container
}

func applyFixture(t *testing.T, container *di.Container) *seed.Result {
	t.Helper()
	var result *seed.Result
	err := container.SeedCommand().Execute(context.Background(), seedcmd.ApplyFixtureCommand{
		Data:     []byte(fixture),
		Format:   seed.FormatJSON,
		OnResult: func(r *seed.Result) { result = r },
	})
	if err != nil {
		t.Fatalf("apply fixture: %v", err)
	}
	return result
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "mysql"

	if _, err := di.NewContainer(cfg, di.WithMemoryStorage()); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
}

func TestContainerExpandsSitemapFromSeededRepositories(t *testing.T) {
	registry := prometheus.NewRegistry()
	container := newMemoryContainer(t, memoryConfig(t), di.WithPrometheusRegistry(registry))

	result := applyFixture(t, container)
	if result.Categories.Created != 2 || result.Posts.Created != 2 || result.MenuItems.Created != 1 {
		t.Fatalf("unexpected seed result %+v", result)
	}

	if defs := container.ShortcodeRegistry().List(); len(defs) != 1 || defs[0].Name != shortcode.SitemapName {
		t.Fatalf("expected only the sitemap definition, got %+v", defs)
	}

	html, err := container.ShortcodeService().Process(context.Background(), "Intro. [sitemap class=wide] Outro.")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.HasPrefix(html, "Intro. ") || !strings.HasSuffix(html, " Outro.") {
		t.Fatalf("expected surrounding text to survive, got %q", html)
	}
	for _, want := range []string{"Understanding VAT", "Footer", "Contact", "wide"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in fragment, got %s", want, html)
		}
	}
	if strings.Contains(html, "Draft Notes") {
		t.Fatalf("expected drafts to stay out of the sitemap")
	}

	expected := `
# HELP academy_shortcode_expansions_total Process calls that expanded at least one shortcode.
# TYPE academy_shortcode_expansions_total counter
academy_shortcode_expansions_total 1
`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "academy_shortcode_expansions_total"); err != nil {
		t.Fatalf("unexpected expansion metric: %v", err)
	}
}

func TestContainerUsesBunRepositoriesWithCache(t *testing.T) {
	db := testsupport.NewBunDB(t)
	cfg := memoryConfig(t)
	cfg.Cache.Enabled = true

	container, err := di.NewContainer(cfg, di.WithBunDB(db), di.WithLogWriter(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.BunDB() != db {
		t.Fatal("expected the supplied database to be used")
	}
	applyFixture(t, container)

	ctx := context.Background()
	active, err := container.CategoryService().ListActive(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(active))
	}
	published, err := container.PostService().ListPublished(ctx, 10)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(published) != 1 || published[0].CategoryName() != "Tax" {
		t.Fatalf("unexpected published posts %+v", published)
	}

	if err := container.CacheCommand().Execute(ctx, cachecmd.InvalidateCacheCommand{}); err != nil {
		t.Fatalf("invalidate cache: %v", err)
	}
	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("expected supplied database to stay open, got %v", err)
	}
}

func TestContainerOpensConfiguredStorage(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Storage.DSN = "file:di_open_storage?mode=memory&cache=shared"
	cfg.Storage.CreateSchema = true

	container, err := di.NewContainer(cfg, di.WithLogWriter(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.BunDB() == nil {
		t.Fatal("expected container to open a database")
	}
	if _, err := container.CategoryService().Create(context.Background(), categories.CreateCategoryInput{Name: "Payroll"}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestContainerLogsConfigurationThroughProvider(t *testing.T) {
	rec := newRecordingProvider()
	newMemoryContainer(t, memoryConfig(t), di.WithLoggerProvider(rec))

	entry := rec.find("container.configured")
	if entry == nil {
		t.Fatalf("expected container.configured log entry, got %#v", rec.entries)
	}
	if got := entry.fields["storage"]; got != "memory" {
		t.Fatalf("expected storage field to be memory, got %v", got)
	}
	if got := entry.fields["sitemap_source"]; got != "repository" {
		t.Fatalf("expected repository source, got %v", got)
	}
	if got := entry.fields["module"]; got != "academy.di" {
		t.Fatalf("expected module field academy.di, got %v", got)
	}
}

func TestContainerBuildsGoLoggerProvider(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "error"

	container := newMemoryContainer(t, cfg)
	if _, ok := container.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
}

func TestContainerHTTPSourceReadsPublicAPI(t *testing.T) {
	upstream := newMemoryContainer(t, memoryConfig(t))
	applyFixture(t, upstream)
	api := httptest.NewServer(upstream.HTTPServer())
	defer api.Close()

	cfg := memoryConfig(t)
	cfg.Sitemap.Source = "http"
	cfg.HTTP.PublicAPIURL = api.URL + cfg.HTTP.PublicAPIBase
	client := newMemoryContainer(t, cfg, di.WithHTTPClient(api.Client()))

	html, err := client.ShortcodeService().Process(context.Background(), "[sitemap]")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(html, "Understanding VAT") || !strings.Contains(html, "Contact") {
		t.Fatalf("expected remote dataset in fragment, got %s", html)
	}
}

func TestContainerRoutesLinksThroughURLKit(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Navigation.RouteConfig = &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "frontend",
				BaseURL: "https://academy.example.com",
				Paths: map[string]string{
					"post": "/articles/:slug",
				},
			},
		},
	}
	cfg.Navigation.Group = "frontend"
	cfg.Navigation.Routes.Post = "post"

	container := newMemoryContainer(t, cfg)
	if container.RouteManager() == nil {
		t.Fatal("expected route manager")
	}
	if got := container.Links().Post("vat"); got != "https://academy.example.com/articles/vat" {
		t.Fatalf("unexpected post link %q", got)
	}
	if got := container.Links().Sitemap(); got != "/sitemap" {
		t.Fatalf("expected unnamed route to fall back, got %q", got)
	}
}

func TestContainerSchedulerRunsMarkdownImport(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Markdown.DefaultCategory = "Guides"
	cfg.Jobs.CacheInvalidation = "@every 1h"
	if err := os.WriteFile(filepath.Join(cfg.Markdown.ContentDir, "ledger.md"), []byte("---\ntitle: Ledger Basics\n---\nDebits and credits.\n"), 0o644); err != nil {
		t.Fatalf("write markdown: %v", err)
	}

	container := newMemoryContainer(t, cfg)
	scheduler, err := container.Scheduler()
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}
	if got := scheduler.Jobs(); len(got) != 2 {
		t.Fatalf("expected both jobs registered, got %v", got)
	}
	if got := scheduler.Scheduled(); got != 1 {
		t.Fatalf("expected only cache invalidation to be scheduled, got %d", got)
	}

	ctx := context.Background()
	if err := scheduler.Run(ctx, di.JobMarkdownImport); err != nil {
		t.Fatalf("run markdown import: %v", err)
	}
	if err := scheduler.Run(ctx, di.JobCacheInvalidation); err != nil {
		t.Fatalf("run cache invalidation: %v", err)
	}

	post, err := container.PostService().GetBySlug(ctx, "ledger")
	if err != nil {
		t.Fatalf("expected imported post, got %v", err)
	}
	if post.Title != "Ledger Basics" || post.CategoryName() != "Guides" || post.Status != posts.StatusPublished {
		t.Fatalf("unexpected imported post %+v", post)
	}
}

func TestContainerSchedulerRequiresContentDirForScheduledImport(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Markdown.ContentDir = filepath.Join(t.TempDir(), "missing")
	cfg.Jobs.MarkdownImport = "0 * * * *"

	container := newMemoryContainer(t, cfg)
	if _, err := container.Scheduler(); err == nil {
		t.Fatal("expected scheduled import without content dir to fail")
	}
}

func TestContainerRegisterCommands(t *testing.T) {
	registry := &recordingRegistry{}
	container := newMemoryContainer(t, memoryConfig(t))

	handlers, err := container.RegisterCommands(registry)
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(handlers) != 5 || len(registry.handlers) != 5 {
		t.Fatalf("expected 5 handlers, got %d returned and %d registered", len(handlers), len(registry.handlers))
	}

	cfg := memoryConfig(t)
	cfg.Markdown.ContentDir = filepath.Join(t.TempDir(), "missing")
	without := newMemoryContainer(t, cfg)
	handlers, err = without.RegisterCommands(nil)
	if err != nil {
		t.Fatalf("register without registry: %v", err)
	}
	if len(handlers) != 3 {
		t.Fatalf("expected markdown handlers to be skipped, got %d", len(handlers))
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}
