package markdown

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-academy-cms/internal/categories"
	"github.com/goliatone/go-academy-cms/internal/identity"
	"github.com/goliatone/go-academy-cms/internal/posts"
)

type importFixture struct {
	posts      posts.Service
	categories categories.Service
	importer   *Importer
}

func newImportFixture(t *testing.T, defaultCategory string) importFixture {
	t.Helper()
	categoryRepo := categories.NewMemoryCategoryRepository()
	categorySvc := categories.NewService(categoryRepo)
	postSvc := posts.NewService(posts.NewMemoryPostRepository(), posts.WithCategoryLookup(categoryRepo))
	return importFixture{
		posts:      postSvc,
		categories: categorySvc,
		importer: NewImporter(ImporterConfig{
			Posts:           postSvc,
			Categories:      categorySvc,
			DefaultCategory: defaultCategory,
		}),
	}
}

func mustDocument(t *testing.T, path, source string) *Document {
	t.Helper()
	doc, err := BuildDocument(path, []byte(source), time.Now())
	if err != nil {
		t.Fatalf("build %s: %v", path, err)
	}
	return doc
}

func TestImporterCreatesPostsAndCategories(t *testing.T) {
	fx := newImportFixture(t, "")
	ctx := context.Background()

	docs := []*Document{
		mustDocument(t, "vat.md", "---\ntitle: Understanding VAT\ncategory: Tax\ndate: 2024-03-01\n---\nBody\n"),
		mustDocument(t, "year-end-close.md", "---\ndraft: true\n---\nChecklist\n"),
	}
	result, err := fx.importer.Import(ctx, docs, ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Created) != 2 {
		t.Fatalf("expected 2 created posts, got %+v", result)
	}

	vat, err := fx.posts.GetBySlug(ctx, "vat")
	if err != nil {
		t.Fatalf("get vat: %v", err)
	}
	if vat.ID != identity.PostUUID("vat") {
		t.Fatalf("expected deterministic id, got %s", vat.ID)
	}
	if vat.Status != posts.StatusPublished || vat.CategoryName() != "Tax" {
		t.Fatalf("unexpected post %+v", vat)
	}
	if vat.PublishedAt == nil || !vat.PublishedAt.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected published_at from front matter, got %v", vat.PublishedAt)
	}

	draft, err := fx.posts.GetBySlug(ctx, "year-end-close")
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if draft.Title != "Year End Close" || draft.Status != posts.StatusDraft {
		t.Fatalf("unexpected draft %+v", draft)
	}

	tax, err := fx.categories.GetBySlug(ctx, "tax")
	if err != nil {
		t.Fatalf("expected category to be created: %v", err)
	}
	if tax.ID != identity.CategoryUUID("tax") {
		t.Fatalf("expected deterministic category id, got %s", tax.ID)
	}
}

func TestImporterSkipsUnchangedAndUpdatesChanged(t *testing.T) {
	fx := newImportFixture(t, "General")
	ctx := context.Background()

	original := mustDocument(t, "payroll.md", "---\ntitle: Payroll\n---\nFirst\n")
	if _, err := fx.importer.Import(ctx, []*Document{original}, ImportOptions{}); err != nil {
		t.Fatalf("initial import: %v", err)
	}

	again, err := fx.importer.Import(ctx, []*Document{original}, ImportOptions{})
	if err != nil {
		t.Fatalf("repeat import: %v", err)
	}
	if len(again.Skipped) != 1 || len(again.Updated) != 0 {
		t.Fatalf("expected unchanged document to be skipped, got %+v", again)
	}

	changed := mustDocument(t, "payroll.md", "---\ntitle: Payroll Basics\n---\nSecond\n")
	updated, err := fx.importer.Import(ctx, []*Document{changed}, ImportOptions{})
	if err != nil {
		t.Fatalf("changed import: %v", err)
	}
	if len(updated.Updated) != 1 {
		t.Fatalf("expected update, got %+v", updated)
	}
	post, err := fx.posts.GetBySlug(ctx, "payroll")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if post.Title != "Payroll Basics" || strings.TrimSpace(post.Body) != "Second" || post.CategoryName() != "General" {
		t.Fatalf("unexpected post after update %+v", post)
	}
}

func TestImporterDryRunWritesNothing(t *testing.T) {
	fx := newImportFixture(t, "")
	ctx := context.Background()

	doc := mustDocument(t, "audit.md", "---\ncategory: Audit\n---\nBody\n")
	result, err := fx.importer.Import(ctx, []*Document{doc}, ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if len(result.Created) != 1 {
		t.Fatalf("expected dry run to report creation, got %+v", result)
	}
	var notFound *posts.NotFoundError
	if _, err := fx.posts.GetBySlug(ctx, "audit"); !errors.As(err, &notFound) {
		t.Fatalf("expected no post to be written, got %v", err)
	}
	var categoryMissing *categories.NotFoundError
	if _, err := fx.categories.GetBySlug(ctx, "audit"); !errors.As(err, &categoryMissing) {
		t.Fatalf("expected no category to be written, got %v", err)
	}
}

func TestImporterReportsPerDocumentErrors(t *testing.T) {
	fx := newImportFixture(t, "")

	result, err := fx.importer.Import(context.Background(), []*Document{nil, mustDocument(t, "ok.md", "Body\n")}, ImportOptions{})
	if !errors.Is(err, ErrDocumentRequired) {
		t.Fatalf("expected ErrDocumentRequired, got %v", err)
	}
	if len(result.Created) != 1 {
		t.Fatalf("expected the valid document to be imported, got %+v", result)
	}

	if _, err := NewImporter(ImporterConfig{}).Import(context.Background(), nil, ImportOptions{}); !errors.Is(err, ErrPostsRequired) {
		t.Fatalf("expected ErrPostsRequired, got %v", err)
	}
}

func TestServiceImportDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ledger.md"), []byte("---\ntitle: Ledger\n---\nBody\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fx := newImportFixture(t, "")
	svc, err := NewService(Config{BasePath: dir, Recursive: true}, fx.importer)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.ImportDirectory(context.Background(), "", ImportOptions{})
	if err != nil {
		t.Fatalf("import directory: %v", err)
	}
	if len(result.Created) != 1 || result.Created[0] != "ledger" {
		t.Fatalf("unexpected result %+v", result)
	}

	missing := filepath.Join(dir, "gone.md")
	files, err := svc.ImportFiles(context.Background(), []string{missing, filepath.Join(dir, "ledger.md")}, ImportOptions{})
	if err != nil {
		t.Fatalf("import files: %v", err)
	}
	if len(files.Skipped) != 1 {
		t.Fatalf("expected removed file to be ignored and ledger skipped, got %+v", files)
	}

	if _, err := NewService(Config{BasePath: filepath.Join(dir, "missing")}, nil); err == nil {
		t.Fatal("expected error for missing base path")
	}
}
