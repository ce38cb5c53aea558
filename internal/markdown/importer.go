package markdown

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-academy-cms/internal/categories"
	"github.com/goliatone/go-academy-cms/internal/identity"
	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/internal/posts"
	"github.com/goliatone/go-academy-cms/internal/slugs"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// ImporterConfig encapsulates the services documents are written through.
type ImporterConfig struct {
	Posts      posts.Service
	Categories categories.Service
	Logger     interfaces.Logger
	// DefaultCategory is assigned when a document names no category.
	DefaultCategory string
}

// ImportOptions tune a single import run.
type ImportOptions struct {
	// DryRun resolves every document without writing.
	DryRun bool
}

// ImportResult lists the post slugs touched by a run.
type ImportResult struct {
	Created []string
	Updated []string
	Skipped []string
	Errors  []error
}

// Importer upserts Markdown documents as posts keyed by slug.
type Importer struct {
	posts           posts.Service
	categories      categories.Service
	logger          interfaces.Logger
	defaultCategory string
}

// NewImporter builds an Importer from cfg.
func NewImporter(cfg ImporterConfig) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{
		posts:           cfg.Posts,
		categories:      cfg.Categories,
		logger:          logger,
		defaultCategory: strings.TrimSpace(cfg.DefaultCategory),
	}
}

// Import applies docs in order. Failures on one document do not stop the
// others; the returned error joins every failure.
func (i *Importer) Import(ctx context.Context, docs []*Document, opts ImportOptions) (*ImportResult, error) {
	if i.posts == nil {
		return nil, ErrPostsRequired
	}
	result := &ImportResult{}
	resolved := map[string]*uuid.UUID{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, err)
			break
		}
		if err := i.importDocument(ctx, doc, opts, resolved, result); err != nil {
			logging.WithFields(i.logger, map[string]any{
				"path":  documentPath(doc),
				"error": err.Error(),
			}).Warn("markdown.import.document_failed")
			result.Errors = append(result.Errors, err)
		}
	}
	return result, errors.Join(result.Errors...)
}

func (i *Importer) importDocument(ctx context.Context, doc *Document, opts ImportOptions, resolved map[string]*uuid.UUID, result *ImportResult) error {
	if doc == nil {
		return ErrDocumentRequired
	}
	fm := doc.FrontMatter
	slug, err := slugs.Derive(fm.Slug, fileStem(doc.FilePath))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSlugMissing, doc.FilePath)
	}
	title := fm.Title
	if title == "" {
		title = fallbackTitle(slug)
	}
	status := documentStatus(fm)
	body := string(doc.Body)
	excerpt := optionalString(fm.Excerpt)

	categoryID, err := i.resolveCategory(ctx, fm.Category, opts, resolved)
	if err != nil {
		return err
	}

	existing, err := i.posts.GetBySlug(ctx, slug)
	if err != nil {
		var notFound *posts.NotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("markdown importer: lookup %s: %w", slug, err)
		}
		existing = nil
	}

	if existing == nil {
		if !opts.DryRun {
			var publishedAt *time.Time
			if !fm.Date.IsZero() {
				date := fm.Date
				publishedAt = &date
			}
			if _, err := i.posts.Create(ctx, posts.CreatePostInput{
				ID:          identity.PostUUID(slug),
				Title:       title,
				Slug:        slug,
				Excerpt:     excerpt,
				Body:        body,
				Status:      status,
				CategoryID:  categoryID,
				PublishedAt: publishedAt,
			}); err != nil {
				return fmt.Errorf("markdown importer: create %s: %w", slug, err)
			}
		}
		result.Created = append(result.Created, slug)
		return nil
	}

	if !postChanged(existing, title, body, status, excerpt, categoryID) {
		result.Skipped = append(result.Skipped, slug)
		return nil
	}
	if !opts.DryRun {
		input := posts.UpdatePostInput{
			ID:      existing.ID,
			Title:   &title,
			Body:    &body,
			Status:  &status,
			Excerpt: excerpt,
		}
		if categoryID != nil {
			input.CategoryID = categoryID
		} else {
			input.ClearCategory = existing.CategoryID != nil
		}
		if _, err := i.posts.Update(ctx, input); err != nil {
			return fmt.Errorf("markdown importer: update %s: %w", slug, err)
		}
	}
	result.Updated = append(result.Updated, slug)
	return nil
}

// resolveCategory finds the named category by slug, creating it when
// missing. Names resolve once per run.
func (i *Importer) resolveCategory(ctx context.Context, name string, opts ImportOptions, resolved map[string]*uuid.UUID) (*uuid.UUID, error) {
	if name == "" {
		name = i.defaultCategory
	}
	if name == "" || i.categories == nil {
		return nil, nil
	}
	slug, err := slugs.Derive("", name)
	if err != nil {
		return nil, nil
	}
	if id, ok := resolved[slug]; ok {
		return id, nil
	}

	category, err := i.categories.GetBySlug(ctx, slug)
	if err == nil {
		resolved[slug] = &category.ID
		return &category.ID, nil
	}
	var notFound *categories.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, fmt.Errorf("markdown importer: lookup category %s: %w", slug, err)
	}

	id := identity.CategoryUUID(slug)
	if !opts.DryRun {
		if _, err := i.categories.Create(ctx, categories.CreateCategoryInput{ID: id, Name: name, Slug: slug}); err != nil {
			return nil, fmt.Errorf("markdown importer: create category %s: %w", slug, err)
		}
		logging.WithFields(i.logger, map[string]any{"category": slug}).Info("markdown.import.category_created")
	}
	resolved[slug] = &id
	return &id, nil
}

func postChanged(existing *posts.Post, title, body, status string, excerpt *string, categoryID *uuid.UUID) bool {
	if existing.Title != title || existing.Body != body || existing.Status != status {
		return true
	}
	if stringValue(existing.Excerpt) != stringValue(excerpt) {
		return true
	}
	switch {
	case existing.CategoryID == nil && categoryID == nil:
		return false
	case existing.CategoryID == nil || categoryID == nil:
		return true
	default:
		return *existing.CategoryID != *categoryID
	}
}

// documentStatus honours an explicit status, then the draft flag; files
// without either are published.
func documentStatus(fm FrontMatter) string {
	switch fm.Status {
	case posts.StatusDraft, posts.StatusPublished:
		return fm.Status
	}
	if fm.Draft {
		return posts.StatusDraft
	}
	return posts.StatusPublished
}

func fileStem(filePath string) string {
	base := path.Base(filePath)
	return strings.TrimSuffix(base, path.Ext(base))
}

func fallbackTitle(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for idx, word := range words {
		words[idx] = strings.ToUpper(word[:1]) + word[1:]
	}
	if len(words) == 0 {
		return "Untitled"
	}
	return strings.Join(words, " ")
}

func documentPath(doc *Document) string {
	if doc == nil {
		return ""
	}
	return doc.FilePath
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
