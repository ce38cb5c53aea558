package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-academy-cms/internal/categories"
	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/internal/slugs"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// Service describes post management capabilities.
type Service interface {
	Create(ctx context.Context, input CreatePostInput) (*Post, error)
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, opts ListOptions) ([]*Post, error)
	ListPublished(ctx context.Context, limit int) ([]*Post, error)
	Update(ctx context.Context, input UpdatePostInput) (*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	InvalidateCache(ctx context.Context) error
}

// CreatePostInput captures the fields required to create a post. Status
// defaults to draft.
type CreatePostInput struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Excerpt     *string
	Body        string
	Status      string
	CategoryID  *uuid.UUID
	PublishedAt *time.Time
}

// Validate checks field lengths and the status value.
func (in CreatePostInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Slug, validation.Length(0, 200)),
		validation.Field(&in.Status, validation.In(StatusDraft, StatusPublished)),
	)
}

// UpdatePostInput carries partial updates; nil fields are left unchanged.
// ClearCategory detaches the post from its category.
type UpdatePostInput struct {
	ID            uuid.UUID
	Title         *string
	Slug          *string
	Excerpt       *string
	Body          *string
	Status        *string
	CategoryID    *uuid.UUID
	ClearCategory bool
}

// Validate checks any supplied field.
func (in UpdatePostInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&in.Slug, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&in.Status, validation.NilOrNotEmpty, validation.In(StatusDraft, StatusPublished)),
	)
}

// CategoryLookup resolves categories for validation and hydration.
type CategoryLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*categories.Category, error)
}

// ServiceOption configures the post service.
type ServiceOption func(*service)

// WithClock overrides the internal time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the identifier generator used for new records.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.newID = generator
		}
	}
}

// WithCategoryLookup validates category references and hydrates the Category
// relation for repositories that do not join it.
func WithCategoryLookup(lookup CategoryLookup) ServiceOption {
	return func(s *service) {
		s.categories = lookup
	}
}

// WithLogger attaches a logger used for cache invalidation failures.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo       PostRepository
	categories CategoryLookup
	now        func() time.Time
	newID      func() uuid.UUID
	logger     interfaces.Logger
}

// NewService constructs a post service.
func NewService(repo PostRepository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		now:    time.Now,
		newID:  uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, input CreatePostInput) (*Post, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))
	if input.Status == "" {
		input.Status = StatusDraft
	}
	if input.Status != StatusDraft && input.Status != StatusPublished {
		return nil, ErrStatusInvalid
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	slug, err := slugs.Derive(input.Slug, input.Title)
	if err != nil {
		return nil, ErrSlugInvalid
	}
	if err := s.ensureSlugAvailable(ctx, slug, uuid.Nil); err != nil {
		return nil, err
	}
	category, err := s.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &Post{
		ID:          input.ID,
		Title:       strings.TrimSpace(input.Title),
		Slug:        slug,
		Excerpt:     input.Excerpt,
		Body:        input.Body,
		Status:      input.Status,
		CategoryID:  input.CategoryID,
		PublishedAt: input.PublishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if record.ID == uuid.Nil {
		record.ID = s.newID()
	}
	if record.Status == StatusPublished && record.PublishedAt == nil {
		record.PublishedAt = &now
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	if created.Category == nil {
		created.Category = category
	}
	s.invalidate(ctx, "create")
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	if id == uuid.Nil {
		return nil, ErrPostRequired
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.hydrate(ctx, record)
	return record, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	record, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	s.hydrate(ctx, record)
	return record, nil
}

// GetPublishedBySlug hides drafts behind a NotFoundError.
func (s *service) GetPublishedBySlug(ctx context.Context, slug string) (*Post, error) {
	record, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !record.IsPublished() {
		return nil, &NotFoundError{Key: slug}
	}
	return record, nil
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Post, error) {
	records, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	s.hydrate(ctx, records...)
	return records, nil
}

func (s *service) ListPublished(ctx context.Context, limit int) ([]*Post, error) {
	return s.List(ctx, ListOptions{Status: StatusPublished, Limit: limit})
}

func (s *service) Update(ctx context.Context, input UpdatePostInput) (*Post, error) {
	if input.ID == uuid.Nil {
		return nil, ErrPostRequired
	}
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		input.Status = &status
		if status != StatusDraft && status != StatusPublished {
			return nil, ErrStatusInvalid
		}
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	record, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		record.Title = title
	}
	if input.Slug != nil {
		slug, err := slugs.Derive(*input.Slug, "")
		if err != nil {
			return nil, ErrSlugInvalid
		}
		if slug != record.Slug {
			if err := s.ensureSlugAvailable(ctx, slug, record.ID); err != nil {
				return nil, err
			}
			record.Slug = slug
		}
	}
	if input.Excerpt != nil {
		record.Excerpt = input.Excerpt
	}
	if input.Body != nil {
		record.Body = *input.Body
	}
	now := s.now().UTC()
	if input.Status != nil {
		record.Status = *input.Status
		if record.Status == StatusPublished && record.PublishedAt == nil {
			record.PublishedAt = &now
		}
	}
	switch {
	case input.ClearCategory:
		record.CategoryID = nil
		record.Category = nil
	case input.CategoryID != nil:
		category, err := s.resolveCategory(ctx, input.CategoryID)
		if err != nil {
			return nil, err
		}
		record.CategoryID = input.CategoryID
		record.Category = category
	}
	record.UpdatedAt = now

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	if updated.Category == nil && updated.CategoryID != nil {
		updated.Category = record.Category
	}
	s.invalidate(ctx, "update")
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrPostRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "delete")
	return nil
}

func (s *service) InvalidateCache(ctx context.Context) error {
	if invalidator, ok := s.repo.(interfaces.CacheInvalidator); ok {
		return invalidator.InvalidateCache(ctx)
	}
	return nil
}

func (s *service) resolveCategory(ctx context.Context, id *uuid.UUID) (*categories.Category, error) {
	if id == nil || *id == uuid.Nil || s.categories == nil {
		return nil, nil
	}
	category, err := s.categories.GetByID(ctx, *id)
	if err != nil {
		var notFound *categories.NotFoundError
		if errors.As(err, &notFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// hydrate attaches categories to records the repository did not join.
// Lookup failures leave the relation empty.
func (s *service) hydrate(ctx context.Context, records ...*Post) {
	if s.categories == nil {
		return
	}
	resolved := map[uuid.UUID]*categories.Category{}
	for _, record := range records {
		if record == nil || record.Category != nil || record.CategoryID == nil {
			continue
		}
		id := *record.CategoryID
		category, seen := resolved[id]
		if !seen {
			category, _ = s.categories.GetByID(ctx, id)
			resolved[id] = category
		}
		record.Category = category
	}
}

func (s *service) ensureSlugAvailable(ctx context.Context, slug string, owner uuid.UUID) error {
	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	if existing != nil && existing.ID != owner {
		return ErrSlugExists
	}
	return nil
}

func (s *service) invalidate(ctx context.Context, operation string) {
	if err := s.InvalidateCache(ctx); err != nil {
		logging.WithFields(s.logger, map[string]any{
			"operation": "posts." + operation,
			"error":     err.Error(),
		}).Warn("posts.cache.invalidate_failed")
	}
}
