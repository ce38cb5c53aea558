package pages

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/internal/slugs"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// ReservedSlugs are first path segments owned by site routes. A page served
// at /{slug} cannot shadow them.
var ReservedSlugs = []string{"admin", "api", "blog", "metrics", "post", "sitemap"}

// Service describes page management capabilities.
type Service interface {
	Create(ctx context.Context, input CreatePageInput) (*Page, error)
	Get(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*Page, error)
	List(ctx context.Context, opts ListOptions) ([]*Page, error)
	ListPublished(ctx context.Context, limit int) ([]*Page, error)
	Update(ctx context.Context, input UpdatePageInput) (*Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
	InvalidateCache(ctx context.Context) error
}

// CreatePageInput captures the fields required to create a page.
type CreatePageInput struct {
	ID     uuid.UUID
	Title  string
	Slug   string
	Body   string
	Status string
}

func (in CreatePageInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Slug, validation.Length(0, 200)),
		validation.Field(&in.Status, validation.In(StatusDraft, StatusPublished)),
	)
}

// UpdatePageInput carries partial updates; nil fields are left unchanged.
type UpdatePageInput struct {
	ID     uuid.UUID
	Title  *string
	Slug   *string
	Body   *string
	Status *string
}

func (in UpdatePageInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&in.Slug, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&in.Status, validation.NilOrNotEmpty, validation.In(StatusDraft, StatusPublished)),
	)
}

// ServiceOption configures the page service.
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

// WithLogger attaches a logger used for cache invalidation failures.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo   PageRepository
	now    func() time.Time
	newID  func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs a page service.
func NewService(repo PageRepository, opts ...ServiceOption) Service {
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

func (s *service) Create(ctx context.Context, input CreatePageInput) (*Page, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	input.Status = normalizeStatus(input.Status)
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
	if slices.Contains(ReservedSlugs, slug) {
		return nil, ErrSlugReserved
	}
	if err := s.ensureSlugAvailable(ctx, slug, uuid.Nil); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &Page{
		ID:        input.ID,
		Title:     strings.TrimSpace(input.Title),
		Slug:      slug,
		Body:      input.Body,
		Status:    input.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if record.ID == uuid.Nil {
		record.ID = s.newID()
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "create")
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Page, error) {
	if id == uuid.Nil {
		return nil, ErrPageRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	return s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
}

// GetPublishedBySlug hides drafts behind a NotFoundError.
func (s *service) GetPublishedBySlug(ctx context.Context, slug string) (*Page, error) {
	record, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !record.IsPublished() {
		return nil, &NotFoundError{Key: slug}
	}
	return record, nil
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Page, error) {
	return s.repo.List(ctx, opts)
}

func (s *service) ListPublished(ctx context.Context, limit int) ([]*Page, error) {
	return s.repo.List(ctx, ListOptions{Status: StatusPublished, Limit: limit})
}

func (s *service) Update(ctx context.Context, input UpdatePageInput) (*Page, error) {
	if input.ID == uuid.Nil {
		return nil, ErrPageRequired
	}
	if input.Status != nil {
		status := normalizeStatus(*input.Status)
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
		if slices.Contains(ReservedSlugs, slug) {
			return nil, ErrSlugReserved
		}
		if slug != record.Slug {
			if err := s.ensureSlugAvailable(ctx, slug, record.ID); err != nil {
				return nil, err
			}
			record.Slug = slug
		}
	}
	if input.Body != nil {
		record.Body = *input.Body
	}
	if input.Status != nil {
		record.Status = *input.Status
	}
	record.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "update")
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrPageRequired
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
			"operation": "pages." + operation,
			"error":     err.Error(),
		}).Warn("pages.cache.invalidate_failed")
	}
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
