package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/internal/slugs"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// Service describes category management capabilities.
type Service interface {
	Create(ctx context.Context, input CreateCategoryInput) (*Category, error)
	Get(ctx context.Context, id uuid.UUID) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	ListActive(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, input UpdateCategoryInput) (*Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	InvalidateCache(ctx context.Context) error
}

// CreateCategoryInput captures the fields required to register a category.
// IsActive defaults to true when nil.
type CreateCategoryInput struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description *string
	IsActive    *bool
}

// Validate checks field lengths.
func (in CreateCategoryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.Slug, validation.Length(0, 160)),
	)
}

// UpdateCategoryInput carries partial updates; nil fields are left unchanged.
type UpdateCategoryInput struct {
	ID          uuid.UUID
	Name        *string
	Slug        *string
	Description *string
	IsActive    *bool
}

// Validate checks the identifier and any supplied field.
func (in UpdateCategoryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ID, validation.By(requireUUID)),
		validation.Field(&in.Name, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&in.Slug, validation.NilOrNotEmpty, validation.Length(1, 160)),
	)
}

// ServiceOption configures the category service.
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
	repo   CategoryRepository
	now    func() time.Time
	newID  func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs a category service.
func NewService(repo CategoryRepository, opts ...ServiceOption) Service {
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

func (s *service) Create(ctx context.Context, input CreateCategoryInput) (*Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	slug, err := slugs.Derive(input.Slug, input.Name)
	if err != nil {
		return nil, ErrSlugInvalid
	}
	if err := s.ensureSlugAvailable(ctx, slug, uuid.Nil); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &Category{
		ID:          input.ID,
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Description: input.Description,
		IsActive:    input.IsActive == nil || *input.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
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

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Category, error) {
	if id == uuid.Nil {
		return nil, ErrCategoryRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	return s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
}

func (s *service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx, false)
}

func (s *service) ListActive(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx, true)
}

func (s *service) Update(ctx context.Context, input UpdateCategoryInput) (*Category, error) {
	if input.ID == uuid.Nil {
		return nil, ErrCategoryRequired
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	record, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		record.Name = name
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
	if input.Description != nil {
		record.Description = input.Description
	}
	if input.IsActive != nil {
		record.IsActive = *input.IsActive
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
		return ErrCategoryRequired
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
			"operation": "categories." + operation,
			"error":     err.Error(),
		}).Warn("categories.cache.invalidate_failed")
	}
}

func requireUUID(value any) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return errors.New("is required")
	}
	return nil
}
