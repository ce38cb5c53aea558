package menus

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

// Service manages menus and their items.
type Service interface {
	CreateMenu(ctx context.Context, input CreateMenuInput) (*Menu, error)
	GetMenu(ctx context.Context, id uuid.UUID) (*Menu, error)
	GetMenuByCode(ctx context.Context, code string) (*Menu, error)
	ListMenus(ctx context.Context) ([]*Menu, error)
	ListActive(ctx context.Context) ([]*Menu, error)
	UpdateMenu(ctx context.Context, input UpdateMenuInput) (*Menu, error)
	DeleteMenu(ctx context.Context, id uuid.UUID) error

	AddItem(ctx context.Context, input AddMenuItemInput) (*MenuItem, error)
	UpdateItem(ctx context.Context, input UpdateMenuItemInput) (*MenuItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error

	InvalidateCache(ctx context.Context) error
}

// CreateMenuInput describes a new menu. Code is derived from Name when empty;
// IsActive defaults to true.
type CreateMenuInput struct {
	ID       uuid.UUID
	Name     string
	Code     string
	IsActive *bool
}

func (in CreateMenuInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.Code, validation.Length(0, 120)),
	)
}

// UpdateMenuInput carries partial menu updates.
type UpdateMenuInput struct {
	ID       uuid.UUID
	Name     *string
	Code     *string
	IsActive *bool
}

func (in UpdateMenuInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&in.Code, validation.NilOrNotEmpty, validation.Length(1, 120)),
	)
}

// AddMenuItemInput appends an item to a menu. A nil Position places the item
// after the existing ones.
type AddMenuItemInput struct {
	ID       uuid.UUID
	MenuID   uuid.UUID
	Title    string
	URL      *string
	Position *int
	IsActive *bool
}

func (in AddMenuItemInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.URL, validation.Length(0, 2048)),
		validation.Field(&in.Position, validation.Min(0)),
	)
}

// UpdateMenuItemInput carries partial item updates. ClearURL unsets the link.
type UpdateMenuItemInput struct {
	ID       uuid.UUID
	Title    *string
	URL      *string
	ClearURL bool
	Position *int
	IsActive *bool
}

func (in UpdateMenuItemInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&in.URL, validation.Length(0, 2048)),
		validation.Field(&in.Position, validation.Min(0)),
	)
}

// ServiceOption configures the menu service.
type ServiceOption func(*service)

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.newID = generator
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	menus  MenuRepository
	items  MenuItemRepository
	now    func() time.Time
	newID  func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs the menu service.
func NewService(menuRepo MenuRepository, itemRepo MenuItemRepository, opts ...ServiceOption) Service {
	s := &service{
		menus:  menuRepo,
		items:  itemRepo,
		now:    time.Now,
		newID:  uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateMenu(ctx context.Context, input CreateMenuInput) (*Menu, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	code, err := slugs.Derive(input.Code, input.Name)
	if err != nil {
		return nil, ErrCodeInvalid
	}
	if err := s.ensureCodeAvailable(ctx, code, uuid.Nil); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &Menu{
		ID:        input.ID,
		Name:      strings.TrimSpace(input.Name),
		Code:      code,
		IsActive:  input.IsActive == nil || *input.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if record.ID == uuid.Nil {
		record.ID = s.newID()
	}
	created, err := s.menus.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "create_menu")
	return created, nil
}

func (s *service) GetMenu(ctx context.Context, id uuid.UUID) (*Menu, error) {
	if id == uuid.Nil {
		return nil, ErrMenuRequired
	}
	menu, err := s.menus.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, menu, false)
}

func (s *service) GetMenuByCode(ctx context.Context, code string) (*Menu, error) {
	menu, err := s.menus.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, menu, false)
}

func (s *service) ListMenus(ctx context.Context) ([]*Menu, error) {
	return s.list(ctx, false)
}

// ListActive returns active menus carrying only their active items, ordered
// by position.
func (s *service) ListActive(ctx context.Context) ([]*Menu, error) {
	return s.list(ctx, true)
}

func (s *service) list(ctx context.Context, activeOnly bool) ([]*Menu, error) {
	records, err := s.menus.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]*Menu, 0, len(records))
	for _, record := range records {
		menu, err := s.withItems(ctx, record, activeOnly)
		if err != nil {
			return nil, err
		}
		out = append(out, menu)
	}
	return out, nil
}

func (s *service) UpdateMenu(ctx context.Context, input UpdateMenuInput) (*Menu, error) {
	if input.ID == uuid.Nil {
		return nil, ErrMenuRequired
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	record, err := s.menus.GetByID(ctx, input.ID)
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
	if input.Code != nil {
		code, err := slugs.Derive(*input.Code, "")
		if err != nil {
			return nil, ErrCodeInvalid
		}
		if code != record.Code {
			if err := s.ensureCodeAvailable(ctx, code, record.ID); err != nil {
				return nil, err
			}
			record.Code = code
		}
	}
	if input.IsActive != nil {
		record.IsActive = *input.IsActive
	}
	record.UpdatedAt = s.now().UTC()

	updated, err := s.menus.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "update_menu")
	return s.withItems(ctx, updated, false)
}

// DeleteMenu removes the menu and every item that belongs to it.
func (s *service) DeleteMenu(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrMenuRequired
	}
	if _, err := s.menus.GetByID(ctx, id); err != nil {
		return err
	}
	removed, err := s.items.DeleteByMenu(ctx, id)
	if err != nil {
		return err
	}
	if err := s.menus.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("menus.menu.deleted", "menu_id", id.String(), "items_removed", removed)
	s.invalidate(ctx, "delete_menu")
	return nil
}

func (s *service) AddItem(ctx context.Context, input AddMenuItemInput) (*MenuItem, error) {
	if input.MenuID == uuid.Nil {
		return nil, ErrMenuRequired
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrItemTitleMissing
	}
	if input.Position != nil && *input.Position < 0 {
		return nil, ErrPositionNegative
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if _, err := s.menus.GetByID(ctx, input.MenuID); err != nil {
		return nil, err
	}

	position := 0
	if input.Position != nil {
		position = *input.Position
	} else {
		existing, err := s.items.ListByMenu(ctx, input.MenuID, false)
		if err != nil {
			return nil, err
		}
		for _, item := range existing {
			if item.Position >= position {
				position = item.Position + 1
			}
		}
	}

	now := s.now().UTC()
	record := &MenuItem{
		ID:        input.ID,
		MenuID:    input.MenuID,
		Title:     strings.TrimSpace(input.Title),
		URL:       normalizeURL(input.URL),
		Position:  position,
		IsActive:  input.IsActive == nil || *input.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if record.ID == uuid.Nil {
		record.ID = s.newID()
	}
	created, err := s.items.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "add_item")
	return created, nil
}

func (s *service) UpdateItem(ctx context.Context, input UpdateMenuItemInput) (*MenuItem, error) {
	if input.ID == uuid.Nil {
		return nil, ErrItemRequired
	}
	if input.Position != nil && *input.Position < 0 {
		return nil, ErrPositionNegative
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	record, err := s.items.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrItemTitleMissing
		}
		record.Title = title
	}
	switch {
	case input.ClearURL:
		record.URL = nil
	case input.URL != nil:
		record.URL = normalizeURL(input.URL)
	}
	if input.Position != nil {
		record.Position = *input.Position
	}
	if input.IsActive != nil {
		record.IsActive = *input.IsActive
	}
	record.UpdatedAt = s.now().UTC()

	updated, err := s.items.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "update_item")
	return updated, nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrItemRequired
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "delete_item")
	return nil
}

func (s *service) InvalidateCache(ctx context.Context) error {
	var errs []error
	if invalidator, ok := s.menus.(interfaces.CacheInvalidator); ok {
		errs = append(errs, invalidator.InvalidateCache(ctx))
	}
	if invalidator, ok := s.items.(interfaces.CacheInvalidator); ok {
		errs = append(errs, invalidator.InvalidateCache(ctx))
	}
	return errors.Join(errs...)
}

func (s *service) withItems(ctx context.Context, menu *Menu, activeOnly bool) (*Menu, error) {
	items, err := s.items.ListByMenu(ctx, menu.ID, activeOnly)
	if err != nil {
		return nil, err
	}
	menu.Items = items
	return menu, nil
}

func (s *service) ensureCodeAvailable(ctx context.Context, code string, owner uuid.UUID) error {
	existing, err := s.menus.GetByCode(ctx, code)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	if existing != nil && existing.ID != owner {
		return ErrCodeExists
	}
	return nil
}

func (s *service) invalidate(ctx context.Context, operation string) {
	if err := s.InvalidateCache(ctx); err != nil {
		logging.WithFields(s.logger, map[string]any{
			"operation": "menus." + operation,
			"error":     err.Error(),
		}).Warn("menus.cache.invalidate_failed")
	}
}

func normalizeURL(url *string) *string {
	if url == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*url)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
