package menus

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-academy-cms/internal/querycache"
)

const (
	menuNamespace     = "menu"
	menuItemNamespace = "menu_item"
)

// BunMenuRepository implements MenuRepository with optional caching.
type BunMenuRepository struct {
	base         repository.Repository[*Menu]
	repo         repository.Repository[*Menu]
	lists        *querycache.Listings[*Menu]
	cacheService cache.CacheService
	cachePrefix  string
}

var _ MenuRepository = (*BunMenuRepository)(nil)

func NewBunMenuRepository(db *bun.DB) *BunMenuRepository {
	return NewBunMenuRepositoryWithCache(db, nil, nil)
}

func NewBunMenuRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunMenuRepository {
	base := NewMenuRepository(db)
	repo := &BunMenuRepository{base: base, repo: base}
	if cacheService != nil && serializer != nil {
		repo.repo = repositorycache.New(base, cacheService, serializer)
		repo.lists = querycache.NewListings[*Menu](menuNamespace, cacheService, serializer)
		repo.cacheService = cacheService
		repo.cachePrefix = menuNamespace + cache.KeySeparator
	}
	return repo
}

func (r *BunMenuRepository) Create(ctx context.Context, menu *Menu) (*Menu, error) {
	record, err := r.repo.Create(ctx, menu)
	if err != nil {
		return nil, mapRepositoryError(err, "menu", menu.Code)
	}
	_ = r.lists.Invalidate(ctx)
	return record, nil
}

func (r *BunMenuRepository) GetByID(ctx context.Context, id uuid.UUID) (*Menu, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "menu", id.String())
	}
	return record, nil
}

func (r *BunMenuRepository) GetByCode(ctx context.Context, code string) (*Menu, error) {
	record, err := r.repo.GetByIdentifier(ctx, code)
	if err != nil {
		return nil, mapRepositoryError(err, "menu", code)
	}
	return record, nil
}

func (r *BunMenuRepository) List(ctx context.Context, activeOnly bool) ([]*Menu, error) {
	records, err := r.lists.Get(ctx, func(ctx context.Context) ([]*Menu, error) {
		records, _, err := r.base.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if activeOnly {
				q = q.Where("?TableAlias.is_active = ?", true)
			}
			return q.Limit(0).OrderExpr("?TableAlias.name ASC, ?TableAlias.id ASC")
		}))
		return records, err
	}, activeOnly)
	if err != nil {
		return nil, mapRepositoryError(err, "menu", "")
	}
	return records, nil
}

func (r *BunMenuRepository) Update(ctx context.Context, menu *Menu) (*Menu, error) {
	record, err := r.repo.Update(ctx, menu,
		repository.UpdateByID(menu.ID.String()),
		repository.UpdateColumns("name", "code", "is_active", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "menu", menu.ID.String())
	}
	_ = r.lists.Invalidate(ctx)
	return record, nil
}

func (r *BunMenuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Menu{ID: id}); err != nil {
		return mapRepositoryError(err, "menu", id.String())
	}
	return r.lists.Invalidate(ctx)
}

func (r *BunMenuRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunMenuItemRepository implements MenuItemRepository with optional caching.
type BunMenuItemRepository struct {
	db           *bun.DB
	base         repository.Repository[*MenuItem]
	repo         repository.Repository[*MenuItem]
	lists        *querycache.Listings[*MenuItem]
	cacheService cache.CacheService
	cachePrefix  string
}

var _ MenuItemRepository = (*BunMenuItemRepository)(nil)

func NewBunMenuItemRepository(db *bun.DB) *BunMenuItemRepository {
	return NewBunMenuItemRepositoryWithCache(db, nil, nil)
}

func NewBunMenuItemRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunMenuItemRepository {
	base := NewMenuItemRepository(db)
	repo := &BunMenuItemRepository{db: db, base: base, repo: base}
	if cacheService != nil && serializer != nil {
		repo.repo = repositorycache.New(base, cacheService, serializer)
		repo.lists = querycache.NewListings[*MenuItem](menuItemNamespace, cacheService, serializer)
		repo.cacheService = cacheService
		repo.cachePrefix = menuItemNamespace + cache.KeySeparator
	}
	return repo
}

func (r *BunMenuItemRepository) Create(ctx context.Context, item *MenuItem) (*MenuItem, error) {
	record, err := r.repo.Create(ctx, item)
	if err != nil {
		return nil, mapRepositoryError(err, "menu_item", item.ID.String())
	}
	_ = r.lists.Invalidate(ctx)
	return record, nil
}

func (r *BunMenuItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*MenuItem, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "menu_item", id.String())
	}
	return record, nil
}

func (r *BunMenuItemRepository) ListByMenu(ctx context.Context, menuID uuid.UUID, activeOnly bool) ([]*MenuItem, error) {
	records, err := r.lists.Get(ctx, func(ctx context.Context) ([]*MenuItem, error) {
		records, _, err := r.base.List(ctx,
			repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
				q = q.Where("?TableAlias.menu_id = ?", menuID)
				if activeOnly {
					q = q.Where("?TableAlias.is_active = ?", true)
				}
				return q.Limit(0).OrderExpr("?TableAlias.position ASC, ?TableAlias.id ASC")
			}),
		)
		return records, err
	}, menuID.String(), activeOnly)
	if err != nil {
		return nil, mapRepositoryError(err, "menu_item", menuID.String())
	}
	return records, nil
}

func (r *BunMenuItemRepository) Update(ctx context.Context, item *MenuItem) (*MenuItem, error) {
	record, err := r.repo.Update(ctx, item,
		repository.UpdateByID(item.ID.String()),
		repository.UpdateColumns("title", "url", "position", "is_active", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "menu_item", item.ID.String())
	}
	_ = r.lists.Invalidate(ctx)
	return record, nil
}

func (r *BunMenuItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &MenuItem{ID: id}); err != nil {
		return mapRepositoryError(err, "menu_item", id.String())
	}
	return r.lists.Invalidate(ctx)
}

// DeleteByMenu removes every item of the menu and reports how many rows went.
func (r *BunMenuItemRepository) DeleteByMenu(ctx context.Context, menuID uuid.UUID) (int, error) {
	if r.db == nil {
		return 0, fmt.Errorf("menu item repository: database not configured")
	}
	var affected int64
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*MenuItem)(nil)).
			Where("?TableAlias.menu_id = ?", menuID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete menu items: %w", err)
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	_ = r.InvalidateCache(ctx)
	return int(affected), nil
}

func (r *BunMenuItemRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
