package categories

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-academy-cms/internal/querycache"
)

const categoryNamespace = "category"

// BunCategoryRepository implements CategoryRepository with optional caching.
type BunCategoryRepository struct {
	base         repository.Repository[*Category]
	repo         repository.Repository[*Category]
	lists        *querycache.Listings[*Category]
	cacheService cache.CacheService
	cachePrefix  string
}

var _ CategoryRepository = (*BunCategoryRepository)(nil)

// NewBunCategoryRepository creates a category repository without caching.
func NewBunCategoryRepository(db *bun.DB) *BunCategoryRepository {
	return NewBunCategoryRepositoryWithCache(db, nil, nil)
}

// NewBunCategoryRepositoryWithCache creates a category repository decorated
// with go-repository-cache when both cache collaborators are supplied.
func NewBunCategoryRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunCategoryRepository {
	base := NewCategoryRepository(db)
	repo := &BunCategoryRepository{base: base, repo: base}
	if cacheService != nil && serializer != nil {
		repo.repo = repositorycache.New(base, cacheService, serializer)
		repo.lists = querycache.NewListings[*Category](categoryNamespace, cacheService, serializer)
		repo.cacheService = cacheService
		repo.cachePrefix = categoryNamespace + cache.KeySeparator
	}
	return repo
}

func (r *BunCategoryRepository) Create(ctx context.Context, record *Category) (*Category, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, record.Slug)
	}
	_ = r.lists.Invalidate(ctx)
	return created, nil
}

func (r *BunCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunCategoryRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	return record, nil
}

func (r *BunCategoryRepository) List(ctx context.Context, activeOnly bool) ([]*Category, error) {
	records, err := r.lists.Get(ctx, func(ctx context.Context) ([]*Category, error) {
		records, _, err := r.base.List(ctx,
			repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
				if activeOnly {
					q = q.Where("?TableAlias.is_active = ?", true)
				}
				return q.Limit(0).OrderExpr("?TableAlias.name ASC, ?TableAlias.id ASC")
			}),
		)
		return records, err
	}, activeOnly)
	if err != nil {
		return nil, mapRepositoryError(err, "")
	}
	return records, nil
}

func (r *BunCategoryRepository) Update(ctx context.Context, record *Category) (*Category, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("name", "slug", "description", "is_active", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	_ = r.lists.Invalidate(ctx)
	return updated, nil
}

func (r *BunCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Category{ID: id}); err != nil {
		return mapRepositoryError(err, id.String())
	}
	return r.lists.Invalidate(ctx)
}

// InvalidateCache drops every cached category entry.
func (r *BunCategoryRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: "category", Key: key}
	}
	return fmt.Errorf("category repository error: %w", err)
}
