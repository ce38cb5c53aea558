package pages

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

const pageNamespace = "page"

type BunPageRepository struct {
	base         repository.Repository[*Page]
	repo         repository.Repository[*Page]
	lists        *querycache.Listings[*Page]
	cacheService cache.CacheService
	cachePrefix  string
}

var _ PageRepository = (*BunPageRepository)(nil)

func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache constructs a PageRepository backed by bun with optional caching.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageRepository {
	base := NewPageRepository(db)
	repo := &BunPageRepository{
		base:  base,
		repo:  wrapWithCache(base, cacheService, keySerializer),
		lists: querycache.NewListings[*Page](pageNamespace, cacheService, keySerializer),
	}
	if cacheService != nil && keySerializer != nil {
		repo.cacheService = cacheService
		repo.cachePrefix = pageNamespace + cache.KeySeparator
	}
	return repo
}

func (r *BunPageRepository) Create(ctx context.Context, record *Page) (*Page, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, record.Slug)
	}
	_ = r.lists.Invalidate(ctx)
	return created, nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return result, nil
}

func (r *BunPageRepository) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	return record, nil
}

func (r *BunPageRepository) List(ctx context.Context, opts ListOptions) ([]*Page, error) {
	limit := max(opts.Limit, 0)
	records, err := r.lists.Get(ctx, func(ctx context.Context) ([]*Page, error) {
		records, _, err := r.base.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if opts.Status != "" {
				q = q.Where("?TableAlias.status = ?", opts.Status)
			}
			return q.Limit(limit).OrderExpr("?TableAlias.title ASC, ?TableAlias.id ASC")
		}))
		return records, err
	}, opts.Status, limit)
	if err != nil {
		return nil, mapRepositoryError(err, "")
	}
	return records, nil
}

func (r *BunPageRepository) Update(ctx context.Context, record *Page) (*Page, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("title", "slug", "body", "status", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	_ = r.lists.Invalidate(ctx)
	return updated, nil
}

func (r *BunPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Page{ID: id}); err != nil {
		return mapRepositoryError(err, id.String())
	}
	return r.lists.Invalidate(ctx)
}

// InvalidateCache drops every cached page entry.
func (r *BunPageRepository) InvalidateCache(ctx context.Context) error {
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
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("page repository error: %w", err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
