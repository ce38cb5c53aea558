package posts

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

const postNamespace = "post"

// BunPostRepository implements PostRepository with optional caching.
type BunPostRepository struct {
	base         repository.Repository[*Post]
	repo         repository.Repository[*Post]
	lists        *querycache.Listings[*Post]
	cacheService cache.CacheService
	cachePrefix  string
}

var _ PostRepository = (*BunPostRepository)(nil)

// NewBunPostRepository creates a post repository without caching.
func NewBunPostRepository(db *bun.DB) *BunPostRepository {
	return NewBunPostRepositoryWithCache(db, nil, nil)
}

// NewBunPostRepositoryWithCache creates a post repository with caching services.
func NewBunPostRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunPostRepository {
	base := NewPostRepository(db)
	repo := &BunPostRepository{base: base, repo: base}
	if cacheService != nil && serializer != nil {
		repo.repo = repositorycache.New(base, cacheService, serializer)
		repo.lists = querycache.NewListings[*Post](postNamespace, cacheService, serializer)
		repo.cacheService = cacheService
		repo.cachePrefix = postNamespace + cache.KeySeparator
	}
	return repo
}

func (r *BunPostRepository) Create(ctx context.Context, record *Post) (*Post, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, record.Slug)
	}
	_ = r.lists.Invalidate(ctx)
	return created, nil
}

func (r *BunPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	record, err := r.repo.GetByID(ctx, id.String(), repository.SelectRelation("Category"))
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunPostRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug, repository.SelectRelation("Category"))
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	return record, nil
}

func (r *BunPostRepository) List(ctx context.Context, opts ListOptions) ([]*Post, error) {
	category := ""
	if opts.CategoryID != nil {
		category = opts.CategoryID.String()
	}
	limit := max(opts.Limit, 0)
	records, err := r.lists.Get(ctx, func(ctx context.Context) ([]*Post, error) {
		records, _, err := r.base.List(ctx,
			repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
				q = q.Relation("Category")
				if opts.Status != "" {
					q = q.Where("?TableAlias.status = ?", opts.Status)
				}
				if opts.CategoryID != nil {
					q = q.Where("?TableAlias.category_id = ?", *opts.CategoryID)
				}
				return q.Limit(limit).OrderExpr("?TableAlias.created_at DESC, ?TableAlias.id ASC")
			}),
		)
		return records, err
	}, opts.Status, category, limit)
	if err != nil {
		return nil, mapRepositoryError(err, "")
	}
	return records, nil
}

func (r *BunPostRepository) Update(ctx context.Context, record *Post) (*Post, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"title",
			"slug",
			"excerpt",
			"body",
			"status",
			"category_id",
			"published_at",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	_ = r.lists.Invalidate(ctx)
	return updated, nil
}

func (r *BunPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Post{ID: id}); err != nil {
		return mapRepositoryError(err, id.String())
	}
	return r.lists.Invalidate(ctx)
}

// InvalidateCache drops every cached post entry.
func (r *BunPostRepository) InvalidateCache(ctx context.Context) error {
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
	return fmt.Errorf("post repository error: %w", err)
}
