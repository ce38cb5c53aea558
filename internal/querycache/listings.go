// Package querycache caches filtered repository listings under keys built
// from their filter values. Callers must fetch through the uncached
// repository: the cache decorator keys criteria closures by code pointer, so
// captured filter values never reach its keys.
package querycache

import (
	"context"

	"github.com/goliatone/go-repository-cache/cache"
)

const listMethod = "list_by"

// Fetch loads a listing from storage.
type Fetch[T any] func(ctx context.Context) ([]T, error)

// Listings caches listings for one namespace. A nil *Listings, or one built
// without a cache service, always fetches.
type Listings[T any] struct {
	service    cache.CacheService
	serializer cache.KeySerializer
	prefix     string
}

// NewListings returns nil when caching is disabled.
func NewListings[T any](namespace string, service cache.CacheService, serializer cache.KeySerializer) *Listings[T] {
	if service == nil || serializer == nil {
		return nil
	}
	return &Listings[T]{
		service:    service,
		serializer: serializer,
		prefix:     namespace + cache.KeySeparator + listMethod,
	}
}

// Key returns the cache key for the given filter values.
func (l *Listings[T]) Key(filters ...any) string {
	if l == nil {
		return ""
	}
	return l.serializer.SerializeKey(l.prefix, filters...)
}

// Get returns the cached listing for filters, calling fetch on a miss.
func (l *Listings[T]) Get(ctx context.Context, fetch Fetch[T], filters ...any) ([]T, error) {
	if l == nil {
		return fetch(ctx)
	}
	return cache.GetOrFetch(ctx, l.service, l.Key(filters...), func(ctx context.Context) ([]T, error) {
		return fetch(ctx)
	})
}

// Invalidate drops every cached listing of the namespace.
func (l *Listings[T]) Invalidate(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.service.DeleteByPrefix(ctx, l.prefix)
}
