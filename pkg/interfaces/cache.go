package interfaces

import "context"

// CacheInvalidator is implemented by repositories and services that keep a
// read cache in front of storage.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}
