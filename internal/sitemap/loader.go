package sitemap

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-academy-cms/internal/logging"
	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// DefaultPostLimit bounds published posts and pages fetched per load.
const DefaultPostLimit = 1000

// FetchFailureRecorder receives one call per failed collection fetch.
type FetchFailureRecorder interface {
	IncrementFetchFailure(source string)
}

// Loader fetches the four sitemap collections concurrently.
type Loader struct {
	source    DataSource
	postLimit int
	logger    interfaces.Logger
	failures  FetchFailureRecorder
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPostLimit bounds the number of posts and pages fetched.
func WithPostLimit(limit int) LoaderOption {
	return func(l *Loader) {
		if limit > 0 {
			l.postLimit = limit
		}
	}
}

// WithLoaderLogger attaches the logger used for fetch failures.
func WithLoaderLogger(logger interfaces.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithFailureRecorder reports failed fetches to metrics.
func WithFailureRecorder(recorder FetchFailureRecorder) LoaderOption {
	return func(l *Loader) {
		if recorder != nil {
			l.failures = recorder
		}
	}
}

// NewLoader constructs a loader reading from source.
func NewLoader(source DataSource, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:    source,
		postLimit: DefaultPostLimit,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the dataset. Any failed fetch, including cancellation, yields
// an empty dataset for all four collections; Load never fails.
func (l *Loader) Load(ctx context.Context) Dataset {
	if l == nil || l.source == nil {
		return Dataset{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	var (
		categories []Category
		posts      []Post
		pages      []Page
		menus      []Menu
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		categories, err = l.source.ListCategories(groupCtx)
		return l.wrap(ctx, "categories", err)
	})
	group.Go(func() error {
		var err error
		posts, err = l.source.ListPosts(groupCtx, l.postLimit)
		return l.wrap(ctx, "posts", err)
	})
	group.Go(func() error {
		var err error
		pages, err = l.source.ListPages(groupCtx, l.postLimit)
		return l.wrap(ctx, "pages", err)
	})
	group.Go(func() error {
		var err error
		menus, err = l.source.ListMenus(groupCtx)
		return l.wrap(ctx, "menus", err)
	})

	if err := group.Wait(); err != nil {
		logging.WithFields(l.logger.WithContext(ctx), map[string]any{
			"error":       err.Error(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Warn("sitemap.loader.fetch_failed")
		return Dataset{}
	}

	dataset := Dataset{Categories: categories, Posts: posts, Pages: pages, Menus: menus}
	logging.WithFields(l.logger.WithContext(ctx), map[string]any{
		"categories":  len(categories),
		"posts":       len(posts),
		"pages":       len(pages),
		"menus":       len(menus),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("sitemap.loader.loaded")
	return dataset
}

// wrap tags err with its collection. Cancellations caused by a failing
// sibling fetch are not counted as failures of their own.
func (l *Loader) wrap(parent context.Context, source string, err error) error {
	if err == nil {
		return nil
	}
	sibling := errors.Is(err, context.Canceled) && parent.Err() == nil
	if l.failures != nil && !sibling {
		l.failures.IncrementFetchFailure(source)
	}
	return &FetchError{Source: source, Err: err}
}

// FetchError names the collection whose fetch failed.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return "sitemap: fetch " + e.Source + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
