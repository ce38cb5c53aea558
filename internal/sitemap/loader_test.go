package sitemap

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

type stubSource struct {
	dataset   Dataset
	failOn    string
	postLimit int
	pageLimit int
	mu        sync.Mutex
	calls     int
}

func (s *stubSource) record() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *stubSource) fail(name string) error {
	if s.failOn == name {
		return errors.New(name + " unavailable")
	}
	return nil
}

func (s *stubSource) ListCategories(ctx context.Context) ([]Category, error) {
	s.record()
	if err := s.fail("categories"); err != nil {
		return nil, err
	}
	return s.dataset.Categories, ctx.Err()
}

func (s *stubSource) ListPosts(ctx context.Context, limit int) ([]Post, error) {
	s.record()
	s.mu.Lock()
	s.postLimit = limit
	s.mu.Unlock()
	if err := s.fail("posts"); err != nil {
		return nil, err
	}
	return s.dataset.Posts, ctx.Err()
}

func (s *stubSource) ListPages(ctx context.Context, limit int) ([]Page, error) {
	s.record()
	s.mu.Lock()
	s.pageLimit = limit
	s.mu.Unlock()
	if err := s.fail("pages"); err != nil {
		return nil, err
	}
	return s.dataset.Pages, ctx.Err()
}

func (s *stubSource) ListMenus(ctx context.Context) ([]Menu, error) {
	s.record()
	if err := s.fail("menus"); err != nil {
		return nil, err
	}
	return s.dataset.Menus, ctx.Err()
}

type failureCounter struct {
	mu      sync.Mutex
	sources []string
}

func (f *failureCounter) IncrementFetchFailure(source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, source)
}

func TestLoaderLoadsAllCollections(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &stubSource{dataset: sampleDataset()}
	source.dataset.Menus = []Menu{{ID: "m1", Name: "Main"}}

	dataset := NewLoader(source).Load(context.Background())
	if len(dataset.Categories) != 3 || len(dataset.Posts) != 4 || len(dataset.Pages) != 1 || len(dataset.Menus) != 1 {
		t.Fatalf("unexpected dataset %+v", dataset)
	}
	if source.calls != 4 {
		t.Fatalf("expected 4 fetches, got %d", source.calls)
	}
	if source.postLimit != DefaultPostLimit || source.pageLimit != DefaultPostLimit {
		t.Fatalf("expected default limit, got posts=%d pages=%d", source.postLimit, source.pageLimit)
	}
}

func TestLoaderAppliesPostLimit(t *testing.T) {
	source := &stubSource{}
	NewLoader(source, WithPostLimit(25)).Load(context.Background())
	if source.postLimit != 25 || source.pageLimit != 25 {
		t.Fatalf("expected limit 25, got posts=%d pages=%d", source.postLimit, source.pageLimit)
	}
}

type ctxKey struct{}

type loggedEntry struct {
	msg string
	ctx context.Context
}

type contextLogger struct {
	mu      *sync.Mutex
	entries *[]loggedEntry
	ctx     context.Context
}

func newContextLogger() contextLogger {
	return contextLogger{mu: &sync.Mutex{}, entries: &[]loggedEntry{}}
}

func (l contextLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, loggedEntry{msg: msg, ctx: l.ctx})
}

func (l contextLogger) Trace(msg string, _ ...any) { l.record(msg) }
func (l contextLogger) Debug(msg string, _ ...any) { l.record(msg) }
func (l contextLogger) Info(msg string, _ ...any)  { l.record(msg) }
func (l contextLogger) Warn(msg string, _ ...any)  { l.record(msg) }
func (l contextLogger) Error(msg string, _ ...any) { l.record(msg) }
func (l contextLogger) Fatal(msg string, _ ...any) { l.record(msg) }

func (l contextLogger) WithContext(ctx context.Context) interfaces.Logger {
	l.ctx = ctx
	return l
}

func (l contextLogger) find(msg string) (loggedEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range *l.entries {
		if entry.msg == msg {
			return entry, true
		}
	}
	return loggedEntry{}, false
}

func TestLoaderLogsCarryRequestContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")

	logger := newContextLogger()
	NewLoader(&stubSource{dataset: sampleDataset()}, WithLoaderLogger(logger)).Load(ctx)
	entry, ok := logger.find("sitemap.loader.loaded")
	if !ok {
		t.Fatalf("expected a loaded event, got %+v", *logger.entries)
	}
	if entry.ctx == nil || entry.ctx.Value(ctxKey{}) != "req-1" {
		t.Fatalf("expected the loaded event to carry the request context")
	}

	logger = newContextLogger()
	NewLoader(&stubSource{dataset: sampleDataset(), failOn: "pages"}, WithLoaderLogger(logger)).Load(ctx)
	entry, ok = logger.find("sitemap.loader.fetch_failed")
	if !ok || entry.ctx == nil || entry.ctx.Value(ctxKey{}) != "req-1" {
		t.Fatalf("expected the failure event to carry the request context, got %+v", entry)
	}
}

func TestLoaderFailureYieldsEmptyDataset(t *testing.T) {
	defer goleak.VerifyNone(t)

	for _, failing := range []string{"categories", "posts", "pages", "menus"} {
		source := &stubSource{dataset: sampleDataset(), failOn: failing}
		counter := &failureCounter{}
		dataset := NewLoader(source, WithFailureRecorder(counter)).Load(context.Background())
		if !dataset.IsEmpty() {
			t.Fatalf("%s failure: expected empty dataset, got %+v", failing, dataset)
		}
		if len(counter.sources) != 1 || counter.sources[0] != failing {
			t.Fatalf("%s failure: unexpected failure records %v", failing, counter.sources)
		}
	}
}

func TestLoaderCancelledContextYieldsEmptyDataset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dataset := NewLoader(&stubSource{dataset: sampleDataset()}).Load(ctx)
	if !dataset.IsEmpty() {
		t.Fatalf("expected empty dataset after cancellation, got %+v", dataset)
	}
}

func TestLoaderWithoutSource(t *testing.T) {
	var loader *Loader
	if !loader.Load(context.Background()).IsEmpty() {
		t.Fatalf("expected nil loader to return an empty dataset")
	}
	if !NewLoader(nil).Load(context.Background()).IsEmpty() {
		t.Fatalf("expected loader without source to return an empty dataset")
	}
}
