package querycache

import (
	"context"
	"testing"

	"github.com/goliatone/go-repository-cache/cache"
)

func newTestListings(t *testing.T) *Listings[string] {
	t.Helper()
	service, err := cache.NewCacheService(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	return NewListings[string]("post", service, cache.NewDefaultKeySerializer())
}

func TestListingsKeyByFilterValues(t *testing.T) {
	ctx := context.Background()
	lists := newTestListings(t)

	calls := 0
	fetch := func(status string) Fetch[string] {
		return func(context.Context) ([]string, error) {
			calls++
			return []string{status}, nil
		}
	}

	for range 2 {
		for _, status := range []string{"published", "draft"} {
			got, err := lists.Get(ctx, fetch(status), status, 10)
			if err != nil {
				t.Fatalf("get %s: %v", status, err)
			}
			if len(got) != 1 || got[0] != status {
				t.Fatalf("filter %s served %v", status, got)
			}
		}
	}
	if calls != 2 {
		t.Fatalf("expected one fetch per filter set, got %d", calls)
	}
	if lists.Key("published", 10) == lists.Key("published", 1000) {
		t.Fatal("expected limit to be part of the key")
	}

	if err := lists.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := lists.Get(ctx, fetch("published"), "published", 10); err != nil {
		t.Fatalf("get after invalidate: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected refetch after invalidate, got %d calls", calls)
	}
}

func TestNilListingsAlwaysFetch(t *testing.T) {
	var lists *Listings[string]
	if NewListings[string]("post", nil, nil) != nil {
		t.Fatal("expected nil listings without a cache service")
	}
	calls := 0
	for range 2 {
		if _, err := lists.Get(context.Background(), func(context.Context) ([]string, error) {
			calls++
			return nil, nil
		}); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	if calls != 2 || lists.Key("x") != "" || lists.Invalidate(context.Background()) != nil {
		t.Fatalf("expected pass-through behaviour, got %d calls", calls)
	}
}
