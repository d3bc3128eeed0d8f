package tool

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"taskman/internal/logger"
)

// fakeLister serves canned descriptors and counts fetches
type fakeLister struct {
	tools []Descriptor
	err   error
	calls int
}

func (f *fakeLister) ListTools(ctx context.Context) ([]Descriptor, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tools, nil
}

func newTestCache(lister Lister, ttl time.Duration) (*Cache, *time.Time) {
	cache := NewCache(lister, ttl, logger.NewLogger(io.Discard, logger.LevelError))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestCache_StaticSchemaNeverFetches(t *testing.T) {
	lister := &fakeLister{tools: []Descriptor{{Name: "list_tasks"}}}
	cache, _ := newTestCache(lister, 300*time.Second)

	schema := cache.GetSchema(context.Background(), false, false)
	if schema.Source != SourceStatic {
		t.Errorf("Expected static schema, got %s", schema.Source)
	}
	if lister.calls != 0 {
		t.Errorf("Static mode should not fetch, got %d calls", lister.calls)
	}
}

func TestCache_FreshnessTransitions(t *testing.T) {
	lister := &fakeLister{tools: []Descriptor{{Name: "list_tasks"}}}
	cache, now := newTestCache(lister, 300*time.Second)

	if got := cache.Freshness(); got != FreshnessFailed {
		t.Errorf("Empty cache should be failed, got %s", got)
	}

	schema := cache.GetSchema(context.Background(), true, false)
	if schema.Source != SourceDynamic {
		t.Fatalf("Expected dynamic schema, got %s", schema.Source)
	}
	if got := cache.Freshness(); got != FreshnessFresh {
		t.Errorf("Just-fetched cache should be fresh, got %s", got)
	}

	*now = now.Add(61 * time.Second)
	if got := cache.Freshness(); got != FreshnessCached {
		t.Errorf("At t0+61s cache should be cached, got %s", got)
	}

	// Within TTL no re-fetch happens
	cache.GetSchema(context.Background(), true, false)
	if lister.calls != 1 {
		t.Errorf("Cached schema should be served without re-fetch, got %d calls", lister.calls)
	}

	*now = now.Add(240 * time.Second) // t0+301s
	if got := cache.Freshness(); got != FreshnessStale {
		t.Errorf("Past TTL cache should be stale, got %s", got)
	}

	// A non-forced call past TTL triggers a re-fetch
	cache.GetSchema(context.Background(), true, false)
	if lister.calls != 2 {
		t.Errorf("Stale schema should trigger re-fetch, got %d calls", lister.calls)
	}
	if got := cache.Freshness(); got != FreshnessFresh {
		t.Errorf("Cache should be fresh right after re-fetch, got %s", got)
	}
}

func TestCache_ForceRefresh(t *testing.T) {
	lister := &fakeLister{tools: []Descriptor{{Name: "list_tasks"}}}
	cache, _ := newTestCache(lister, 300*time.Second)

	cache.GetSchema(context.Background(), true, false)
	cache.GetSchema(context.Background(), true, true)
	if lister.calls != 2 {
		t.Errorf("Force refresh should bypass the cache, got %d calls", lister.calls)
	}
}

func TestCache_FetchFailureFallsBackToStatic(t *testing.T) {
	lister := &fakeLister{tools: []Descriptor{{Name: "list_tasks"}}}
	cache, now := newTestCache(lister, 300*time.Second)

	fetched := cache.GetSchema(context.Background(), true, false)

	// Later fetches fail; the stale cache entry must survive
	*now = now.Add(400 * time.Second)
	lister.err = fmt.Errorf("connection refused")

	schema := cache.GetSchema(context.Background(), true, false)
	if schema.Source != SourceStatic {
		t.Errorf("Failed fetch should fall back to static schema, got %s", schema.Source)
	}
	if cache.schema != fetched {
		t.Error("Failed fetch should leave the cached schema untouched")
	}
	if got := cache.Freshness(); got != FreshnessStale {
		t.Errorf("Cache freshness should still derive from the old fetch, got %s", got)
	}
}
