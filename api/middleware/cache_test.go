package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeResponseCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeResponseCache() *fakeResponseCache {
	return &fakeResponseCache{values: map[string]string{}}
}

func (f *fakeResponseCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("cache miss")
}

func (f *fakeResponseCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeResponseCache) CacheKey(scope, id string) string {
	return "mechshop:cache:" + scope + ":" + id
}

func (f *fakeResponseCache) DelPrefix(_ context.Context, scope string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := "mechshop:cache:" + scope + ":"
	for key := range f.values {
		if strings.HasPrefix(key, prefix) {
			delete(f.values, key)
		}
	}
	return nil
}

func TestCacheResponseServesSecondRequestFromCache(t *testing.T) {
	cache := newFakeResponseCache()
	calls := 0
	handler := CacheResponse(cache, "tickets", time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"tickets":[]}}`))
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets?limit=10", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != `{"data":{"tickets":[]}}` {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
}

func TestCacheResponseSkipsNonGET(t *testing.T) {
	cache := newFakeResponseCache()
	calls := 0
	handler := CacheResponse(cache, "tickets", time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}
	if calls != 2 {
		t.Fatalf("expected handler to run twice, ran %d times", calls)
	}
	if len(cache.values) != 0 {
		t.Fatalf("nothing should be cached for writes")
	}
}

func TestInvalidateCacheDropsScopeAfterWrite(t *testing.T) {
	cache := newFakeResponseCache()
	cache.values[cache.CacheKey("tickets", "abc")] = "stale"
	cache.values[cache.CacheKey("customers", "def")] = "fresh"

	handler := InvalidateCache(cache, nil, "tickets")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if _, ok := cache.values[cache.CacheKey("tickets", "abc")]; ok {
		t.Fatal("tickets scope should have been invalidated")
	}
	if _, ok := cache.values[cache.CacheKey("customers", "def")]; !ok {
		t.Fatal("other scopes must survive")
	}
}

func TestInvalidateCacheKeepsScopeOnFailure(t *testing.T) {
	cache := newFakeResponseCache()
	cache.values[cache.CacheKey("tickets", "abc")] = "stale"

	handler := InvalidateCache(cache, nil, "tickets")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if _, ok := cache.values[cache.CacheKey("tickets", "abc")]; !ok {
		t.Fatal("failed writes must not invalidate the cache")
	}
}
