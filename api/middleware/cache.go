package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/wrenchworks/mechshop-backend/pkg/logger"
	pkgredis "github.com/wrenchworks/mechshop-backend/pkg/redis"
)

const cacheHeader = "X-Cache"

type cacheRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (r *cacheRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *cacheRecorder) Write(p []byte) (int, error) {
	r.buf.Write(p)
	return r.ResponseWriter.Write(p)
}

// CacheResponse serves GET responses from Redis when a fresh copy exists and
// stores successful responses for ttl otherwise. Keys are scoped so writes can
// drop a whole resource family at once.
func CacheResponse(cache pkgredis.ResponseCache, scope string, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cache == nil || ttl <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := cache.CacheKey(scope, requestCacheID(r))
			if cached, err := cache.Get(r.Context(), key); err == nil && cached != "" {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(cacheHeader, "HIT")
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(cached))
				return
			}

			rec := &cacheRecorder{ResponseWriter: w}
			w.Header().Set(cacheHeader, "MISS")
			next.ServeHTTP(rec, r)

			if rec.status != 0 && rec.status != http.StatusOK {
				return
			}
			if err := cache.Set(r.Context(), key, rec.buf.String(), ttl); err != nil && logg != nil {
				logg.Warn(logg.WithField(r.Context(), "cache_key", key), "response cache store failed")
			}
		})
	}
}

// InvalidateCache drops every cached response in scope after a successful
// mutating request.
func InvalidateCache(cache pkgredis.ResponseCache, logg *logger.Logger, scopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cache == nil || len(scopes) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if rec.status >= http.StatusBadRequest {
				return
			}
			for _, scope := range scopes {
				if err := cache.DelPrefix(r.Context(), scope); err != nil && logg != nil {
					logg.Warn(logg.WithField(r.Context(), "cache_scope", scope), "response cache invalidation failed")
				}
			}
		})
	}
}

func requestCacheID(r *http.Request) string {
	sum := sha256.Sum256([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return hex.EncodeToString(sum[:16])
}
