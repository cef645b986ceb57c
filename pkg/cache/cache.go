// Package cache provides a Redis backed read-through cache for JSON GET
// responses, invalidated wholesale when the underlying data changes.
package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/pickup-store/pkg/logger"
)

const DefaultTTL = 30 * time.Second

// ResponseCache caches successful GET responses under a key namespace.
// A nil client disables caching; every method is then a no-op.
type ResponseCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

func NewResponseCache(client *redis.Client, namespace string, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{client: client, namespace: namespace, ttl: ttl}
}

// Enabled reports whether a Redis client is configured.
func (c *ResponseCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Ping checks the Redis connection. A disabled cache is always healthy.
func (c *ResponseCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Key derives the cache key of a request within a cache generation.
func (c *ResponseCache) Key(r *http.Request, generation int64) string {
	hash := sha256.Sum256([]byte(r.Method + ":" + r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:g%d:%s", c.namespace, generation, hex.EncodeToString(hash[:]))
}

func (c *ResponseCache) generationKey() string {
	return c.namespace + ":generation"
}

// generation returns the current cache generation; zero until the first
// invalidation.
func (c *ResponseCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Middleware serves cached bodies for GET requests and stores 200 replies.
// A reply is stored under the generation read before the handler ran, so a
// write that invalidates meanwhile makes it unreachable.
func (c *ResponseCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !c.Enabled() || r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		gen, err := c.generation(ctx)
		if err != nil {
			logger.Warn(ctx).Err(err).Msg("Cache unavailable")
			w.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(w, r)
			return
		}
		key := c.Key(r, gen)

		if body, err := c.client.Get(ctx, key).Bytes(); err == nil && len(body) > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}

		w.Header().Set("X-Cache", "MISS")
		rec := &bodyRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.status != http.StatusOK {
			return
		}
		if err := c.client.Set(ctx, key, rec.body.Bytes(), c.ttl).Err(); err != nil {
			logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to cache response")
		}
	})
}

// Invalidate moves the namespace to a new generation. Entries of older
// generations are never read again and expire with their TTL.
func (c *ResponseCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	gen, err := c.client.Incr(ctx, c.generationKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to bump cache generation: %w", err)
	}
	logger.Debug(ctx).Int64("generation", gen).Str("namespace", c.namespace).Msg("Cache invalidated")
	return nil
}

// InvalidateQuietly is Invalidate for callers that cannot act on failure.
func (c *ResponseCache) InvalidateQuietly(ctx context.Context) {
	if err := c.Invalidate(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Cache invalidation failed")
	}
}

type bodyRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *bodyRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
