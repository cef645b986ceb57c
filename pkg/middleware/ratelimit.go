package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/tair/pickup-store/pkg/httpx"
	"github.com/tair/pickup-store/pkg/logger"
)

// RateLimiter counts requests per client in a sliding window kept in Redis.
type RateLimiter struct {
	redis       *redis.Client
	namespace   string
	maxRequests int
	window      time.Duration
}

// NewRateLimiter returns nil when client is nil so callers can pass the
// result straight into Config.
func NewRateLimiter(client *redis.Client, namespace string, maxRequests int, window time.Duration) *RateLimiter {
	if client == nil || maxRequests <= 0 {
		return nil
	}
	return &RateLimiter{
		redis:       client,
		namespace:   namespace,
		maxRequests: maxRequests,
		window:      window,
	}
}

// Middleware rejects requests over the limit with 429. Redis failures let
// the request through.
func (rl *RateLimiter) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			client := clientIP(r)

			allowed, remaining, reset, err := rl.check(r.Context(), client)
			if err != nil {
				logger.Logger.Error().Err(err).Str("client", client).Msg("Rate limiter error")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if !allowed {
				logger.Logger.Warn().
					Str("client", client).
					Int("limit", rl.maxRequests).
					Msg("Rate limit exceeded")
				retry := time.Until(reset).Round(time.Second)
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
				httpx.RespondJSON(w, http.StatusTooManyRequests, httpx.Response{
					Success: false,
					Error:   fmt.Sprintf("too many requests, try again in %v", retry),
					Code:    "rate_limited",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) check(ctx context.Context, client string) (bool, int, time.Time, error) {
	key := fmt.Sprintf("%s:ratelimit:%s", rl.namespace, client)
	now := time.Now()
	windowStart := now.Add(-rl.window)

	pipe := rl.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	count := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, key, rl.window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	remaining := rl.maxRequests - int(count.Val()) - 1
	if remaining < 0 {
		remaining = 0
	}
	return count.Val() < int64(rl.maxRequests), remaining, now.Add(rl.window), nil
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
