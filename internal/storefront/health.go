package storefront

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/tair/pickup-store/pkg/cache"
	"github.com/tair/pickup-store/pkg/httpx"
	"github.com/tair/pickup-store/pkg/logger"
)

// ComponentHealth is the status of one dependency
type ComponentHealth struct {
	Status    string `json:"status"` // healthy, unhealthy, disabled
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// Health is the body of GET /health
type Health struct {
	Status     string                     `json:"status"` // healthy, unhealthy
	Components map[string]ComponentHealth `json:"components"`
	Uptime     int64                      `json:"uptime_seconds"`
}

// HealthChecker pings the database and the cache
type HealthChecker struct {
	db        *gorm.DB
	cache     *cache.ResponseCache
	startTime time.Time
	timeout   time.Duration
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(db *gorm.DB, responseCache *cache.ResponseCache) *HealthChecker {
	return &HealthChecker{db: db, cache: responseCache, startTime: time.Now(), timeout: 2 * time.Second}
}

func check(ctx context.Context, ping func(context.Context) error) ComponentHealth {
	start := time.Now()
	if err := ping(ctx); err != nil {
		return ComponentHealth{Status: "unhealthy", LatencyMS: time.Since(start).Milliseconds(), Error: err.Error()}
	}
	return ComponentHealth{Status: "healthy", LatencyMS: time.Since(start).Milliseconds()}
}

// Check reports the health of every dependency
func (h *HealthChecker) Check(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	result := Health{
		Status:     "healthy",
		Components: make(map[string]ComponentHealth, 2),
		Uptime:     int64(time.Since(h.startTime).Seconds()),
	}

	result.Components["database"] = check(ctx, func(ctx context.Context) error {
		sqlDB, err := h.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	if h.cache.Enabled() {
		result.Components["cache"] = check(ctx, h.cache.Ping)
	} else {
		result.Components["cache"] = ComponentHealth{Status: "disabled"}
	}

	for name, c := range result.Components {
		if c.Status == "unhealthy" {
			result.Status = "unhealthy"
			logger.Warn(ctx).Str("component", name).Str("error", c.Error).Msg("Health check failed")
		}
	}
	return result
}

// ServeHTTP handles GET /health
func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Check(r.Context())
	if health.Status != "healthy" {
		httpx.RespondJSON(w, http.StatusServiceUnavailable, httpx.Response{
			Success: false,
			Error:   "Service unhealthy",
			Data:    health,
		})
		return
	}
	httpx.RespondData(w, http.StatusOK, "Storefront is healthy", health)
}
