package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/alimomennasab/hate-speech-agent/internal/domain/service"
)

const (
	healthTimeout = 5 * time.Second

	componentOK            = "ok"
	componentNotConfigured = "not configured"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db      *gorm.DB
	redis   *redis.Client
	checker service.HealthChecker
}

// NewHealthHandler creates a new health handler. Any dependency may be nil.
func NewHealthHandler(db *gorm.DB, redis *redis.Client, checker service.HealthChecker) *HealthHandler {
	return &HealthHandler{
		db:      db,
		redis:   redis,
		checker: checker,
	}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Health handles GET /health.
// The moderation service is reported but never marks this process unhealthy.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	components := map[string]string{
		"database":           componentNotConfigured,
		"redis":              componentNotConfigured,
		"moderation_service": componentNotConfigured,
	}
	healthy := true

	if h.db != nil {
		if err := h.pingDB(ctx); err != nil {
			components["database"] = "error: " + err.Error()
			healthy = false
		} else {
			components["database"] = componentOK
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			components["redis"] = "error: " + err.Error()
			healthy = false
		} else {
			components["redis"] = componentOK
		}
	}

	if h.checker != nil {
		if err := h.checker.Health(ctx); err != nil {
			components["moderation_service"] = "error: " + err.Error()
		} else {
			components["moderation_service"] = componentOK
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthStatus{
		Status:     status,
		Components: components,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if h.db != nil {
		if err := h.pingDB(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "database unreachable"})
			return
		}
	}

	if h.checker != nil {
		if err := h.checker.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "moderation service unreachable"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
