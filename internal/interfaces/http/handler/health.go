package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"github.com/shopsight/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthResponse reports the state of each dependency
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Uptime string            `json:"uptime"`
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	database  HealthCheck
	ready     map[string]HealthCheck
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler. The database check backs
// both probes; extra checks only gate readiness.
func NewHealthHandler(database HealthCheck, extra map[string]HealthCheck) *HealthHandler {
	ready := map[string]HealthCheck{"database": database}
	for name, check := range extra {
		ready[name] = check
	}
	return &HealthHandler{
		database:  database,
		ready:     ready,
		startTime: time.Now(),
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	h.respond(c, map[string]HealthCheck{"database": h.database})
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	h.respond(c, h.ready)
}

func (h *HealthHandler) respond(c *gin.Context, checks map[string]HealthCheck) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{
		Status: "healthy",
		Checks: make(map[string]string, len(checks)),
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	}
	for _, name := range names {
		if err := checks[name](ctx); err != nil {
			logger.L(ctx).Warn("Health check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = "down"
			resp.Status = "unhealthy"
			continue
		}
		resp.Checks[name] = "up"
	}

	if resp.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, dto.Response{OK: false, Data: resp})
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
