package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallerp/backend/internal/infrastructure/logger"
	"github.com/smallerp/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// SystemHandler serves health and build information
type SystemHandler struct {
	BaseHandler
	version   string
	startTime time.Time
	checks    map[string]HealthCheck
}

// NewSystemHandler creates a new SystemHandler. Checks are keyed by
// component name, e.g. "database" or "redis".
func NewSystemHandler(version string, checks map[string]HealthCheck) *SystemHandler {
	if checks == nil {
		checks = map[string]HealthCheck{}
	}
	return &SystemHandler{
		version:   version,
		startTime: time.Now(),
		checks:    checks,
	}
}

// HealthResponse represents the health check result
type HealthResponse struct {
	Status     string            `json:"status" example:"healthy"`
	Time       string            `json:"time" example:"2026-01-23T12:00:00Z"`
	Version    string            `json:"version" example:"1.0.0"`
	GoVersion  string            `json:"go_version" example:"go1.25.5"`
	Uptime     string            `json:"uptime" example:"1h30m45s"`
	Components map[string]string `json:"components"`
}

// Health godoc
// @Summary      Health check
// @Description  Probes every registered component. 503 when any of them fails.
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      503 {object} dto.Response{data=HealthResponse}
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{
		Status:     "healthy",
		Time:       time.Now().UTC().Format(time.RFC3339),
		Version:    h.version,
		GoVersion:  runtime.Version(),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Components: make(map[string]string, len(names)),
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.L(c.Request.Context()).Warn("Health check failed",
				zap.String("component", name),
				zap.Error(err),
			)
			resp.Components[name] = "error"
			resp.Status = "unhealthy"
			continue
		}
		resp.Components[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}
