package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is anything whose connectivity can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	database Pinger
	cache    Pinger
	storage  Pinger
	version  string
	started  time.Time
	timeout  time.Duration
}

// NewHealthHandlers creates a new health handlers instance. cache and storage may be nil
// when those backends are not configured.
func NewHealthHandlers(database, cache, storage Pinger, version string) *HealthHandlers {
	return &HealthHandlers{
		database: database,
		cache:    cache,
		storage:  storage,
		version:  version,
		started:  time.Now(),
		timeout:  3 * time.Second,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// HealthCheck godoc
// @Summary      Dependency health
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthStatus
// @Failure      503  {object}  HealthStatus
// @Router       /health [get]
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	}

	for name, p := range map[string]Pinger{"database": h.database, "redis": h.cache, "storage": h.storage} {
		switch {
		case p == nil:
			health.Services[name] = "disabled"
		case p.Ping(ctx) != nil:
			health.Services[name] = "unhealthy"
			health.Status = "degraded"
		default:
			health.Services[name] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}

// LivenessCheck reports that the process is serving requests
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
