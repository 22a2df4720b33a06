package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/server/internal/api/middleware"
)

// ReadinessCheck reports whether a dependency of the server is reachable.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler handles the probe endpoints.
type HealthHandler struct {
	ready ReadinessCheck
	now   func() time.Time
}

// NewHealthHandler returns a HealthHandler. A nil ready check always passes.
func NewHealthHandler(ready ReadinessCheck) *HealthHandler {
	return &HealthHandler{ready: ready, now: time.Now}
}

// Liveness handles GET /health/live. It answers 200 while the process serves HTTP.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

// Readiness handles GET /health/ready.
//
// It answers 503 when the Kubernetes API cannot be reached, so the pod is
// taken out of the service until the connection comes back.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			middleware.GetLogger(c).Warn("readiness check failed", zap.Error(err))
			respondError(c, http.StatusServiceUnavailable, "unhealthy", "Kubernetes API unavailable")
			return
		}
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "ready",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}
