package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"feed-service/internal/scheduler"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	guard *scheduler.RunGuard
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(guard *scheduler.RunGuard) *HealthHandler {
	return &HealthHandler{guard: guard}
}

// Health handles the health check endpoint
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "feed-service",
	})
}

// Ready handles the readiness check endpoint
func (h *HealthHandler) Ready(c *gin.Context) {
	payload := gin.H{
		"status":  "ready",
		"service": "feed-service",
	}
	if h.guard != nil {
		payload["generation"] = h.guard.Stats()
	}
	c.JSON(http.StatusOK, payload)
}
