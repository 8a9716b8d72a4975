package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Details any    `json:"details,omitempty"`
}

// Root answers GET / with a plain liveness message.
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Server Up and Running")
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "alive"})
}

// ReadinessCheck pings the store.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		log.Printf("readiness: store ping failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:  "degraded",
			Details: map[string]any{"db": "unreachable"},
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ready",
		Details: map[string]any{"db": "ok"},
	})
}
