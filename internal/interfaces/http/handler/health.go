package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing connection is alive
type Pinger interface {
	Ping() error
}

// HealthHandler exposes a liveness/readiness probe
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a health handler backed by the database connection
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports service health. Returns 503 if the database is unreachable.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
