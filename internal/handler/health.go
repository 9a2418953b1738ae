package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves the root and health-check endpoints
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a health handler reporting the given build version
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Car Advisor API is running!",
		"version": h.version,
		"status":  "healthy",
	})
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "car-advisor",
		"version": h.version,
	})
}
