package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCooks returns the active cooks
// GET /api/cooks
func (h *Handler) GetCooks(c *gin.Context) {
	cooks, err := h.Catalog.AllCooks(c.Request.Context())
	if err != nil {
		h.Log.Error("failed to fetch cooks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cooks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cooks": cooks,
		"count": len(cooks),
	})
}

// GetCookWorkloads returns every cook's booked minutes, busiest first
// GET /api/cooks/workload
func (h *Handler) GetCookWorkloads(c *gin.Context) {
	loads := h.Engine.CookWorkloads(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"workloads": loads,
		"count":     len(loads),
	})
}
