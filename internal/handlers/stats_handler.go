package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/medsecure/medsecure-api/internal/service"
	"github.com/medsecure/medsecure-api/internal/utils"
)

// StatsHandler serves the dashboard statistics view
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler creates a new stats handler instance
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GetStats handles GET /dashboard/stats
func (h *StatsHandler) GetStats(c *gin.Context) {
	snapshot, err := h.stats.Snapshot(c.Request.Context())
	if err != nil {
		utils.SendInternalServerError(c, "Failed to compute statistics", err.Error())
		return
	}

	utils.SendOKResponse(c, snapshot)
}
