package handlers

import (
	"net/http"

	"tourly/services/loyalty"
	"tourly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatsHandler serves the tourist loyalty read model.
type StatsHandler struct {
	Service loyalty.StatsService
	Logger  *zap.Logger
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(svc loyalty.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{Service: svc, Logger: logger}
}

// TouristStats handles GET /tourist/:id/stats. Stats are recomputed from
// booking and review aggregates on every call.
func (h *StatsHandler) TouristStats(c *gin.Context) {
	stats, err := h.Service.TouristStats(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute stats", err.Error())
		return
	}
	c.JSON(http.StatusOK, stats)
}
