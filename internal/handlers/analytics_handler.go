package handlers

import (
	"net/http"

	"paradise-vista/internal/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GetDailyVisits returns visits per day
// @Summary Daily visits
// @Description Visits per UTC day for the last N days, missing days filled with zero
// @Tags analytics
// @Produce json
// @Param days query int false "Number of days" default(7)
// @Success 200 {object} services.DailyVisits
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/analytics/daily [get]
func (h *AnalyticsHandler) GetDailyVisits(c *gin.Context) {
	result, err := h.analytics.Daily(c.Request.Context(), queryInt(c, "days", 7))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTopRegions returns the regions with most visits
// @Summary Top regions
// @Tags analytics
// @Produce json
// @Param days query int false "Number of days" default(30)
// @Param limit query int false "Number of regions" default(10)
// @Success 200 {object} services.RegionReport
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/analytics/regions [get]
func (h *AnalyticsHandler) GetTopRegions(c *gin.Context) {
	result, err := h.analytics.Regions(c.Request.Context(), queryInt(c, "days", 30), queryInt(c, "limit", 10))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSummary returns the dashboard totals
// @Summary Analytics summary
// @Description Total visits, visits today, distinct pages and reservations by status
// @Tags analytics
// @Produce json
// @Success 200 {object} services.AnalyticsSummary
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	result, err := h.analytics.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
