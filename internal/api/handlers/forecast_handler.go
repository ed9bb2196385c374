package handlers

import (
	"net/http"

	"github.com/andresuchdata/stockcash/internal/service"
	"github.com/gin-gonic/gin"
)

type ForecastHandler struct {
	forecasts *service.ForecastService
	dashboard *service.DashboardService
}

func NewForecastHandler(forecasts *service.ForecastService, dashboard *service.DashboardService) *ForecastHandler {
	return &ForecastHandler{forecasts: forecasts, dashboard: dashboard}
}

// GetForecast returns the cash forecast for the requested horizons (default 30, 60, 90)
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	periods, err := parsePeriods(c)
	if err != nil {
		respondError(c, err, "failed to fetch forecast")
		return
	}

	forecast, err := h.forecasts.GetForecast(c.Request.Context(), periods)
	if err != nil {
		respondError(c, err, "failed to fetch forecast")
		return
	}
	c.JSON(http.StatusOK, forecast)
}

// GetDashboard returns the executive dashboard
func (h *ForecastHandler) GetDashboard(c *gin.Context) {
	locationID, err := parseOptionalID(c, "location_id")
	if err != nil {
		respondError(c, err, "failed to fetch dashboard")
		return
	}

	dashboard, err := h.dashboard.Executive(c.Request.Context(), locationID)
	if err != nil {
		respondError(c, err, "failed to fetch dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
