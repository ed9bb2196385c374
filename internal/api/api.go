package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/stockcash/internal/api/handlers"
	"github.com/andresuchdata/stockcash/internal/api/middleware"
	"github.com/andresuchdata/stockcash/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const healthPath = "/health"

type Services struct {
	Inventory *service.InventoryService
	Forecasts *service.ForecastService
	POs       *service.POService
	Dashboard *service.DashboardService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(healthPath))
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET(healthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")
	if services == nil {
		return router
	}

	if services.Inventory != nil {
		inventoryHandler := handlers.NewInventoryHandler(services.Inventory)
		apiGroup.GET("/inventory", inventoryHandler.GetInventory)
		apiGroup.GET("/locations", inventoryHandler.GetLocations)
		apiGroup.GET("/suppliers", inventoryHandler.GetSuppliers)
		apiGroup.POST("/analytics/threshold/refresh", inventoryHandler.RefreshThreshold)
	}

	if services.Forecasts != nil {
		forecastHandler := handlers.NewForecastHandler(services.Forecasts, services.Dashboard)
		apiGroup.GET("/cash/forecast", forecastHandler.GetForecast)
		if services.Dashboard != nil {
			apiGroup.GET("/dashboard", forecastHandler.GetDashboard)
		}
	}

	if services.POs != nil && services.Forecasts != nil {
		poHandler := handlers.NewPOHandler(services.POs, services.Forecasts)
		poGroup := apiGroup.Group("/po")
		{
			poGroup.GET("", poHandler.ListPOs)
			poGroup.POST("/suggest", poHandler.SuggestPOs)
			poGroup.GET("/:id", poHandler.GetPO)
			poGroup.POST("/:id/transition", poHandler.TransitionPO)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			switch trimmed {
			case "":
			case "*":
				allowAll = true
			default:
				parsed = append(parsed, trimmed)
			}
		}
	}
	return parsed, allowAll
}
