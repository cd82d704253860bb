package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"guard-analytics/internal/controllers"
	"guard-analytics/internal/services"
)

func runDashboardRouter(
	group *echo.Group,
	dashboardService services.DashboardServiceInterface,
	defaultDate string,
	logger *zap.Logger,
) {
	ctrl := controllers.NewDashboardController(dashboardService, defaultDate, logger)

	group.GET("/health", ctrl.Health)

	dashboard := group.Group("/dashboard")
	dashboard.GET("", ctrl.GetDashboard)
	dashboard.GET("/hourly", ctrl.GetHourly)
	dashboard.GET("/guards", ctrl.GetGuards)
	dashboard.GET("/locations", ctrl.GetLocations)
	dashboard.GET("/compliance", ctrl.GetCompliance)
	dashboard.GET("/export", ctrl.ExportDashboard)
	dashboard.POST("/select", ctrl.SelectDate)
	dashboard.GET("/state", ctrl.GetState)
}
