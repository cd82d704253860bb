package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"guard-analytics/internal/controllers"
	"guard-analytics/internal/repositories"
	"guard-analytics/internal/services"
	"guard-analytics/pkg/filestorage"
)

func runUploadRouter(
	group *echo.Group,
	exportRepo repositories.ExportRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	dashboardService services.DashboardServiceInterface,
	logger *zap.Logger,
) {
	uploadController := controllers.NewUploadController(exportRepo, fileStorage, dashboardService, logger)

	group.POST("/exports/:kind", uploadController.UploadExport)
}
