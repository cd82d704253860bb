package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"guard-analytics/internal/repositories"
	"guard-analytics/internal/services"
	"guard-analytics/pkg/config"
	"guard-analytics/pkg/filestorage"
)

// Deps - собранные в main компоненты, которые нужны маршрутам.
type Deps struct {
	DashboardService services.DashboardServiceInterface
	ExportRepo       repositories.ExportRepositoryInterface
	FileStorage      filestorage.FileStorageInterface
	Config           *config.Config
}

func InitRouter(e *echo.Echo, deps Deps, logger *zap.Logger) {
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")

	runDashboardRouter(api, deps.DashboardService, deps.Config.Analytics.DefaultDate, logger.Named("dashboard"))
	runUploadRouter(api, deps.ExportRepo, deps.FileStorage, deps.DashboardService, logger.Named("upload"))

	logger.Info("InitRouter: Создание маршрутов завершено")
}
