package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"guard-analytics/internal/listeners"
	"guard-analytics/internal/repositories"
	"guard-analytics/internal/routes"
	"guard-analytics/internal/services"
	"guard-analytics/internal/watch"
	"guard-analytics/pkg/config"
	"guard-analytics/pkg/eventbus"
	"guard-analytics/pkg/filestorage"
	applogger "guard-analytics/pkg/logger"
	"guard-analytics/pkg/middleware"
	"guard-analytics/pkg/validation"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP API дашборда",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New(logger.Named("eventbus"))
	listeners.NewDigestListener(logger).Register(bus)

	exportRepo := repositories.NewExportRepository(cfg.Sources, logger)
	dashboardService := services.NewDashboardService(exportRepo, bus, cfg.Analytics, logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.Use(middleware.Recover(logger))
	e.Use(middleware.RequestLogger(logger.Named("http")))
	e.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	routes.InitRouter(e, routes.Deps{
		DashboardService: dashboardService,
		ExportRepo:       exportRepo,
		FileStorage:      filestorage.NewLocalFileStorage(),
		Config:           cfg,
	}, logger)

	var localSources []string
	for _, kind := range []repositories.ExportKind{repositories.ExportActivity, repositories.ExportAttendance} {
		if path, ok := exportRepo.LocalPath(kind); ok {
			localSources = append(localSources, path)
		}
	}
	watcher := watch.New(cfg.Watch, localSources, dashboardService, logger)
	if err := watcher.Start(ctx); err != nil {
		logger.Warn("Слежение за выгрузками не запущено", zap.Error(err))
	}

	// Первый расчет сразу после старта, чтобы /state не был пустым.
	dashboardService.Reload(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	stop()
	dashboardService.Close()
	<-watcher.Done()
	bus.Wait()

	if err != nil {
		logger.Error("Ошибка работы сервера", zap.Error(err))
		return err
	}
	logger.Info("Сервер остановлен")
	return nil
}
