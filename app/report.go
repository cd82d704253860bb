package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"guard-analytics/internal/repositories"
	"guard-analytics/internal/services"
	"guard-analytics/pkg/config"
	applogger "guard-analytics/pkg/logger"
	"guard-analytics/pkg/validation"
)

var (
	reportDate           string
	reportOut            string
	reportIncludeActOnly bool
)

var reportCmd = &cobra.Command{
	Use:     "report",
	Short:   "Рассчитать дашборд за дату и вывести JSON или сохранить xlsx",
	Example: `  guard-analytics report --date 2024-05-01
  guard-analytics report --date 2024-05-01 --out dashboard.xlsx`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "дата YYYY-MM-DD (по умолчанию DEFAULT_DATE)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "путь к xlsx; без флага JSON печатается в stdout")
	reportCmd.Flags().BoolVar(&reportIncludeActOnly, "include-activity-only", false, "строить профили охранников, которых нет в attendance")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	logger := applogger.NewLogger(config.LogConfig{Level: "warn", File: cfg.Log.File})
	defer logger.Sync()

	date := cfg.Analytics.DefaultDate
	if cmd.Flags().Changed("date") {
		date = reportDate
	}
	if date != "" {
		if _, err := time.Parse(validation.ReportDateLayout, date); err != nil {
			return fmt.Errorf("неверная дата '%s', ожидается YYYY-MM-DD", date)
		}
	}
	if cmd.Flags().Changed("include-activity-only") {
		cfg.Analytics.IncludeActivityOnlyGuards = reportIncludeActOnly
	}

	exportRepo := repositories.NewExportRepository(cfg.Sources, logger)
	dashboardService := services.NewDashboardService(exportRepo, nil, cfg.Analytics, logger)
	defer dashboardService.Close()

	dashboard, err := dashboardService.Build(cmd.Context(), date)
	if err != nil {
		logger.Error("Не удалось рассчитать дашборд", zap.Error(err))
		return err
	}

	if reportOut == "" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(dashboard)
	}

	f, err := services.BuildWorkbook(*dashboard)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(reportOut); err != nil {
		return fmt.Errorf("не удалось сохранить %s: %w", reportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Отчет сохранен: %s\n", reportOut)
	return nil
}
