package validation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"guard-analytics/config"
)

const ReportDateLayout = "2006-01-02"

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("report_date", isReportDate); err != nil {
		return err
	}
	if err := v.RegisterValidation("export_kind", isExportKind); err != nil {
		return err
	}
	return nil
}

// isReportDate - календарная дата вида 2024-05-01
func isReportDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(ReportDateLayout, fl.Field().String())
	return err == nil
}

// isExportKind - тип выгрузки, для которого есть правила загрузки
func isExportKind(fl validator.FieldLevel) bool {
	_, ok := config.UploadContexts[config.UploadContextFor(fl.Field().String())]
	return ok
}
