package controllers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"guard-analytics/config"
	"guard-analytics/internal/dto"
	"guard-analytics/internal/importer"
	"guard-analytics/internal/repositories"
	"guard-analytics/internal/services"
	apperrors "guard-analytics/pkg/errors"
	"guard-analytics/pkg/filestorage"
	"guard-analytics/pkg/utils"
	"guard-analytics/pkg/validation"
)

type UploadController struct {
	exportRepo       repositories.ExportRepositoryInterface
	fileStorage      filestorage.FileStorageInterface
	dashboardService services.DashboardServiceInterface
	logger           *zap.Logger
}

func NewUploadController(
	exportRepo repositories.ExportRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	dashboardService services.DashboardServiceInterface,
	logger *zap.Logger,
) *UploadController {
	return &UploadController{
		exportRepo:       exportRepo,
		fileStorage:      fileStorage,
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// UploadExport заменяет локальный файл выгрузки и запускает пересчет.
func (ctrl *UploadController) UploadExport(c echo.Context) error {
	params := dto.UploadParamsDTO{Kind: strings.ToLower(c.Param("kind"))}
	if err := c.Validate(&params); err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusBadRequest, "Неизвестный тип выгрузки", apperrors.ErrUnknownExportKind,
				map[string]interface{}{"kind": c.Param("kind")}),
			ctrl.logger,
		)
	}
	kind := repositories.ExportKind(params.Kind)

	target, ok := ctrl.exportRepo.LocalPath(kind)
	if !ok {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusConflict, "Источник выгрузки не является локальным файлом", apperrors.ErrSourceNotWritable, nil),
			ctrl.logger,
		)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusBadRequest, "Файл не был передан", apperrors.ErrBadRequest, nil),
			ctrl.logger,
		)
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), filepath.Ext(target)) {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusBadRequest, "Формат файла должен совпадать с источником", apperrors.ErrBadRequest,
				map[string]interface{}{"expected": filepath.Ext(target)}),
			ctrl.logger,
		)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка обработки файла", err, nil),
			ctrl.logger,
		)
	}
	defer src.Close()

	if err := validation.ValidateFile(fileHeader, src, config.UploadContextFor(params.Kind)); err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusBadRequest, err.Error(), apperrors.ErrBadRequest, nil),
			ctrl.logger,
		)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusInternalServerError, "Ошибка чтения файла", err, nil),
			ctrl.logger,
		)
	}

	// Битый файл не должен заменить рабочую выгрузку.
	rows, err := importer.DecodeRows(fileHeader.Filename, data)
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusBadRequest, err.Error(), apperrors.ErrMalformedExport, nil),
			ctrl.logger,
		)
	}

	if err := ctrl.fileStorage.Replace(bytes.NewReader(data), target); err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusInternalServerError, "Не удалось сохранить выгрузку", err, nil),
			ctrl.logger,
		)
	}

	gen := ctrl.dashboardService.Reload(c.Request().Context())
	ctrl.logger.Info("Выгрузка заменена",
		zap.String("kind", params.Kind),
		zap.String("target", target),
		zap.Int64("size", fileHeader.Size),
		zap.Int("rows", len(rows)),
		zap.Uint64("generation", gen),
	)

	return utils.SuccessResponse(c, dto.UploadResultDTO{
		Kind:       params.Kind,
		FileName:   fileHeader.Filename,
		Size:       fileHeader.Size,
		Rows:       len(rows),
		Generation: gen,
	}, "Выгрузка загружена", http.StatusAccepted)
}
