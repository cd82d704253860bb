package dto

import "github.com/aarondl/null/v8"

// DashboardQueryDTO - параметры GET-запросов дашборда.
type DashboardQueryDTO struct {
	Date   string `query:"date" validate:"omitempty,report_date"`
	Search string `query:"search" validate:"omitempty,max=100"`
}

// SelectDateDTO - тело POST /api/dashboard/select. Без даты берется дата по умолчанию.
type SelectDateDTO struct {
	Date null.String `json:"date" validate:"omitempty,report_date"`
}

type GenerationDTO struct {
	Generation uint64 `json:"generation"`
}

type UploadParamsDTO struct {
	Kind string `param:"kind" validate:"required,export_kind"`
}

type UploadResultDTO struct {
	Kind       string `json:"kind"`
	FileName   string `json:"file_name"`
	Size       int64  `json:"size"`
	Rows       int    `json:"rows"`
	Generation uint64 `json:"generation"`
}
