package utils

import (
	"errors"
	"net/http"

	apperrors "guard-analytics/pkg/errors"
)

// ErrorList сопоставляет доменные ошибки HTTP-кодам. Порядок важен: первая совпавшая побеждает.
var ErrorList = []struct {
	Err  error
	Code int
}{
	{apperrors.ErrBadRequest, http.StatusBadRequest},
	{apperrors.ErrUnknownExportKind, http.StatusBadRequest},
	{apperrors.ErrNotFound, http.StatusNotFound},
	{apperrors.ErrSourceNotWritable, http.StatusConflict},
	{apperrors.ErrMalformedExport, http.StatusBadGateway},
	{apperrors.ErrSourceUnavailable, http.StatusBadGateway},
}

func statusFor(err error) (int, bool) {
	for _, item := range ErrorList {
		if errors.Is(err, item.Err) {
			return item.Code, true
		}
	}
	return 0, false
}
