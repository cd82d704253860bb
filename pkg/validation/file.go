package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"guard-analytics/config"
	apperrors "guard-analytics/pkg/errors"
)

// ValidateFile проверяет размер, расширение и MIME-тип файла.
// contextName - ключ из config.UploadContexts (например, "activity_export")
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, contextName string) error {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return fmt.Errorf("%w: неизвестный контекст загрузки '%s'", apperrors.ErrBadRequest, contextName)
	}

	if rules.MaxSizeMB > 0 {
		maxSizeBytes := rules.MaxSizeMB * 1024 * 1024
		if fileHeader.Size > maxSizeBytes {
			return fmt.Errorf("%w: размер файла (%.2f MB) превышает лимит в %d MB",
				apperrors.ErrBadRequest, float64(fileHeader.Size)/1024/1024, rules.MaxSizeMB)
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if len(rules.AllowedExtensions) > 0 && !slices.Contains(rules.AllowedExtensions, ext) {
		return fmt.Errorf("%w: недопустимое расширение файла '%s'", apperrors.ErrBadRequest, ext)
	}

	// Тип определяем по содержимому, а не по имени.
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return fmt.Errorf("%w: ошибка чтения файла", apperrors.ErrBadRequest)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("ошибка обработки файла: %w", err)
	}

	// xlsx без [Content_Types].xml в начале архива распознается только как zip.
	if ext == ".xlsx" && mtype.Is("application/zip") {
		return nil
	}
	if !isAllowed(mtype, rules.AllowedMimeTypes) {
		return fmt.Errorf("%w: недопустимый формат файла: %s", apperrors.ErrBadRequest, mtype.String())
	}
	return nil
}

// isAllowed поднимается по иерархии типов: text/csv -> text/plain, xlsx -> zip.
func isAllowed(mtype *mimetype.MIME, allowed []string) bool {
	for m := mtype; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}
