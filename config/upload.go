package config

const (
	MimeCSV  = "text/csv"
	MimeText = "text/plain"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type UploadConfig struct {
	AllowedMimeTypes  []string
	AllowedExtensions []string
	MaxSizeMB         int64
}

var exportUpload = UploadConfig{
	AllowedMimeTypes:  []string{MimeCSV, MimeText, MimeXLSX},
	AllowedExtensions: []string{".csv", ".txt", ".xlsx"},
	MaxSizeMB:         50,
}

var UploadContexts = map[string]UploadConfig{
	"activity_export":   exportUpload,
	"attendance_export": exportUpload,
}

// UploadContextFor - ключ правил загрузки для типа выгрузки.
func UploadContextFor(kind string) string {
	return kind + "_export"
}
