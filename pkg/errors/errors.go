package errors

import "fmt"

var (
	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")

	// Источники выгрузок
	ErrSourceUnavailable = fmt.Errorf("источник выгрузки недоступен")
	ErrMalformedExport   = fmt.Errorf("некорректный формат выгрузки")
	ErrUnknownExportKind = fmt.Errorf("неизвестный тип выгрузки")
	ErrSourceNotWritable = fmt.Errorf("источник выгрузки не является локальным файлом")
)

// HttpError - ошибка, которую контроллер отдает клиенту как есть.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
