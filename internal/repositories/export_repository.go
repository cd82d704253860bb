package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"guard-analytics/pkg/config"
	apperrors "guard-analytics/pkg/errors"
)

type ExportKind string

const (
	ExportActivity   ExportKind = "activity"
	ExportAttendance ExportKind = "attendance"
)

// ParseExportKind разбирает имя выгрузки из URL/CLI.
func ParseExportKind(s string) (ExportKind, error) {
	switch ExportKind(strings.ToLower(strings.TrimSpace(s))) {
	case ExportActivity:
		return ExportActivity, nil
	case ExportAttendance:
		return ExportAttendance, nil
	}
	return "", fmt.Errorf("%w: '%s'", apperrors.ErrUnknownExportKind, s)
}

// Export - сырые байты одной выгрузки и имя, по которому определяется формат.
type Export struct {
	Kind ExportKind
	Name string
	Data []byte
}

type ExportRepositoryInterface interface {
	Fetch(ctx context.Context, kind ExportKind) (Export, error)
	// LocalPath возвращает путь к файлу, если источник выгрузки - локальный файл.
	LocalPath(kind ExportKind) (string, bool)
}

type ExportRepository struct {
	sources    map[ExportKind]string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewExportRepository(cfg config.SourcesConfig, logger *zap.Logger) ExportRepositoryInterface {
	return &ExportRepository{
		sources: map[ExportKind]string{
			ExportActivity:   cfg.Activity,
			ExportAttendance: cfg.Attendance,
		},
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Named("export_repository"),
	}
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (r *ExportRepository) source(kind ExportKind) (string, error) {
	src, ok := r.sources[kind]
	if !ok {
		return "", fmt.Errorf("%w: '%s'", apperrors.ErrUnknownExportKind, kind)
	}
	if src == "" {
		return "", fmt.Errorf("%w: источник '%s' не настроен", apperrors.ErrSourceUnavailable, kind)
	}
	return src, nil
}

func (r *ExportRepository) LocalPath(kind ExportKind) (string, bool) {
	src, err := r.source(kind)
	if err != nil || isRemote(src) {
		return "", false
	}
	return src, true
}

func (r *ExportRepository) Fetch(ctx context.Context, kind ExportKind) (Export, error) {
	src, err := r.source(kind)
	if err != nil {
		return Export{}, err
	}

	start := time.Now()
	var data []byte
	var name string
	if isRemote(src) {
		data, err = r.fetchRemote(ctx, src)
		name = path.Base(strings.SplitN(src, "?", 2)[0])
	} else {
		data, err = r.fetchFile(ctx, src)
		name = filepath.Base(src)
	}
	if err != nil {
		r.logger.Warn("Не удалось получить выгрузку",
			zap.String("kind", string(kind)),
			zap.String("source", src),
			zap.Error(err),
		)
		return Export{}, err
	}

	r.logger.Debug("Выгрузка получена",
		zap.String("kind", string(kind)),
		zap.String("source", src),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return Export{Kind: kind, Name: name, Data: data}, nil
}

func (r *ExportRepository) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка создания GET-запроса: %v", apperrors.ErrSourceUnavailable, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: ошибка выполнения GET-запроса '%s': %v", apperrors.ErrSourceUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: '%s' вернул статус: %s", apperrors.ErrSourceUnavailable, url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка чтения ответа '%s': %v", apperrors.ErrSourceUnavailable, url, err)
	}
	return data, nil
}

func (r *ExportRepository) fetchFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: файл '%s' не найден", apperrors.ErrSourceUnavailable, name)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSourceUnavailable, err)
	}
	return data, nil
}
