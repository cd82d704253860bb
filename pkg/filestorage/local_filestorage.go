package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type FileStorageInterface interface {
	// Replace атомарно подменяет файл target содержимым file.
	Replace(file io.Reader, target string) error
}

type LocalFileStorage struct{}

func NewLocalFileStorage() FileStorageInterface {
	return &LocalFileStorage{}
}

// Replace пишет во временный файл рядом с target и переименовывает его.
// Читатель target видит либо старое, либо новое содержимое целиком.
func (s *LocalFileStorage) Replace(file io.Reader, target string) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("не удалось создать директорию: %w", err)
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".upload-%s%s", uuid.New().String(), filepath.Ext(target)))
	dst, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	if _, err = io.Copy(dst, file); err == nil {
		err = dst.Sync()
	}
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
