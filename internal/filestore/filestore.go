// Package filestore сохраняет загруженные файлы на диск.
// Наружу отдаётся только токен — имя сохранённого файла; само содержимое
// в документ отправки не попадает.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileStore пишет файлы в заданный каталог.
type FileStore struct {
	Dir    string
	Logger *zap.Logger
}

// New создаёт FileStore и каталог загрузок, если его ещё нет.
func New(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &FileStore{Dir: dir, Logger: logger}, nil
}

// sanitizeName отрезает путь и заменяет пробелы, оставляя расширение.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "file"
	}
	return name
}

// Save сохраняет поток на диск и возвращает имя сохранённого файла
// вида <unix-ms>-<исходное имя>.
func (fs *FileStore) Save(src io.Reader, originalName string) (string, error) {
	stored := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeName(originalName))

	dst, err := os.Create(filepath.Join(fs.Dir, stored))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	fs.Logger.Info("Файл сохранён", zap.String("stored", stored))
	return stored, nil
}

// Open открывает сохранённый файл по его токену.
func (fs *FileStore) Open(stored string) (*os.File, error) {
	// Токен не должен выводить за пределы каталога загрузок.
	if stored != filepath.Base(stored) {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(fs.Dir, stored))
}
