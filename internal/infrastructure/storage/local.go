package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/qingping857/Blind-date-platform/internal/config"
)

// PhotoStorage persists uploaded photos and returns a URL by which the
// presentation layer can reference them.
type PhotoStorage interface {
	SavePhoto(ctx context.Context, originalName string, r io.Reader) (string, error)
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type LocalStorage struct {
	basePath string
	baseURL  string
}

func NewLocalStorage(cfg *config.StorageConfig) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{
		basePath: cfg.Path,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// SavePhoto stores the photo under a random name, keeping the extension.
func (s *LocalStorage) SavePhoto(_ context.Context, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported photo format: %q", ext)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.basePath, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write photo: %w", err)
	}

	return s.baseURL + "/" + name, nil
}
