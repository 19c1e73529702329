package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/codewithsuzan/Momento/config"
	"github.com/codewithsuzan/Momento/internal/util"

	"go.uber.org/zap"
)

// LocalStorage keeps uploads on disk under basePath, served via /uploads.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) UploadFile(file *multipart.FileHeader, key string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	fullPath := filepath.Join(s.basePath, key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	util.Logger.Info("file stored", zap.String("path", fullPath))
	return key, nil
}

func (s *LocalStorage) DeleteFile(key string) error {
	fullPath := filepath.Join(s.basePath, key)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	util.Logger.Info("file deleted", zap.String("path", fullPath))
	return nil
}

func (s *LocalStorage) PresignUpload(key, contentType string) (string, error) {
	return "", ErrPresignUnsupported
}

func (s *LocalStorage) FileURL(key string) string {
	return config.AppConfig.BackendURL + "/uploads/" + key
}
