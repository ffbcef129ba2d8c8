package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
// It is used when no object storage bucket is configured.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // Where basePath is served, e.g. http://host/uploads
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath returns the directory files are written to
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

func (ls *LocalStorage) physicalPath(key string) string {
	return filepath.Join(ls.basePath, filepath.FromSlash(key))
}

// Save writes the uploaded file to <basePath>/<prefix>/<uuid><ext>
func (ls *LocalStorage) Save(ctx context.Context, fileHeader *multipart.FileHeader, prefix string) (*StoredFile, error) {
	if fileHeader == nil {
		return nil, apperrors.ErrFileRequired
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	contentType := DetectContentType(fileHeader, file)
	key := NewKey(prefix, fileHeader.Filename)
	dstPath := ls.physicalPath(key)

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create subdirectory")
		return nil, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("key", key).Msg("File saved successfully")
	return &StoredFile{
		Key:         key,
		URL:         ls.URL(key),
		Filename:    fileHeader.Filename,
		Size:        written,
		ContentType: contentType,
	}, nil
}

// Delete removes a stored file. Deleting a missing file succeeds.
func (ls *LocalStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	key, err := NormalizeKey(key, ls.baseURL)
	if err != nil {
		return err
	}

	physicalPath := ls.physicalPath(key)
	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// PresignGet returns the static URL of an existing file. Local files do not expire.
func (ls *LocalStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if _, err := os.Stat(ls.physicalPath(key)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperrors.ErrFileNotFound
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	return ls.URL(key), nil
}

// URL returns baseURL/key
func (ls *LocalStorage) URL(key string) string {
	if ls.baseURL == "" {
		return "/uploads/" + key
	}
	return ls.baseURL + "/" + key
}
