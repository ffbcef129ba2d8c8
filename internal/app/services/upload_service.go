package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/filestorage"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

var uploadPrefixes = map[string]bool{
	filestorage.PrefixLibrary:     true,
	filestorage.PrefixPolicies:    true,
	filestorage.PrefixTemplates:   true,
	filestorage.PrefixMarket:      true,
	filestorage.PrefixNews:        true,
	filestorage.PrefixWorkSystems: true,
	filestorage.PrefixGeneral:     true,
}

// UploadService defines the interface for object storage operations
type UploadService interface {
	Upload(ctx context.Context, fileHeader *multipart.FileHeader, prefix string) (*dto.UploadResponse, error)
	Delete(ctx context.Context, rawKey string) error
	PresignedURL(ctx context.Context, rawKey string) (string, error)
}

type uploadServiceImpl struct {
	storage    filestorage.FileStorage
	maxBytes   int64
	presignTTL time.Duration
	publicURLs []string
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewUploadService creates a new UploadService. publicURLs are stripped from keys given to
// PresignedURL so that stored URLs can be passed back as keys.
func NewUploadService(
	storage filestorage.FileStorage,
	maxBytes int64,
	presignTTL time.Duration,
	publicURLs []string,
	m *metrics.Metrics,
	logger zerolog.Logger,
) UploadService {
	return &uploadServiceImpl{
		storage:    storage,
		maxBytes:   maxBytes,
		presignTTL: presignTTL,
		publicURLs: publicURLs,
		metrics:    m,
		logger:     logger,
	}
}

// Upload stores a multipart file under prefix
func (s *uploadServiceImpl) Upload(ctx context.Context, fileHeader *multipart.FileHeader, prefix string) (*dto.UploadResponse, error) {
	if fileHeader == nil {
		return nil, apperrors.ErrFileRequired
	}
	if prefix == "" {
		prefix = filestorage.PrefixGeneral
	}
	if !uploadPrefixes[prefix] {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown upload prefix %q", prefix))
	}
	if fileHeader.Size > s.maxBytes {
		return nil, apperrors.ErrFileTooLarge
	}

	stored, err := s.storage.Save(ctx, fileHeader, prefix)
	if err != nil {
		return nil, fmt.Errorf("error storing file: %w", err)
	}
	s.metrics.RecordUpload(prefix, stored.Size)

	s.logger.Info().
		Str("key", stored.Key).
		Int64("size", stored.Size).
		Str("contentType", stored.ContentType).
		Msg("File uploaded")

	return &dto.UploadResponse{
		Key:         stored.Key,
		URL:         stored.URL,
		Filename:    stored.Filename,
		Size:        stored.Size,
		ContentType: stored.ContentType,
	}, nil
}

// Delete removes a stored object
func (s *uploadServiceImpl) Delete(ctx context.Context, rawKey string) error {
	key, err := filestorage.NormalizeKey(rawKey, s.publicURLs...)
	if err != nil {
		return err
	}
	return s.storage.Delete(ctx, key)
}

// PresignedURL returns a short-lived download URL for a stored object
func (s *uploadServiceImpl) PresignedURL(ctx context.Context, rawKey string) (string, error) {
	key, err := filestorage.NormalizeKey(rawKey, s.publicURLs...)
	if err != nil {
		return "", err
	}
	url, err := s.storage.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		return "", err
	}
	return url, nil
}
