package services

import (
	"context"
	"strings"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// DefaultSettings are created on first start when missing
var DefaultSettings = map[string]string{
	"portal_name":         "INARA Hub",
	"support_email":       "support@inara.org",
	"training_pass_score": "70",
	"announcement":        "",
}

// SettingService defines the interface for system settings
type SettingService interface {
	List(ctx context.Context) ([]*models.Setting, error)
	Get(ctx context.Context, key string) (*models.Setting, error)
	Set(ctx context.Context, key, value string) (*models.Setting, error)
	Delete(ctx context.Context, key string) error
}

type settingServiceImpl struct {
	settingRepo SettingStore
	logger      zerolog.Logger
}

// NewSettingService creates a new SettingService
func NewSettingService(settingRepo SettingStore, logger zerolog.Logger) SettingService {
	return &settingServiceImpl{settingRepo: settingRepo, logger: logger}
}

func cleanSettingKey(key string) (string, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if !validation.SettingKeyPattern.MatchString(key) {
		return "", apperrors.NewValidationError("key", "key may only contain lowercase letters, digits, '.', '_' and '-'")
	}
	return key, nil
}

// List returns every setting
func (s *settingServiceImpl) List(ctx context.Context) ([]*models.Setting, error) {
	return s.settingRepo.List(ctx)
}

// Get returns one setting
func (s *settingServiceImpl) Get(ctx context.Context, key string) (*models.Setting, error) {
	key, err := cleanSettingKey(key)
	if err != nil {
		return nil, err
	}
	return s.settingRepo.Get(ctx, key)
}

// Set creates or replaces a setting
func (s *settingServiceImpl) Set(ctx context.Context, key, value string) (*models.Setting, error) {
	key, err := cleanSettingKey(key)
	if err != nil {
		return nil, err
	}
	setting, err := s.settingRepo.Upsert(ctx, key, value)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("key", key).Msg("Setting updated")
	return setting, nil
}

// Delete removes a setting
func (s *settingServiceImpl) Delete(ctx context.Context, key string) error {
	key, err := cleanSettingKey(key)
	if err != nil {
		return err
	}
	return s.settingRepo.Delete(ctx, key)
}
