package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/dberrors"
)

// SettingRepository handles key/value system settings
type SettingRepository struct {
	db *pgxpool.Pool
}

// NewSettingRepository creates a new SettingRepository
func NewSettingRepository(db *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{db: db}
}

func scanSetting(row rowScanner) (*models.Setting, error) {
	var s models.Setting
	if err := row.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all settings ordered by key
func (r *SettingRepository) List(ctx context.Context) ([]*models.Setting, error) {
	return queryList(ctx, r.db, psql.Select("key", "value", "updated_at").From("settings").OrderBy("key"), scanSetting)
}

// Get retrieves one setting
func (r *SettingRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	s, err := queryOne(ctx, r.db, psql.Select("key", "value", "updated_at").From("settings").Where(squirrel.Eq{"key": key}), scanSetting)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrSettingNotFound
		}
		return nil, fmt.Errorf("error retrieving setting: %w", err)
	}
	return s, nil
}

// Upsert creates or replaces a setting
func (r *SettingRepository) Upsert(ctx context.Context, key, value string) (*models.Setting, error) {
	return queryOne(ctx, r.db, psql.Insert("settings").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW() RETURNING key, value, updated_at"),
		scanSetting)
}

// EnsureDefaults inserts the given settings unless they already exist
func (r *SettingRepository) EnsureDefaults(ctx context.Context, defaults map[string]string) (int64, error) {
	if len(defaults) == 0 {
		return 0, nil
	}
	insert := psql.Insert("settings").Columns("key", "value")
	for k, v := range defaults {
		insert = insert.Values(k, v)
	}
	return exec(ctx, r.db, insert.Suffix("ON CONFLICT (key) DO NOTHING"))
}

// Delete removes a setting
func (r *SettingRepository) Delete(ctx context.Context, key string) error {
	return execOne(ctx, r.db, psql.Delete("settings").Where(squirrel.Eq{"key": key}), apperrors.ErrSettingNotFound)
}
