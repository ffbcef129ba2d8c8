package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/dberrors"
)

// PasswordResetTokenRepository handles password reset tokens
type PasswordResetTokenRepository struct {
	db *pgxpool.Pool
}

// NewPasswordResetTokenRepository creates a new PasswordResetTokenRepository
func NewPasswordResetTokenRepository(db *pgxpool.Pool) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{db: db}
}

// Create stores a token, invalidating earlier unused tokens of the same user
func (r *PasswordResetTokenRepository) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	if _, err := exec(ctx, r.db, psql.Update("password_reset_tokens").
		Set("is_used", true).
		Where(squirrel.Eq{"user_id": userID, "is_used": false})); err != nil {
		return err
	}

	_, err := exec(ctx, r.db, psql.Insert("password_reset_tokens").
		Columns("user_id", "token", "expires_at").
		Values(userID, token, expiresAt))
	return err
}

// Get retrieves a token by value
func (r *PasswordResetTokenRepository) Get(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	t, err := queryOne(ctx, r.db, psql.Select("id", "user_id", "token", "expires_at", "is_used", "created_at").
		From("password_reset_tokens").
		Where(squirrel.Eq{"token": token}), func(row rowScanner) (*models.PasswordResetToken, error) {
		var t models.PasswordResetToken
		err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.IsUsed, &t.CreatedAt)
		return &t, err
	})
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrInvalidPasswordResetToken
		}
		return nil, fmt.Errorf("error retrieving password reset token: %w", err)
	}
	return t, nil
}

// MarkUsed consumes a token
func (r *PasswordResetTokenRepository) MarkUsed(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Update("password_reset_tokens").
		Set("is_used", true).
		Where(squirrel.Eq{"id": id, "is_used": false}), apperrors.ErrPasswordResetTokenUsed)
}
