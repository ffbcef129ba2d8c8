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
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/logger"
)

// TokenRepository handles refresh token database operations
type TokenRepository struct {
	db *pgxpool.Pool
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{db: db}
}

// CreateToken stores a new refresh token
func (r *TokenRepository) CreateToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := exec(ctx, r.db, psql.Insert("refresh_tokens").
		Columns("token", "user_id", "expires_at").
		Values(token, userID, expiresAt))
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			logger.Warn().Int64("userID", userID).Msg("Attempted to create duplicate refresh token")
			return apperrors.ErrTokenInvalid
		}
		return fmt.Errorf("error creating token: %w", err)
	}
	return nil
}

// GetToken retrieves a refresh token by value
func (r *TokenRepository) GetToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, err := queryOne(ctx, r.db, psql.Select("id", "user_id", "token", "expires_at", "is_revoked", "created_at").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token}), func(row rowScanner) (*models.RefreshToken, error) {
		var t models.RefreshToken
		err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.IsRevoked, &t.CreatedAt)
		return &t, err
	})
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error retrieving token: %w", err)
	}
	return t, nil
}

// RevokeToken marks a token as revoked
func (r *TokenRepository) RevokeToken(ctx context.Context, token string) error {
	return execOne(ctx, r.db, psql.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"token": token}), apperrors.ErrTokenNotFound)
}

// RevokeAllUserTokens revokes every refresh token of a user
func (r *TokenRepository) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	_, err := exec(ctx, r.db, psql.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"user_id": userID, "is_revoked": false}))
	return err
}

// DeleteExpired removes expired or revoked tokens and returns how many were removed
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return exec(ctx, r.db, psql.Delete("refresh_tokens").
		Where(squirrel.Or{squirrel.Lt{"expires_at": now}, squirrel.Eq{"is_revoked": true}}))
}
