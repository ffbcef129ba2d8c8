package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/auth"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/email"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

// PasswordResetTTL is how long a password reset link stays valid
const PasswordResetTTL = time.Hour

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID int64) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, emailAddr string) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authServiceImpl struct {
	userRepo       UserStore
	tokenRepo      RefreshTokenStore
	resetTokenRepo ResetTokenStore
	jwtService     *auth.JWTService
	emailService   email.EmailService
	metrics        *metrics.Metrics
	logger         zerolog.Logger
	now            func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo UserStore,
	tokenRepo RefreshTokenStore,
	resetTokenRepo ResetTokenStore,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	m *metrics.Metrics,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:       userRepo,
		tokenRepo:      tokenRepo,
		resetTokenRepo: resetTokenRepo,
		jwtService:     jwtService,
		emailService:   emailService,
		metrics:        m,
		logger:         logger,
		now:            time.Now,
	}
}

// Login authenticates a user by email and password
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.metrics.RecordLogin("failure")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.metrics.RecordLogin("failure")
		s.logger.Warn().Int64("userID", user.ID).Msg("Login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.metrics.RecordLogin("disabled")
		return nil, apperrors.ErrAccountDisabled
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to record last login")
	}

	s.metrics.RecordLogin("success")
	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User logged in")
	return resp, nil
}

// RefreshToken rotates a refresh token and issues a new access token
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	token, err := s.tokenRepo.GetToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if token.IsRevoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if s.now().After(token.ExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("error revoking refresh token: %w", err)
	}
	return s.issueTokens(ctx, user)
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokenRepo.RevokeToken(ctx, refreshToken)
	if err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	return nil
}

// Me returns the profile of the authenticated user
func (s *authServiceImpl) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// ChangePassword replaces the caller's password and signs out other sessions
func (s *authServiceImpl) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "current password is incorrect")
	}
	if err := s.setPassword(ctx, userID, req.NewPassword); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", userID).Msg("Password changed")
	return nil
}

// ForgotPassword emails a reset link. Unknown or disabled accounts are silently ignored.
func (s *authServiceImpl) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(emailAddr))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("error finding user: %w", err)
	}
	if !user.IsActive {
		return nil
	}

	token, err := auth.RandomToken(32)
	if err != nil {
		return err
	}
	if err := s.resetTokenRepo.Create(ctx, user.ID, token, s.now().Add(PasswordResetTTL)); err != nil {
		return fmt.Errorf("error storing password reset token: %w", err)
	}

	if err := s.emailService.SendPasswordResetEmail(user.Email, user.FullName(), token); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to send password reset email")
		return apperrors.NewCustomError(err, "failed to send password reset email")
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Password reset requested")
	return nil
}

// ResetPassword sets a new password using a reset token
func (s *authServiceImpl) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	token, err := s.resetTokenRepo.Get(ctx, req.Token)
	if err != nil {
		return err
	}
	if token.IsUsed {
		return apperrors.ErrPasswordResetTokenUsed
	}
	if s.now().After(token.ExpiresAt) {
		return apperrors.ErrInvalidPasswordResetToken
	}

	if err := auth.ValidatePasswordStrength(req.NewPassword); err != nil {
		return apperrors.NewValidationError("newPassword", err.Error())
	}
	if err := s.resetTokenRepo.MarkUsed(ctx, token.ID); err != nil {
		return err
	}
	if err := s.setPassword(ctx, token.UserID, req.NewPassword); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", token.UserID).Msg("Password reset completed")
	return nil
}

func (s *authServiceImpl) setPassword(ctx context.Context, userID int64, password string) error {
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return apperrors.NewValidationError("newPassword", err.Error())
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		return fmt.Errorf("error revoking refresh tokens: %w", err)
	}
	return nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}
	if err := s.tokenRepo.CreateToken(ctx, pair.RefreshToken, user.ID, pair.RefreshExpiresAt); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.AuthResponse{
		User: dto.NewUserResponse(user),
		Token: dto.TokenResponse{
			AccessToken:      pair.AccessToken,
			RefreshToken:     pair.RefreshToken,
			ExpiresIn:        pair.ExpiresIn,
			RefreshExpiresIn: pair.RefreshExpiresIn,
			TokenType:        "Bearer",
		},
	}, nil
}
