package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/config"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// DefaultDepartments are created on first start
var DefaultDepartments = []models.Department{
	{Name: "Administration", Code: "ADMIN"},
	{Name: "Programs", Code: "PROG"},
	{Name: "Protection", Code: "PROT"},
	{Name: "Health", Code: "HLTH"},
	{Name: "Finance", Code: "FIN"},
	{Name: "Human Resources", Code: "HR"},
}

// UserStore is the part of the user repository used by seeding
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, hash string) error
}

// DepartmentStore is the part of the department repository used by seeding
type DepartmentStore interface {
	Create(ctx context.Context, department *models.Department) error
}

// SettingStore is the part of the setting repository used by seeding
type SettingStore interface {
	EnsureDefaults(ctx context.Context, defaults map[string]string) (int64, error)
}

// Seeder creates the data a fresh installation needs
type Seeder struct {
	users       UserStore
	departments DepartmentStore
	settings    SettingStore
	logger      zerolog.Logger
}

// NewSeeder creates a Seeder over the given stores
func NewSeeder(users UserStore, departments DepartmentStore, settings SettingStore, logger zerolog.Logger) *Seeder {
	return &Seeder{users: users, departments: departments, settings: settings, logger: logger}
}

// AdminAccount describes an administrator to create or reset
type AdminAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// CreateDefaultData creates default departments, settings and the configured admin account
// when they don't exist yet.
func CreateDefaultData(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	s := NewSeeder(
		repositories.NewUserRepository(pool),
		repositories.NewDepartmentRepository(pool),
		repositories.NewSettingRepository(pool),
		lgr,
	)
	return s.Run(ctx, AdminAccount{
		Email:     cfg.Seed.AdminEmail,
		Password:  cfg.Seed.AdminPassword,
		FirstName: cfg.Seed.AdminFirstName,
		LastName:  cfg.Seed.AdminLastName,
	})
}

// Run seeds departments and settings, then the admin account if one is configured.
// Errors are collected so one failure doesn't stop the rest.
func (s *Seeder) Run(ctx context.Context, admin AdminAccount) error {
	var finalErr error

	created := 0
	for _, d := range DefaultDepartments {
		dept := d
		err := s.departments.Create(ctx, &dept)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrDepartmentAlreadyExists):
		default:
			s.logger.Error().Err(err).Str("code", d.Code).Msg("Error creating default department")
			finalErr = errors.Join(finalErr, err)
		}
	}
	if created > 0 {
		s.logger.Info().Int("count", created).Msg("Default departments created")
	}

	n, err := s.settings.EnsureDefaults(ctx, services.DefaultSettings)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating default settings")
		finalErr = errors.Join(finalErr, err)
	} else if n > 0 {
		s.logger.Info().Int64("count", n).Msg("Default settings created")
	}

	if admin.Email == "" || admin.Password == "" {
		s.logger.Warn().Msg("No seed admin configured, skipping admin creation")
		return finalErr
	}

	if _, err := s.EnsureAdmin(ctx, admin); err != nil {
		s.logger.Error().Err(err).Str("email", admin.Email).Msg("Error creating admin user")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

// EnsureAdmin creates an ADMIN account unless the email is already taken. It reports
// whether a new account was created.
func (s *Seeder) EnsureAdmin(ctx context.Context, admin AdminAccount) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(admin.Email))

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		s.logger.Info().Str("email", email).Msg("Admin user already exists, skipping creation")
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return false, fmt.Errorf("error checking admin user: %w", err)
	}

	if err := auth.ValidatePasswordStrength(admin.Password); err != nil {
		return false, err
	}
	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return false, err
	}

	user := &models.User{
		Email:     email,
		Password:  hash,
		FirstName: nonEmpty(admin.FirstName, "System"),
		LastName:  nonEmpty(admin.LastName, "Administrator"),
		Role:      models.RoleAdmin,
		IsActive:  true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return false, fmt.Errorf("error creating admin user: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("email", email).Msg("Admin user created")
	return true, nil
}

// ResetPassword sets a new password for the account with the given email
func (s *Seeder) ResetPassword(ctx context.Context, email, password string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", user.ID).Msg("Password reset from command line")
	return nil
}

func nonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
