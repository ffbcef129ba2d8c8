package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/auth"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/email"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// UserService defines the interface for user account administration
type UserService interface {
	List(ctx context.Context, filter *dto.UserFilterRequest, page, size int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, id int64) (*dto.UserResponse, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	UpdateRole(ctx context.Context, actor Actor, id int64, role models.Role) (*dto.UserResponse, error)
	SetActive(ctx context.Context, actor Actor, id int64, active bool) (*dto.UserResponse, error)
	Delete(ctx context.Context, actor Actor, id int64) error
	SetPassword(ctx context.Context, emailAddr, password string) error
}

type userServiceImpl struct {
	userRepo       UserStore
	departmentRepo DepartmentStore
	tokenRepo      RefreshTokenStore
	emailService   email.EmailService
	logger         zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo UserStore,
	departmentRepo DepartmentStore,
	tokenRepo RefreshTokenStore,
	emailService email.EmailService,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		tokenRepo:      tokenRepo,
		emailService:   emailService,
		logger:         logger,
	}
}

// List returns one page of users
func (s *userServiceImpl) List(ctx context.Context, filter *dto.UserFilterRequest, page, size int) (*dto.PaginatedResponse, error) {
	f := repositories.UserFilter{
		Search:       filter.Search,
		DepartmentID: filter.DepartmentID,
		Active:       filter.Active,
	}
	if filter.Role != "" {
		role := models.Role(strings.ToUpper(filter.Role))
		f.Role = &role
	}

	users, total, err := s.userRepo.List(ctx, f, repositories.Page{Number: page, Size: size})
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	return &dto.PaginatedResponse{
		Items:      dto.NewUserResponses(users),
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// Get returns one user
func (s *userServiceImpl) Get(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userServiceImpl) checkDepartment(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	_, err := s.departmentRepo.GetByID(ctx, *id)
	return err
}

// Create creates an account and sends a welcome email
func (s *userServiceImpl) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return nil, apperrors.NewValidationError("password", err.Error())
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Password:     hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         models.Role(strings.ToUpper(req.Role)),
		DepartmentID: req.DepartmentID,
		JobTitle:     req.JobTitle,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.emailService.SendWelcomeEmail(user.Email, user.FullName()); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to send welcome email")
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User created")
	return s.Get(ctx, user.ID)
}

// Update changes profile fields of a user
func (s *userServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.DepartmentID != nil {
		if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
			return nil, err
		}
		user.DepartmentID = req.DepartmentID
	}
	if req.JobTitle != nil {
		user.JobTitle = helpers.NilIfEmpty(*req.JobTitle)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// guardLastAdmin refuses changes that would leave no active administrator
func (s *userServiceImpl) guardLastAdmin(ctx context.Context, user *models.User) error {
	if !user.IsAdmin() || !user.IsActive {
		return nil
	}
	admins, err := s.userRepo.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("error counting administrators: %w", err)
	}
	if admins <= 1 {
		return apperrors.NewConflictError("the last active administrator cannot be removed")
	}
	return nil
}

// UpdateRole changes the role of a user
func (s *userServiceImpl) UpdateRole(ctx context.Context, actor Actor, id int64, role models.Role) (*dto.UserResponse, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("role", "role must be one of ADMIN, MANAGER, STAFF")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		resp := dto.NewUserResponse(user)
		return &resp, nil
	}
	if role != models.RoleAdmin {
		if err := s.guardLastAdmin(ctx, user); err != nil {
			return nil, err
		}
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("actorID", actor.UserID).Int64("userID", id).Str("role", string(role)).Msg("User role changed")
	return s.Get(ctx, id)
}

// SetActive activates or deactivates an account. Deactivation signs the user out.
func (s *userServiceImpl) SetActive(ctx context.Context, actor Actor, id int64, active bool) (*dto.UserResponse, error) {
	if !active && actor.UserID == id {
		return nil, apperrors.NewBadRequestError("you cannot deactivate your own account")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsActive == active {
		resp := dto.NewUserResponse(user)
		return &resp, nil
	}
	if !active {
		if err := s.guardLastAdmin(ctx, user); err != nil {
			return nil, err
		}
	}

	user.IsActive = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if !active {
		if err := s.tokenRepo.RevokeAllUserTokens(ctx, id); err != nil {
			return nil, fmt.Errorf("error revoking refresh tokens: %w", err)
		}
	}

	s.logger.Info().Int64("actorID", actor.UserID).Int64("userID", id).Bool("active", active).Msg("User activation changed")
	return s.Get(ctx, id)
}

// Delete removes an account
func (s *userServiceImpl) Delete(ctx context.Context, actor Actor, id int64) error {
	if actor.UserID == id {
		return apperrors.NewBadRequestError("you cannot delete your own account")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guardLastAdmin(ctx, user); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("actorID", actor.UserID).Int64("userID", id).Msg("User deleted")
	return nil
}

// SetPassword sets a user's password by email and signs them out
func (s *userServiceImpl) SetPassword(ctx context.Context, emailAddr, password string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewResourceNotFoundError(fmt.Sprintf("no user with email %s", emailAddr))
		}
		return err
	}
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return apperrors.NewValidationError("password", err.Error())
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	return s.tokenRepo.RevokeAllUserTokens(ctx, user.ID)
}
