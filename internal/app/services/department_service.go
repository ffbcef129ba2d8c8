package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// DepartmentService defines the interface for department operations
type DepartmentService interface {
	List(ctx context.Context) ([]*models.Department, error)
	Get(ctx context.Context, id int64) (*models.Department, error)
	Create(ctx context.Context, req *dto.DepartmentRequest) (*models.Department, error)
	Update(ctx context.Context, id int64, req *dto.DepartmentRequest) (*models.Department, error)
	Delete(ctx context.Context, id int64) error
}

type departmentServiceImpl struct {
	departmentRepo DepartmentStore
	logger         zerolog.Logger
}

// NewDepartmentService creates a new department service instance
func NewDepartmentService(departmentRepo DepartmentStore, logger zerolog.Logger) DepartmentService {
	return &departmentServiceImpl{departmentRepo: departmentRepo, logger: logger}
}

// isValidDepartmentCode checks that a code is uppercase alphanumeric
func isValidDepartmentCode(code string) bool {
	if code == "" {
		return false
	}
	for _, char := range code {
		if !((char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9')) {
			return false
		}
	}
	return true
}

func normalizeDepartment(req *dto.DepartmentRequest) (string, string, error) {
	name := strings.TrimSpace(req.Name)
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if name == "" {
		return "", "", apperrors.NewValidationError("name", "name cannot be empty")
	}
	if !isValidDepartmentCode(code) {
		return "", "", apperrors.NewValidationError("code", "code must be alphanumeric")
	}
	return name, code, nil
}

// List returns all departments
func (s *departmentServiceImpl) List(ctx context.Context) ([]*models.Department, error) {
	return s.departmentRepo.GetAll(ctx)
}

// Get returns one department
func (s *departmentServiceImpl) Get(ctx context.Context, id int64) (*models.Department, error) {
	return s.departmentRepo.GetByID(ctx, id)
}

// Create adds a department with a unique name and code
func (s *departmentServiceImpl) Create(ctx context.Context, req *dto.DepartmentRequest) (*models.Department, error) {
	name, code, err := normalizeDepartment(req)
	if err != nil {
		return nil, err
	}

	exists, err := s.departmentRepo.ExistsByNameOrCode(ctx, name, code)
	if err != nil {
		return nil, fmt.Errorf("error checking department: %w", err)
	}
	if exists {
		return nil, apperrors.ErrDepartmentAlreadyExists
	}

	department := &models.Department{Name: name, Code: code}
	if err := s.departmentRepo.Create(ctx, department); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("departmentID", department.ID).Str("code", code).Msg("Department created")
	return department, nil
}

// Update renames a department
func (s *departmentServiceImpl) Update(ctx context.Context, id int64, req *dto.DepartmentRequest) (*models.Department, error) {
	name, code, err := normalizeDepartment(req)
	if err != nil {
		return nil, err
	}

	department, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	department.Name = name
	department.Code = code

	if err := s.departmentRepo.Update(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

// Delete removes a department without users
func (s *departmentServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.departmentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("departmentID", id).Msg("Department deleted")
	return nil
}
