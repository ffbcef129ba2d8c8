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

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db *pgxpool.Pool
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func scanDepartment(row rowScanner) (*models.Department, error) {
	var d models.Department
	if err := row.Scan(&d.ID, &d.Name, &d.Code, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

var departmentColumns = []string{"id", "name", "code", "created_at"}

// Create creates a new department
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	sql, args, err := psql.Insert("departments").
		Columns("name", "code").
		Values(department.Name, department.Code).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&department.ID, &department.CreatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDepartmentAlreadyExists
		}
		return fmt.Errorf("error creating department: %w", err)
	}
	return nil
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	d, err := queryOne(ctx, r.db, psql.Select(departmentColumns...).From("departments").Where(squirrel.Eq{"id": id}), scanDepartment)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}
	return d, nil
}

// GetAll retrieves all departments ordered by name
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*models.Department, error) {
	return queryList(ctx, r.db, psql.Select(departmentColumns...).From("departments").OrderBy("name"), scanDepartment)
}

// Update renames a department
func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	err := execOne(ctx, r.db, psql.Update("departments").
		Set("name", department.Name).
		Set("code", department.Code).
		Where(squirrel.Eq{"id": department.ID}), apperrors.ErrDepartmentNotFound)
	if err != nil && dberrors.IsUniqueViolation(err) {
		return apperrors.ErrDepartmentAlreadyExists
	}
	return err
}

// Delete removes a department that has no users
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	err := execOne(ctx, r.db, psql.Delete("departments").Where(squirrel.Eq{"id": id}), apperrors.ErrDepartmentNotFound)
	if err != nil && dberrors.IsForeignKeyViolation(err) {
		return apperrors.ErrDepartmentHasRelations
	}
	return err
}

// ExistsByNameOrCode checks if a department exists by name or code
func (r *DepartmentRepository) ExistsByNameOrCode(ctx context.Context, name, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM departments WHERE LOWER(name) = LOWER($1) OR UPPER(code) = UPPER($2))`,
		name, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking department existence: %w", err)
	}
	return exists, nil
}
