package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/dberrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/logger"
)

// UserFilter narrows user listings
type UserFilter struct {
	Search       string
	Role         *models.Role
	DepartmentID *int64
	Active       *bool
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

var userColumns = []string{
	"u.id", "u.email", "u.password", "u.first_name", "u.last_name", "u.role", "u.department_id",
	"u.job_title", "u.is_active", "u.last_login_at", "u.created_at", "u.updated_at",
	"d.id", "d.name", "d.code",
}

func (r *UserRepository) selectUsers() squirrel.SelectBuilder {
	return psql.Select(userColumns...).
		From("users u").
		LeftJoin("departments d ON d.id = u.department_id")
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var deptID *int64
	var deptName, deptCode *string
	if err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Role, &u.DepartmentID,
		&u.JobTitle, &u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
		&deptID, &deptName, &deptCode,
	); err != nil {
		return nil, err
	}
	if deptID != nil {
		u.Department = &models.Department{ID: *deptID, Name: *deptName, Code: *deptCode}
	}
	return &u, nil
}

// Create inserts a new user and fills its ID and timestamps
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := psql.Insert("users").
		Columns("email", "password", "first_name", "last_name", "role", "department_id", "job_title", "is_active").
		Values(strings.ToLower(user.Email), user.Password, user.FirstName, user.LastName, user.Role, user.DepartmentID, user.JobTitle, user.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrDepartmentNotFound
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user with its department
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := queryOne(ctx, r.db, r.selectUsers().Where(squirrel.Eq{"u.id": id}), scanUser)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := queryOne(ctx, r.db, r.selectUsers().Where(squirrel.Eq{"u.email": strings.ToLower(email)}), scanUser)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by email: %w", err)
	}
	return user, nil
}

func userConditions(f UserFilter) squirrel.And {
	cond := squirrel.And{}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := searchPattern(s)
		cond = append(cond, squirrel.Or{
			squirrel.ILike{"u.email": p},
			squirrel.ILike{"u.first_name": p},
			squirrel.ILike{"u.last_name": p},
		})
	}
	if f.Role != nil {
		cond = append(cond, squirrel.Eq{"u.role": *f.Role})
	}
	if f.DepartmentID != nil {
		cond = append(cond, squirrel.Eq{"u.department_id": *f.DepartmentID})
	}
	if f.Active != nil {
		cond = append(cond, squirrel.Eq{"u.is_active": *f.Active})
	}
	return cond
}

// List returns one page of users matching f and the total match count
func (r *UserRepository) List(ctx context.Context, f UserFilter, page Page) ([]*models.User, int64, error) {
	cond := userConditions(f)

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("users u").Where(cond))
	if err != nil {
		return nil, 0, err
	}

	offset, limit := page.offsetLimit()
	users, err := queryList(ctx, r.db, r.selectUsers().
		Where(cond).
		OrderBy("u.last_name", "u.first_name", "u.id").
		Limit(limit).Offset(offset), scanUser)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ListRecipients returns active users matching f, without pagination
func (r *UserRepository) ListRecipients(ctx context.Context, f UserFilter) ([]*models.User, error) {
	active := true
	f.Active = &active
	return queryList(ctx, r.db, r.selectUsers().Where(userConditions(f)).OrderBy("u.id"), scanUser)
}

// Update saves profile fields, role, department and active flag
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	err := execOne(ctx, r.db, psql.Update("users").
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("role", user.Role).
		Set("department_id", user.DepartmentID).
		Set("job_title", user.JobTitle).
		Set("is_active", user.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": user.ID}), apperrors.ErrUserNotFound)
	if err != nil && dberrors.IsForeignKeyViolation(err) {
		return apperrors.ErrDepartmentNotFound
	}
	return err
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	return execOne(ctx, r.db, psql.Update("users").
		Set("password", hash).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}), apperrors.ErrUserNotFound)
}

// UpdateLastLogin records a successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	_, err := exec(ctx, r.db, psql.Update("users").
		Set("last_login_at", at).
		Where(squirrel.Eq{"id": userID}))
	return err
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Delete("users").Where(squirrel.Eq{"id": id}), apperrors.ErrUserNotFound)
}

// CountByRole counts active users with role
func (r *UserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("users").
		Where(squirrel.Eq{"role": role, "is_active": true}))
}
