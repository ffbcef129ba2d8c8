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

// WorkSystemRepository handles the systems catalogue and its access rules
type WorkSystemRepository struct {
	db *pgxpool.Pool
}

// NewWorkSystemRepository creates a new WorkSystemRepository
func NewWorkSystemRepository(db *pgxpool.Pool) *WorkSystemRepository {
	return &WorkSystemRepository{db: db}
}

var workSystemColumns = []string{"id", "name", "description", "url", "icon_key", "is_active", "created_at", "updated_at"}

func scanWorkSystem(row rowScanner) (*models.WorkSystem, error) {
	var w models.WorkSystem
	if err := row.Scan(&w.ID, &w.Name, &w.Description, &w.URL, &w.IconKey, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.AccessRules = make([]models.AccessRule, 0)
	return &w, nil
}

// Create inserts a work system
func (r *WorkSystemRepository) Create(ctx context.Context, w *models.WorkSystem) error {
	sql, args, err := psql.Insert("work_systems").
		Columns("name", "description", "url", "icon_key", "is_active").
		Values(w.Name, w.Description, w.URL, w.IconKey, w.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("a work system with this name already exists")
		}
		return fmt.Errorf("error creating work system: %w", err)
	}
	return nil
}

// GetByID retrieves a work system with its access rules
func (r *WorkSystemRepository) GetByID(ctx context.Context, id int64) (*models.WorkSystem, error) {
	w, err := queryOne(ctx, r.db, psql.Select(workSystemColumns...).From("work_systems").Where(squirrel.Eq{"id": id}), scanWorkSystem)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrWorkSystemNotFound
		}
		return nil, fmt.Errorf("error retrieving work system: %w", err)
	}

	rules, err := r.listRules(ctx, squirrel.Eq{"work_system_id": id})
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		w.AccessRules = append(w.AccessRules, *rule)
	}
	return w, nil
}

// List returns every work system with its access rules
func (r *WorkSystemRepository) List(ctx context.Context, activeOnly bool) ([]*models.WorkSystem, error) {
	query := psql.Select(workSystemColumns...).From("work_systems").OrderBy("name", "id")
	if activeOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}
	systems, err := queryList(ctx, r.db, query, scanWorkSystem)
	if err != nil || len(systems) == 0 {
		return systems, err
	}

	ids := make([]int64, len(systems))
	byID := make(map[int64]*models.WorkSystem, len(systems))
	for i, w := range systems {
		ids[i] = w.ID
		byID[w.ID] = w
	}

	rules, err := r.listRules(ctx, squirrel.Eq{"work_system_id": ids})
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		byID[rule.WorkSystemID].AccessRules = append(byID[rule.WorkSystemID].AccessRules, *rule)
	}
	return systems, nil
}

// Update saves a work system
func (r *WorkSystemRepository) Update(ctx context.Context, w *models.WorkSystem) error {
	err := execOne(ctx, r.db, psql.Update("work_systems").
		Set("name", w.Name).
		Set("description", w.Description).
		Set("url", w.URL).
		Set("icon_key", w.IconKey).
		Set("is_active", w.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": w.ID}), apperrors.ErrWorkSystemNotFound)
	if dberrors.IsUniqueViolation(err) {
		return apperrors.NewConflictError("a work system with this name already exists")
	}
	return err
}

// Delete removes a work system and its access rules
func (r *WorkSystemRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Delete("work_systems").Where(squirrel.Eq{"id": id}), apperrors.ErrWorkSystemNotFound)
}

// --- Access rules ---

func (r *WorkSystemRepository) listRules(ctx context.Context, where squirrel.Sqlizer) ([]*models.AccessRule, error) {
	return queryList(ctx, r.db, psql.Select("id", "work_system_id", "department_id", "role", "allow", "created_at").
		From("access_rules").
		Where(where).
		OrderBy("work_system_id", "id"), func(row rowScanner) (*models.AccessRule, error) {
		var a models.AccessRule
		if err := row.Scan(&a.ID, &a.WorkSystemID, &a.DepartmentID, &a.Role, &a.Allow, &a.CreatedAt); err != nil {
			return nil, err
		}
		return &a, nil
	})
}

// AddRule inserts an access rule
func (r *WorkSystemRepository) AddRule(ctx context.Context, a *models.AccessRule) error {
	sql, args, err := psql.Insert("access_rules").
		Columns("work_system_id", "department_id", "role", "allow").
		Values(a.WorkSystemID, a.DepartmentID, a.Role, a.Allow).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("work system or department not found")
		}
		return fmt.Errorf("error creating access rule: %w", err)
	}
	return nil
}

// DeleteRule removes an access rule of a work system
func (r *WorkSystemRepository) DeleteRule(ctx context.Context, workSystemID, ruleID int64) error {
	return execOne(ctx, r.db, psql.Delete("access_rules").
		Where(squirrel.Eq{"id": ruleID, "work_system_id": workSystemID}), apperrors.ErrAccessRuleNotFound)
}
