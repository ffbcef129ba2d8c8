package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/dberrors"
)

// ContentFilter narrows policy, library, template and news listings
type ContentFilter struct {
	Search     string
	Category   string
	Type       string
	Tag        string
	ActiveOnly bool
}

// PolicyRepository handles policies and acknowledgements
type PolicyRepository struct {
	db *pgxpool.Pool
}

// NewPolicyRepository creates a new PolicyRepository
func NewPolicyRepository(db *pgxpool.Pool) *PolicyRepository {
	return &PolicyRepository{db: db}
}

var policyColumns = []string{
	"id", "title", "category", "summary", "body", "version", "effective_date",
	"file_key", "is_active", "created_by", "created_at", "updated_at",
}

func scanPolicy(row rowScanner) (*models.Policy, error) {
	var p models.Policy
	if err := row.Scan(&p.ID, &p.Title, &p.Category, &p.Summary, &p.Body, &p.Version, &p.EffectiveDate,
		&p.FileKey, &p.IsActive, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a policy
func (r *PolicyRepository) Create(ctx context.Context, p *models.Policy) error {
	sql, args, err := psql.Insert("policies").
		Columns("title", "category", "summary", "body", "version", "effective_date", "file_key", "is_active", "created_by").
		Values(p.Title, p.Category, p.Summary, p.Body, p.Version, p.EffectiveDate, p.FileKey, p.IsActive, p.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("error creating policy: %w", err)
	}
	return nil
}

// GetByID retrieves a policy
func (r *PolicyRepository) GetByID(ctx context.Context, id int64) (*models.Policy, error) {
	p, err := queryOne(ctx, r.db, psql.Select(policyColumns...).From("policies").Where(squirrel.Eq{"id": id}), scanPolicy)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("error retrieving policy: %w", err)
	}
	return p, nil
}

// List returns one page of policies
func (r *PolicyRepository) List(ctx context.Context, f ContentFilter, page Page) ([]*models.Policy, int64, error) {
	cond := squirrel.And{}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := searchPattern(s)
		cond = append(cond, squirrel.Or{squirrel.ILike{"title": p}, squirrel.ILike{"summary": p}})
	}
	if f.Category != "" {
		cond = append(cond, squirrel.Eq{"category": f.Category})
	}
	if f.ActiveOnly {
		cond = append(cond, squirrel.Eq{"is_active": true})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("policies").Where(cond))
	if err != nil {
		return nil, 0, err
	}

	offset, limit := page.offsetLimit()
	items, err := queryList(ctx, r.db, psql.Select(policyColumns...).From("policies").
		Where(cond).
		OrderBy("effective_date DESC NULLS LAST", "id DESC").
		Limit(limit).Offset(offset), scanPolicy)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update saves a policy
func (r *PolicyRepository) Update(ctx context.Context, p *models.Policy) error {
	return execOne(ctx, r.db, psql.Update("policies").
		Set("title", p.Title).
		Set("category", p.Category).
		Set("summary", p.Summary).
		Set("body", p.Body).
		Set("version", p.Version).
		Set("effective_date", p.EffectiveDate).
		Set("file_key", p.FileKey).
		Set("is_active", p.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}), apperrors.ErrPolicyNotFound)
}

// Delete removes a policy and its acknowledgements
func (r *PolicyRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Delete("policies").Where(squirrel.Eq{"id": id}), apperrors.ErrPolicyNotFound)
}

func scanAck(row rowScanner) (*models.PolicyAcknowledgement, error) {
	var a models.PolicyAcknowledgement
	if err := row.Scan(&a.ID, &a.PolicyID, &a.UserID, &a.AcknowledgedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Acknowledge records that userID has read policyID. A repeated call returns the
// existing acknowledgement.
func (r *PolicyRepository) Acknowledge(ctx context.Context, policyID, userID int64) (*models.PolicyAcknowledgement, error) {
	sql, args, err := psql.Insert("policy_acknowledgements").
		Columns("policy_id", "user_id").
		Values(policyID, userID).
		Suffix("ON CONFLICT (policy_id, user_id) DO UPDATE SET policy_id = EXCLUDED.policy_id " +
			"RETURNING id, policy_id, user_id, acknowledged_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	ack, err := scanAck(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("error acknowledging policy: %w", err)
	}
	return ack, nil
}

// GetAcknowledgement returns the acknowledgement of policyID by userID, or nil
func (r *PolicyRepository) GetAcknowledgement(ctx context.Context, policyID, userID int64) (*models.PolicyAcknowledgement, error) {
	ack, err := queryOne(ctx, r.db, psql.Select("id", "policy_id", "user_id", "acknowledged_at").
		From("policy_acknowledgements").
		Where(squirrel.Eq{"policy_id": policyID, "user_id": userID}), scanAck)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving acknowledgement: %w", err)
	}
	return ack, nil
}

// AcknowledgedPolicyIDs returns the IDs of policies userID has acknowledged
func (r *PolicyRepository) AcknowledgedPolicyIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	sql, args, err := psql.Select("policy_id").From("policy_acknowledgements").
		Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning policy id: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// CountAcknowledgements returns how many active users acknowledged policyID
func (r *PolicyRepository) CountAcknowledgements(ctx context.Context, policyID int64) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").
		From("policy_acknowledgements pa").
		Join("users u ON u.id = pa.user_id").
		Where(squirrel.Eq{"pa.policy_id": policyID, "u.is_active": true}))
}
