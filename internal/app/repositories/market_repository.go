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

// MarketFilter narrows market submission listings
type MarketFilter struct {
	Search      string
	Category    string
	Status      models.SubmissionStatus
	SubmittedBy *int64
	// VisibleTo shows approved submissions plus the user's own ones
	VisibleTo *int64
}

// MarketRepository handles market submissions
type MarketRepository struct {
	db *pgxpool.Pool
}

// NewMarketRepository creates a new MarketRepository
func NewMarketRepository(db *pgxpool.Pool) *MarketRepository {
	return &MarketRepository{db: db}
}

var marketColumns = []string{
	"id", "title", "description", "category", "price", "contact", "file_key", "status",
	"review_note", "submitted_by", "reviewed_by", "reviewed_at", "created_at", "updated_at",
}

func scanSubmission(row rowScanner) (*models.MarketSubmission, error) {
	var m models.MarketSubmission
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &m.Category, &m.Price, &m.Contact, &m.FileKey, &m.Status,
		&m.ReviewNote, &m.SubmittedBy, &m.ReviewedBy, &m.ReviewedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a submission in PENDING status
func (r *MarketRepository) Create(ctx context.Context, m *models.MarketSubmission) error {
	m.Status = models.SubmissionPending
	sql, args, err := psql.Insert("market_submissions").
		Columns("title", "description", "category", "price", "contact", "file_key", "status", "submitted_by").
		Values(m.Title, m.Description, m.Category, m.Price, m.Contact, m.FileKey, m.Status, m.SubmittedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return fmt.Errorf("error creating market submission: %w", err)
	}
	return nil
}

// GetByID retrieves a submission
func (r *MarketRepository) GetByID(ctx context.Context, id int64) (*models.MarketSubmission, error) {
	m, err := queryOne(ctx, r.db, psql.Select(marketColumns...).From("market_submissions").Where(squirrel.Eq{"id": id}), scanSubmission)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error retrieving market submission: %w", err)
	}
	return m, nil
}

// List returns one page of submissions
func (r *MarketRepository) List(ctx context.Context, f MarketFilter, page Page) ([]*models.MarketSubmission, int64, error) {
	cond := squirrel.And{}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := searchPattern(s)
		cond = append(cond, squirrel.Or{squirrel.ILike{"title": p}, squirrel.ILike{"description": p}})
	}
	if f.Category != "" {
		cond = append(cond, squirrel.Eq{"category": f.Category})
	}
	if f.Status != "" {
		cond = append(cond, squirrel.Eq{"status": f.Status})
	}
	if f.SubmittedBy != nil {
		cond = append(cond, squirrel.Eq{"submitted_by": *f.SubmittedBy})
	}
	if f.VisibleTo != nil {
		cond = append(cond, squirrel.Or{
			squirrel.Eq{"status": models.SubmissionApproved},
			squirrel.Eq{"submitted_by": *f.VisibleTo},
		})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("market_submissions").Where(cond))
	if err != nil {
		return nil, 0, err
	}

	offset, limit := page.offsetLimit()
	items, err := queryList(ctx, r.db, psql.Select(marketColumns...).From("market_submissions").
		Where(cond).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).Offset(offset), scanSubmission)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update saves the editable fields of a submission
func (r *MarketRepository) Update(ctx context.Context, m *models.MarketSubmission) error {
	return execOne(ctx, r.db, psql.Update("market_submissions").
		Set("title", m.Title).
		Set("description", m.Description).
		Set("category", m.Category).
		Set("price", m.Price).
		Set("contact", m.Contact).
		Set("file_key", m.FileKey).
		Set("status", m.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": m.ID}), apperrors.ErrSubmissionNotFound)
}

// Review sets the review outcome of a submission
func (r *MarketRepository) Review(ctx context.Context, m *models.MarketSubmission) error {
	sql, args, err := psql.Update("market_submissions").
		Set("status", m.Status).
		Set("review_note", m.ReviewNote).
		Set("reviewed_by", m.ReviewedBy).
		Set("reviewed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": m.ID}).
		Suffix("RETURNING reviewed_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.ReviewedAt, &m.UpdatedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrSubmissionNotFound
		}
		return fmt.Errorf("error reviewing market submission: %w", err)
	}
	return nil
}

// Delete removes a submission
func (r *MarketRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Delete("market_submissions").Where(squirrel.Eq{"id": id}), apperrors.ErrSubmissionNotFound)
}
