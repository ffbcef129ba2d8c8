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

// NewsRepository handles news items
type NewsRepository struct {
	db *pgxpool.Pool
}

// NewNewsRepository creates a new NewsRepository
func NewNewsRepository(db *pgxpool.Pool) *NewsRepository {
	return &NewsRepository{db: db}
}

var newsColumns = []string{
	"id", "title", "summary", "body", "image_key", "is_published", "published_at", "author_id", "created_at", "updated_at",
}

func scanNews(row rowScanner) (*models.News, error) {
	var n models.News
	if err := row.Scan(&n.ID, &n.Title, &n.Summary, &n.Body, &n.ImageKey, &n.IsPublished, &n.PublishedAt,
		&n.AuthorID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a news item
func (r *NewsRepository) Create(ctx context.Context, n *models.News) error {
	sql, args, err := psql.Insert("news").
		Columns("title", "summary", "body", "image_key", "is_published", "published_at", "author_id").
		Values(n.Title, n.Summary, n.Body, n.ImageKey, n.IsPublished, n.PublishedAt, n.AuthorID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return fmt.Errorf("error creating news item: %w", err)
	}
	return nil
}

// GetByID retrieves a news item
func (r *NewsRepository) GetByID(ctx context.Context, id int64) (*models.News, error) {
	n, err := queryOne(ctx, r.db, psql.Select(newsColumns...).From("news").Where(squirrel.Eq{"id": id}), scanNews)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNewsNotFound
		}
		return nil, fmt.Errorf("error retrieving news item: %w", err)
	}
	return n, nil
}

// List returns one page of news. ActiveOnly limits the page to published items.
func (r *NewsRepository) List(ctx context.Context, f ContentFilter, page Page) ([]*models.News, int64, error) {
	cond := squirrel.And{}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := searchPattern(s)
		cond = append(cond, squirrel.Or{squirrel.ILike{"title": p}, squirrel.ILike{"summary": p}})
	}
	if f.ActiveOnly {
		cond = append(cond, squirrel.Eq{"is_published": true})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("news").Where(cond))
	if err != nil {
		return nil, 0, err
	}

	offset, limit := page.offsetLimit()
	items, err := queryList(ctx, r.db, psql.Select(newsColumns...).From("news").
		Where(cond).
		OrderBy("published_at DESC NULLS LAST", "created_at DESC", "id DESC").
		Limit(limit).Offset(offset), scanNews)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update saves a news item
func (r *NewsRepository) Update(ctx context.Context, n *models.News) error {
	return execOne(ctx, r.db, psql.Update("news").
		Set("title", n.Title).
		Set("summary", n.Summary).
		Set("body", n.Body).
		Set("image_key", n.ImageKey).
		Set("is_published", n.IsPublished).
		Set("published_at", n.PublishedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": n.ID}), apperrors.ErrNewsNotFound)
}

// Delete removes a news item
func (r *NewsRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Delete("news").Where(squirrel.Eq{"id": id}), apperrors.ErrNewsNotFound)
}
