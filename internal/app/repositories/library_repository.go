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

// LibraryRepository handles library resources and document templates
type LibraryRepository struct {
	db *pgxpool.Pool
}

// NewLibraryRepository creates a new LibraryRepository
func NewLibraryRepository(db *pgxpool.Pool) *LibraryRepository {
	return &LibraryRepository{db: db}
}

var libraryColumns = []string{
	"id", "title", "description", "category", "resource_type", "file_key", "external_url",
	"tags", "is_active", "uploaded_by", "created_at", "updated_at",
}

func scanLibrary(row rowScanner) (*models.LibraryResource, error) {
	var l models.LibraryResource
	if err := row.Scan(&l.ID, &l.Title, &l.Description, &l.Category, &l.ResourceType, &l.FileKey, &l.ExternalURL,
		&l.Tags, &l.IsActive, &l.UploadedBy, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	if l.Tags == nil {
		l.Tags = []string{}
	}
	return &l, nil
}

// Create inserts a library resource
func (r *LibraryRepository) Create(ctx context.Context, l *models.LibraryResource) error {
	sql, args, err := psql.Insert("library_resources").
		Columns("title", "description", "category", "resource_type", "file_key", "external_url", "tags", "is_active", "uploaded_by").
		Values(l.Title, l.Description, l.Category, l.ResourceType, l.FileKey, l.ExternalURL, l.Tags, l.IsActive, l.UploadedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return fmt.Errorf("error creating library resource: %w", err)
	}
	return nil
}

// GetByID retrieves a library resource
func (r *LibraryRepository) GetByID(ctx context.Context, id int64) (*models.LibraryResource, error) {
	l, err := queryOne(ctx, r.db, psql.Select(libraryColumns...).From("library_resources").Where(squirrel.Eq{"id": id}), scanLibrary)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrLibraryNotFound
		}
		return nil, fmt.Errorf("error retrieving library resource: %w", err)
	}
	return l, nil
}

// List returns one page of library resources
func (r *LibraryRepository) List(ctx context.Context, f ContentFilter, page Page) ([]*models.LibraryResource, int64, error) {
	cond := squirrel.And{}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := searchPattern(s)
		cond = append(cond, squirrel.Or{squirrel.ILike{"title": p}, squirrel.ILike{"description": p}})
	}
	if f.Category != "" {
		cond = append(cond, squirrel.Eq{"category": f.Category})
	}
	if f.Type != "" {
		cond = append(cond, squirrel.Eq{"resource_type": strings.ToUpper(f.Type)})
	}
	if f.Tag != "" {
		cond = append(cond, squirrel.Expr("? = ANY(tags)", strings.ToLower(strings.TrimSpace(f.Tag))))
	}
	if f.ActiveOnly {
		cond = append(cond, squirrel.Eq{"is_active": true})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("library_resources").Where(cond))
	if err != nil {
		return nil, 0, err
	}

	offset, limit := page.offsetLimit()
	items, err := queryList(ctx, r.db, psql.Select(libraryColumns...).From("library_resources").
		Where(cond).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).Offset(offset), scanLibrary)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update saves a library resource
func (r *LibraryRepository) Update(ctx context.Context, l *models.LibraryResource) error {
	return execOne(ctx, r.db, psql.Update("library_resources").
		Set("title", l.Title).
		Set("description", l.Description).
		Set("category", l.Category).
		Set("resource_type", l.ResourceType).
		Set("file_key", l.FileKey).
		Set("external_url", l.ExternalURL).
		Set("tags", l.Tags).
		Set("is_active", l.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": l.ID}), apperrors.ErrLibraryNotFound)
}

// Delete removes a library resource
func (r *LibraryRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Delete("library_resources").Where(squirrel.Eq{"id": id}), apperrors.ErrLibraryNotFound)
}

// --- Templates ---

var templateColumns = []string{"id", "name", "description", "category", "file_key", "is_active", "created_at", "updated_at"}

func scanTemplate(row rowScanner) (*models.Template, error) {
	var t models.Template
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &t.FileKey, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTemplate inserts a template
func (r *LibraryRepository) CreateTemplate(ctx context.Context, t *models.Template) error {
	sql, args, err := psql.Insert("templates").
		Columns("name", "description", "category", "file_key", "is_active").
		Values(t.Name, t.Description, t.Category, t.FileKey, t.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("error creating template: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template
func (r *LibraryRepository) GetTemplate(ctx context.Context, id int64) (*models.Template, error) {
	t, err := queryOne(ctx, r.db, psql.Select(templateColumns...).From("templates").Where(squirrel.Eq{"id": id}), scanTemplate)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("error retrieving template: %w", err)
	}
	return t, nil
}

// ListTemplates returns one page of templates
func (r *LibraryRepository) ListTemplates(ctx context.Context, f ContentFilter, page Page) ([]*models.Template, int64, error) {
	cond := squirrel.And{}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := searchPattern(s)
		cond = append(cond, squirrel.Or{squirrel.ILike{"name": p}, squirrel.ILike{"description": p}})
	}
	if f.Category != "" {
		cond = append(cond, squirrel.Eq{"category": f.Category})
	}
	if f.ActiveOnly {
		cond = append(cond, squirrel.Eq{"is_active": true})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("templates").Where(cond))
	if err != nil {
		return nil, 0, err
	}

	offset, limit := page.offsetLimit()
	items, err := queryList(ctx, r.db, psql.Select(templateColumns...).From("templates").
		Where(cond).
		OrderBy("name", "id").
		Limit(limit).Offset(offset), scanTemplate)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateTemplate saves a template
func (r *LibraryRepository) UpdateTemplate(ctx context.Context, t *models.Template) error {
	return execOne(ctx, r.db, psql.Update("templates").
		Set("name", t.Name).
		Set("description", t.Description).
		Set("category", t.Category).
		Set("file_key", t.FileKey).
		Set("is_active", t.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": t.ID}), apperrors.ErrTemplateNotFound)
}

// DeleteTemplate removes a template
func (r *LibraryRepository) DeleteTemplate(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Delete("templates").Where(squirrel.Eq{"id": id}), apperrors.ErrTemplateNotFound)
}
