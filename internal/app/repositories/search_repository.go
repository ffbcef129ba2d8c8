package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SearchHit is one row of a cross-entity search
type SearchHit struct {
	Type    string
	ID      int64
	Title   string
	Snippet string
}

// SearchRepository runs title searches across content tables
type SearchRepository struct {
	db *pgxpool.Pool
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *pgxpool.Pool) *SearchRepository {
	return &SearchRepository{db: db}
}

type searchSource struct {
	kind    string
	table   string
	title   string
	snippet string
	visible string
}

var searchSources = []searchSource{
	{kind: "training", table: "trainings", title: "title", snippet: "description", visible: "is_active"},
	{kind: "policy", table: "policies", title: "title", snippet: "summary", visible: "is_active"},
	{kind: "library", table: "library_resources", title: "title", snippet: "description", visible: "is_active"},
	{kind: "template", table: "templates", title: "name", snippet: "description", visible: "is_active"},
	{kind: "news", table: "news", title: "title", snippet: "summary", visible: "is_published"},
	{kind: "survey", table: "surveys", title: "title", snippet: "description", visible: "is_active"},
}

// Search matches term against titles and snippets of every content table. Hidden
// records are included only when includeHidden is set.
func (r *SearchRepository) Search(ctx context.Context, term string, includeHidden bool, limit int) ([]SearchHit, error) {
	parts := make([]string, 0, len(searchSources))
	for _, s := range searchSources {
		where := fmt.Sprintf("(%s ILIKE $1 OR %s ILIKE $1)", s.title, s.snippet)
		if !includeHidden {
			where += " AND " + s.visible
		}
		parts = append(parts, fmt.Sprintf(
			"SELECT '%s' AS kind, id, %s AS title, LEFT(%s, 160) AS snippet, "+
				"CASE WHEN %s ILIKE $2 THEN 0 ELSE 1 END AS rank FROM %s WHERE %s",
			s.kind, s.title, s.snippet, s.title, s.table, where))
	}
	sql := strings.Join(parts, " UNION ALL ") + " ORDER BY rank, title LIMIT $3"

	rows, err := r.db.Query(ctx, sql, searchPattern(term), prefixPattern(term), limit)
	if err != nil {
		return nil, fmt.Errorf("error executing search: %w", err)
	}
	defer rows.Close()

	hits := make([]SearchHit, 0)
	for rows.Next() {
		var h SearchHit
		var rank int
		if err := rows.Scan(&h.Type, &h.ID, &h.Title, &h.Snippet, &rank); err != nil {
			return nil, fmt.Errorf("error scanning search hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
