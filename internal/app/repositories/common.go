package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/db"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
)

// psql builds PostgreSQL statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Page is a 1-based page request
type Page struct {
	Number int
	Size   int
}

func (p Page) offsetLimit() (uint64, uint64) {
	offset, limit := helpers.CalculateOffsetLimit(p.Number, p.Size)
	return offset, uint64(limit)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func collect[T any](rows pgx.Rows, scan func(rowScanner) (*T, error)) ([]*T, error) {
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return items, nil
}

func queryList[T any](ctx context.Context, q db.DBTX, query squirrel.Sqlizer, scan func(rowScanner) (*T, error)) ([]*T, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return collect(rows, scan)
}

func queryOne[T any](ctx context.Context, q db.DBTX, query squirrel.Sqlizer, scan func(rowScanner) (*T, error)) (*T, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	return scan(q.QueryRow(ctx, sql, args...))
}

func count(ctx context.Context, q db.DBTX, query squirrel.SelectBuilder) (int64, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building count SQL: %w", err)
	}

	var total int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error executing count query: %w", err)
	}
	return total, nil
}

// exec runs query and returns the number of affected rows
func exec(ctx context.Context, q db.DBTX, query squirrel.Sqlizer) (int64, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return tag.RowsAffected(), nil
}

// execOne is exec that maps zero affected rows to notFound
func execOne(ctx context.Context, q db.DBTX, query squirrel.Sqlizer, notFound error) error {
	n, err := exec(ctx, q, query)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// nextPosition returns MAX(position)+1 among rows of table whose parentColumn equals parentID
func nextPosition(ctx context.Context, q db.DBTX, table, parentColumn string, parentID int64) (int, error) {
	sql, args, err := psql.Select("COALESCE(MAX(position), 0) + 1").
		From(table).
		Where(squirrel.Eq{parentColumn: parentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var pos int
	if err := q.QueryRow(ctx, sql, args...).Scan(&pos); err != nil {
		return 0, fmt.Errorf("error reading next position: %w", err)
	}
	return pos, nil
}

// reorder assigns positions 1..n to ids in the given order, scoped to parentID
func reorder(ctx context.Context, q db.DBTX, table, parentColumn string, parentID int64, ids []int64) error {
	for i, id := range ids {
		n, err := exec(ctx, q, psql.Update(table).
			Set("position", i+1).
			Where(squirrel.Eq{"id": id, parentColumn: parentID}))
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%s %d does not belong to %s %d", table, id, parentColumn, parentID)
		}
	}
	return nil
}

// likeEscaper escapes LIKE wildcards using backslash, the PostgreSQL default escape character
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func searchPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func prefixPattern(s string) string {
	return likeEscaper.Replace(s) + "%"
}
