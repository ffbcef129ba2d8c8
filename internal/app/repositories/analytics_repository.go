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

// OverviewCounts are the raw totals behind the analytics overview
type OverviewCounts struct {
	TotalUsers           int64
	ActiveUsers          int64
	Trainings            int64
	Policies             int64
	ActivePolicies       int64
	LibraryResources     int64
	Surveys              int64
	News                 int64
	PendingSubmissions   int64
	Enrollments          int64
	CompletedEnrollments int64
	// Acknowledgements of active policies by active users
	Acknowledgements int64
}

// TrainingCounts are the raw totals behind one training's statistics
type TrainingCounts struct {
	Title          string
	Enrolled       int64
	InProgress     int64
	Completed      int64
	Attempts       int64
	PassedAttempts int64
	AverageScore   float64
}

// AnalyticsRepository runs read-only aggregation queries
type AnalyticsRepository struct {
	db *pgxpool.Pool
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

const overviewSQL = `SELECT
	(SELECT COUNT(*) FROM users),
	(SELECT COUNT(*) FROM users WHERE is_active),
	(SELECT COUNT(*) FROM trainings),
	(SELECT COUNT(*) FROM policies),
	(SELECT COUNT(*) FROM policies WHERE is_active),
	(SELECT COUNT(*) FROM library_resources),
	(SELECT COUNT(*) FROM surveys),
	(SELECT COUNT(*) FROM news),
	(SELECT COUNT(*) FROM market_submissions WHERE status = 'PENDING'),
	(SELECT COUNT(*) FROM enrollments),
	(SELECT COUNT(*) FROM enrollments WHERE status = 'COMPLETED'),
	(SELECT COUNT(*) FROM policy_acknowledgements pa
		JOIN policies p ON p.id = pa.policy_id AND p.is_active
		JOIN users u ON u.id = pa.user_id AND u.is_active)`

// Overview returns system-wide totals
func (r *AnalyticsRepository) Overview(ctx context.Context) (*OverviewCounts, error) {
	var c OverviewCounts
	err := r.db.QueryRow(ctx, overviewSQL).Scan(
		&c.TotalUsers, &c.ActiveUsers, &c.Trainings, &c.Policies, &c.ActivePolicies, &c.LibraryResources,
		&c.Surveys, &c.News, &c.PendingSubmissions, &c.Enrollments, &c.CompletedEnrollments, &c.Acknowledgements,
	)
	if err != nil {
		return nil, fmt.Errorf("error executing overview query: %w", err)
	}
	return &c, nil
}

// ActiveUsers counts active user accounts
func (r *AnalyticsRepository) ActiveUsers(ctx context.Context) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("users").Where(squirrel.Eq{"is_active": true}))
}

// Training aggregates enrollments and quiz attempts of trainingID
func (r *AnalyticsRepository) Training(ctx context.Context, trainingID int64) (*TrainingCounts, error) {
	sql, args, err := psql.Select("t.title", "COUNT(e.id)").
		Column(squirrel.Expr("COUNT(e.id) FILTER (WHERE e.status = ?)", models.EnrollmentInProgress)).
		Column(squirrel.Expr("COUNT(e.id) FILTER (WHERE e.status = ?)", models.EnrollmentCompleted)).
		Column("(SELECT COUNT(*) FROM quiz_attempts qa WHERE qa.training_id = t.id)").
		Column("(SELECT COUNT(*) FROM quiz_attempts qa WHERE qa.training_id = t.id AND qa.passed)").
		Column("(SELECT COALESCE(AVG(qa.score), 0)::float8 FROM quiz_attempts qa WHERE qa.training_id = t.id)").
		From("trainings t").
		LeftJoin("enrollments e ON e.training_id = t.id").
		Where(squirrel.Eq{"t.id": trainingID}).
		GroupBy("t.id", "t.title").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var c TrainingCounts
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.Title, &c.Enrolled, &c.InProgress, &c.Completed,
		&c.Attempts, &c.PassedAttempts, &c.AverageScore); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrTrainingNotFound
		}
		return nil, fmt.Errorf("error executing training stats query: %w", err)
	}
	return &c, nil
}
