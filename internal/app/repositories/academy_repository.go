package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/db"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/dberrors"
)

// AcademyRepository handles tracks, enrollments and quiz attempts
type AcademyRepository struct {
	db *pgxpool.Pool
}

// NewAcademyRepository creates a new AcademyRepository
func NewAcademyRepository(db *pgxpool.Pool) *AcademyRepository {
	return &AcademyRepository{db: db}
}

var trackColumns = []string{"id", "title", "description", "is_active", "created_at", "updated_at"}

func scanTrack(row rowScanner) (*models.Track, error) {
	var t models.Track
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Trainings = make([]models.TrackTraining, 0)
	return &t, nil
}

func setTrackTrainings(ctx context.Context, q db.DBTX, trackID int64, trainingIDs []int64) error {
	if _, err := exec(ctx, q, psql.Delete("track_trainings").Where(squirrel.Eq{"track_id": trackID})); err != nil {
		return err
	}
	if len(trainingIDs) == 0 {
		return nil
	}

	insert := psql.Insert("track_trainings").Columns("track_id", "training_id", "position")
	for i, id := range trainingIDs {
		insert = insert.Values(trackID, id, i+1)
	}
	if _, err := exec(ctx, q, insert); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrTrainingNotFound
		}
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewBadRequestError("a training can appear only once in a track")
		}
		return err
	}
	return nil
}

// CreateTrack inserts a track with its ordered trainings
func (r *AcademyRepository) CreateTrack(ctx context.Context, t *models.Track, trainingIDs []int64) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := psql.Insert("tracks").
			Columns("title", "description", "is_active").
			Values(t.Title, t.Description, t.IsActive).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return fmt.Errorf("error creating track: %w", err)
		}
		return setTrackTrainings(ctx, tx, t.ID, trainingIDs)
	})
}

// UpdateTrack saves a track; a non-nil trainingIDs replaces its trainings
func (r *AcademyRepository) UpdateTrack(ctx context.Context, t *models.Track, trainingIDs []int64) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := execOne(ctx, tx, psql.Update("tracks").
			Set("title", t.Title).
			Set("description", t.Description).
			Set("is_active", t.IsActive).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": t.ID}), apperrors.ErrTrackNotFound)
		if err != nil || trainingIDs == nil {
			return err
		}
		return setTrackTrainings(ctx, tx, t.ID, trainingIDs)
	})
}

// GetTrack retrieves a track with its trainings in order
func (r *AcademyRepository) GetTrack(ctx context.Context, id int64) (*models.Track, error) {
	t, err := queryOne(ctx, r.db, psql.Select(trackColumns...).From("tracks").Where(squirrel.Eq{"id": id}), scanTrack)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrTrackNotFound
		}
		return nil, fmt.Errorf("error retrieving track: %w", err)
	}

	items, err := queryList(ctx, r.db, psql.Select("tt.track_id", "tt.training_id", "tt.position", "t.title").
		From("track_trainings tt").
		Join("trainings t ON t.id = tt.training_id").
		Where(squirrel.Eq{"tt.track_id": id}).
		OrderBy("tt.position"), func(row rowScanner) (*models.TrackTraining, error) {
		var tt models.TrackTraining
		if err := row.Scan(&tt.TrackID, &tt.TrainingID, &tt.Position, &tt.Title); err != nil {
			return nil, err
		}
		return &tt, nil
	})
	if err != nil {
		return nil, err
	}
	for _, tt := range items {
		t.Trainings = append(t.Trainings, *tt)
	}
	return t, nil
}

// ListTracks returns all tracks without their trainings
func (r *AcademyRepository) ListTracks(ctx context.Context, activeOnly bool) ([]*models.Track, error) {
	query := psql.Select(trackColumns...).From("tracks").OrderBy("title", "id")
	if activeOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}
	return queryList(ctx, r.db, query, scanTrack)
}

// DeleteTrack removes a track
func (r *AcademyRepository) DeleteTrack(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Delete("tracks").Where(squirrel.Eq{"id": id}), apperrors.ErrTrackNotFound)
}

// --- Enrollments ---

var enrollmentColumns = []string{
	"id", "user_id", "training_id", "status", "progress", "completed_lessons", "score",
	"started_at", "completed_at", "updated_at",
}

func scanEnrollment(row rowScanner) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := row.Scan(&e.ID, &e.UserID, &e.TrainingID, &e.Status, &e.Progress, &e.CompletedLessons, &e.Score,
		&e.StartedAt, &e.CompletedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if e.CompletedLessons == nil {
		e.CompletedLessons = []int64{}
	}
	return &e, nil
}

// CreateEnrollment enrolls a user. Enrolling twice returns the existing enrollment.
func (r *AcademyRepository) CreateEnrollment(ctx context.Context, userID, trainingID int64) (*models.Enrollment, error) {
	sql, args, err := psql.Insert("enrollments").
		Columns("user_id", "training_id", "status", "progress", "completed_lessons").
		Values(userID, trainingID, models.EnrollmentEnrolled, 0, []int64{}).
		Suffix("ON CONFLICT (user_id, training_id) DO UPDATE SET user_id = EXCLUDED.user_id RETURNING " +
			"id, user_id, training_id, status, progress, completed_lessons, score, started_at, completed_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	e, err := scanEnrollment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrTrainingNotFound
		}
		return nil, fmt.Errorf("error creating enrollment: %w", err)
	}
	return e, nil
}

// GetEnrollment retrieves the enrollment of userID in trainingID
func (r *AcademyRepository) GetEnrollment(ctx context.Context, userID, trainingID int64) (*models.Enrollment, error) {
	e, err := queryOne(ctx, r.db, psql.Select(enrollmentColumns...).From("enrollments").
		Where(squirrel.Eq{"user_id": userID, "training_id": trainingID}), scanEnrollment)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}
	return e, nil
}

// UpdateEnrollment saves progress, status and score
func (r *AcademyRepository) UpdateEnrollment(ctx context.Context, e *models.Enrollment) error {
	sql, args, err := psql.Update("enrollments").
		Set("status", e.Status).
		Set("progress", e.Progress).
		Set("completed_lessons", e.CompletedLessons).
		Set("score", e.Score).
		Set("completed_at", e.CompletedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": e.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.UpdatedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrEnrollmentNotFound
		}
		return fmt.Errorf("error updating enrollment: %w", err)
	}
	return nil
}

// ListUserEnrollments returns the enrollments of a user, most recent first
func (r *AcademyRepository) ListUserEnrollments(ctx context.Context, userID int64) ([]*models.Enrollment, error) {
	return queryList(ctx, r.db, psql.Select(enrollmentColumns...).From("enrollments").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("updated_at DESC", "id DESC"), scanEnrollment)
}

// ListTrainingEnrollments returns one page of enrollments in a training
func (r *AcademyRepository) ListTrainingEnrollments(ctx context.Context, trainingID int64, page Page) ([]*models.Enrollment, int64, error) {
	where := squirrel.Eq{"training_id": trainingID}
	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("enrollments").Where(where))
	if err != nil {
		return nil, 0, err
	}

	offset, limit := page.offsetLimit()
	items, err := queryList(ctx, r.db, psql.Select(enrollmentColumns...).From("enrollments").
		Where(where).
		OrderBy("progress DESC", "id").
		Limit(limit).Offset(offset), scanEnrollment)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CountOpenMandatory returns the active mandatory trainings userID has not completed
func (r *AcademyRepository) CountOpenMandatory(ctx context.Context, userID int64) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("trainings t").
		Where(squirrel.Eq{"t.is_mandatory": true, "t.is_active": true}).
		Where(squirrel.Expr("NOT EXISTS (SELECT 1 FROM enrollments e WHERE e.training_id = t.id AND e.user_id = ? AND e.status = ?)",
			userID, models.EnrollmentCompleted)))
}

// --- Quiz attempts ---

// CreateAttempt stores a graded quiz attempt
func (r *AcademyRepository) CreateAttempt(ctx context.Context, a *models.QuizAttempt) error {
	sql, args, err := psql.Insert("quiz_attempts").
		Columns("user_id", "training_id", "answers", "score", "passed").
		Values(a.UserID, a.TrainingID, a.Answers, a.Score, a.Passed).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("error creating quiz attempt: %w", err)
	}
	return nil
}

// ListAttempts returns the quiz attempts of userID in trainingID, newest first
func (r *AcademyRepository) ListAttempts(ctx context.Context, userID, trainingID int64) ([]*models.QuizAttempt, error) {
	return queryList(ctx, r.db, psql.Select("id", "user_id", "training_id", "answers", "score", "passed", "created_at").
		From("quiz_attempts").
		Where(squirrel.Eq{"user_id": userID, "training_id": trainingID}).
		OrderBy("created_at DESC", "id DESC"), func(row rowScanner) (*models.QuizAttempt, error) {
		var a models.QuizAttempt
		if err := row.Scan(&a.ID, &a.UserID, &a.TrainingID, &a.Answers, &a.Score, &a.Passed, &a.CreatedAt); err != nil {
			return nil, err
		}
		return &a, nil
	})
}
