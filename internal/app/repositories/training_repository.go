package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/db"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/dberrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/importer"
)

// TrainingFilter narrows training listings
type TrainingFilter struct {
	Search     string
	Category   string
	Mandatory  *bool
	ActiveOnly bool
}

// TrainingRepository handles trainings and their lessons, slides, questions and objectives
type TrainingRepository struct {
	db *pgxpool.Pool
}

// NewTrainingRepository creates a new TrainingRepository
func NewTrainingRepository(db *pgxpool.Pool) *TrainingRepository {
	return &TrainingRepository{db: db}
}

var trainingColumns = []string{
	"id", "title", "description", "category", "is_mandatory", "is_active",
	"estimated_minutes", "pass_score", "created_by", "created_at", "updated_at",
}

func scanTraining(row rowScanner) (*models.Training, error) {
	var t models.Training
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.IsMandatory, &t.IsActive,
		&t.EstimatedMinutes, &t.PassScore, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTraining inserts a training
func (r *TrainingRepository) CreateTraining(ctx context.Context, t *models.Training) error {
	sql, args, err := psql.Insert("trainings").
		Columns("title", "description", "category", "is_mandatory", "is_active", "estimated_minutes", "pass_score", "created_by").
		Values(t.Title, t.Description, t.Category, t.IsMandatory, t.IsActive, t.EstimatedMinutes, t.PassScore, t.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("error creating training: %w", err)
	}
	return nil
}

// GetTraining retrieves a training without its children
func (r *TrainingRepository) GetTraining(ctx context.Context, id int64) (*models.Training, error) {
	t, err := queryOne(ctx, r.db, psql.Select(trainingColumns...).From("trainings").Where(squirrel.Eq{"id": id}), scanTraining)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrTrainingNotFound
		}
		return nil, fmt.Errorf("error retrieving training: %w", err)
	}
	return t, nil
}

// ListTrainings returns one page of trainings matching f
func (r *TrainingRepository) ListTrainings(ctx context.Context, f TrainingFilter, page Page) ([]*models.Training, int64, error) {
	cond := squirrel.And{}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := searchPattern(s)
		cond = append(cond, squirrel.Or{squirrel.ILike{"title": p}, squirrel.ILike{"description": p}})
	}
	if f.Category != "" {
		cond = append(cond, squirrel.Eq{"category": f.Category})
	}
	if f.Mandatory != nil {
		cond = append(cond, squirrel.Eq{"is_mandatory": *f.Mandatory})
	}
	if f.ActiveOnly {
		cond = append(cond, squirrel.Eq{"is_active": true})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("trainings").Where(cond))
	if err != nil {
		return nil, 0, err
	}

	offset, limit := page.offsetLimit()
	items, err := queryList(ctx, r.db, psql.Select(trainingColumns...).From("trainings").
		Where(cond).
		OrderBy("is_mandatory DESC", "title", "id").
		Limit(limit).Offset(offset), scanTraining)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateTraining saves a training
func (r *TrainingRepository) UpdateTraining(ctx context.Context, t *models.Training) error {
	return execOne(ctx, r.db, psql.Update("trainings").
		Set("title", t.Title).
		Set("description", t.Description).
		Set("category", t.Category).
		Set("is_mandatory", t.IsMandatory).
		Set("is_active", t.IsActive).
		Set("estimated_minutes", t.EstimatedMinutes).
		Set("pass_score", t.PassScore).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": t.ID}), apperrors.ErrTrainingNotFound)
}

// DeleteTraining removes a training and, by cascade, its children
func (r *TrainingRepository) DeleteTraining(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Delete("trainings").Where(squirrel.Eq{"id": id}), apperrors.ErrTrainingNotFound)
}

// --- Lessons and slides ---

var lessonColumns = []string{"id", "training_id", "title", "description", "position", "created_at"}

func scanLesson(row rowScanner) (*models.Lesson, error) {
	var l models.Lesson
	if err := row.Scan(&l.ID, &l.TrainingID, &l.Title, &l.Description, &l.Position, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.Slides = make([]models.Slide, 0)
	return &l, nil
}

func scanSlide(row rowScanner) (*models.Slide, error) {
	var s models.Slide
	if err := row.Scan(&s.ID, &s.LessonID, &s.Title, &s.Content, &s.Position); err != nil {
		return nil, err
	}
	return &s, nil
}

var slideColumns = []string{"id", "lesson_id", "title", "content", "position"}

// ListLessons returns the lessons of a training with their slides, in position order
func (r *TrainingRepository) ListLessons(ctx context.Context, trainingID int64) ([]*models.Lesson, error) {
	lessons, err := queryList(ctx, r.db, psql.Select(lessonColumns...).From("lessons").
		Where(squirrel.Eq{"training_id": trainingID}).
		OrderBy("position", "id"), scanLesson)
	if err != nil || len(lessons) == 0 {
		return lessons, err
	}

	ids := make([]int64, len(lessons))
	byID := make(map[int64]*models.Lesson, len(lessons))
	for i, l := range lessons {
		ids[i] = l.ID
		byID[l.ID] = l
	}

	slides, err := queryList(ctx, r.db, psql.Select(slideColumns...).From("slides").
		Where(squirrel.Eq{"lesson_id": ids}).
		OrderBy("lesson_id", "position", "id"), scanSlide)
	if err != nil {
		return nil, err
	}
	for _, s := range slides {
		byID[s.LessonID].Slides = append(byID[s.LessonID].Slides, *s)
	}
	return lessons, nil
}

// GetLesson retrieves a lesson with its slides
func (r *TrainingRepository) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	lesson, err := queryOne(ctx, r.db, psql.Select(lessonColumns...).From("lessons").Where(squirrel.Eq{"id": id}), scanLesson)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("error retrieving lesson: %w", err)
	}

	slides, err := queryList(ctx, r.db, psql.Select(slideColumns...).From("slides").
		Where(squirrel.Eq{"lesson_id": id}).
		OrderBy("position", "id"), scanSlide)
	if err != nil {
		return nil, err
	}
	for _, s := range slides {
		lesson.Slides = append(lesson.Slides, *s)
	}
	return lesson, nil
}

// ListLessonIDs returns the lesson IDs of a training
func (r *TrainingRepository) ListLessonIDs(ctx context.Context, trainingID int64) ([]int64, error) {
	sql, args, err := psql.Select("id").From("lessons").Where(squirrel.Eq{"training_id": trainingID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error scanning lesson ids: %w", err)
	}
	return ids, nil
}

func insertLesson(ctx context.Context, q db.DBTX, l *models.Lesson) error {
	if l.Position <= 0 {
		pos, err := nextPosition(ctx, q, "lessons", "training_id", l.TrainingID)
		if err != nil {
			return err
		}
		l.Position = pos
	}

	sql, args, err := psql.Insert("lessons").
		Columns("training_id", "title", "description", "position").
		Values(l.TrainingID, l.Title, l.Description, l.Position).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := q.QueryRow(ctx, sql, args...).Scan(&l.ID, &l.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrTrainingNotFound
		}
		return fmt.Errorf("error creating lesson: %w", err)
	}
	return nil
}

func insertSlide(ctx context.Context, q db.DBTX, s *models.Slide) error {
	if s.Position <= 0 {
		pos, err := nextPosition(ctx, q, "slides", "lesson_id", s.LessonID)
		if err != nil {
			return err
		}
		s.Position = pos
	}

	sql, args, err := psql.Insert("slides").
		Columns("lesson_id", "title", "content", "position").
		Values(s.LessonID, s.Title, s.Content, s.Position).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := q.QueryRow(ctx, sql, args...).Scan(&s.ID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrLessonNotFound
		}
		return fmt.Errorf("error creating slide: %w", err)
	}
	return nil
}

// CreateLesson inserts a lesson, appending it when no position is set
func (r *TrainingRepository) CreateLesson(ctx context.Context, l *models.Lesson) error {
	return insertLesson(ctx, r.db, l)
}

// UpdateLesson saves a lesson
func (r *TrainingRepository) UpdateLesson(ctx context.Context, l *models.Lesson) error {
	return execOne(ctx, r.db, psql.Update("lessons").
		Set("title", l.Title).
		Set("description", l.Description).
		Set("position", l.Position).
		Where(squirrel.Eq{"id": l.ID}), apperrors.ErrLessonNotFound)
}

// DeleteLesson removes a lesson and its slides
func (r *TrainingRepository) DeleteLesson(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Delete("lessons").Where(squirrel.Eq{"id": id}), apperrors.ErrLessonNotFound)
}

// ReorderLessons assigns positions following ids
func (r *TrainingRepository) ReorderLessons(ctx context.Context, trainingID int64, ids []int64) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := reorder(ctx, tx, "lessons", "training_id", trainingID, ids); err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrBadRequest, err.Error())
		}
		return nil
	})
}

// GetSlide retrieves a slide
func (r *TrainingRepository) GetSlide(ctx context.Context, id int64) (*models.Slide, error) {
	s, err := queryOne(ctx, r.db, psql.Select(slideColumns...).From("slides").Where(squirrel.Eq{"id": id}), scanSlide)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrSlideNotFound
		}
		return nil, fmt.Errorf("error retrieving slide: %w", err)
	}
	return s, nil
}

// CreateSlide inserts a slide, appending it when no position is set
func (r *TrainingRepository) CreateSlide(ctx context.Context, s *models.Slide) error {
	return insertSlide(ctx, r.db, s)
}

// UpdateSlide saves a slide
func (r *TrainingRepository) UpdateSlide(ctx context.Context, s *models.Slide) error {
	return execOne(ctx, r.db, psql.Update("slides").
		Set("title", s.Title).
		Set("content", s.Content).
		Set("position", s.Position).
		Where(squirrel.Eq{"id": s.ID}), apperrors.ErrSlideNotFound)
}

// DeleteSlide removes a slide
func (r *TrainingRepository) DeleteSlide(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Delete("slides").Where(squirrel.Eq{"id": id}), apperrors.ErrSlideNotFound)
}

// ReorderSlides assigns positions following ids
func (r *TrainingRepository) ReorderSlides(ctx context.Context, lessonID int64, ids []int64) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := reorder(ctx, tx, "slides", "lesson_id", lessonID, ids); err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrBadRequest, err.Error())
		}
		return nil
	})
}

// --- Questions ---

var questionColumns = []string{"id", "training_id", "text", "options", "correct_answer", "position"}

func scanQuestion(row rowScanner) (*models.Question, error) {
	var q models.Question
	if err := row.Scan(&q.ID, &q.TrainingID, &q.Text, &q.Options, &q.CorrectAnswer, &q.Position); err != nil {
		return nil, err
	}
	return &q, nil
}

// ListQuestions returns the quiz of a training in position order
func (r *TrainingRepository) ListQuestions(ctx context.Context, trainingID int64) ([]*models.Question, error) {
	return queryList(ctx, r.db, psql.Select(questionColumns...).From("questions").
		Where(squirrel.Eq{"training_id": trainingID}).
		OrderBy("position", "id"), scanQuestion)
}

// GetQuestion retrieves a question
func (r *TrainingRepository) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	q, err := queryOne(ctx, r.db, psql.Select(questionColumns...).From("questions").Where(squirrel.Eq{"id": id}), scanQuestion)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("error retrieving question: %w", err)
	}
	return q, nil
}

func insertQuestion(ctx context.Context, q db.DBTX, qu *models.Question) error {
	if qu.Position <= 0 {
		pos, err := nextPosition(ctx, q, "questions", "training_id", qu.TrainingID)
		if err != nil {
			return err
		}
		qu.Position = pos
	}

	sql, args, err := psql.Insert("questions").
		Columns("training_id", "text", "options", "correct_answer", "position").
		Values(qu.TrainingID, qu.Text, qu.Options, qu.CorrectAnswer, qu.Position).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := q.QueryRow(ctx, sql, args...).Scan(&qu.ID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrTrainingNotFound
		}
		return fmt.Errorf("error creating question: %w", err)
	}
	return nil
}

// CreateQuestion inserts a question
func (r *TrainingRepository) CreateQuestion(ctx context.Context, q *models.Question) error {
	return insertQuestion(ctx, r.db, q)
}

// UpdateQuestion saves a question
func (r *TrainingRepository) UpdateQuestion(ctx context.Context, q *models.Question) error {
	return execOne(ctx, r.db, psql.Update("questions").
		Set("text", q.Text).
		Set("options", q.Options).
		Set("correct_answer", q.CorrectAnswer).
		Set("position", q.Position).
		Where(squirrel.Eq{"id": q.ID}), apperrors.ErrQuestionNotFound)
}

// DeleteQuestion removes a question
func (r *TrainingRepository) DeleteQuestion(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Delete("questions").Where(squirrel.Eq{"id": id}), apperrors.ErrQuestionNotFound)
}

// --- Objectives ---

var objectiveColumns = []string{"id", "training_id", "text", "position"}

func scanObjective(row rowScanner) (*models.Objective, error) {
	var o models.Objective
	if err := row.Scan(&o.ID, &o.TrainingID, &o.Text, &o.Position); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListObjectives returns the objectives of a training
func (r *TrainingRepository) ListObjectives(ctx context.Context, trainingID int64) ([]*models.Objective, error) {
	return queryList(ctx, r.db, psql.Select(objectiveColumns...).From("objectives").
		Where(squirrel.Eq{"training_id": trainingID}).
		OrderBy("position", "id"), scanObjective)
}

// GetObjective retrieves an objective
func (r *TrainingRepository) GetObjective(ctx context.Context, id int64) (*models.Objective, error) {
	o, err := queryOne(ctx, r.db, psql.Select(objectiveColumns...).From("objectives").Where(squirrel.Eq{"id": id}), scanObjective)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrObjectiveNotFound
		}
		return nil, fmt.Errorf("error retrieving objective: %w", err)
	}
	return o, nil
}

func insertObjective(ctx context.Context, q db.DBTX, o *models.Objective) error {
	if o.Position <= 0 {
		pos, err := nextPosition(ctx, q, "objectives", "training_id", o.TrainingID)
		if err != nil {
			return err
		}
		o.Position = pos
	}

	sql, args, err := psql.Insert("objectives").
		Columns("training_id", "text", "position").
		Values(o.TrainingID, o.Text, o.Position).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := q.QueryRow(ctx, sql, args...).Scan(&o.ID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrTrainingNotFound
		}
		return fmt.Errorf("error creating objective: %w", err)
	}
	return nil
}

// CreateObjective inserts an objective
func (r *TrainingRepository) CreateObjective(ctx context.Context, o *models.Objective) error {
	return insertObjective(ctx, r.db, o)
}

// UpdateObjective saves an objective
func (r *TrainingRepository) UpdateObjective(ctx context.Context, o *models.Objective) error {
	return execOne(ctx, r.db, psql.Update("objectives").
		Set("text", o.Text).
		Set("position", o.Position).
		Where(squirrel.Eq{"id": o.ID}), apperrors.ErrObjectiveNotFound)
}

// DeleteObjective removes an objective
func (r *TrainingRepository) DeleteObjective(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Delete("objectives").Where(squirrel.Eq{"id": id}), apperrors.ErrObjectiveNotFound)
}

// --- Bulk import ---

func clearChildren(ctx context.Context, q db.DBTX, table string, trainingID int64) error {
	_, err := exec(ctx, q, psql.Delete(table).Where(squirrel.Eq{"training_id": trainingID}))
	return err
}

// ImportLessons appends parsed lessons and slides in one transaction, optionally replacing
// the existing ones
func (r *TrainingRepository) ImportLessons(ctx context.Context, trainingID int64, lessons []importer.Lesson, replace bool) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if replace {
			if err := clearChildren(ctx, tx, "lessons", trainingID); err != nil {
				return err
			}
		}
		for _, parsed := range lessons {
			lesson := &models.Lesson{TrainingID: trainingID, Title: parsed.Title, Description: parsed.Description}
			if err := insertLesson(ctx, tx, lesson); err != nil {
				return err
			}
			for i, s := range parsed.Slides {
				slide := &models.Slide{LessonID: lesson.ID, Title: s.Title, Content: s.Content, Position: i + 1}
				if err := insertSlide(ctx, tx, slide); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ImportQuestions appends parsed questions in one transaction
func (r *TrainingRepository) ImportQuestions(ctx context.Context, trainingID int64, questions []importer.Question, replace bool) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if replace {
			if err := clearChildren(ctx, tx, "questions", trainingID); err != nil {
				return err
			}
		}
		for _, parsed := range questions {
			q := &models.Question{TrainingID: trainingID, Text: parsed.Text, Options: parsed.Options, CorrectAnswer: parsed.CorrectAnswer}
			if err := insertQuestion(ctx, tx, q); err != nil {
				return err
			}
		}
		return nil
	})
}

// ImportObjectives appends parsed objectives in one transaction
func (r *TrainingRepository) ImportObjectives(ctx context.Context, trainingID int64, objectives []string, replace bool) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if replace {
			if err := clearChildren(ctx, tx, "objectives", trainingID); err != nil {
				return err
			}
		}
		for _, text := range objectives {
			if err := insertObjective(ctx, tx, &models.Objective{TrainingID: trainingID, Text: text}); err != nil {
				return err
			}
		}
		return nil
	})
}
