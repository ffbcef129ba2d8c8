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
)

// SurveyRepository handles surveys, their questions and responses
type SurveyRepository struct {
	db *pgxpool.Pool
}

// NewSurveyRepository creates a new SurveyRepository
func NewSurveyRepository(db *pgxpool.Pool) *SurveyRepository {
	return &SurveyRepository{db: db}
}

var surveyColumns = []string{
	"id", "title", "description", "is_active", "is_anonymous", "closes_at", "created_by", "created_at", "updated_at",
}

func scanSurvey(row rowScanner) (*models.Survey, error) {
	var s models.Survey
	if err := row.Scan(&s.ID, &s.Title, &s.Description, &s.IsActive, &s.IsAnonymous, &s.ClosesAt,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

var surveyQuestionColumns = []string{"id", "survey_id", "text", "question_type", "options", "is_required", "position"}

func scanSurveyQuestion(row rowScanner) (*models.SurveyQuestion, error) {
	var q models.SurveyQuestion
	if err := row.Scan(&q.ID, &q.SurveyID, &q.Text, &q.QuestionType, &q.Options, &q.IsRequired, &q.Position); err != nil {
		return nil, err
	}
	if q.Options == nil {
		q.Options = []string{}
	}
	return &q, nil
}

func insertSurveyQuestions(ctx context.Context, q db.DBTX, surveyID int64, questions []models.SurveyQuestion) error {
	for i := range questions {
		qu := &questions[i]
		qu.SurveyID = surveyID
		qu.Position = i + 1
		if qu.Options == nil {
			qu.Options = []string{}
		}

		sql, args, err := psql.Insert("survey_questions").
			Columns("survey_id", "text", "question_type", "options", "is_required", "position").
			Values(qu.SurveyID, qu.Text, qu.QuestionType, qu.Options, qu.IsRequired, qu.Position).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		if err := q.QueryRow(ctx, sql, args...).Scan(&qu.ID); err != nil {
			return fmt.Errorf("error creating survey question: %w", err)
		}
	}
	return nil
}

// Create inserts a survey and its questions in one transaction
func (r *SurveyRepository) Create(ctx context.Context, s *models.Survey) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := psql.Insert("surveys").
			Columns("title", "description", "is_active", "is_anonymous", "closes_at", "created_by").
			Values(s.Title, s.Description, s.IsActive, s.IsAnonymous, s.ClosesAt, s.CreatedBy).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return fmt.Errorf("error creating survey: %w", err)
		}
		return insertSurveyQuestions(ctx, tx, s.ID, s.Questions)
	})
}

// GetByID retrieves a survey with its questions
func (r *SurveyRepository) GetByID(ctx context.Context, id int64) (*models.Survey, error) {
	s, err := queryOne(ctx, r.db, psql.Select(surveyColumns...).From("surveys").Where(squirrel.Eq{"id": id}), scanSurvey)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrSurveyNotFound
		}
		return nil, fmt.Errorf("error retrieving survey: %w", err)
	}

	questions, err := r.ListQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Questions = make([]models.SurveyQuestion, 0, len(questions))
	for _, q := range questions {
		s.Questions = append(s.Questions, *q)
	}
	return s, nil
}

// ListQuestions returns the questions of a survey in position order
func (r *SurveyRepository) ListQuestions(ctx context.Context, surveyID int64) ([]*models.SurveyQuestion, error) {
	return queryList(ctx, r.db, psql.Select(surveyQuestionColumns...).From("survey_questions").
		Where(squirrel.Eq{"survey_id": surveyID}).
		OrderBy("position", "id"), scanSurveyQuestion)
}

// List returns one page of surveys without their questions
func (r *SurveyRepository) List(ctx context.Context, f ContentFilter, page Page) ([]*models.Survey, int64, error) {
	cond := squirrel.And{}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := searchPattern(s)
		cond = append(cond, squirrel.Or{squirrel.ILike{"title": p}, squirrel.ILike{"description": p}})
	}
	if f.ActiveOnly {
		cond = append(cond, squirrel.Eq{"is_active": true})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("surveys").Where(cond))
	if err != nil {
		return nil, 0, err
	}

	offset, limit := page.offsetLimit()
	items, err := queryList(ctx, r.db, psql.Select(surveyColumns...).From("surveys").
		Where(cond).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).Offset(offset), scanSurvey)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update saves a survey. When replaceQuestions is set its questions are replaced by s.Questions.
func (r *SurveyRepository) Update(ctx context.Context, s *models.Survey, replaceQuestions bool) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := execOne(ctx, tx, psql.Update("surveys").
			Set("title", s.Title).
			Set("description", s.Description).
			Set("is_active", s.IsActive).
			Set("is_anonymous", s.IsAnonymous).
			Set("closes_at", s.ClosesAt).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": s.ID}), apperrors.ErrSurveyNotFound)
		if err != nil || !replaceQuestions {
			return err
		}

		if _, err := exec(ctx, tx, psql.Delete("survey_questions").Where(squirrel.Eq{"survey_id": s.ID})); err != nil {
			return err
		}
		return insertSurveyQuestions(ctx, tx, s.ID, s.Questions)
	})
}

// Delete removes a survey with its questions and responses
func (r *SurveyRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, psql.Delete("surveys").Where(squirrel.Eq{"id": id}), apperrors.ErrSurveyNotFound)
}

// --- Responses ---

var responseColumns = []string{"id", "survey_id", "user_id", "answers", "submitted_at"}

func scanResponse(row rowScanner) (*models.SurveyResponse, error) {
	var s models.SurveyResponse
	if err := row.Scan(&s.ID, &s.SurveyID, &s.UserID, &s.Answers, &s.SubmittedAt); err != nil {
		return nil, err
	}
	if s.Answers == nil {
		s.Answers = map[string]interface{}{}
	}
	return &s, nil
}

func participantInsert(surveyID, userID int64) squirrel.InsertBuilder {
	return psql.Insert("survey_participants").Columns("survey_id", "user_id").Values(surveyID, userID)
}

func responseInsert(resp *models.SurveyResponse) squirrel.InsertBuilder {
	return psql.Insert("survey_responses").
		Columns("survey_id", "user_id", "answers").
		Values(resp.SurveyID, resp.UserID, resp.Answers).
		Suffix("RETURNING id, submitted_at")
}

// CreateResponse records that respondentID took part in the survey and stores the response.
// Participation lives in its own table, so a response with a nil UserID stays unlinked.
func (r *SurveyRepository) CreateResponse(ctx context.Context, resp *models.SurveyResponse, respondentID int64) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := exec(ctx, tx, participantInsert(resp.SurveyID, respondentID)); err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.NewConflictError("you have already responded to this survey")
			}
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrSurveyNotFound
			}
			return fmt.Errorf("error recording survey participant: %w", err)
		}

		sql, args, err := responseInsert(resp).ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&resp.ID, &resp.SubmittedAt); err != nil {
			return fmt.Errorf("error creating survey response: %w", err)
		}
		return nil
	})
}

// HasResponded reports whether respondentID already answered surveyID
func (r *SurveyRepository) HasResponded(ctx context.Context, surveyID, respondentID int64) (bool, error) {
	n, err := count(ctx, r.db, psql.Select("COUNT(*)").From("survey_participants").
		Where(squirrel.Eq{"survey_id": surveyID, "user_id": respondentID}))
	return n > 0, err
}

// CountResponses returns the number of responses to surveyID
func (r *SurveyRepository) CountResponses(ctx context.Context, surveyID int64) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("survey_responses").Where(squirrel.Eq{"survey_id": surveyID}))
}

// ListResponses returns every response to surveyID, oldest first
func (r *SurveyRepository) ListResponses(ctx context.Context, surveyID int64) ([]*models.SurveyResponse, error) {
	return queryList(ctx, r.db, psql.Select(responseColumns...).From("survey_responses").
		Where(squirrel.Eq{"survey_id": surveyID}).
		OrderBy("submitted_at", "id"), scanResponse)
}
