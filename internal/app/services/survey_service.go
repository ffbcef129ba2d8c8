package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// SurveyService defines the interface for survey operations
type SurveyService interface {
	List(ctx context.Context, actor Actor, filter *dto.ContentFilter, page, size int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, actor Actor, id int64) (*models.Survey, error)
	Create(ctx context.Context, actor Actor, req *dto.SurveyRequest) (*models.Survey, error)
	Update(ctx context.Context, id int64, req *dto.SurveyRequest) (*models.Survey, error)
	Delete(ctx context.Context, id int64) error
	Submit(ctx context.Context, actor Actor, id int64, req *dto.SubmitSurveyRequest) (*models.SurveyResponse, error)
	HasResponded(ctx context.Context, actor Actor, id int64) (bool, error)
	Responses(ctx context.Context, id int64) ([]*models.SurveyResponse, error)
}

type surveyServiceImpl struct {
	surveyRepo SurveyStore
	logger     zerolog.Logger
	now        func() time.Time
}

// NewSurveyService creates a new SurveyService
func NewSurveyService(surveyRepo SurveyStore, logger zerolog.Logger) SurveyService {
	return &surveyServiceImpl{
		surveyRepo: surveyRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// List returns one page of surveys
func (s *surveyServiceImpl) List(ctx context.Context, actor Actor, filter *dto.ContentFilter, page, size int) (*dto.PaginatedResponse, error) {
	items, total, err := s.surveyRepo.List(ctx, repositories.ContentFilter{
		Search:     filter.Search,
		ActiveOnly: actor.ActiveOnly(),
	}, repositories.Page{Number: page, Size: size})
	if err != nil {
		return nil, fmt.Errorf("error listing surveys: %w", err)
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// Get returns a survey with its questions
func (s *surveyServiceImpl) Get(ctx context.Context, actor Actor, id int64) (*models.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !survey.IsActive && actor.ActiveOnly() {
		return nil, apperrors.ErrSurveyNotFound
	}
	return survey, nil
}

func buildSurveyQuestions(reqs []dto.SurveyQuestionRequest) ([]models.SurveyQuestion, error) {
	if len(reqs) == 0 {
		return nil, apperrors.NewValidationError("questions", "at least one question is required")
	}

	questions := make([]models.SurveyQuestion, 0, len(reqs))
	for i, req := range reqs {
		q := models.SurveyQuestion{
			Text:         strings.TrimSpace(req.Text),
			QuestionType: models.QuestionType(strings.ToUpper(req.QuestionType)),
			IsRequired:   req.IsRequired,
			Position:     i + 1,
			Options:      []string{},
		}
		field := fmt.Sprintf("questions[%d]", i)
		if q.Text == "" {
			return nil, apperrors.NewValidationError(field+".text", "question text is required")
		}

		switch {
		case q.QuestionType.IsChoice():
			seen := make(map[string]bool, len(req.Options))
			for _, opt := range req.Options {
				opt = strings.TrimSpace(opt)
				if opt == "" || seen[opt] {
					continue
				}
				seen[opt] = true
				q.Options = append(q.Options, opt)
			}
			if len(q.Options) < 2 {
				return nil, apperrors.NewValidationError(field+".options", "choice questions need at least two distinct options")
			}
		case q.QuestionType == models.QuestionText, q.QuestionType == models.QuestionRating:
		default:
			return nil, apperrors.NewValidationError(field+".questionType", "unknown question type")
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func applySurveyRequest(survey *models.Survey, req *dto.SurveyRequest) {
	survey.Title = strings.TrimSpace(req.Title)
	survey.Description = req.Description
	survey.IsAnonymous = req.IsAnonymous
	survey.ClosesAt = req.ClosesAt
	if req.IsActive != nil {
		survey.IsActive = *req.IsActive
	}
}

// Create adds a survey with its questions
func (s *surveyServiceImpl) Create(ctx context.Context, actor Actor, req *dto.SurveyRequest) (*models.Survey, error) {
	questions, err := buildSurveyQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	survey := &models.Survey{IsActive: true, CreatedBy: &actor.UserID, Questions: questions}
	applySurveyRequest(survey, req)
	if err := s.surveyRepo.Create(ctx, survey); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("surveyID", survey.ID).Int("questions", len(questions)).Msg("Survey created")
	return survey, nil
}

// sameQuestions reports whether the definitions in next match current in order
func sameQuestions(current, next []models.SurveyQuestion) bool {
	if len(current) != len(next) {
		return false
	}
	for i := range current {
		a, b := current[i], next[i]
		if a.Text != b.Text || a.QuestionType != b.QuestionType || a.IsRequired != b.IsRequired || len(a.Options) != len(b.Options) {
			return false
		}
		for j := range a.Options {
			if a.Options[j] != b.Options[j] {
				return false
			}
		}
	}
	return true
}

// Update edits a survey. Questions cannot change once responses exist.
func (s *surveyServiceImpl) Update(ctx context.Context, id int64, req *dto.SurveyRequest) (*models.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	questions, err := buildSurveyQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	replace := !sameQuestions(survey.Questions, questions)
	if replace {
		responses, err := s.surveyRepo.CountResponses(ctx, id)
		if err != nil {
			return nil, err
		}
		if responses > 0 {
			return nil, apperrors.NewConflictError("questions cannot be changed after responses have been submitted")
		}
		survey.Questions = questions
	}

	applySurveyRequest(survey, req)
	if err := s.surveyRepo.Update(ctx, survey, replace); err != nil {
		return nil, err
	}
	if replace {
		return s.surveyRepo.GetByID(ctx, id)
	}
	return survey, nil
}

// Delete removes a survey with its questions and responses
func (s *surveyServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.surveyRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("surveyID", id).Msg("Survey deleted")
	return nil
}

// Submit validates and stores the caller's answers. Each user may respond once; the
// respondent of an anonymous survey is not linked to the stored response.
func (s *surveyServiceImpl) Submit(ctx context.Context, actor Actor, id int64, req *dto.SubmitSurveyRequest) (*models.SurveyResponse, error) {
	survey, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !survey.IsOpen(s.now()) {
		return nil, apperrors.ErrSurveyClosed
	}

	answers, err := validateAnswers(survey.Questions, req.Answers)
	if err != nil {
		return nil, err
	}

	resp := &models.SurveyResponse{SurveyID: id, Answers: answers}
	if !survey.IsAnonymous {
		resp.UserID = &actor.UserID
	}
	if err := s.surveyRepo.CreateResponse(ctx, resp, actor.UserID); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("surveyID", id).Bool("anonymous", survey.IsAnonymous).Msg("Survey response submitted")
	return resp, nil
}

// HasResponded reports whether the caller already answered the survey
func (s *surveyServiceImpl) HasResponded(ctx context.Context, actor Actor, id int64) (bool, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return false, err
	}
	return s.surveyRepo.HasResponded(ctx, id, actor.UserID)
}

// Responses returns every response of a survey
func (s *surveyServiceImpl) Responses(ctx context.Context, id int64) ([]*models.SurveyResponse, error) {
	if _, err := s.surveyRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.surveyRepo.ListResponses(ctx, id)
}

// validateAnswers checks raw answers against the questions and returns them normalized:
// strings for TEXT and SINGLE_CHOICE, string lists for MULTI_CHOICE and integers for RATING.
func validateAnswers(questions []models.SurveyQuestion, raw map[string]interface{}) (map[string]interface{}, error) {
	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[strconv.FormatInt(q.ID, 10)] = true
	}
	for key := range raw {
		if !known[key] {
			return nil, apperrors.NewValidationError("answers", fmt.Sprintf("question %s does not belong to this survey", key))
		}
	}

	out := make(map[string]interface{}, len(raw))
	for _, q := range questions {
		key := strconv.FormatInt(q.ID, 10)
		field := "answers." + key

		value, err := normalizeAnswer(q, raw[key])
		if err != nil {
			return nil, apperrors.NewValidationError(field, err.Error())
		}
		if value == nil {
			if q.IsRequired {
				return nil, apperrors.NewValidationError(field, "an answer is required")
			}
			continue
		}
		out[key] = value
	}
	return out, nil
}

// normalizeAnswer returns nil for a missing or blank answer
func normalizeAnswer(q models.SurveyQuestion, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	switch q.QuestionType {
	case models.QuestionText:
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected text")
		}
		if str = strings.TrimSpace(str); str == "" {
			return nil, nil
		}
		return str, nil

	case models.QuestionSingleChoice:
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected one option")
		}
		if str = strings.TrimSpace(str); str == "" {
			return nil, nil
		}
		if !containsOption(q.Options, str) {
			return nil, fmt.Errorf("%q is not an option", str)
		}
		return str, nil

	case models.QuestionMultiChoice:
		list, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("expected a list of options")
		}
		picked := make([]string, 0, len(list))
		seen := make(map[string]bool, len(list))
		for _, item := range list {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of options")
			}
			str = strings.TrimSpace(str)
			if !containsOption(q.Options, str) {
				return nil, fmt.Errorf("%q is not an option", str)
			}
			if !seen[str] {
				seen[str] = true
				picked = append(picked, str)
			}
		}
		if len(picked) == 0 {
			return nil, nil
		}
		return picked, nil

	case models.QuestionRating:
		n, ok := v.(float64)
		if !ok || n != math.Trunc(n) || n < 1 || n > models.RatingScale {
			return nil, fmt.Errorf("rating must be a whole number from 1 to %d", models.RatingScale)
		}
		return int(n), nil
	}
	return nil, fmt.Errorf("unsupported question type %s", q.QuestionType)
}

func containsOption(options []string, v string) bool {
	for _, opt := range options {
		if opt == v {
			return true
		}
	}
	return false
}
