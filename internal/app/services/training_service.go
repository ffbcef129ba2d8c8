package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/importer"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

// Import kinds
const (
	ImportLessons    = "lessons"
	ImportQuestions  = "questions"
	ImportObjectives = "objectives"
)

// DefaultPassScore applies when a training is created without one
const DefaultPassScore = 70

// TrainingService defines the interface for training course operations
type TrainingService interface {
	List(ctx context.Context, actor Actor, filter *dto.TrainingFilter, page, size int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, actor Actor, id int64) (*models.Training, error)
	Create(ctx context.Context, actor Actor, req *dto.TrainingRequest) (*models.Training, error)
	Update(ctx context.Context, id int64, req *dto.TrainingRequest) (*models.Training, error)
	Delete(ctx context.Context, id int64) error

	CreateLesson(ctx context.Context, trainingID int64, req *dto.LessonRequest) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, lessonID int64, req *dto.LessonRequest) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, lessonID int64) error
	ReorderLessons(ctx context.Context, trainingID int64, ids []int64) ([]*models.Lesson, error)

	CreateSlide(ctx context.Context, lessonID int64, req *dto.SlideRequest) (*models.Slide, error)
	UpdateSlide(ctx context.Context, slideID int64, req *dto.SlideRequest) (*models.Slide, error)
	DeleteSlide(ctx context.Context, slideID int64) error
	ReorderSlides(ctx context.Context, lessonID int64, ids []int64) (*models.Lesson, error)

	ListQuestions(ctx context.Context, trainingID int64) ([]*models.Question, error)
	Quiz(ctx context.Context, actor Actor, trainingID int64) ([]dto.QuizQuestionResponse, error)
	CreateQuestion(ctx context.Context, trainingID int64, req *dto.QuestionRequest) (*models.Question, error)
	UpdateQuestion(ctx context.Context, questionID int64, req *dto.QuestionRequest) (*models.Question, error)
	DeleteQuestion(ctx context.Context, questionID int64) error

	CreateObjective(ctx context.Context, trainingID int64, req *dto.ObjectiveRequest) (*models.Objective, error)
	UpdateObjective(ctx context.Context, objectiveID int64, req *dto.ObjectiveRequest) (*models.Objective, error)
	DeleteObjective(ctx context.Context, objectiveID int64) error

	Import(ctx context.Context, trainingID int64, kind string, req *dto.ImportRequest) (*dto.ImportResponse, error)
}

type trainingServiceImpl struct {
	trainingRepo  TrainingStore
	notifications NotificationService
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// NewTrainingService creates a new TrainingService
func NewTrainingService(
	trainingRepo TrainingStore,
	notifications NotificationService,
	m *metrics.Metrics,
	logger zerolog.Logger,
) TrainingService {
	return &trainingServiceImpl{
		trainingRepo:  trainingRepo,
		notifications: notifications,
		metrics:       m,
		logger:        logger,
	}
}

// List returns one page of trainings; staff only see active ones
func (s *trainingServiceImpl) List(ctx context.Context, actor Actor, filter *dto.TrainingFilter, page, size int) (*dto.PaginatedResponse, error) {
	items, total, err := s.trainingRepo.ListTrainings(ctx, repositories.TrainingFilter{
		Search:     filter.Search,
		Category:   filter.Category,
		Mandatory:  filter.Mandatory,
		ActiveOnly: actor.ActiveOnly(),
	}, repositories.Page{Number: page, Size: size})
	if err != nil {
		return nil, fmt.Errorf("error listing trainings: %w", err)
	}

	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

func (s *trainingServiceImpl) visibleTraining(ctx context.Context, actor Actor, id int64) (*models.Training, error) {
	training, err := s.trainingRepo.GetTraining(ctx, id)
	if err != nil {
		return nil, err
	}
	if !training.IsActive && actor.ActiveOnly() {
		return nil, apperrors.ErrTrainingNotFound
	}
	return training, nil
}

// Get returns a training with lessons and objectives. Managers also receive the quiz
// with its answers.
func (s *trainingServiceImpl) Get(ctx context.Context, actor Actor, id int64) (*models.Training, error) {
	training, err := s.visibleTraining(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	lessons, err := s.trainingRepo.ListLessons(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing lessons: %w", err)
	}
	training.Lessons = make([]models.Lesson, 0, len(lessons))
	for _, l := range lessons {
		training.Lessons = append(training.Lessons, *l)
	}

	objectives, err := s.trainingRepo.ListObjectives(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing objectives: %w", err)
	}
	training.Objectives = make([]models.Objective, 0, len(objectives))
	for _, o := range objectives {
		training.Objectives = append(training.Objectives, *o)
	}

	if actor.CanManage() {
		questions, err := s.trainingRepo.ListQuestions(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error listing questions: %w", err)
		}
		training.Questions = make([]models.Question, 0, len(questions))
		for _, q := range questions {
			training.Questions = append(training.Questions, *q)
		}
	}
	return training, nil
}

func applyTrainingRequest(t *models.Training, req *dto.TrainingRequest) {
	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Category != nil {
		t.Category = strings.TrimSpace(*req.Category)
	}
	if req.IsMandatory != nil {
		t.IsMandatory = *req.IsMandatory
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if req.EstimatedMinutes != nil {
		t.EstimatedMinutes = *req.EstimatedMinutes
	}
	if req.PassScore != nil {
		t.PassScore = *req.PassScore
	}
}

// Create adds a training. Staff are notified of new active mandatory trainings.
func (s *trainingServiceImpl) Create(ctx context.Context, actor Actor, req *dto.TrainingRequest) (*models.Training, error) {
	training := &models.Training{IsActive: true, PassScore: DefaultPassScore, CreatedBy: &actor.UserID}
	applyTrainingRequest(training, req)
	if training.Title == "" {
		return nil, apperrors.NewValidationError("title", "title is required")
	}

	if err := s.trainingRepo.CreateTraining(ctx, training); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("trainingID", training.ID).Int64("createdBy", actor.UserID).Msg("Training created")

	if training.IsMandatory && training.IsActive {
		s.announce(ctx, training)
	}
	return training, nil
}

func (s *trainingServiceImpl) announce(ctx context.Context, training *models.Training) {
	link := fmt.Sprintf("/trainings/%d", training.ID)
	body := fmt.Sprintf("%q is now mandatory for all staff.", training.Title)
	if _, err := s.notifications.NotifyActiveUsers(ctx, "New mandatory training", body, &link); err != nil {
		s.logger.Warn().Err(err).Int64("trainingID", training.ID).Msg("Failed to announce mandatory training")
	}
}

// Update changes the fields present in req
func (s *trainingServiceImpl) Update(ctx context.Context, id int64, req *dto.TrainingRequest) (*models.Training, error) {
	training, err := s.trainingRepo.GetTraining(ctx, id)
	if err != nil {
		return nil, err
	}
	wasAnnounced := training.IsMandatory && training.IsActive

	applyTrainingRequest(training, req)
	if training.Title == "" {
		return nil, apperrors.NewValidationError("title", "title is required")
	}
	if err := s.trainingRepo.UpdateTraining(ctx, training); err != nil {
		return nil, err
	}

	if !wasAnnounced && training.IsMandatory && training.IsActive {
		s.announce(ctx, training)
	}
	return training, nil
}

// Delete removes a training with all of its content
func (s *trainingServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.trainingRepo.DeleteTraining(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("trainingID", id).Msg("Training deleted")
	return nil
}

// --- Lessons ---

// CreateLesson appends a lesson unless a position is given
func (s *trainingServiceImpl) CreateLesson(ctx context.Context, trainingID int64, req *dto.LessonRequest) (*models.Lesson, error) {
	lesson := &models.Lesson{
		TrainingID:  trainingID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
	}
	if req.Position != nil {
		lesson.Position = *req.Position
	}
	if err := s.trainingRepo.CreateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	lesson.Slides = []models.Slide{}
	return lesson, nil
}

// UpdateLesson edits a lesson
func (s *trainingServiceImpl) UpdateLesson(ctx context.Context, lessonID int64, req *dto.LessonRequest) (*models.Lesson, error) {
	lesson, err := s.trainingRepo.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	lesson.Title = strings.TrimSpace(req.Title)
	lesson.Description = req.Description
	if req.Position != nil {
		lesson.Position = *req.Position
	}
	if err := s.trainingRepo.UpdateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// DeleteLesson removes a lesson and its slides
func (s *trainingServiceImpl) DeleteLesson(ctx context.Context, lessonID int64) error {
	return s.trainingRepo.DeleteLesson(ctx, lessonID)
}

// ReorderLessons applies a new lesson order. ids must list every lesson of the training.
func (s *trainingServiceImpl) ReorderLessons(ctx context.Context, trainingID int64, ids []int64) ([]*models.Lesson, error) {
	existing, err := s.trainingRepo.ListLessonIDs(ctx, trainingID)
	if err != nil {
		return nil, err
	}
	if err := checkSameSet(existing, ids); err != nil {
		return nil, err
	}
	if err := s.trainingRepo.ReorderLessons(ctx, trainingID, ids); err != nil {
		return nil, err
	}
	return s.trainingRepo.ListLessons(ctx, trainingID)
}

// checkSameSet verifies that ids is a permutation of existing
func checkSameSet(existing, ids []int64) error {
	if len(existing) != len(ids) {
		return apperrors.NewBadRequestError(fmt.Sprintf("expected %d ids, got %d", len(existing), len(ids)))
	}
	want := make(map[int64]bool, len(existing))
	for _, id := range existing {
		want[id] = true
	}
	for _, id := range ids {
		if !want[id] {
			return apperrors.NewBadRequestError(fmt.Sprintf("id %d is unknown or repeated", id))
		}
		delete(want, id)
	}
	return nil
}

// --- Slides ---

// CreateSlide appends a slide to a lesson
func (s *trainingServiceImpl) CreateSlide(ctx context.Context, lessonID int64, req *dto.SlideRequest) (*models.Slide, error) {
	slide := &models.Slide{LessonID: lessonID, Title: strings.TrimSpace(req.Title), Content: req.Content}
	if req.Position != nil {
		slide.Position = *req.Position
	}
	if err := s.trainingRepo.CreateSlide(ctx, slide); err != nil {
		return nil, err
	}
	return slide, nil
}

// UpdateSlide edits a slide
func (s *trainingServiceImpl) UpdateSlide(ctx context.Context, slideID int64, req *dto.SlideRequest) (*models.Slide, error) {
	slide, err := s.trainingRepo.GetSlide(ctx, slideID)
	if err != nil {
		return nil, err
	}
	slide.Title = strings.TrimSpace(req.Title)
	slide.Content = req.Content
	if req.Position != nil {
		slide.Position = *req.Position
	}
	if err := s.trainingRepo.UpdateSlide(ctx, slide); err != nil {
		return nil, err
	}
	return slide, nil
}

// DeleteSlide removes a slide
func (s *trainingServiceImpl) DeleteSlide(ctx context.Context, slideID int64) error {
	return s.trainingRepo.DeleteSlide(ctx, slideID)
}

// ReorderSlides applies a new slide order within a lesson
func (s *trainingServiceImpl) ReorderSlides(ctx context.Context, lessonID int64, ids []int64) (*models.Lesson, error) {
	lesson, err := s.trainingRepo.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	existing := make([]int64, 0, len(lesson.Slides))
	for _, sl := range lesson.Slides {
		existing = append(existing, sl.ID)
	}
	if err := checkSameSet(existing, ids); err != nil {
		return nil, err
	}
	if err := s.trainingRepo.ReorderSlides(ctx, lessonID, ids); err != nil {
		return nil, err
	}
	return s.trainingRepo.GetLesson(ctx, lessonID)
}

// --- Questions ---

// ListQuestions returns the quiz with answers
func (s *trainingServiceImpl) ListQuestions(ctx context.Context, trainingID int64) ([]*models.Question, error) {
	if _, err := s.trainingRepo.GetTraining(ctx, trainingID); err != nil {
		return nil, err
	}
	return s.trainingRepo.ListQuestions(ctx, trainingID)
}

// Quiz returns the questions of a training without their answers
func (s *trainingServiceImpl) Quiz(ctx context.Context, actor Actor, trainingID int64) ([]dto.QuizQuestionResponse, error) {
	if _, err := s.visibleTraining(ctx, actor, trainingID); err != nil {
		return nil, err
	}
	questions, err := s.trainingRepo.ListQuestions(ctx, trainingID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.QuizQuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, dto.QuizQuestionResponse{ID: q.ID, Text: q.Text, Options: q.Options, Position: q.Position})
	}
	return out, nil
}

func buildQuestion(q *models.Question, req *dto.QuestionRequest) error {
	q.Text = strings.TrimSpace(req.Text)
	q.Options = make([]string, 0, len(req.Options))
	for _, opt := range req.Options {
		q.Options = append(q.Options, strings.TrimSpace(opt))
	}
	if req.CorrectAnswer != nil {
		q.CorrectAnswer = *req.CorrectAnswer
	}
	if req.Position != nil {
		q.Position = *req.Position
	}
	if !q.HasValidAnswer() {
		return apperrors.NewValidationError("correctAnswer", "correctAnswer must be the index of one of the options")
	}
	return nil
}

// CreateQuestion adds a quiz question
func (s *trainingServiceImpl) CreateQuestion(ctx context.Context, trainingID int64, req *dto.QuestionRequest) (*models.Question, error) {
	question := &models.Question{TrainingID: trainingID}
	if err := buildQuestion(question, req); err != nil {
		return nil, err
	}
	if err := s.trainingRepo.CreateQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// UpdateQuestion edits a quiz question
func (s *trainingServiceImpl) UpdateQuestion(ctx context.Context, questionID int64, req *dto.QuestionRequest) (*models.Question, error) {
	question, err := s.trainingRepo.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if err := buildQuestion(question, req); err != nil {
		return nil, err
	}
	if err := s.trainingRepo.UpdateQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion removes a quiz question
func (s *trainingServiceImpl) DeleteQuestion(ctx context.Context, questionID int64) error {
	return s.trainingRepo.DeleteQuestion(ctx, questionID)
}

// --- Objectives ---

// CreateObjective adds a learning objective
func (s *trainingServiceImpl) CreateObjective(ctx context.Context, trainingID int64, req *dto.ObjectiveRequest) (*models.Objective, error) {
	objective := &models.Objective{TrainingID: trainingID, Text: strings.TrimSpace(req.Text)}
	if req.Position != nil {
		objective.Position = *req.Position
	}
	if err := s.trainingRepo.CreateObjective(ctx, objective); err != nil {
		return nil, err
	}
	return objective, nil
}

// UpdateObjective edits a learning objective
func (s *trainingServiceImpl) UpdateObjective(ctx context.Context, objectiveID int64, req *dto.ObjectiveRequest) (*models.Objective, error) {
	objective, err := s.trainingRepo.GetObjective(ctx, objectiveID)
	if err != nil {
		return nil, err
	}
	objective.Text = strings.TrimSpace(req.Text)
	if req.Position != nil {
		objective.Position = *req.Position
	}
	if err := s.trainingRepo.UpdateObjective(ctx, objective); err != nil {
		return nil, err
	}
	return objective, nil
}

// DeleteObjective removes a learning objective
func (s *trainingServiceImpl) DeleteObjective(ctx context.Context, objectiveID int64) error {
	return s.trainingRepo.DeleteObjective(ctx, objectiveID)
}

// --- Bulk import ---

// Import parses pasted text of the given kind and stores the parsed records
func (s *trainingServiceImpl) Import(ctx context.Context, trainingID int64, kind string, req *dto.ImportRequest) (*dto.ImportResponse, error) {
	if _, err := s.trainingRepo.GetTraining(ctx, trainingID); err != nil {
		return nil, err
	}

	var imported, skipped int
	var err error
	switch kind {
	case ImportLessons:
		res := importer.ParseLessons(req.Text)
		imported, skipped = len(res.Items), res.Skipped
		if imported > 0 {
			err = s.trainingRepo.ImportLessons(ctx, trainingID, res.Items, req.Replace)
		}
	case ImportQuestions:
		res := importer.ParseQuestions(req.Text)
		imported, skipped = len(res.Items), res.Skipped
		if imported > 0 {
			err = s.trainingRepo.ImportQuestions(ctx, trainingID, res.Items, req.Replace)
		}
	case ImportObjectives:
		res := importer.ParseObjectives(req.Text)
		imported, skipped = len(res.Items), res.Skipped
		if imported > 0 {
			err = s.trainingRepo.ImportObjectives(ctx, trainingID, res.Items, req.Replace)
		}
	default:
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown import kind %q", kind))
	}

	s.metrics.RecordImport(kind, imported, skipped)
	if imported == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrNothingToImport,
			fmt.Sprintf("no %s could be parsed (%d blocks skipped)", kind, skipped))
	}
	if err != nil {
		return nil, fmt.Errorf("error importing %s: %w", kind, err)
	}

	s.logger.Info().
		Int64("trainingID", trainingID).
		Str("kind", kind).
		Int("imported", imported).
		Int("skipped", skipped).
		Bool("replace", req.Replace).
		Msg("Bulk import completed")

	return &dto.ImportResponse{Kind: kind, Imported: imported, Skipped: skipped, Replaced: req.Replace}, nil
}
