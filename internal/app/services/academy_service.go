package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// AcademyService defines the interface for learning tracks, enrollments and quizzes
type AcademyService interface {
	ListTracks(ctx context.Context, actor Actor) ([]*models.Track, error)
	GetTrack(ctx context.Context, actor Actor, id int64) (*models.Track, error)
	CreateTrack(ctx context.Context, req *dto.TrackRequest) (*models.Track, error)
	UpdateTrack(ctx context.Context, id int64, req *dto.TrackRequest) (*models.Track, error)
	DeleteTrack(ctx context.Context, id int64) error

	Enroll(ctx context.Context, actor Actor, trainingID int64) (*models.Enrollment, error)
	EnrollTrack(ctx context.Context, actor Actor, trackID int64) ([]*models.Enrollment, error)
	CompleteLesson(ctx context.Context, actor Actor, trainingID, lessonID int64) (*models.Enrollment, error)
	SubmitQuiz(ctx context.Context, actor Actor, trainingID int64, req *dto.QuizSubmitRequest) (*dto.QuizResultResponse, error)
	Attempts(ctx context.Context, actor Actor, trainingID int64) ([]*models.QuizAttempt, error)
	MyProgress(ctx context.Context, actor Actor) (*dto.LearnerProgress, error)
	TrainingLearners(ctx context.Context, trainingID int64, page, size int) (*dto.PaginatedResponse, error)
}

type academyServiceImpl struct {
	academyRepo  AcademyStore
	trainingRepo TrainingStore
	logger       zerolog.Logger
	now          func() time.Time
}

// NewAcademyService creates a new AcademyService
func NewAcademyService(academyRepo AcademyStore, trainingRepo TrainingStore, logger zerolog.Logger) AcademyService {
	return &academyServiceImpl{
		academyRepo:  academyRepo,
		trainingRepo: trainingRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// --- Tracks ---

// ListTracks returns the tracks visible to the caller
func (s *academyServiceImpl) ListTracks(ctx context.Context, actor Actor) ([]*models.Track, error) {
	return s.academyRepo.ListTracks(ctx, actor.ActiveOnly())
}

// GetTrack returns a track with its trainings in order
func (s *academyServiceImpl) GetTrack(ctx context.Context, actor Actor, id int64) (*models.Track, error) {
	track, err := s.academyRepo.GetTrack(ctx, id)
	if err != nil {
		return nil, err
	}
	if !track.IsActive && actor.ActiveOnly() {
		return nil, apperrors.ErrTrackNotFound
	}
	return track, nil
}

// CreateTrack adds a track
func (s *academyServiceImpl) CreateTrack(ctx context.Context, req *dto.TrackRequest) (*models.Track, error) {
	track := &models.Track{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		track.IsActive = *req.IsActive
	}
	trainingIDs := req.TrainingIDs
	if trainingIDs == nil {
		trainingIDs = []int64{}
	}
	if err := s.academyRepo.CreateTrack(ctx, track, trainingIDs); err != nil {
		return nil, err
	}
	return s.academyRepo.GetTrack(ctx, track.ID)
}

// UpdateTrack edits a track. A nil trainingIds list keeps the current trainings.
func (s *academyServiceImpl) UpdateTrack(ctx context.Context, id int64, req *dto.TrackRequest) (*models.Track, error) {
	track, err := s.academyRepo.GetTrack(ctx, id)
	if err != nil {
		return nil, err
	}
	track.Title = strings.TrimSpace(req.Title)
	track.Description = req.Description
	if req.IsActive != nil {
		track.IsActive = *req.IsActive
	}
	if err := s.academyRepo.UpdateTrack(ctx, track, req.TrainingIDs); err != nil {
		return nil, err
	}
	return s.academyRepo.GetTrack(ctx, id)
}

// DeleteTrack removes a track. Its trainings are kept.
func (s *academyServiceImpl) DeleteTrack(ctx context.Context, id int64) error {
	return s.academyRepo.DeleteTrack(ctx, id)
}

// --- Enrollments ---

func (s *academyServiceImpl) activeTraining(ctx context.Context, trainingID int64) (*models.Training, error) {
	training, err := s.trainingRepo.GetTraining(ctx, trainingID)
	if err != nil {
		return nil, err
	}
	if !training.IsActive {
		return nil, apperrors.ErrTrainingNotFound
	}
	return training, nil
}

// Enroll enrolls the caller in a training. Enrolling twice returns the existing enrollment.
func (s *academyServiceImpl) Enroll(ctx context.Context, actor Actor, trainingID int64) (*models.Enrollment, error) {
	if _, err := s.activeTraining(ctx, trainingID); err != nil {
		return nil, err
	}
	enrollment, err := s.academyRepo.CreateEnrollment(ctx, actor.UserID, trainingID)
	if err != nil {
		return nil, err
	}
	// A training without lessons or quiz is complete as soon as the user joins.
	status, progress := enrollment.Status, enrollment.Progress
	if err := s.refresh(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("error computing progress: %w", err)
	}
	if enrollment.Status != status || enrollment.Progress != progress {
		if err := s.academyRepo.UpdateEnrollment(ctx, enrollment); err != nil {
			return nil, err
		}
	}
	s.logger.Info().Int64("userID", actor.UserID).Int64("trainingID", trainingID).Msg("User enrolled")
	return enrollment, nil
}

// EnrollTrack enrolls the caller in every active training of a track
func (s *academyServiceImpl) EnrollTrack(ctx context.Context, actor Actor, trackID int64) ([]*models.Enrollment, error) {
	track, err := s.GetTrack(ctx, actor, trackID)
	if err != nil {
		return nil, err
	}

	enrollments := make([]*models.Enrollment, 0, len(track.Trainings))
	for _, tt := range track.Trainings {
		e, err := s.Enroll(ctx, actor, tt.TrainingID)
		if apperrors.Is(err, apperrors.ErrTrainingNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, nil
}

// enrollment returns the caller's enrollment, creating it on first activity
func (s *academyServiceImpl) enrollment(ctx context.Context, userID, trainingID int64) (*models.Enrollment, error) {
	e, err := s.academyRepo.GetEnrollment(ctx, userID, trainingID)
	if apperrors.Is(err, apperrors.ErrEnrollmentNotFound) {
		return s.academyRepo.CreateEnrollment(ctx, userID, trainingID)
	}
	return e, err
}

// refresh recomputes progress and status. Progress counts completed lessons that still
// exist; completion also needs a passed quiz when the training has questions.
func (s *academyServiceImpl) refresh(ctx context.Context, e *models.Enrollment) error {
	lessonIDs, err := s.trainingRepo.ListLessonIDs(ctx, e.TrainingID)
	if err != nil {
		return err
	}
	done := 0
	for _, id := range lessonIDs {
		if e.HasCompletedLesson(id) {
			done++
		}
	}
	if len(lessonIDs) == 0 {
		e.Progress = 100
	} else {
		e.Progress = helpers.Percent(int64(done), int64(len(lessonIDs)))
	}

	quizDone, err := s.quizDone(ctx, e)
	if err != nil {
		return err
	}

	switch {
	case e.Progress >= 100 && quizDone:
		if e.Status != models.EnrollmentCompleted {
			now := s.now()
			e.CompletedAt = &now
		}
		e.Status = models.EnrollmentCompleted
	case done > 0 || e.Score != nil:
		e.Status = models.EnrollmentInProgress
		e.CompletedAt = nil
	default:
		e.Status = models.EnrollmentEnrolled
		e.CompletedAt = nil
	}
	return nil
}

func (s *academyServiceImpl) quizDone(ctx context.Context, e *models.Enrollment) (bool, error) {
	questions, err := s.trainingRepo.ListQuestions(ctx, e.TrainingID)
	if err != nil {
		return false, err
	}
	if len(questions) == 0 {
		return true, nil
	}
	attempts, err := s.academyRepo.ListAttempts(ctx, e.UserID, e.TrainingID)
	if err != nil {
		return false, err
	}
	for _, a := range attempts {
		if a.Passed {
			return true, nil
		}
	}
	return false, nil
}

// CompleteLesson marks a lesson done for the caller and updates their progress
func (s *academyServiceImpl) CompleteLesson(ctx context.Context, actor Actor, trainingID, lessonID int64) (*models.Enrollment, error) {
	if _, err := s.activeTraining(ctx, trainingID); err != nil {
		return nil, err
	}
	lesson, err := s.trainingRepo.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.TrainingID != trainingID {
		return nil, apperrors.ErrLessonNotFound
	}

	e, err := s.enrollment(ctx, actor.UserID, trainingID)
	if err != nil {
		return nil, err
	}
	if !e.HasCompletedLesson(lessonID) {
		e.CompletedLessons = append(e.CompletedLessons, lessonID)
	}
	if err := s.refresh(ctx, e); err != nil {
		return nil, fmt.Errorf("error computing progress: %w", err)
	}
	if err := s.academyRepo.UpdateEnrollment(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// SubmitQuiz grades the caller's answers, records the attempt and updates the enrollment
func (s *academyServiceImpl) SubmitQuiz(ctx context.Context, actor Actor, trainingID int64, req *dto.QuizSubmitRequest) (*dto.QuizResultResponse, error) {
	training, err := s.activeTraining(ctx, trainingID)
	if err != nil {
		return nil, err
	}
	questions, err := s.trainingRepo.ListQuestions(ctx, trainingID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperrors.NewBadRequestError("this training has no quiz")
	}
	if len(req.Answers) != len(questions) {
		return nil, apperrors.NewValidationError("answers",
			fmt.Sprintf("expected %d answers, got %d", len(questions), len(req.Answers)))
	}

	correct := 0
	for i, q := range questions {
		if req.Answers[i] == q.CorrectAnswer {
			correct++
		}
	}
	score := helpers.Percent(int64(correct), int64(len(questions)))

	attempt := &models.QuizAttempt{
		UserID:     actor.UserID,
		TrainingID: trainingID,
		Answers:    req.Answers,
		Score:      score,
		Passed:     score >= float64(training.PassScore),
	}
	if err := s.academyRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	e, err := s.enrollment(ctx, actor.UserID, trainingID)
	if err != nil {
		return nil, err
	}
	if e.Score == nil || score > *e.Score {
		e.Score = &score
	}
	if err := s.refresh(ctx, e); err != nil {
		return nil, fmt.Errorf("error computing progress: %w", err)
	}
	if err := s.academyRepo.UpdateEnrollment(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userID", actor.UserID).
		Int64("trainingID", trainingID).
		Float64("score", score).
		Bool("passed", attempt.Passed).
		Msg("Quiz submitted")

	return &dto.QuizResultResponse{
		Attempt:    attempt,
		Correct:    correct,
		Total:      len(questions),
		PassScore:  training.PassScore,
		Enrollment: e,
	}, nil
}

// Attempts returns the caller's quiz attempts for a training, newest first
func (s *academyServiceImpl) Attempts(ctx context.Context, actor Actor, trainingID int64) ([]*models.QuizAttempt, error) {
	return s.academyRepo.ListAttempts(ctx, actor.UserID, trainingID)
}

// MyProgress summarises the caller's enrollments
func (s *academyServiceImpl) MyProgress(ctx context.Context, actor Actor) (*dto.LearnerProgress, error) {
	enrollments, err := s.academyRepo.ListUserEnrollments(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	open, err := s.academyRepo.CountOpenMandatory(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	progress := &dto.LearnerProgress{Enrollments: enrollments, MandatoryOpen: int(open)}
	var sum float64
	for _, e := range enrollments {
		switch e.Status {
		case models.EnrollmentCompleted:
			progress.Completed++
		case models.EnrollmentInProgress:
			progress.InProgress++
		}
		sum += e.Progress
	}
	if len(enrollments) > 0 {
		progress.AverageProgress = helpers.Round2(sum / float64(len(enrollments)))
	}
	return progress, nil
}

// TrainingLearners returns one page of the enrollments of a training
func (s *academyServiceImpl) TrainingLearners(ctx context.Context, trainingID int64, page, size int) (*dto.PaginatedResponse, error) {
	if _, err := s.trainingRepo.GetTraining(ctx, trainingID); err != nil {
		return nil, err
	}
	items, total, err := s.academyRepo.ListTrainingEnrollments(ctx, trainingID, repositories.Page{Number: page, Size: size})
	if err != nil {
		return nil, err
	}
	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}
