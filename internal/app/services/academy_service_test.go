package services

import (
	"context"
	"testing"
	"time"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

var staff = Actor{UserID: 7, Role: models.RoleStaff}

func newAcademy() (*academyServiceImpl, *mockAcademyStore, *mockTrainingStore) {
	academy, trainings := &mockAcademyStore{}, &mockTrainingStore{}
	svc := &academyServiceImpl{
		academyRepo:  academy,
		trainingRepo: trainings,
		logger:       zerolog.Nop(),
		now:          func() time.Time { return fixedNow },
	}
	return svc, academy, trainings
}

func threeQuestions() []*models.Question {
	return []*models.Question{
		{ID: 1, Options: []string{"a", "b"}, CorrectAnswer: 1},
		{ID: 2, Options: []string{"a", "b"}, CorrectAnswer: 0},
		{ID: 3, Options: []string{"a", "b", "c"}, CorrectAnswer: 2},
	}
}

func TestSubmitQuiz_FailingAttemptStartsEnrollment(t *testing.T) {
	svc, academy, trainings := newAcademy()
	ctx := context.Background()

	trainings.On("GetTraining", ctx, int64(5)).Return(&models.Training{ID: 5, IsActive: true, PassScore: 70}, nil)
	trainings.On("ListQuestions", ctx, int64(5)).Return(threeQuestions(), nil)
	trainings.On("ListLessonIDs", ctx, int64(5)).Return([]int64{10, 11}, nil)
	academy.On("CreateAttempt", ctx, mock.AnythingOfType("*models.QuizAttempt")).Return(nil)
	academy.On("GetEnrollment", ctx, int64(7), int64(5)).Return(nil, apperrors.ErrEnrollmentNotFound)
	academy.On("CreateEnrollment", ctx, int64(7), int64(5)).
		Return(&models.Enrollment{UserID: 7, TrainingID: 5, Status: models.EnrollmentEnrolled}, nil)
	academy.On("ListAttempts", ctx, int64(7), int64(5)).Return([]*models.QuizAttempt{}, nil)
	academy.On("UpdateEnrollment", ctx, mock.AnythingOfType("*models.Enrollment")).Return(nil)

	res, err := svc.SubmitQuiz(ctx, staff, 5, &dto.QuizSubmitRequest{Answers: []int{1, 0, 0}})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 70, res.PassScore)
	assert.InDelta(t, 66.67, res.Attempt.Score, 0.001)
	assert.False(t, res.Attempt.Passed)
	require.NotNil(t, res.Enrollment.Score)
	assert.InDelta(t, 66.67, *res.Enrollment.Score, 0.001)
	assert.Equal(t, models.EnrollmentInProgress, res.Enrollment.Status)
	assert.Zero(t, res.Enrollment.Progress)
	assert.Nil(t, res.Enrollment.CompletedAt)
	academy.AssertExpectations(t)
}

func TestSubmitQuiz_PassCompletesFinishedTraining(t *testing.T) {
	svc, academy, trainings := newAcademy()
	ctx := context.Background()
	previous := 50.0

	trainings.On("GetTraining", ctx, int64(5)).Return(&models.Training{ID: 5, IsActive: true, PassScore: 70}, nil)
	trainings.On("ListQuestions", ctx, int64(5)).Return(threeQuestions(), nil)
	trainings.On("ListLessonIDs", ctx, int64(5)).Return([]int64{10, 11}, nil)
	academy.On("CreateAttempt", ctx, mock.MatchedBy(func(a *models.QuizAttempt) bool {
		return a.Passed && a.Score == 100 && a.UserID == 7
	})).Return(nil)
	academy.On("GetEnrollment", ctx, int64(7), int64(5)).Return(&models.Enrollment{
		UserID: 7, TrainingID: 5, Status: models.EnrollmentInProgress,
		CompletedLessons: []int64{10, 11}, Score: &previous,
	}, nil)
	academy.On("ListAttempts", ctx, int64(7), int64(5)).Return([]*models.QuizAttempt{{Passed: true, Score: 100}}, nil)
	academy.On("UpdateEnrollment", ctx, mock.AnythingOfType("*models.Enrollment")).Return(nil)

	res, err := svc.SubmitQuiz(ctx, staff, 5, &dto.QuizSubmitRequest{Answers: []int{1, 0, 2}})
	require.NoError(t, err)

	assert.True(t, res.Attempt.Passed)
	assert.Equal(t, models.EnrollmentCompleted, res.Enrollment.Status)
	assert.Equal(t, float64(100), res.Enrollment.Progress)
	assert.Equal(t, float64(100), *res.Enrollment.Score)
	require.NotNil(t, res.Enrollment.CompletedAt)
	assert.Equal(t, fixedNow, *res.Enrollment.CompletedAt)
	academy.AssertNotCalled(t, "CreateEnrollment", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitQuiz_KeepsBestScore(t *testing.T) {
	svc, academy, trainings := newAcademy()
	ctx := context.Background()
	best := 90.0

	trainings.On("GetTraining", ctx, int64(5)).Return(&models.Training{ID: 5, IsActive: true, PassScore: 70}, nil)
	trainings.On("ListQuestions", ctx, int64(5)).Return(threeQuestions(), nil)
	trainings.On("ListLessonIDs", ctx, int64(5)).Return([]int64{}, nil)
	academy.On("CreateAttempt", ctx, mock.Anything).Return(nil)
	academy.On("GetEnrollment", ctx, int64(7), int64(5)).
		Return(&models.Enrollment{UserID: 7, TrainingID: 5, Score: &best}, nil)
	academy.On("ListAttempts", ctx, int64(7), int64(5)).Return([]*models.QuizAttempt{{Passed: true}}, nil)
	academy.On("UpdateEnrollment", ctx, mock.Anything).Return(nil)

	res, err := svc.SubmitQuiz(ctx, staff, 5, &dto.QuizSubmitRequest{Answers: []int{1, 1, 1}})
	require.NoError(t, err)

	assert.InDelta(t, 33.33, res.Attempt.Score, 0.001)
	assert.Equal(t, 90.0, *res.Enrollment.Score)
	assert.Equal(t, models.EnrollmentCompleted, res.Enrollment.Status)
}

func TestSubmitQuiz_AnswerCountMismatch(t *testing.T) {
	svc, academy, trainings := newAcademy()
	ctx := context.Background()

	trainings.On("GetTraining", ctx, int64(5)).Return(&models.Training{ID: 5, IsActive: true, PassScore: 70}, nil)
	trainings.On("ListQuestions", ctx, int64(5)).Return(threeQuestions(), nil)

	_, err := svc.SubmitQuiz(ctx, staff, 5, &dto.QuizSubmitRequest{Answers: []int{1, 0}})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidationFailed))
	academy.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}

func TestSubmitQuiz_RejectsTrainingWithoutQuiz(t *testing.T) {
	svc, _, trainings := newAcademy()
	ctx := context.Background()

	trainings.On("GetTraining", ctx, int64(5)).Return(&models.Training{ID: 5, IsActive: true}, nil)
	trainings.On("ListQuestions", ctx, int64(5)).Return([]*models.Question{}, nil)

	_, err := svc.SubmitQuiz(ctx, staff, 5, &dto.QuizSubmitRequest{Answers: []int{0}})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestSubmitQuiz_InactiveTraining(t *testing.T) {
	svc, _, trainings := newAcademy()
	ctx := context.Background()

	trainings.On("GetTraining", ctx, int64(5)).Return(&models.Training{ID: 5, IsActive: false}, nil)

	_, err := svc.SubmitQuiz(ctx, staff, 5, &dto.QuizSubmitRequest{Answers: []int{0}})
	assert.ErrorIs(t, err, apperrors.ErrTrainingNotFound)
}

func TestCompleteLesson_TracksProgress(t *testing.T) {
	svc, academy, trainings := newAcademy()
	ctx := context.Background()

	trainings.On("GetTraining", ctx, int64(5)).Return(&models.Training{ID: 5, IsActive: true}, nil)
	trainings.On("GetLesson", ctx, int64(10)).Return(&models.Lesson{ID: 10, TrainingID: 5}, nil)
	trainings.On("ListLessonIDs", ctx, int64(5)).Return([]int64{10, 11, 12}, nil)
	trainings.On("ListQuestions", ctx, int64(5)).Return([]*models.Question{}, nil)
	academy.On("GetEnrollment", ctx, int64(7), int64(5)).
		Return(&models.Enrollment{UserID: 7, TrainingID: 5, Status: models.EnrollmentEnrolled, CompletedLessons: []int64{}}, nil)
	academy.On("UpdateEnrollment", ctx, mock.Anything).Return(nil)

	e, err := svc.CompleteLesson(ctx, staff, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, e.CompletedLessons)
	assert.InDelta(t, 33.33, e.Progress, 0.001)
	assert.Equal(t, models.EnrollmentInProgress, e.Status)
}

func TestCompleteLesson_LastLessonWithoutQuizCompletes(t *testing.T) {
	svc, academy, trainings := newAcademy()
	ctx := context.Background()

	trainings.On("GetTraining", ctx, int64(5)).Return(&models.Training{ID: 5, IsActive: true}, nil)
	trainings.On("GetLesson", ctx, int64(11)).Return(&models.Lesson{ID: 11, TrainingID: 5}, nil)
	trainings.On("ListLessonIDs", ctx, int64(5)).Return([]int64{10, 11}, nil)
	trainings.On("ListQuestions", ctx, int64(5)).Return([]*models.Question{}, nil)
	// Lesson 99 was deleted after it was completed and no longer counts.
	academy.On("GetEnrollment", ctx, int64(7), int64(5)).
		Return(&models.Enrollment{UserID: 7, TrainingID: 5, CompletedLessons: []int64{10, 99, 11}}, nil)
	academy.On("UpdateEnrollment", ctx, mock.Anything).Return(nil)

	e, err := svc.CompleteLesson(ctx, staff, 5, 11)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 99, 11}, e.CompletedLessons)
	assert.Equal(t, float64(100), e.Progress)
	assert.Equal(t, models.EnrollmentCompleted, e.Status)
	assert.Equal(t, fixedNow, *e.CompletedAt)
}

func TestCompleteLesson_LessonOfAnotherTraining(t *testing.T) {
	svc, academy, trainings := newAcademy()
	ctx := context.Background()

	trainings.On("GetTraining", ctx, int64(5)).Return(&models.Training{ID: 5, IsActive: true}, nil)
	trainings.On("GetLesson", ctx, int64(30)).Return(&models.Lesson{ID: 30, TrainingID: 6}, nil)

	_, err := svc.CompleteLesson(ctx, staff, 5, 30)
	assert.ErrorIs(t, err, apperrors.ErrLessonNotFound)
	academy.AssertNotCalled(t, "UpdateEnrollment", mock.Anything, mock.Anything)
}

func TestEnrollTrack_SkipsInactiveTrainings(t *testing.T) {
	svc, academy, trainings := newAcademy()
	ctx := context.Background()

	academy.On("GetTrack", ctx, int64(3)).Return(&models.Track{
		ID: 3, IsActive: true,
		Trainings: []models.TrackTraining{{TrainingID: 5}, {TrainingID: 6}},
	}, nil)
	trainings.On("GetTraining", ctx, int64(5)).Return(&models.Training{ID: 5, IsActive: true}, nil)
	trainings.On("GetTraining", ctx, int64(6)).Return(&models.Training{ID: 6, IsActive: false}, nil)
	academy.On("CreateEnrollment", ctx, int64(7), int64(5)).Return(&models.Enrollment{UserID: 7, TrainingID: 5}, nil)
	trainings.On("ListLessonIDs", ctx, int64(5)).Return([]int64{10}, nil)
	trainings.On("ListQuestions", ctx, int64(5)).Return([]*models.Question{}, nil)
	academy.On("UpdateEnrollment", ctx, mock.Anything).Return(nil)

	enrollments, err := svc.EnrollTrack(ctx, staff, 3)
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, int64(5), enrollments[0].TrainingID)
	assert.Equal(t, models.EnrollmentEnrolled, enrollments[0].Status)
}

func TestEnroll_EmptyTrainingCompletesImmediately(t *testing.T) {
	svc, academy, trainings := newAcademy()
	ctx := context.Background()

	trainings.On("GetTraining", ctx, int64(5)).Return(&models.Training{ID: 5, IsActive: true}, nil)
	trainings.On("ListLessonIDs", ctx, int64(5)).Return([]int64{}, nil)
	trainings.On("ListQuestions", ctx, int64(5)).Return([]*models.Question{}, nil)
	academy.On("CreateEnrollment", ctx, int64(7), int64(5)).
		Return(&models.Enrollment{UserID: 7, TrainingID: 5, Status: models.EnrollmentEnrolled}, nil)
	academy.On("UpdateEnrollment", ctx, mock.AnythingOfType("*models.Enrollment")).Return(nil)

	e, err := svc.Enroll(ctx, staff, 5)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCompleted, e.Status)
	assert.Equal(t, float64(100), e.Progress)
	require.NotNil(t, e.CompletedAt)
	assert.Equal(t, fixedNow, *e.CompletedAt)
	academy.AssertCalled(t, "UpdateEnrollment", ctx, e)
}

func TestEnroll_UnchangedEnrollmentIsNotRewritten(t *testing.T) {
	svc, academy, trainings := newAcademy()
	ctx := context.Background()

	trainings.On("GetTraining", ctx, int64(5)).Return(&models.Training{ID: 5, IsActive: true}, nil)
	trainings.On("ListLessonIDs", ctx, int64(5)).Return([]int64{10, 11}, nil)
	trainings.On("ListQuestions", ctx, int64(5)).Return(threeQuestions(), nil)
	academy.On("CreateEnrollment", ctx, int64(7), int64(5)).
		Return(&models.Enrollment{UserID: 7, TrainingID: 5, Status: models.EnrollmentEnrolled}, nil)
	academy.On("ListAttempts", ctx, int64(7), int64(5)).Return([]*models.QuizAttempt{}, nil)

	e, err := svc.Enroll(ctx, staff, 5)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentEnrolled, e.Status)
	assert.Zero(t, e.Progress)
	academy.AssertNotCalled(t, "UpdateEnrollment", mock.Anything, mock.Anything)
}

func TestGetTrack_InactiveHiddenFromStaff(t *testing.T) {
	svc, academy, _ := newAcademy()
	ctx := context.Background()
	academy.On("GetTrack", ctx, int64(3)).Return(&models.Track{ID: 3, IsActive: false}, nil)

	_, err := svc.GetTrack(ctx, staff, 3)
	assert.ErrorIs(t, err, apperrors.ErrTrackNotFound)

	track, err := svc.GetTrack(ctx, Actor{UserID: 1, Role: models.RoleManager}, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), track.ID)
}

func TestMyProgress_Summarises(t *testing.T) {
	svc, academy, _ := newAcademy()
	ctx := context.Background()

	academy.On("ListUserEnrollments", ctx, int64(7)).Return([]*models.Enrollment{
		{Status: models.EnrollmentCompleted, Progress: 100},
		{Status: models.EnrollmentInProgress, Progress: 50},
		{Status: models.EnrollmentEnrolled, Progress: 0},
	}, nil)
	academy.On("CountOpenMandatory", ctx, int64(7)).Return(int64(2), nil)

	p, err := svc.MyProgress(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Completed)
	assert.Equal(t, 1, p.InProgress)
	assert.Equal(t, 2, p.MandatoryOpen)
	assert.Equal(t, 50.0, p.AverageProgress)
}
