package services

import (
	"context"
	"errors"
	"testing"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/importer"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/metrics"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTrainings() (TrainingService, *mockTrainingStore, *mockNotifications) {
	store, notes := &mockTrainingStore{}, &mockNotifications{}
	return NewTrainingService(store, notes, metrics.NewMetrics(), zerolog.Nop()), store, notes
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestTrainingCreate_AnnouncesMandatory(t *testing.T) {
	svc, store, notes := newTrainings()
	ctx := context.Background()
	manager := Actor{UserID: 2, Role: models.RoleManager}

	store.On("CreateTraining", ctx, mock.AnythingOfType("*models.Training")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Training).ID = 12 }).
		Return(nil)
	notes.On("NotifyActiveUsers", ctx, "New mandatory training", mock.Anything, strPtr("/trainings/12")).Return(40, nil)

	training, err := svc.Create(ctx, manager, &dto.TrainingRequest{
		Title:       strPtr(" Safeguarding Essentials "),
		IsMandatory: boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "Safeguarding Essentials", training.Title)
	assert.Equal(t, DefaultPassScore, training.PassScore)
	assert.True(t, training.IsActive)
	assert.Equal(t, int64(2), *training.CreatedBy)
	notes.AssertExpectations(t)
}

func TestTrainingCreate_RequiresTitle(t *testing.T) {
	svc, store, _ := newTrainings()

	_, err := svc.Create(context.Background(), Actor{UserID: 2, Role: models.RoleAdmin}, &dto.TrainingRequest{PassScore: intPtr(80)})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidationFailed))
	store.AssertNotCalled(t, "CreateTraining", mock.Anything, mock.Anything)
}

func TestTrainingUpdate_AnnouncesOnlyOnTransition(t *testing.T) {
	svc, store, notes := newTrainings()
	ctx := context.Background()

	store.On("GetTraining", ctx, int64(12)).
		Return(&models.Training{ID: 12, Title: "Fraud awareness", IsActive: true, IsMandatory: true}, nil)
	store.On("UpdateTraining", ctx, mock.Anything).Return(nil)

	_, err := svc.Update(ctx, 12, &dto.TrainingRequest{Category: strPtr("Finance")})
	require.NoError(t, err)
	notes.AssertNotCalled(t, "NotifyActiveUsers", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTrainingGet_StaffCannotSeeInactiveOrAnswers(t *testing.T) {
	svc, store, _ := newTrainings()
	ctx := context.Background()

	store.On("GetTraining", ctx, int64(12)).Return(&models.Training{ID: 12, IsActive: false}, nil).Once()
	_, err := svc.Get(ctx, staff, 12)
	assert.ErrorIs(t, err, apperrors.ErrTrainingNotFound)

	store.On("GetTraining", ctx, int64(12)).Return(&models.Training{ID: 12, IsActive: true}, nil)
	store.On("ListLessons", ctx, int64(12)).Return([]*models.Lesson{{ID: 1, TrainingID: 12}}, nil)
	store.On("ListObjectives", ctx, int64(12)).Return([]*models.Objective{{ID: 1, Text: "Know the reporting line"}}, nil)

	training, err := svc.Get(ctx, staff, 12)
	require.NoError(t, err)
	assert.Len(t, training.Lessons, 1)
	assert.Len(t, training.Objectives, 1)
	assert.Empty(t, training.Questions)
	store.AssertNotCalled(t, "ListQuestions", mock.Anything, mock.Anything)
}

func TestTrainingImport_Questions(t *testing.T) {
	svc, store, _ := newTrainings()
	ctx := context.Background()
	text := "Q1: Who do you report abuse to?\n- Your manager\n- The PSEA focal point\nA1: The PSEA focal point\n\n" +
		"Q2: Broken question\n- only option\nA2: only option\n"

	store.On("GetTraining", ctx, int64(12)).Return(&models.Training{ID: 12}, nil)
	store.On("ImportQuestions", ctx, int64(12), []importer.Question{
		{Text: "Who do you report abuse to?", Options: []string{"Your manager", "The PSEA focal point"}, CorrectAnswer: 1},
	}, true).Return(nil)

	res, err := svc.Import(ctx, 12, ImportQuestions, &dto.ImportRequest{Text: text, Replace: true})
	require.NoError(t, err)
	assert.Equal(t, &dto.ImportResponse{Kind: ImportQuestions, Imported: 1, Skipped: 1, Replaced: true}, res)
	store.AssertExpectations(t)
}

func TestTrainingImport_NothingParsed(t *testing.T) {
	svc, store, _ := newTrainings()
	ctx := context.Background()
	store.On("GetTraining", ctx, int64(12)).Return(&models.Training{ID: 12}, nil)

	_, err := svc.Import(ctx, 12, ImportLessons, &dto.ImportRequest{Text: "no markers here"})
	assert.ErrorIs(t, err, apperrors.ErrNothingToImport)
	store.AssertNotCalled(t, "ImportLessons", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTrainingImport_UnknownKindAndStoreFailure(t *testing.T) {
	svc, store, _ := newTrainings()
	ctx := context.Background()
	store.On("GetTraining", ctx, int64(12)).Return(&models.Training{ID: 12}, nil)
	store.On("ImportObjectives", ctx, int64(12), []string{"Identify risks", "Report incidents"}, false).
		Return(errors.New("connection reset"))

	_, err := svc.Import(ctx, 12, "slides", &dto.ImportRequest{Text: "x"})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	_, err = svc.Import(ctx, 12, ImportObjectives, &dto.ImportRequest{Text: "- Identify risks\n- Report incidents"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error importing objectives")
}
