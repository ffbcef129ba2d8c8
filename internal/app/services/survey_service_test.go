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

func newSurveys() (*surveyServiceImpl, *mockSurveyStore) {
	store := &mockSurveyStore{}
	return &surveyServiceImpl{
		surveyRepo: store,
		logger:     zerolog.Nop(),
		now:        func() time.Time { return fixedNow },
	}, store
}

func wellbeingSurvey() *models.Survey {
	return &models.Survey{
		ID:       4,
		Title:    "Staff wellbeing",
		IsActive: true,
		Questions: []models.SurveyQuestion{
			{ID: 1, Text: "How are you?", QuestionType: models.QuestionRating, IsRequired: true},
			{ID: 2, Text: "Office", QuestionType: models.QuestionSingleChoice, Options: []string{"Kabul", "Beirut"}},
			{ID: 3, Text: "Tools", QuestionType: models.QuestionMultiChoice, Options: []string{"Email", "Chat", "Drive"}},
			{ID: 4, Text: "Comments", QuestionType: models.QuestionText},
		},
	}
}

func TestSurveyCreate_ValidatesQuestions(t *testing.T) {
	svc, store := newSurveys()
	ctx := context.Background()
	admin := Actor{UserID: 1, Role: models.RoleAdmin}

	tests := []struct {
		name      string
		questions []dto.SurveyQuestionRequest
		field     string
	}{
		{"no questions", nil, "questions"},
		{"blank text", []dto.SurveyQuestionRequest{{Text: "  ", QuestionType: "TEXT"}}, "questions[0].text"},
		{"single option", []dto.SurveyQuestionRequest{
			{Text: "Pick", QuestionType: "SINGLE_CHOICE", Options: []string{"Yes", "Yes", " "}},
		}, "questions[0].options"},
		{"unknown type", []dto.SurveyQuestionRequest{{Text: "Q", QuestionType: "SLIDER"}}, "questions[0].questionType"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, admin, &dto.SurveyRequest{Title: "S", Questions: tt.questions})
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrValidationFailed))

			var custom *apperrors.CustomError
			require.ErrorAs(t, err, &custom)
			assert.Equal(t, tt.field, custom.Details["field"])
		})
	}
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSurveyCreate_NormalizesQuestions(t *testing.T) {
	svc, store := newSurveys()
	ctx := context.Background()

	store.On("Create", ctx, mock.AnythingOfType("*models.Survey")).Return(nil)

	survey, err := svc.Create(ctx, Actor{UserID: 1, Role: models.RoleManager}, &dto.SurveyRequest{
		Title: "  Pulse  ",
		Questions: []dto.SurveyQuestionRequest{
			{Text: "Mood", QuestionType: "rating", IsRequired: true},
			{Text: "Team", QuestionType: "multi_choice", Options: []string{"A", " B ", "A"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Pulse", survey.Title)
	assert.True(t, survey.IsActive)
	assert.Equal(t, int64(1), *survey.CreatedBy)
	require.Len(t, survey.Questions, 2)
	assert.Equal(t, models.QuestionRating, survey.Questions[0].QuestionType)
	assert.Equal(t, 1, survey.Questions[0].Position)
	assert.Equal(t, []string{"A", "B"}, survey.Questions[1].Options)
	assert.Equal(t, 2, survey.Questions[1].Position)
}

func TestSurveyUpdate_QuestionsLockedAfterResponses(t *testing.T) {
	svc, store := newSurveys()
	ctx := context.Background()

	store.On("GetByID", ctx, int64(4)).Return(wellbeingSurvey(), nil)
	store.On("CountResponses", ctx, int64(4)).Return(int64(3), nil)

	_, err := svc.Update(ctx, 4, &dto.SurveyRequest{
		Title:     "Staff wellbeing",
		Questions: []dto.SurveyQuestionRequest{{Text: "New question", QuestionType: "TEXT"}},
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSurveyUpdate_SameQuestionsKeepResponses(t *testing.T) {
	svc, store := newSurveys()
	ctx := context.Background()
	closes := fixedNow.Add(48 * time.Hour)

	store.On("GetByID", ctx, int64(4)).Return(wellbeingSurvey(), nil)
	store.On("Update", ctx, mock.AnythingOfType("*models.Survey"), false).Return(nil)

	survey, err := svc.Update(ctx, 4, &dto.SurveyRequest{
		Title:    "Staff wellbeing 2026",
		ClosesAt: &closes,
		Questions: []dto.SurveyQuestionRequest{
			{Text: "How are you?", QuestionType: "RATING", IsRequired: true},
			{Text: "Office", QuestionType: "SINGLE_CHOICE", Options: []string{"Kabul", "Beirut"}},
			{Text: "Tools", QuestionType: "MULTI_CHOICE", Options: []string{"Email", "Chat", "Drive"}},
			{Text: "Comments", QuestionType: "TEXT"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Staff wellbeing 2026", survey.Title)
	assert.Equal(t, &closes, survey.ClosesAt)
	store.AssertNotCalled(t, "CountResponses", mock.Anything, mock.Anything)
}

func TestSurveySubmit_NormalizesAnswers(t *testing.T) {
	svc, store := newSurveys()
	ctx := context.Background()

	store.On("GetByID", ctx, int64(4)).Return(wellbeingSurvey(), nil)
	store.On("CreateResponse", ctx, mock.AnythingOfType("*models.SurveyResponse"), int64(7)).Return(nil)

	resp, err := svc.Submit(ctx, staff, 4, &dto.SubmitSurveyRequest{Answers: map[string]interface{}{
		"1": float64(4),
		"2": " Kabul ",
		"3": []interface{}{"Chat", "Email", "Chat"},
		"4": "   ",
	}})
	require.NoError(t, err)

	require.NotNil(t, resp.UserID)
	assert.Equal(t, int64(7), *resp.UserID)
	assert.Equal(t, map[string]interface{}{
		"1": 4,
		"2": "Kabul",
		"3": []string{"Chat", "Email"},
	}, resp.Answers)
}

func TestSurveySubmit_AnonymousDropsUser(t *testing.T) {
	svc, store := newSurveys()
	ctx := context.Background()
	survey := wellbeingSurvey()
	survey.IsAnonymous = true

	store.On("GetByID", ctx, int64(4)).Return(survey, nil)
	store.On("CreateResponse", ctx, mock.MatchedBy(func(r *models.SurveyResponse) bool {
		return r.UserID == nil
	}), int64(7)).Return(nil)

	resp, err := svc.Submit(ctx, staff, 4, &dto.SubmitSurveyRequest{Answers: map[string]interface{}{"1": float64(5)}})
	require.NoError(t, err)
	assert.Nil(t, resp.UserID)
	store.AssertExpectations(t)
}

func TestSurveySubmit_Rejections(t *testing.T) {
	ctx := context.Background()
	past := fixedNow.Add(-time.Minute)

	tests := []struct {
		name    string
		mutate  func(*models.Survey)
		answers map[string]interface{}
		wantErr error
	}{
		{"closed", func(s *models.Survey) { s.ClosesAt = &past }, map[string]interface{}{"1": float64(3)}, apperrors.ErrSurveyClosed},
		{"missing required", nil, map[string]interface{}{"4": "fine"}, apperrors.ErrValidationFailed},
		{"unknown question", nil, map[string]interface{}{"1": float64(3), "99": "x"}, apperrors.ErrValidationFailed},
		{"rating out of range", nil, map[string]interface{}{"1": float64(6)}, apperrors.ErrValidationFailed},
		{"fractional rating", nil, map[string]interface{}{"1": 2.5}, apperrors.ErrValidationFailed},
		{"not an option", nil, map[string]interface{}{"1": float64(3), "2": "Paris"}, apperrors.ErrValidationFailed},
		{"wrong multi type", nil, map[string]interface{}{"1": float64(3), "3": "Email"}, apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newSurveys()
			survey := wellbeingSurvey()
			if tt.mutate != nil {
				tt.mutate(survey)
			}
			store.On("GetByID", ctx, int64(4)).Return(survey, nil)

			_, err := svc.Submit(ctx, staff, 4, &dto.SubmitSurveyRequest{Answers: tt.answers})
			assert.True(t, apperrors.Is(err, tt.wantErr), "got %v", err)
			store.AssertNotCalled(t, "CreateResponse", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSurveyGet_InactiveHiddenFromStaff(t *testing.T) {
	svc, store := newSurveys()
	ctx := context.Background()
	survey := wellbeingSurvey()
	survey.IsActive = false
	store.On("GetByID", ctx, int64(4)).Return(survey, nil)

	_, err := svc.Get(ctx, staff, 4)
	assert.ErrorIs(t, err, apperrors.ErrSurveyNotFound)
}
