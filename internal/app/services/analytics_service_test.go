package services

import (
	"context"
	"strings"
	"testing"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_ValidatesAndBuildsLinks(t *testing.T) {
	store := &mockSearchStore{}
	svc := NewSearchService(store)
	ctx := context.Background()

	_, err := svc.Search(ctx, staff, " a ", 0)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidationFailed))

	long := strings.Repeat("word ", 60)
	store.On("Search", ctx, "safe", false, DefaultSearchLimit).Return([]repositories.SearchHit{
		{Type: "training", ID: 12, Title: "Safeguarding Essentials", Snippet: "Learn  the\nbasics"},
		{Type: "policy", ID: 3, Title: "Safeguarding Policy", Snippet: long},
	}, nil)

	res, err := svc.Search(ctx, staff, " safe ", 500)
	require.NoError(t, err)
	assert.Equal(t, "safe", res.Query)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, "/trainings/12", res.Results[0].Link)
	assert.Equal(t, "Learn the basics", res.Results[0].Snippet)
	assert.Equal(t, "/policies/3", res.Results[1].Link)
	assert.True(t, strings.HasSuffix(res.Results[1].Snippet, "…"))
	assert.LessOrEqual(t, len([]rune(res.Results[1].Snippet)), maxSnippetRunes+1)
}

func TestSearch_ManagersIncludeHidden(t *testing.T) {
	store := &mockSearchStore{}
	svc := NewSearchService(store)
	ctx := context.Background()
	store.On("Search", ctx, "fraud", true, 10).Return([]repositories.SearchHit{}, nil)

	res, err := svc.Search(ctx, Actor{UserID: 1, Role: models.RoleAdmin}, "fraud", 10)
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	store.AssertExpectations(t)
}

func newAnalytics() (AnalyticsService, *mockAnalyticsStore, *mockPolicyStore, *mockSurveyStore) {
	a, p, s := &mockAnalyticsStore{}, &mockPolicyStore{}, &mockSurveyStore{}
	return NewAnalyticsService(a, p, s), a, p, s
}

func TestAnalyticsOverview_Rates(t *testing.T) {
	svc, store, _, _ := newAnalytics()
	ctx := context.Background()
	store.On("Overview", ctx).Return(&repositories.OverviewCounts{
		TotalUsers: 50, ActiveUsers: 40, ActivePolicies: 2,
		Enrollments: 8, CompletedEnrollments: 5, Acknowledgements: 60,
	}, nil)

	stats, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 62.5, stats.TrainingCompletion)
	assert.Equal(t, 75.0, stats.PolicyAcknowledgement)
}

func TestAnalyticsOverview_NoData(t *testing.T) {
	svc, store, _, _ := newAnalytics()
	ctx := context.Background()
	store.On("Overview", ctx).Return(&repositories.OverviewCounts{}, nil)

	stats, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TrainingCompletion)
	assert.Zero(t, stats.PolicyAcknowledgement)
}

func TestAnalyticsTraining(t *testing.T) {
	svc, store, _, _ := newAnalytics()
	ctx := context.Background()
	store.On("Training", ctx, int64(12)).Return(&repositories.TrainingCounts{
		Title: "Safeguarding", Enrolled: 3, Completed: 1, Attempts: 4, PassedAttempts: 3, AverageScore: 71.666,
	}, nil)

	stats, err := svc.Training(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, 33.33, stats.CompletionRate)
	assert.Equal(t, 75.0, stats.PassRate)
	assert.Equal(t, 71.67, stats.AverageScore)
}

func TestAnalyticsPolicy(t *testing.T) {
	svc, store, policies, _ := newAnalytics()
	ctx := context.Background()
	policies.On("GetByID", ctx, int64(9)).Return(&models.Policy{ID: 9, Title: "Code of Conduct"}, nil)
	policies.On("CountAcknowledgements", ctx, int64(9)).Return(int64(30), nil)
	store.On("ActiveUsers", ctx).Return(int64(40), nil)

	stats, err := svc.Policy(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "Code of Conduct", stats.Title)
	assert.Equal(t, 75.0, stats.AcknowledgeRate)
}

func TestAnalyticsSurvey_SummarisesEachType(t *testing.T) {
	svc, store, _, surveys := newAnalytics()
	ctx := context.Background()

	surveys.On("GetByID", ctx, int64(4)).Return(wellbeingSurvey(), nil)
	surveys.On("ListResponses", ctx, int64(4)).Return([]*models.SurveyResponse{
		{Answers: map[string]interface{}{"1": float64(4), "2": "Kabul", "3": []interface{}{"Email", "Chat"}, "4": "Good"}},
		{Answers: map[string]interface{}{"1": float64(5), "2": "Kabul", "3": []interface{}{"Email"}}},
		{Answers: map[string]interface{}{"1": float64(3), "2": "Beirut"}},
	}, nil)
	store.On("ActiveUsers", ctx).Return(int64(10), nil)

	res, err := svc.Survey(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Responses)
	assert.Equal(t, 30.0, res.ResponseRate)
	require.Len(t, res.Questions, 4)

	rating := res.Questions[0]
	assert.Equal(t, int64(3), rating.Answered)
	require.NotNil(t, rating.AverageRating)
	assert.Equal(t, 4.0, *rating.AverageRating)
	require.Len(t, rating.Options, models.RatingScale)
	assert.Equal(t, int64(1), rating.Options[4].Count)

	single := res.Questions[1]
	assert.Equal(t, "Kabul", single.Options[0].Option)
	assert.Equal(t, int64(2), single.Options[0].Count)
	assert.Equal(t, 66.67, single.Options[0].Percent)

	multi := res.Questions[2]
	assert.Equal(t, int64(2), multi.Answered)
	assert.Equal(t, int64(2), multi.Options[0].Count)
	assert.Equal(t, 100.0, multi.Options[0].Percent)
	assert.Equal(t, int64(0), multi.Options[2].Count)

	text := res.Questions[3]
	assert.Equal(t, []string{"Good"}, text.TextAnswers)
	assert.Nil(t, text.Options)
}
