package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
)

// AnalyticsService defines the interface for dashboard aggregations
type AnalyticsService interface {
	Overview(ctx context.Context) (*dto.OverviewStats, error)
	Training(ctx context.Context, trainingID int64) (*dto.TrainingStats, error)
	Policy(ctx context.Context, policyID int64) (*dto.PolicyStats, error)
	Survey(ctx context.Context, surveyID int64) (*dto.SurveyResults, error)
}

type analyticsServiceImpl struct {
	analyticsRepo AnalyticsStore
	policyRepo    PolicyStore
	surveyRepo    SurveyStore
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(analyticsRepo AnalyticsStore, policyRepo PolicyStore, surveyRepo SurveyStore) AnalyticsService {
	return &analyticsServiceImpl{
		analyticsRepo: analyticsRepo,
		policyRepo:    policyRepo,
		surveyRepo:    surveyRepo,
	}
}

// Overview returns portal-wide counts and rates. The acknowledgement rate is measured
// against every active user having acknowledged every active policy.
func (s *analyticsServiceImpl) Overview(ctx context.Context) (*dto.OverviewStats, error) {
	c, err := s.analyticsRepo.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading overview: %w", err)
	}
	return &dto.OverviewStats{
		TotalUsers:            c.TotalUsers,
		ActiveUsers:           c.ActiveUsers,
		Trainings:             c.Trainings,
		Policies:              c.Policies,
		LibraryResources:      c.LibraryResources,
		Surveys:               c.Surveys,
		News:                  c.News,
		PendingSubmissions:    c.PendingSubmissions,
		Enrollments:           c.Enrollments,
		CompletedEnrollments:  c.CompletedEnrollments,
		TrainingCompletion:    helpers.Percent(c.CompletedEnrollments, c.Enrollments),
		PolicyAcknowledgement: helpers.Percent(c.Acknowledgements, c.ActivePolicies*c.ActiveUsers),
	}, nil
}

// Training aggregates enrollments and quiz attempts of one training
func (s *analyticsServiceImpl) Training(ctx context.Context, trainingID int64) (*dto.TrainingStats, error) {
	c, err := s.analyticsRepo.Training(ctx, trainingID)
	if err != nil {
		return nil, err
	}
	return &dto.TrainingStats{
		TrainingID:     trainingID,
		Title:          c.Title,
		Enrolled:       c.Enrolled,
		InProgress:     c.InProgress,
		Completed:      c.Completed,
		CompletionRate: helpers.Percent(c.Completed, c.Enrolled),
		Attempts:       c.Attempts,
		AverageScore:   helpers.Round2(c.AverageScore),
		PassRate:       helpers.Percent(c.PassedAttempts, c.Attempts),
	}, nil
}

// Policy reports how many active users acknowledged a policy
func (s *analyticsServiceImpl) Policy(ctx context.Context, policyID int64) (*dto.PolicyStats, error) {
	policy, err := s.policyRepo.GetByID(ctx, policyID)
	if err != nil {
		return nil, err
	}
	acked, err := s.policyRepo.CountAcknowledgements(ctx, policyID)
	if err != nil {
		return nil, err
	}
	active, err := s.analyticsRepo.ActiveUsers(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.PolicyStats{
		PolicyID:        policyID,
		Title:           policy.Title,
		Acknowledged:    acked,
		ActiveUsers:     active,
		AcknowledgeRate: helpers.Percent(acked, active),
	}, nil
}

// Survey aggregates the responses to a survey question by question
func (s *analyticsServiceImpl) Survey(ctx context.Context, surveyID int64) (*dto.SurveyResults, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	responses, err := s.surveyRepo.ListResponses(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	active, err := s.analyticsRepo.ActiveUsers(ctx)
	if err != nil {
		return nil, err
	}

	results := &dto.SurveyResults{
		SurveyID:     surveyID,
		Title:        survey.Title,
		Responses:    int64(len(responses)),
		ActiveUsers:  active,
		ResponseRate: helpers.Percent(int64(len(responses)), active),
		Questions:    make([]dto.QuestionResult, 0, len(survey.Questions)),
	}
	for _, q := range survey.Questions {
		results.Questions = append(results.Questions, summarizeQuestion(q, responses))
	}
	return results, nil
}

func summarizeQuestion(q models.SurveyQuestion, responses []*models.SurveyResponse) dto.QuestionResult {
	key := strconv.FormatInt(q.ID, 10)
	result := dto.QuestionResult{QuestionID: q.ID, Text: q.Text, QuestionType: string(q.QuestionType)}

	options := q.Options
	if q.QuestionType == models.QuestionRating {
		options = make([]string, 0, models.RatingScale)
		for i := 1; i <= models.RatingScale; i++ {
			options = append(options, strconv.Itoa(i))
		}
	}
	counts := make(map[string]int64, len(options))
	var ratingSum float64

	for _, r := range responses {
		v, ok := r.Answers[key]
		if !ok || v == nil {
			continue
		}
		switch q.QuestionType {
		case models.QuestionText:
			if str, ok := v.(string); ok && str != "" {
				result.Answered++
				result.TextAnswers = append(result.TextAnswers, str)
			}
		case models.QuestionSingleChoice:
			if str, ok := v.(string); ok {
				result.Answered++
				counts[str]++
			}
		case models.QuestionMultiChoice:
			list, ok := v.([]interface{})
			if !ok || len(list) == 0 {
				continue
			}
			result.Answered++
			for _, item := range list {
				if str, ok := item.(string); ok {
					counts[str]++
				}
			}
		case models.QuestionRating:
			if n, ok := v.(float64); ok {
				result.Answered++
				ratingSum += n
				counts[strconv.Itoa(int(n))]++
			}
		}
	}

	if q.QuestionType == models.QuestionText {
		return result
	}
	result.Options = make([]dto.OptionStat, 0, len(options))
	for _, opt := range options {
		result.Options = append(result.Options, dto.OptionStat{
			Option:  opt,
			Count:   counts[opt],
			Percent: helpers.Percent(counts[opt], result.Answered),
		})
	}
	if q.QuestionType == models.QuestionRating && result.Answered > 0 {
		avg := helpers.Round2(ratingSum / float64(result.Answered))
		result.AverageRating = &avg
	}
	return result
}
