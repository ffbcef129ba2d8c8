package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models/dto"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/filestorage"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/importer"
	"github.com/stretchr/testify/mock"
)

// value returns the i-th return value as T, or the zero value when it was set to nil
func value[T any](args mock.Arguments, i int) T {
	v, _ := args.Get(i).(T)
	return v
}

// --- TrainingStore ---

type mockTrainingStore struct{ mock.Mock }

func (m *mockTrainingStore) CreateTraining(ctx context.Context, t *models.Training) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTrainingStore) GetTraining(ctx context.Context, id int64) (*models.Training, error) {
	args := m.Called(ctx, id)
	return value[*models.Training](args, 0), args.Error(1)
}

func (m *mockTrainingStore) ListTrainings(ctx context.Context, f repositories.TrainingFilter, page repositories.Page) ([]*models.Training, int64, error) {
	args := m.Called(ctx, f, page)
	return value[[]*models.Training](args, 0), value[int64](args, 1), args.Error(2)
}

func (m *mockTrainingStore) UpdateTraining(ctx context.Context, t *models.Training) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTrainingStore) DeleteTraining(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTrainingStore) ListLessons(ctx context.Context, trainingID int64) ([]*models.Lesson, error) {
	args := m.Called(ctx, trainingID)
	return value[[]*models.Lesson](args, 0), args.Error(1)
}

func (m *mockTrainingStore) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	return value[*models.Lesson](args, 0), args.Error(1)
}

func (m *mockTrainingStore) ListLessonIDs(ctx context.Context, trainingID int64) ([]int64, error) {
	args := m.Called(ctx, trainingID)
	return value[[]int64](args, 0), args.Error(1)
}

func (m *mockTrainingStore) CreateLesson(ctx context.Context, l *models.Lesson) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockTrainingStore) UpdateLesson(ctx context.Context, l *models.Lesson) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockTrainingStore) DeleteLesson(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTrainingStore) ReorderLessons(ctx context.Context, trainingID int64, ids []int64) error {
	return m.Called(ctx, trainingID, ids).Error(0)
}

func (m *mockTrainingStore) GetSlide(ctx context.Context, id int64) (*models.Slide, error) {
	args := m.Called(ctx, id)
	return value[*models.Slide](args, 0), args.Error(1)
}

func (m *mockTrainingStore) CreateSlide(ctx context.Context, s *models.Slide) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockTrainingStore) UpdateSlide(ctx context.Context, s *models.Slide) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockTrainingStore) DeleteSlide(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTrainingStore) ReorderSlides(ctx context.Context, lessonID int64, ids []int64) error {
	return m.Called(ctx, lessonID, ids).Error(0)
}

func (m *mockTrainingStore) ListQuestions(ctx context.Context, trainingID int64) ([]*models.Question, error) {
	args := m.Called(ctx, trainingID)
	return value[[]*models.Question](args, 0), args.Error(1)
}

func (m *mockTrainingStore) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	args := m.Called(ctx, id)
	return value[*models.Question](args, 0), args.Error(1)
}

func (m *mockTrainingStore) CreateQuestion(ctx context.Context, q *models.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockTrainingStore) UpdateQuestion(ctx context.Context, q *models.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockTrainingStore) DeleteQuestion(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTrainingStore) ListObjectives(ctx context.Context, trainingID int64) ([]*models.Objective, error) {
	args := m.Called(ctx, trainingID)
	return value[[]*models.Objective](args, 0), args.Error(1)
}

func (m *mockTrainingStore) GetObjective(ctx context.Context, id int64) (*models.Objective, error) {
	args := m.Called(ctx, id)
	return value[*models.Objective](args, 0), args.Error(1)
}

func (m *mockTrainingStore) CreateObjective(ctx context.Context, o *models.Objective) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockTrainingStore) UpdateObjective(ctx context.Context, o *models.Objective) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockTrainingStore) DeleteObjective(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTrainingStore) ImportLessons(ctx context.Context, trainingID int64, lessons []importer.Lesson, replace bool) error {
	return m.Called(ctx, trainingID, lessons, replace).Error(0)
}

func (m *mockTrainingStore) ImportQuestions(ctx context.Context, trainingID int64, questions []importer.Question, replace bool) error {
	return m.Called(ctx, trainingID, questions, replace).Error(0)
}

func (m *mockTrainingStore) ImportObjectives(ctx context.Context, trainingID int64, objectives []string, replace bool) error {
	return m.Called(ctx, trainingID, objectives, replace).Error(0)
}

// --- AcademyStore ---

type mockAcademyStore struct{ mock.Mock }

func (m *mockAcademyStore) CreateTrack(ctx context.Context, t *models.Track, trainingIDs []int64) error {
	return m.Called(ctx, t, trainingIDs).Error(0)
}

func (m *mockAcademyStore) UpdateTrack(ctx context.Context, t *models.Track, trainingIDs []int64) error {
	return m.Called(ctx, t, trainingIDs).Error(0)
}

func (m *mockAcademyStore) GetTrack(ctx context.Context, id int64) (*models.Track, error) {
	args := m.Called(ctx, id)
	return value[*models.Track](args, 0), args.Error(1)
}

func (m *mockAcademyStore) ListTracks(ctx context.Context, activeOnly bool) ([]*models.Track, error) {
	args := m.Called(ctx, activeOnly)
	return value[[]*models.Track](args, 0), args.Error(1)
}

func (m *mockAcademyStore) DeleteTrack(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAcademyStore) CreateEnrollment(ctx context.Context, userID, trainingID int64) (*models.Enrollment, error) {
	args := m.Called(ctx, userID, trainingID)
	return value[*models.Enrollment](args, 0), args.Error(1)
}

func (m *mockAcademyStore) GetEnrollment(ctx context.Context, userID, trainingID int64) (*models.Enrollment, error) {
	args := m.Called(ctx, userID, trainingID)
	return value[*models.Enrollment](args, 0), args.Error(1)
}

func (m *mockAcademyStore) UpdateEnrollment(ctx context.Context, e *models.Enrollment) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockAcademyStore) ListUserEnrollments(ctx context.Context, userID int64) ([]*models.Enrollment, error) {
	args := m.Called(ctx, userID)
	return value[[]*models.Enrollment](args, 0), args.Error(1)
}

func (m *mockAcademyStore) ListTrainingEnrollments(ctx context.Context, trainingID int64, page repositories.Page) ([]*models.Enrollment, int64, error) {
	args := m.Called(ctx, trainingID, page)
	return value[[]*models.Enrollment](args, 0), value[int64](args, 1), args.Error(2)
}

func (m *mockAcademyStore) CountOpenMandatory(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return value[int64](args, 0), args.Error(1)
}

func (m *mockAcademyStore) CreateAttempt(ctx context.Context, a *models.QuizAttempt) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAcademyStore) ListAttempts(ctx context.Context, userID, trainingID int64) ([]*models.QuizAttempt, error) {
	args := m.Called(ctx, userID, trainingID)
	return value[[]*models.QuizAttempt](args, 0), args.Error(1)
}

// --- SurveyStore ---

type mockSurveyStore struct{ mock.Mock }

func (m *mockSurveyStore) Create(ctx context.Context, s *models.Survey) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSurveyStore) GetByID(ctx context.Context, id int64) (*models.Survey, error) {
	args := m.Called(ctx, id)
	return value[*models.Survey](args, 0), args.Error(1)
}

func (m *mockSurveyStore) List(ctx context.Context, f repositories.ContentFilter, page repositories.Page) ([]*models.Survey, int64, error) {
	args := m.Called(ctx, f, page)
	return value[[]*models.Survey](args, 0), value[int64](args, 1), args.Error(2)
}

func (m *mockSurveyStore) Update(ctx context.Context, s *models.Survey, replaceQuestions bool) error {
	return m.Called(ctx, s, replaceQuestions).Error(0)
}

func (m *mockSurveyStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSurveyStore) CreateResponse(ctx context.Context, resp *models.SurveyResponse, respondentID int64) error {
	return m.Called(ctx, resp, respondentID).Error(0)
}

func (m *mockSurveyStore) HasResponded(ctx context.Context, surveyID, respondentID int64) (bool, error) {
	args := m.Called(ctx, surveyID, respondentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockSurveyStore) CountResponses(ctx context.Context, surveyID int64) (int64, error) {
	args := m.Called(ctx, surveyID)
	return value[int64](args, 0), args.Error(1)
}

func (m *mockSurveyStore) ListResponses(ctx context.Context, surveyID int64) ([]*models.SurveyResponse, error) {
	args := m.Called(ctx, surveyID)
	return value[[]*models.SurveyResponse](args, 0), args.Error(1)
}

// --- PolicyStore ---

type mockPolicyStore struct{ mock.Mock }

func (m *mockPolicyStore) Create(ctx context.Context, p *models.Policy) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPolicyStore) GetByID(ctx context.Context, id int64) (*models.Policy, error) {
	args := m.Called(ctx, id)
	return value[*models.Policy](args, 0), args.Error(1)
}

func (m *mockPolicyStore) List(ctx context.Context, f repositories.ContentFilter, page repositories.Page) ([]*models.Policy, int64, error) {
	args := m.Called(ctx, f, page)
	return value[[]*models.Policy](args, 0), value[int64](args, 1), args.Error(2)
}

func (m *mockPolicyStore) Update(ctx context.Context, p *models.Policy) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPolicyStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPolicyStore) Acknowledge(ctx context.Context, policyID, userID int64) (*models.PolicyAcknowledgement, error) {
	args := m.Called(ctx, policyID, userID)
	return value[*models.PolicyAcknowledgement](args, 0), args.Error(1)
}

func (m *mockPolicyStore) GetAcknowledgement(ctx context.Context, policyID, userID int64) (*models.PolicyAcknowledgement, error) {
	args := m.Called(ctx, policyID, userID)
	return value[*models.PolicyAcknowledgement](args, 0), args.Error(1)
}

func (m *mockPolicyStore) AcknowledgedPolicyIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	args := m.Called(ctx, userID)
	return value[map[int64]bool](args, 0), args.Error(1)
}

func (m *mockPolicyStore) CountAcknowledgements(ctx context.Context, policyID int64) (int64, error) {
	args := m.Called(ctx, policyID)
	return value[int64](args, 0), args.Error(1)
}

// --- MarketStore ---

type mockMarketStore struct{ mock.Mock }

func (m *mockMarketStore) Create(ctx context.Context, s *models.MarketSubmission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockMarketStore) GetByID(ctx context.Context, id int64) (*models.MarketSubmission, error) {
	args := m.Called(ctx, id)
	return value[*models.MarketSubmission](args, 0), args.Error(1)
}

func (m *mockMarketStore) List(ctx context.Context, f repositories.MarketFilter, page repositories.Page) ([]*models.MarketSubmission, int64, error) {
	args := m.Called(ctx, f, page)
	return value[[]*models.MarketSubmission](args, 0), value[int64](args, 1), args.Error(2)
}

func (m *mockMarketStore) Update(ctx context.Context, s *models.MarketSubmission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockMarketStore) Review(ctx context.Context, s *models.MarketSubmission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockMarketStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// --- SearchStore / AnalyticsStore ---

type mockSearchStore struct{ mock.Mock }

func (m *mockSearchStore) Search(ctx context.Context, term string, includeHidden bool, limit int) ([]repositories.SearchHit, error) {
	args := m.Called(ctx, term, includeHidden, limit)
	return value[[]repositories.SearchHit](args, 0), args.Error(1)
}

type mockAnalyticsStore struct{ mock.Mock }

func (m *mockAnalyticsStore) Overview(ctx context.Context) (*repositories.OverviewCounts, error) {
	args := m.Called(ctx)
	return value[*repositories.OverviewCounts](args, 0), args.Error(1)
}

func (m *mockAnalyticsStore) ActiveUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return value[int64](args, 0), args.Error(1)
}

func (m *mockAnalyticsStore) Training(ctx context.Context, trainingID int64) (*repositories.TrainingCounts, error) {
	args := m.Called(ctx, trainingID)
	return value[*repositories.TrainingCounts](args, 0), args.Error(1)
}

// --- NotificationService ---

type mockNotifications struct{ mock.Mock }

func (m *mockNotifications) Notify(ctx context.Context, userIDs []int64, title, body string, link *string) (int, error) {
	args := m.Called(ctx, userIDs, title, body, link)
	return args.Int(0), args.Error(1)
}

func (m *mockNotifications) NotifyActiveUsers(ctx context.Context, title, body string, link *string) (int, error) {
	args := m.Called(ctx, title, body, link)
	return args.Int(0), args.Error(1)
}

func (m *mockNotifications) Broadcast(ctx context.Context, req *dto.BroadcastRequest) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func (m *mockNotifications) List(ctx context.Context, userID int64, unreadOnly bool, page, size int) (*dto.NotificationListResponse, error) {
	args := m.Called(ctx, userID, unreadOnly, page, size)
	return value[*dto.NotificationListResponse](args, 0), args.Error(1)
}

func (m *mockNotifications) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return value[int64](args, 0), args.Error(1)
}

func (m *mockNotifications) MarkRead(ctx context.Context, userID, notificationID int64) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *mockNotifications) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return value[int64](args, 0), args.Error(1)
}

func (m *mockNotifications) Delete(ctx context.Context, userID, notificationID int64) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *mockNotifications) PublishUnreadCount(ctx context.Context, userID int64) {
	m.Called(ctx, userID)
}

// --- FileStorage ---

// fakeStorage records deleted keys and serves URLs under /files
type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) Save(_ context.Context, fh *multipart.FileHeader, prefix string) (*filestorage.StoredFile, error) {
	return &filestorage.StoredFile{Key: prefix + "/" + fh.Filename}, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "/files/" + key + "?signed=1", nil
}

func (f *fakeStorage) URL(key string) string {
	return "/files/" + key
}
