package services

import (
	"context"
	"time"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/importer"
)

// The interfaces below are the persistence operations each service depends on. They are
// satisfied by the concrete types in the repositories package.

// UserStore persists user accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, f repositories.UserFilter, page repositories.Page) ([]*models.User, int64, error)
	ListRecipients(ctx context.Context, f repositories.UserFilter) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID int64, hash string) error
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// DepartmentStore persists departments
type DepartmentStore interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	GetAll(ctx context.Context) ([]*models.Department, error)
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id int64) error
	ExistsByNameOrCode(ctx context.Context, name, code string) (bool, error)
}

// RefreshTokenStore persists refresh tokens
type RefreshTokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	GetToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

// ResetTokenStore persists password reset tokens
type ResetTokenStore interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	Get(ctx context.Context, token string) (*models.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id int64) error
}

// TrainingStore persists trainings and their content
type TrainingStore interface {
	CreateTraining(ctx context.Context, t *models.Training) error
	GetTraining(ctx context.Context, id int64) (*models.Training, error)
	ListTrainings(ctx context.Context, f repositories.TrainingFilter, page repositories.Page) ([]*models.Training, int64, error)
	UpdateTraining(ctx context.Context, t *models.Training) error
	DeleteTraining(ctx context.Context, id int64) error

	ListLessons(ctx context.Context, trainingID int64) ([]*models.Lesson, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	ListLessonIDs(ctx context.Context, trainingID int64) ([]int64, error)
	CreateLesson(ctx context.Context, l *models.Lesson) error
	UpdateLesson(ctx context.Context, l *models.Lesson) error
	DeleteLesson(ctx context.Context, id int64) error
	ReorderLessons(ctx context.Context, trainingID int64, ids []int64) error

	GetSlide(ctx context.Context, id int64) (*models.Slide, error)
	CreateSlide(ctx context.Context, s *models.Slide) error
	UpdateSlide(ctx context.Context, s *models.Slide) error
	DeleteSlide(ctx context.Context, id int64) error
	ReorderSlides(ctx context.Context, lessonID int64, ids []int64) error

	ListQuestions(ctx context.Context, trainingID int64) ([]*models.Question, error)
	GetQuestion(ctx context.Context, id int64) (*models.Question, error)
	CreateQuestion(ctx context.Context, q *models.Question) error
	UpdateQuestion(ctx context.Context, q *models.Question) error
	DeleteQuestion(ctx context.Context, id int64) error

	ListObjectives(ctx context.Context, trainingID int64) ([]*models.Objective, error)
	GetObjective(ctx context.Context, id int64) (*models.Objective, error)
	CreateObjective(ctx context.Context, o *models.Objective) error
	UpdateObjective(ctx context.Context, o *models.Objective) error
	DeleteObjective(ctx context.Context, id int64) error

	ImportLessons(ctx context.Context, trainingID int64, lessons []importer.Lesson, replace bool) error
	ImportQuestions(ctx context.Context, trainingID int64, questions []importer.Question, replace bool) error
	ImportObjectives(ctx context.Context, trainingID int64, objectives []string, replace bool) error
}

// PolicyStore persists policies and acknowledgements
type PolicyStore interface {
	Create(ctx context.Context, p *models.Policy) error
	GetByID(ctx context.Context, id int64) (*models.Policy, error)
	List(ctx context.Context, f repositories.ContentFilter, page repositories.Page) ([]*models.Policy, int64, error)
	Update(ctx context.Context, p *models.Policy) error
	Delete(ctx context.Context, id int64) error
	Acknowledge(ctx context.Context, policyID, userID int64) (*models.PolicyAcknowledgement, error)
	GetAcknowledgement(ctx context.Context, policyID, userID int64) (*models.PolicyAcknowledgement, error)
	AcknowledgedPolicyIDs(ctx context.Context, userID int64) (map[int64]bool, error)
	CountAcknowledgements(ctx context.Context, policyID int64) (int64, error)
}

// LibraryStore persists library resources and templates
type LibraryStore interface {
	Create(ctx context.Context, l *models.LibraryResource) error
	GetByID(ctx context.Context, id int64) (*models.LibraryResource, error)
	List(ctx context.Context, f repositories.ContentFilter, page repositories.Page) ([]*models.LibraryResource, int64, error)
	Update(ctx context.Context, l *models.LibraryResource) error
	Delete(ctx context.Context, id int64) error

	CreateTemplate(ctx context.Context, t *models.Template) error
	GetTemplate(ctx context.Context, id int64) (*models.Template, error)
	ListTemplates(ctx context.Context, f repositories.ContentFilter, page repositories.Page) ([]*models.Template, int64, error)
	UpdateTemplate(ctx context.Context, t *models.Template) error
	DeleteTemplate(ctx context.Context, id int64) error
}

// MarketStore persists market submissions
type MarketStore interface {
	Create(ctx context.Context, m *models.MarketSubmission) error
	GetByID(ctx context.Context, id int64) (*models.MarketSubmission, error)
	List(ctx context.Context, f repositories.MarketFilter, page repositories.Page) ([]*models.MarketSubmission, int64, error)
	Update(ctx context.Context, m *models.MarketSubmission) error
	Review(ctx context.Context, m *models.MarketSubmission) error
	Delete(ctx context.Context, id int64) error
}

// SurveyStore persists surveys and responses
type SurveyStore interface {
	Create(ctx context.Context, s *models.Survey) error
	GetByID(ctx context.Context, id int64) (*models.Survey, error)
	List(ctx context.Context, f repositories.ContentFilter, page repositories.Page) ([]*models.Survey, int64, error)
	Update(ctx context.Context, s *models.Survey, replaceQuestions bool) error
	Delete(ctx context.Context, id int64) error
	CreateResponse(ctx context.Context, resp *models.SurveyResponse, respondentID int64) error
	HasResponded(ctx context.Context, surveyID, respondentID int64) (bool, error)
	CountResponses(ctx context.Context, surveyID int64) (int64, error)
	ListResponses(ctx context.Context, surveyID int64) ([]*models.SurveyResponse, error)
}

// NewsStore persists news items
type NewsStore interface {
	Create(ctx context.Context, n *models.News) error
	GetByID(ctx context.Context, id int64) (*models.News, error)
	List(ctx context.Context, f repositories.ContentFilter, page repositories.Page) ([]*models.News, int64, error)
	Update(ctx context.Context, n *models.News) error
	Delete(ctx context.Context, id int64) error
}

// AcademyStore persists tracks, enrollments and quiz attempts
type AcademyStore interface {
	CreateTrack(ctx context.Context, t *models.Track, trainingIDs []int64) error
	UpdateTrack(ctx context.Context, t *models.Track, trainingIDs []int64) error
	GetTrack(ctx context.Context, id int64) (*models.Track, error)
	ListTracks(ctx context.Context, activeOnly bool) ([]*models.Track, error)
	DeleteTrack(ctx context.Context, id int64) error

	CreateEnrollment(ctx context.Context, userID, trainingID int64) (*models.Enrollment, error)
	GetEnrollment(ctx context.Context, userID, trainingID int64) (*models.Enrollment, error)
	UpdateEnrollment(ctx context.Context, e *models.Enrollment) error
	ListUserEnrollments(ctx context.Context, userID int64) ([]*models.Enrollment, error)
	ListTrainingEnrollments(ctx context.Context, trainingID int64, page repositories.Page) ([]*models.Enrollment, int64, error)
	CountOpenMandatory(ctx context.Context, userID int64) (int64, error)

	CreateAttempt(ctx context.Context, a *models.QuizAttempt) error
	ListAttempts(ctx context.Context, userID, trainingID int64) ([]*models.QuizAttempt, error)
}

// WorkSystemStore persists work systems and access rules
type WorkSystemStore interface {
	Create(ctx context.Context, w *models.WorkSystem) error
	GetByID(ctx context.Context, id int64) (*models.WorkSystem, error)
	List(ctx context.Context, activeOnly bool) ([]*models.WorkSystem, error)
	Update(ctx context.Context, w *models.WorkSystem) error
	Delete(ctx context.Context, id int64) error
	AddRule(ctx context.Context, a *models.AccessRule) error
	DeleteRule(ctx context.Context, workSystemID, ruleID int64) error
}

// NotificationStore persists notifications
type NotificationStore interface {
	CreateMany(ctx context.Context, userIDs []int64, title, body string, link *string) ([]*models.Notification, error)
	List(ctx context.Context, userID int64, unreadOnly bool, page repositories.Page) ([]*models.Notification, int64, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, userID, id int64) error
}

// SettingStore persists system settings
type SettingStore interface {
	List(ctx context.Context) ([]*models.Setting, error)
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, key, value string) (*models.Setting, error)
	Delete(ctx context.Context, key string) error
}

// SearchStore runs cross-entity searches
type SearchStore interface {
	Search(ctx context.Context, term string, includeHidden bool, limit int) ([]repositories.SearchHit, error)
}

// AnalyticsStore runs aggregation queries
type AnalyticsStore interface {
	Overview(ctx context.Context) (*repositories.OverviewCounts, error)
	ActiveUsers(ctx context.Context) (int64, error)
	Training(ctx context.Context, trainingID int64) (*repositories.TrainingCounts, error)
}
