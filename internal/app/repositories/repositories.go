package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository               *UserRepository
	DepartmentRepository         *DepartmentRepository
	TokenRepository              *TokenRepository
	PasswordResetTokenRepository *PasswordResetTokenRepository
	TrainingRepository           *TrainingRepository
	PolicyRepository             *PolicyRepository
	LibraryRepository            *LibraryRepository
	MarketRepository             *MarketRepository
	SurveyRepository             *SurveyRepository
	NewsRepository               *NewsRepository
	AcademyRepository            *AcademyRepository
	WorkSystemRepository         *WorkSystemRepository
	NotificationRepository       *NotificationRepository
	SettingRepository            *SettingRepository
	SearchRepository             *SearchRepository
	AnalyticsRepository          *AnalyticsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:               NewUserRepository(db),
		DepartmentRepository:         NewDepartmentRepository(db),
		TokenRepository:              NewTokenRepository(db),
		PasswordResetTokenRepository: NewPasswordResetTokenRepository(db),
		TrainingRepository:           NewTrainingRepository(db),
		PolicyRepository:             NewPolicyRepository(db),
		LibraryRepository:            NewLibraryRepository(db),
		MarketRepository:             NewMarketRepository(db),
		SurveyRepository:             NewSurveyRepository(db),
		NewsRepository:               NewNewsRepository(db),
		AcademyRepository:            NewAcademyRepository(db),
		WorkSystemRepository:         NewWorkSystemRepository(db),
		NotificationRepository:       NewNotificationRepository(db),
		SettingRepository:            NewSettingRepository(db),
		SearchRepository:             NewSearchRepository(db),
		AnalyticsRepository:          NewAnalyticsRepository(db),
	}
}
