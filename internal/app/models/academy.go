package models

import "time"

// EnrollmentStatus of a user in a training
type EnrollmentStatus string

const (
	EnrollmentEnrolled   EnrollmentStatus = "ENROLLED"
	EnrollmentInProgress EnrollmentStatus = "IN_PROGRESS"
	EnrollmentCompleted  EnrollmentStatus = "COMPLETED"
)

// Track is an ordered learning path of trainings
type Track struct {
	ID          int64           `json:"id" db:"id"`
	Title       string          `json:"title" db:"title" example:"New staff onboarding"`
	Description string          `json:"description" db:"description"`
	IsActive    bool            `json:"isActive" db:"is_active"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
	Trainings   []TrackTraining `json:"trainings,omitempty"`
}

// TrackTraining places a training in a track
type TrackTraining struct {
	TrackID    int64  `json:"trackId" db:"track_id"`
	TrainingID int64  `json:"trainingId" db:"training_id"`
	Position   int    `json:"position" db:"position"`
	Title      string `json:"title,omitempty"`
}

// Enrollment tracks a user's progress through a training
type Enrollment struct {
	ID               int64            `json:"id" db:"id"`
	UserID           int64            `json:"userId" db:"user_id"`
	TrainingID       int64            `json:"trainingId" db:"training_id"`
	Status           EnrollmentStatus `json:"status" db:"status" example:"IN_PROGRESS"`
	Progress         float64          `json:"progress" db:"progress" example:"66.67"`
	CompletedLessons []int64          `json:"completedLessons" db:"completed_lessons"`
	Score            *float64         `json:"score,omitempty" db:"score"`
	StartedAt        time.Time        `json:"startedAt" db:"started_at"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty" db:"completed_at"`
	UpdatedAt        time.Time        `json:"updatedAt" db:"updated_at"`
}

// HasCompletedLesson reports whether lessonID is in CompletedLessons
func (e *Enrollment) HasCompletedLesson(lessonID int64) bool {
	for _, id := range e.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// QuizAttempt is one graded submission of a training quiz
type QuizAttempt struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"userId" db:"user_id"`
	TrainingID int64     `json:"trainingId" db:"training_id"`
	Answers    []int     `json:"answers" db:"answers"`
	Score      float64   `json:"score" db:"score" example:"80"`
	Passed     bool      `json:"passed" db:"passed"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
