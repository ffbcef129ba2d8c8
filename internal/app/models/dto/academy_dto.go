package dto

import "github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"

// TrackRequest creates or updates a track
type TrackRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description"`
	IsActive    *bool   `json:"isActive"`
	TrainingIDs []int64 `json:"trainingIds"`
}

// QuizSubmitRequest carries one chosen option index per question, in question order
type QuizSubmitRequest struct {
	Answers []int `json:"answers" binding:"required,min=1,dive,min=0,max=1000"`
}

// QuizResultResponse is the outcome of a quiz attempt
type QuizResultResponse struct {
	Attempt    *models.QuizAttempt `json:"attempt"`
	Correct    int                 `json:"correct"`
	Total      int                 `json:"total"`
	PassScore  int                 `json:"passScore"`
	Enrollment *models.Enrollment  `json:"enrollment"`
}

// LearnerProgress summarises one user's academy state
type LearnerProgress struct {
	Enrollments     []*models.Enrollment `json:"enrollments"`
	Completed       int                  `json:"completed"`
	InProgress      int                  `json:"inProgress"`
	MandatoryOpen   int                  `json:"mandatoryOpen"`
	AverageProgress float64              `json:"averageProgress"`
}
