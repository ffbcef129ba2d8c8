package models

import "time"

// QuestionType of a survey question
type QuestionType string

const (
	QuestionText         QuestionType = "TEXT"
	QuestionSingleChoice QuestionType = "SINGLE_CHOICE"
	QuestionMultiChoice  QuestionType = "MULTI_CHOICE"
	QuestionRating       QuestionType = "RATING"
)

// RatingScale is the highest value of a RATING answer
const RatingScale = 5

// IsChoice reports whether answers pick from Options
func (t QuestionType) IsChoice() bool {
	return t == QuestionSingleChoice || t == QuestionMultiChoice
}

// Survey is a staff questionnaire
type Survey struct {
	ID          int64            `json:"id" db:"id"`
	Title       string           `json:"title" db:"title" example:"Staff wellbeing 2026"`
	Description string           `json:"description" db:"description"`
	IsActive    bool             `json:"isActive" db:"is_active"`
	IsAnonymous bool             `json:"isAnonymous" db:"is_anonymous"`
	ClosesAt    *time.Time       `json:"closesAt,omitempty" db:"closes_at"`
	CreatedBy   *int64           `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" db:"updated_at"`
	Questions   []SurveyQuestion `json:"questions,omitempty"`
}

// IsOpen reports whether responses are accepted at now
func (s *Survey) IsOpen(now time.Time) bool {
	return s.IsActive && (s.ClosesAt == nil || now.Before(*s.ClosesAt))
}

// SurveyQuestion is one question of a survey
type SurveyQuestion struct {
	ID           int64        `json:"id" db:"id"`
	SurveyID     int64        `json:"surveyId" db:"survey_id"`
	Text         string       `json:"text" db:"text"`
	QuestionType QuestionType `json:"questionType" db:"question_type" example:"SINGLE_CHOICE"`
	Options      []string     `json:"options" db:"options"`
	IsRequired   bool         `json:"isRequired" db:"is_required"`
	Position     int          `json:"position" db:"position"`
}

// SurveyResponse holds one submission. Answers maps question IDs to a string,
// a list of strings or a number depending on the question type.
type SurveyResponse struct {
	ID          int64                  `json:"id" db:"id"`
	SurveyID    int64                  `json:"surveyId" db:"survey_id"`
	UserID      *int64                 `json:"userId,omitempty" db:"user_id"`
	Answers     map[string]interface{} `json:"answers" db:"answers"`
	SubmittedAt time.Time              `json:"submittedAt" db:"submitted_at"`
}
