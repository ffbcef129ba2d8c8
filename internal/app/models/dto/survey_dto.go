package dto

import "time"

// SurveyRequest creates or updates a survey with its questions
type SurveyRequest struct {
	Title       string                  `json:"title" binding:"required,max=200"`
	Description string                  `json:"description"`
	IsActive    *bool                   `json:"isActive"`
	IsAnonymous bool                    `json:"isAnonymous"`
	ClosesAt    *time.Time              `json:"closesAt"`
	Questions   []SurveyQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// SurveyQuestionRequest is one question of a SurveyRequest
type SurveyQuestionRequest struct {
	Text         string   `json:"text" binding:"required"`
	QuestionType string   `json:"questionType" binding:"required,survey_question_type"`
	Options      []string `json:"options"`
	IsRequired   bool     `json:"isRequired"`
}

// SubmitSurveyRequest carries answers keyed by question ID
type SubmitSurveyRequest struct {
	Answers map[string]interface{} `json:"answers" binding:"required"`
}
