package dto

// TrainingRequest creates or updates a training. Nil fields are left unchanged on update.
type TrainingRequest struct {
	Title            *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description      *string `json:"description"`
	Category         *string `json:"category" binding:"omitempty,max=100"`
	IsMandatory      *bool   `json:"isMandatory"`
	IsActive         *bool   `json:"isActive"`
	EstimatedMinutes *int    `json:"estimatedMinutes" binding:"omitempty,min=0"`
	PassScore        *int    `json:"passScore" binding:"omitempty,min=0,max=100"`
}

// TrainingFilter filters the training list
type TrainingFilter struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	Mandatory *bool  `form:"mandatory"`
}

// LessonRequest creates or updates a lesson
type LessonRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	Position    *int   `json:"position" binding:"omitempty,min=1"`
}

// SlideRequest creates or updates a slide
type SlideRequest struct {
	Title    string `json:"title" binding:"max=200"`
	Content  string `json:"content"`
	Position *int   `json:"position" binding:"omitempty,min=1"`
}

// QuestionRequest creates or updates a quiz question
type QuestionRequest struct {
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2,dive,required"`
	CorrectAnswer *int     `json:"correctAnswer" binding:"required,min=0"`
	Position      *int     `json:"position" binding:"omitempty,min=1"`
}

// ObjectiveRequest creates or updates a learning objective
type ObjectiveRequest struct {
	Text     string `json:"text" binding:"required"`
	Position *int   `json:"position" binding:"omitempty,min=1"`
}

// ImportRequest carries pasted text for a bulk import
type ImportRequest struct {
	Text    string `json:"text" binding:"required,max=500000" example:"LESSON: Introduction\nSLIDE: Welcome\nHello"`
	Replace bool   `json:"replace"`
}

// ImportResponse reports a bulk import outcome
type ImportResponse struct {
	Kind     string `json:"kind" example:"questions"`
	Imported int    `json:"imported" example:"10"`
	Skipped  int    `json:"skipped" example:"1"`
	Replaced bool   `json:"replaced"`
}

// QuizQuestionResponse is a question without its answer
type QuizQuestionResponse struct {
	ID       int64    `json:"id"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Position int      `json:"position"`
}
