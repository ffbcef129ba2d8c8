package models

import "time"

// Training is a course made of lessons, an optional quiz and learning objectives
type Training struct {
	ID               int64     `json:"id" db:"id" example:"12"`
	Title            string    `json:"title" db:"title" example:"Safeguarding Essentials"`
	Description      string    `json:"description" db:"description"`
	Category         string    `json:"category" db:"category" example:"Protection"`
	IsMandatory      bool      `json:"isMandatory" db:"is_mandatory"`
	IsActive         bool      `json:"isActive" db:"is_active"`
	EstimatedMinutes int       `json:"estimatedMinutes" db:"estimated_minutes" example:"45"`
	PassScore        int       `json:"passScore" db:"pass_score" example:"70"`
	CreatedBy        *int64    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`

	Lessons    []Lesson    `json:"lessons,omitempty"`
	Questions  []Question  `json:"questions,omitempty"`
	Objectives []Objective `json:"objectives,omitempty"`
}

// Lesson is an ordered section of a training
type Lesson struct {
	ID          int64     `json:"id" db:"id"`
	TrainingID  int64     `json:"trainingId" db:"training_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	Slides      []Slide   `json:"slides,omitempty"`
}

// Slide is an ordered page of a lesson
type Slide struct {
	ID       int64  `json:"id" db:"id"`
	LessonID int64  `json:"lessonId" db:"lesson_id"`
	Title    string `json:"title" db:"title"`
	Content  string `json:"content" db:"content"`
	Position int    `json:"position" db:"position"`
}

// Question is a multiple-choice quiz question; CorrectAnswer indexes Options
type Question struct {
	ID            int64    `json:"id" db:"id"`
	TrainingID    int64    `json:"trainingId" db:"training_id"`
	Text          string   `json:"text" db:"text"`
	Options       []string `json:"options" db:"options"`
	CorrectAnswer int      `json:"correctAnswer" db:"correct_answer"`
	Position      int      `json:"position" db:"position"`
}

// HasValidAnswer reports whether CorrectAnswer points at an option
func (q *Question) HasValidAnswer() bool {
	return q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options)
}

// Objective is a learning objective of a training
type Objective struct {
	ID         int64  `json:"id" db:"id"`
	TrainingID int64  `json:"trainingId" db:"training_id"`
	Text       string `json:"text" db:"text"`
	Position   int    `json:"position" db:"position"`
}
