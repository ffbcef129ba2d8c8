package models

import "time"

// News is an announcement on the staff news feed
type News struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title" example:"New field office in Gaziantep"`
	Summary     string     `json:"summary" db:"summary"`
	Body        string     `json:"body" db:"body"`
	ImageKey    *string    `json:"imageKey,omitempty" db:"image_key"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	IsPublished bool       `json:"isPublished" db:"is_published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" db:"published_at"`
	AuthorID    *int64     `json:"authorId,omitempty" db:"author_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}
