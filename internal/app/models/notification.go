package models

import "time"

// Notification is an in-app message for one user
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Link      *string   `json:"link,omitempty" db:"link"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Setting is a key/value system configuration entry
type Setting struct {
	Key       string    `json:"key" db:"key" example:"support_email"`
	Value     string    `json:"value" db:"value" example:"it-support@inara.org"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
