package models

import "time"

// SubmissionStatus is the review state of a market submission
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "PENDING"
	SubmissionApproved SubmissionStatus = "APPROVED"
	SubmissionRejected SubmissionStatus = "REJECTED"
)

// MarketSubmission is an item staff offer on the internal market board
type MarketSubmission struct {
	ID          int64            `json:"id" db:"id"`
	Title       string           `json:"title" db:"title" example:"Used laptop"`
	Description string           `json:"description" db:"description"`
	Category    string           `json:"category" db:"category"`
	Price       *float64         `json:"price,omitempty" db:"price"`
	Contact     string           `json:"contact" db:"contact"`
	FileKey     *string          `json:"fileKey,omitempty" db:"file_key"`
	FileURL     string           `json:"fileUrl,omitempty"`
	Status      SubmissionStatus `json:"status" db:"status" example:"PENDING"`
	ReviewNote  *string          `json:"reviewNote,omitempty" db:"review_note"`
	SubmittedBy int64            `json:"submittedBy" db:"submitted_by"`
	ReviewedBy  *int64           `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt  *time.Time       `json:"reviewedAt,omitempty" db:"reviewed_at"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" db:"updated_at"`
}
