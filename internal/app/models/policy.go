package models

import "time"

// Policy is an organisational policy staff must read and acknowledge
type Policy struct {
	ID            int64      `json:"id" db:"id"`
	Title         string     `json:"title" db:"title" example:"Code of Conduct"`
	Category      string     `json:"category" db:"category" example:"HR"`
	Summary       string     `json:"summary" db:"summary"`
	Body          string     `json:"body" db:"body"`
	Version       string     `json:"version" db:"version" example:"2.1"`
	EffectiveDate *time.Time `json:"effectiveDate,omitempty" db:"effective_date"`
	FileKey       *string    `json:"fileKey,omitempty" db:"file_key"`
	FileURL       string     `json:"fileUrl,omitempty"`
	IsActive      bool       `json:"isActive" db:"is_active"`
	CreatedBy     *int64     `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// PolicyAcknowledgement records that a user has read a policy
type PolicyAcknowledgement struct {
	ID             int64     `json:"id" db:"id"`
	PolicyID       int64     `json:"policyId" db:"policy_id"`
	UserID         int64     `json:"userId" db:"user_id"`
	AcknowledgedAt time.Time `json:"acknowledgedAt" db:"acknowledged_at"`
}
