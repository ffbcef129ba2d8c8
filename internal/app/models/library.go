package models

import "time"

// Library resource types
const (
	ResourceTypeDocument = "DOCUMENT"
	ResourceTypeVideo    = "VIDEO"
	ResourceTypeLink     = "LINK"
	ResourceTypeImage    = "IMAGE"
	ResourceTypeOther    = "OTHER"
)

// LibraryResource is a document, media file or external link in the resource library
type LibraryResource struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title" example:"Field Security Handbook"`
	Description  string    `json:"description" db:"description"`
	Category     string    `json:"category" db:"category" example:"Security"`
	ResourceType string    `json:"resourceType" db:"resource_type" example:"DOCUMENT"`
	FileKey      *string   `json:"fileKey,omitempty" db:"file_key"`
	FileURL      string    `json:"fileUrl,omitempty"`
	ExternalURL  *string   `json:"externalUrl,omitempty" db:"external_url"`
	Tags         []string  `json:"tags" db:"tags"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	UploadedBy   *int64    `json:"uploadedBy,omitempty" db:"uploaded_by"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Template is a downloadable document template
type Template struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" example:"Travel Request Form"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category" example:"Operations"`
	FileKey     string    `json:"fileKey" db:"file_key"`
	FileURL     string    `json:"fileUrl,omitempty"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
