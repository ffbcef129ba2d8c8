package dto

import "time"

// PolicyRequest creates or updates a policy
type PolicyRequest struct {
	Title         string     `json:"title" binding:"required,max=200"`
	Category      string     `json:"category" binding:"max=100"`
	Summary       string     `json:"summary"`
	Body          string     `json:"body"`
	Version       string     `json:"version" binding:"max=20" example:"1.0"`
	EffectiveDate *time.Time `json:"effectiveDate"`
	FileKey       *string    `json:"fileKey"`
	IsActive      *bool      `json:"isActive"`
	Notify        bool       `json:"notify"`
}

// PolicyAckResponse reports the caller's acknowledgement of a policy
type PolicyAckResponse struct {
	PolicyID       int64      `json:"policyId"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty"`
}

// ContentFilter filters listings of library resources, policies and templates
type ContentFilter struct {
	Search       string `form:"search"`
	Category     string `form:"category"`
	ResourceType string `form:"type"`
	Tag          string `form:"tag"`
}

// LibraryRequest creates or updates a library resource
type LibraryRequest struct {
	Title        string   `json:"title" binding:"required,max=200"`
	Description  string   `json:"description"`
	Category     string   `json:"category" binding:"max=100"`
	ResourceType string   `json:"resourceType" binding:"required,oneof=DOCUMENT VIDEO LINK IMAGE OTHER"`
	FileKey      *string  `json:"fileKey"`
	ExternalURL  *string  `json:"externalUrl" binding:"omitempty,url"`
	Tags         []string `json:"tags"`
	IsActive     *bool    `json:"isActive"`
}

// TemplateRequest creates or updates a template
type TemplateRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"max=100"`
	FileKey     string `json:"fileKey" binding:"required"`
	IsActive    *bool  `json:"isActive"`
}

// MarketSubmissionRequest creates or updates a market submission
type MarketSubmissionRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"max=100"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	Contact     string   `json:"contact" binding:"required,max=200"`
	FileKey     *string  `json:"fileKey"`
}

// ReviewRequest approves or rejects a market submission
type ReviewRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	Note   string `json:"note" binding:"max=1000"`
}

// NewsRequest creates or updates a news item
type NewsRequest struct {
	Title    string  `json:"title" binding:"required,max=200"`
	Summary  string  `json:"summary" binding:"max=500"`
	Body     string  `json:"body" binding:"required"`
	ImageKey *string `json:"imageKey"`
	Publish  *bool   `json:"publish"`
}

// WorkSystemRequest creates or updates a work system
type WorkSystemRequest struct {
	Name        string  `json:"name" binding:"required,max=150"`
	Description string  `json:"description"`
	URL         string  `json:"url" binding:"required,url"`
	IconKey     *string `json:"iconKey"`
	IsActive    *bool   `json:"isActive"`
}

// AccessRuleRequest adds an access rule to a work system
type AccessRuleRequest struct {
	DepartmentID *int64  `json:"departmentId"`
	Role         *string `json:"role" binding:"omitempty,user_role"`
	Allow        *bool   `json:"allow" binding:"required"`
}

// SettingRequest sets a configuration value
type SettingRequest struct {
	Value string `json:"value"`
}

// UploadResponse describes a stored upload
type UploadResponse struct {
	Key         string `json:"key" example:"library/6f1c2c5e-4b7a-4d8e-9a8c-2f3b1d0e9c7a.pdf"`
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// MarketFilter filters the market board
type MarketFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Mine     bool   `form:"mine"`
}
