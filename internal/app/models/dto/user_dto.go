package dto

import (
	"time"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"
)

// UserResponse is the public view of a user
type UserResponse struct {
	ID             int64      `json:"id" example:"1"`
	Email          string     `json:"email" example:"amina.k@inara.org"`
	FirstName      string     `json:"firstName" example:"Amina"`
	LastName       string     `json:"lastName" example:"Karimi"`
	Role           string     `json:"role" example:"STAFF" enums:"ADMIN,MANAGER,STAFF"`
	DepartmentID   *int64     `json:"departmentId,omitempty" example:"2"`
	DepartmentName string     `json:"departmentName,omitempty" example:"Protection"`
	JobTitle       *string    `json:"jobTitle,omitempty"`
	IsActive       bool       `json:"isActive"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// NewUserResponse builds a UserResponse
func NewUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         string(u.Role),
		DepartmentID: u.DepartmentID,
		JobTitle:     u.JobTitle,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
	if u.Department != nil {
		resp.DepartmentName = u.Department.Name
	}
	return resp
}

// NewUserResponses maps a slice of users
func NewUserResponses(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// CreateUserRequest is used by admins to create accounts
type CreateUserRequest struct {
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=8"`
	FirstName    string  `json:"firstName" binding:"required,max=100"`
	LastName     string  `json:"lastName" binding:"required,max=100"`
	Role         string  `json:"role" binding:"required,user_role"`
	DepartmentID *int64  `json:"departmentId"`
	JobTitle     *string `json:"jobTitle" binding:"omitempty,max=150"`
}

// UpdateUserRequest updates profile fields of a user
type UpdateUserRequest struct {
	FirstName    *string `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName     *string `json:"lastName" binding:"omitempty,min=1,max=100"`
	DepartmentID *int64  `json:"departmentId"`
	JobTitle     *string `json:"jobTitle" binding:"omitempty,max=150"`
}

// UpdateRoleRequest changes a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,user_role"`
}

// UserFilterRequest filters the user list
type UserFilterRequest struct {
	Search       string `form:"search"`
	Role         string `form:"role" binding:"omitempty,user_role"`
	DepartmentID *int64 `form:"departmentId"`
	Active       *bool  `form:"active"`
}
