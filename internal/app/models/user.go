package models

import (
	"strings"
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64       `json:"id" db:"id" example:"1"`
	Email        string      `json:"email" db:"email" example:"amina.k@inara.org"`
	Password     string      `json:"-" db:"password"`
	FirstName    string      `json:"firstName" db:"first_name" example:"Amina"`
	LastName     string      `json:"lastName" db:"last_name" example:"Karimi"`
	Role         Role        `json:"role" db:"role" example:"STAFF"`
	DepartmentID *int64      `json:"departmentId,omitempty" db:"department_id" example:"2"`
	Department   *Department `json:"department,omitempty"`
	JobTitle     *string     `json:"jobTitle,omitempty" db:"job_title" example:"Protection Officer"`
	IsActive     bool        `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt  *time.Time  `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
}

// FullName returns "First Last"
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the user has the ADMIN role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Department groups users and scopes work system access
type Department struct {
	ID        int64     `json:"id" db:"id" example:"2"`
	Name      string    `json:"name" db:"name" example:"Protection"`
	Code      string    `json:"code" db:"code" example:"PROT"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// RefreshToken is an opaque, revocable refresh token
type RefreshToken struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	IsRevoked bool      `db:"is_revoked"`
	CreatedAt time.Time `db:"created_at"`
}

// PasswordResetToken is a single-use password reset token
type PasswordResetToken struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	IsUsed    bool      `db:"is_used"`
	CreatedAt time.Time `db:"created_at"`
}
