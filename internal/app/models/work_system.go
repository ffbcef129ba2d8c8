package models

import "time"

// WorkSystem is an internal tool listed in the systems catalogue
type WorkSystem struct {
	ID          int64        `json:"id" db:"id"`
	Name        string       `json:"name" db:"name" example:"Kobo Toolbox"`
	Description string       `json:"description" db:"description"`
	URL         string       `json:"url" db:"url" example:"https://kf.kobotoolbox.org"`
	IconKey     *string      `json:"iconKey,omitempty" db:"icon_key"`
	IconURL     string       `json:"iconUrl,omitempty"`
	IsActive    bool         `json:"isActive" db:"is_active"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
	AccessRules []AccessRule `json:"accessRules,omitempty"`
}

// AccessRule allows or denies a work system to a department, a role, or both.
// A nil DepartmentID or Role matches everyone.
type AccessRule struct {
	ID           int64     `json:"id" db:"id"`
	WorkSystemID int64     `json:"workSystemId" db:"work_system_id"`
	DepartmentID *int64    `json:"departmentId,omitempty" db:"department_id"`
	Role         *Role     `json:"role,omitempty" db:"role"`
	Allow        bool      `json:"allow" db:"allow"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Matches reports whether the rule applies to user
func (r *AccessRule) Matches(user *User) bool {
	if r.Role != nil && *r.Role != user.Role {
		return false
	}
	if r.DepartmentID != nil && (user.DepartmentID == nil || *user.DepartmentID != *r.DepartmentID) {
		return false
	}
	return true
}

// CanAccess evaluates rules for user. Admins always have access, a matching deny
// rule wins over allows, and a system that has allow rules is limited to users they match.
func CanAccess(user *User, rules []AccessRule) bool {
	if user.IsAdmin() {
		return true
	}

	hasAllow := false
	allowed := false
	for i := range rules {
		rule := &rules[i]
		if rule.Allow {
			hasAllow = true
		}
		if !rule.Matches(user) {
			continue
		}
		if !rule.Allow {
			return false
		}
		allowed = true
	}
	return !hasAllow || allowed
}
