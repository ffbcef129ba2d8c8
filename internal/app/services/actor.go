package services

import "github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/models"

// Actor is the authenticated caller of a service operation
type Actor struct {
	UserID int64
	Role   models.Role
}

// IsAdmin reports whether the caller is an administrator
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanManage reports whether the caller may create and edit content
func (a Actor) CanManage() bool {
	return a.Role.CanManageContent()
}

// ActiveOnly reports whether listings must hide inactive records from the caller
func (a Actor) ActiveOnly() bool {
	return !a.CanManage()
}
