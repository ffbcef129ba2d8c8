package models

// Role defines the user role
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// CanManageContent reports whether the role may create and edit content
func (r Role) CanManageContent() bool {
	return r == RoleAdmin || r == RoleManager
}
