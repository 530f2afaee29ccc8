package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleSupport = "soporte"
)

// PrivilegedRoles may see every ticket instead of only their own.
var PrivilegedRoles = []string{RoleAdmin, RoleSupport}

// SeedRoles are created at startup when missing.
var SeedRoles = []Role{
	{Name: RoleAdmin, Description: "Administrador del sistema"},
	{Name: RoleSupport, Description: "Soporte técnico"},
}

// Role names a permission set; names are compared case-sensitively.
type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// IsPrivileged reports whether the role name grants visibility over all tickets.
func IsPrivileged(roleName string) bool {
	for _, name := range PrivilegedRoles {
		if name == roleName {
			return true
		}
	}
	return false
}
