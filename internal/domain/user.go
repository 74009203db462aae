package domain

import (
	"time"
)

// User represents a system user.
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Role is a user's global role. It is fixed at the account level and is
// independent of per-farm memberships and permissions.
type Role string

const (
	// RoleSuperAdmin bypasses every access check.
	RoleSuperAdmin Role = "super_admin"

	// RoleFarmAdmin has full access on farms where they are the designated admin.
	RoleFarmAdmin Role = "farm_admin"

	RoleManager      Role = "manager"
	RoleEmployee     Role = "employee"
	RoleVeterinarian Role = "veterinarian"
	RoleAgronomist   Role = "agronomist"
	RoleConsultant   Role = "consultant"
)

var validRoles = map[Role]bool{
	RoleSuperAdmin:   true,
	RoleFarmAdmin:    true,
	RoleManager:      true,
	RoleEmployee:     true,
	RoleVeterinarian: true,
	RoleAgronomist:   true,
	RoleConsultant:   true,
}

// IsValid checks if the role is a valid role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanManageUsers checks if the role may create or modify user accounts.
func (r Role) CanManageUsers() bool {
	return r == RoleSuperAdmin || r == RoleFarmAdmin
}

// CanGrantPermissions checks if the role may assign per-farm permissions.
func (r Role) CanGrantPermissions() bool {
	return r == RoleSuperAdmin || r == RoleFarmAdmin
}
