package domain

import (
	"time"
)

// Farm is the isolation boundary for all resources and permissions.
type Farm struct {
	ID        string
	Name      string
	Location  string
	AdminID   string // designated farm admin, may differ from the creator
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the given user is the designated admin of the farm.
func (f *Farm) IsAdmin(userID string) bool {
	return f.AdminID != "" && f.AdminID == userID
}

// MembershipRole is the coarse role a user carries inside one farm.
type MembershipRole string

const (
	MembershipAdmin      MembershipRole = "admin"
	MembershipManager    MembershipRole = "manager"
	MembershipWorker     MembershipRole = "worker"
	MembershipSpecialist MembershipRole = "specialist"
	MembershipConsultant MembershipRole = "consultant"
	MembershipMember     MembershipRole = "member"
)

var validMembershipRoles = map[MembershipRole]bool{
	MembershipAdmin:      true,
	MembershipManager:    true,
	MembershipWorker:     true,
	MembershipSpecialist: true,
	MembershipConsultant: true,
	MembershipMember:     true,
}

// IsValid checks if the membership role is known.
func (r MembershipRole) IsValid() bool {
	return validMembershipRoles[r]
}

// Membership associates a user with a farm. A user may belong to many farms
// with a different membership role in each.
type Membership struct {
	ID        string
	UserID    string
	FarmID    string
	Role      MembershipRole
	CreatedAt time.Time
}
