package domain

import (
	"time"
)

// AuditLog records a permission or membership change for compliance. Stock
// movements are not audited here: the stock transaction ledger is its own
// append-only audit trail.
type AuditLog struct {
	ID           string
	UserID       string // who performed the action
	Action       AuditAction
	ResourceType string // permission, membership, user
	ResourceID   string
	FarmID       string
	BeforeState  JSON
	AfterState   JSON
	Status       AuditStatus
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data.
type JSON map[string]any

// AuditAction represents different types of auditable actions.
type AuditAction string

const (
	AuditActionPermissionGrant  AuditAction = "permission.grant"
	AuditActionPermissionRevoke AuditAction = "permission.revoke"

	AuditActionMembershipAssign AuditAction = "membership.assign"
	AuditActionMembershipRemove AuditAction = "membership.remove"

	AuditActionUserRoleChange AuditAction = "user.role_change"
)

// AuditStatus represents the status of an audited action.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// AuditFilter narrows audit log queries.
type AuditFilter struct {
	UserID       string
	FarmID       string
	Action       AuditAction
	ResourceType string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}
