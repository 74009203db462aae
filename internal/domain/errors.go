package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Inventory errors
	ErrItemNotFound        = errors.New("inventory item not found")
	ErrTransactionNotFound = errors.New("stock transaction not found")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrBalanceMismatch     = errors.New("transaction balance does not match item balance")

	// Access errors
	ErrUserNotFound       = errors.New("user not found")
	ErrFarmNotFound       = errors.New("farm not found")
	ErrMembershipNotFound = errors.New("farm membership not found")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrFarmIDRequired     = errors.New("Farm ID is required")

	// Escalation errors
	ErrSelfRoleChange      = errors.New("users cannot change their own role")
	ErrSuperAdminProtected = errors.New("only a super admin can manage super admin accounts")

	// Authentication errors
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("insufficient permissions")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidRole   = errors.New("invalid role")
	ErrEmailTaken    = errors.New("user with this email already exists")
	ErrUserInactive  = errors.New("user account is inactive")
	ErrInvalidModule = errors.New("invalid module")
	ErrInvalidLevel  = errors.New("invalid access level")
)

// InsufficientStockError reports a withdrawal that exceeds the current
// balance. It matches ErrInsufficientStock via errors.Is.
type InsufficientStockError struct {
	ItemID    string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: available %s, requested %s",
		e.ItemID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
