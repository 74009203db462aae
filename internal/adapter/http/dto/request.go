package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrodesk/farmstock/internal/domain"
	"github.com/agrodesk/farmstock/internal/usecase"
)

// CreateUserRequest represents a request to create a user.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateUserRequest) ToUseCaseInput(actor *domain.User) usecase.CreateUserInput {
	return usecase.CreateUserInput{
		Actor:    actor,
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
		Role:     domain.Role(r.Role),
	}
}

// UpdateUserRequest represents a request to update a user.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
	Active   *bool   `json:"active,omitempty"`
	Password *string `json:"password,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateUserRequest) ToUseCaseInput(actor *domain.User, id string) usecase.UpdateUserInput {
	input := usecase.UpdateUserInput{
		Actor:    actor,
		ID:       id,
		Name:     r.Name,
		Active:   r.Active,
		Password: r.Password,
	}
	if r.Role != nil {
		role := domain.Role(*r.Role)
		input.Role = &role
	}
	return input
}

// LoginRequest represents an authentication request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateFarmRequest represents a request to create a farm.
type CreateFarmRequest struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	AdminID  string `json:"adminId,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateFarmRequest) ToUseCaseInput(actor *domain.User) usecase.CreateFarmInput {
	return usecase.CreateFarmInput{
		Actor:    actor,
		Name:     r.Name,
		Location: r.Location,
		AdminID:  r.AdminID,
	}
}

// GrantPermissionRequest represents a request to grant module access.
type GrantPermissionRequest struct {
	UserID string `json:"userId"`
	Module string `json:"module"`
	Level  string `json:"level"`
}

// AssignMembershipRequest represents a request to add a user to a farm.
type AssignMembershipRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// CreateItemRequest represents a request to create an inventory item. An
// initial quantity, when present, is booked as an opening ledger entry.
type CreateItemRequest struct {
	FarmID          string           `json:"farmId"`
	Name            string           `json:"name"`
	Category        string           `json:"category,omitempty"`
	Unit            string           `json:"unit"`
	MinimumLevel    *decimal.Decimal `json:"minimumLevel,omitempty"`
	InitialQuantity *decimal.Decimal `json:"initialQuantity,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateItemRequest) ToUseCaseInput() usecase.CreateItemInput {
	return usecase.CreateItemInput{
		FarmID:       r.FarmID,
		Name:         r.Name,
		Category:     r.Category,
		Unit:         r.Unit,
		MinimumLevel: r.MinimumLevel,
	}
}

// UpdateItemRequest represents a request to update item details.
type UpdateItemRequest struct {
	Name         *string          `json:"name,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	MinimumLevel *decimal.Decimal `json:"minimumLevel,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateItemRequest) ToUseCaseInput(farmID, id string) usecase.UpdateItemInput {
	return usecase.UpdateItemInput{
		FarmID:       farmID,
		ID:           id,
		Name:         r.Name,
		Category:     r.Category,
		Unit:         r.Unit,
		MinimumLevel: r.MinimumLevel,
	}
}

// StockEntryRequest represents a request to add stock.
type StockEntryRequest struct {
	FarmID         string           `json:"farmId"`
	ItemID         string           `json:"itemId"`
	Quantity       decimal.Decimal  `json:"quantity"`
	UnitPrice      *decimal.Decimal `json:"unitPrice,omitempty"`
	DocumentNumber string           `json:"documentNumber,omitempty"`
	Source         string           `json:"source,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	OccurredAt     *time.Time       `json:"occurredAt,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *StockEntryRequest) ToUseCaseInput(userID string) usecase.EntryInput {
	return usecase.EntryInput{
		FarmID:         r.FarmID,
		ItemID:         r.ItemID,
		UserID:         userID,
		Quantity:       r.Quantity,
		UnitPrice:      r.UnitPrice,
		DocumentNumber: r.DocumentNumber,
		Source:         r.Source,
		Notes:          r.Notes,
		OccurredAt:     r.OccurredAt,
	}
}

// StockWithdrawalRequest represents a request to remove stock.
type StockWithdrawalRequest struct {
	FarmID      string          `json:"farmId"`
	ItemID      string          `json:"itemId"`
	Quantity    decimal.Decimal `json:"quantity"`
	Destination string          `json:"destination,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	OccurredAt  *time.Time      `json:"occurredAt,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *StockWithdrawalRequest) ToUseCaseInput(userID string) usecase.WithdrawalInput {
	return usecase.WithdrawalInput{
		FarmID:      r.FarmID,
		ItemID:      r.ItemID,
		UserID:      userID,
		Quantity:    r.Quantity,
		Destination: r.Destination,
		Notes:       r.Notes,
		OccurredAt:  r.OccurredAt,
	}
}

// StockAdjustmentRequest represents a request to set an exact balance.
type StockAdjustmentRequest struct {
	FarmID      string          `json:"farmId"`
	ItemID      string          `json:"itemId"`
	NewQuantity decimal.Decimal `json:"newQuantity"`
	Notes       string          `json:"notes,omitempty"`
	OccurredAt  *time.Time      `json:"occurredAt,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *StockAdjustmentRequest) ToUseCaseInput(userID string) usecase.AdjustmentInput {
	return usecase.AdjustmentInput{
		FarmID:      r.FarmID,
		ItemID:      r.ItemID,
		UserID:      userID,
		NewQuantity: r.NewQuantity,
		Notes:       r.Notes,
		OccurredAt:  r.OccurredAt,
	}
}
