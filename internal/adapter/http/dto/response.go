package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrodesk/farmstock/internal/domain"
	"github.com/agrodesk/farmstock/internal/usecase"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserFromDomain converts domain user to response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UsersFromDomain converts domain users to responses.
func UsersFromDomain(users []*domain.User) []*UserResponse {
	result := make([]*UserResponse, len(users))
	for i, u := range users {
		result[i] = UserFromDomain(u)
	}
	return result
}

// LoginResponse represents a successful authentication.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// FarmResponse represents a farm in API responses.
type FarmResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	AdminID   string    `json:"adminId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FarmFromDomain converts domain farm to response.
func FarmFromDomain(f *domain.Farm) *FarmResponse {
	return &FarmResponse{
		ID:        f.ID,
		Name:      f.Name,
		Location:  f.Location,
		AdminID:   f.AdminID,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// FarmsFromDomain converts domain farms to responses.
func FarmsFromDomain(farms []*domain.Farm) []*FarmResponse {
	result := make([]*FarmResponse, len(farms))
	for i, f := range farms {
		result[i] = FarmFromDomain(f)
	}
	return result
}

// PermissionResponse represents a module permission in API responses.
type PermissionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FarmID    string    `json:"farmId"`
	Module    string    `json:"module"`
	Level     string    `json:"level"`
	GrantedBy string    `json:"grantedBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PermissionFromDomain converts domain permission to response.
func PermissionFromDomain(p *domain.Permission) *PermissionResponse {
	return &PermissionResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		FarmID:    p.FarmID,
		Module:    string(p.Module),
		Level:     string(p.Level),
		GrantedBy: p.GrantedBy,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PermissionsFromDomain converts domain permissions to responses.
func PermissionsFromDomain(permissions []*domain.Permission) []*PermissionResponse {
	result := make([]*PermissionResponse, len(permissions))
	for i, p := range permissions {
		result[i] = PermissionFromDomain(p)
	}
	return result
}

// MembershipResponse represents a farm membership in API responses.
type MembershipResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FarmID    string    `json:"farmId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// MembershipFromDomain converts domain membership to response.
func MembershipFromDomain(m *domain.Membership) *MembershipResponse {
	return &MembershipResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		FarmID:    m.FarmID,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

// MembershipsFromDomain converts domain memberships to responses.
func MembershipsFromDomain(memberships []*domain.Membership) []*MembershipResponse {
	result := make([]*MembershipResponse, len(memberships))
	for i, m := range memberships {
		result[i] = MembershipFromDomain(m)
	}
	return result
}

// ItemResponse represents an inventory item in API responses.
type ItemResponse struct {
	ID           string           `json:"id"`
	FarmID       string           `json:"farmId"`
	Name         string           `json:"name"`
	Category     string           `json:"category,omitempty"`
	Unit         string           `json:"unit"`
	Quantity     decimal.Decimal  `json:"quantity"`
	MinimumLevel *decimal.Decimal `json:"minimumLevel,omitempty"`
	Critical     bool             `json:"critical"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// ItemFromDomain converts domain item to response.
func ItemFromDomain(i *domain.Item) *ItemResponse {
	return &ItemResponse{
		ID:           i.ID,
		FarmID:       i.FarmID,
		Name:         i.Name,
		Category:     i.Category,
		Unit:         i.Unit,
		Quantity:     i.Quantity,
		MinimumLevel: i.MinimumLevel,
		Critical:     i.IsCritical(),
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

// ItemsFromDomain converts domain items to responses.
func ItemsFromDomain(items []*domain.Item) []*ItemResponse {
	result := make([]*ItemResponse, len(items))
	for i, item := range items {
		result[i] = ItemFromDomain(item)
	}
	return result
}

// StockTransactionResponse represents a ledger transaction in API responses.
type StockTransactionResponse struct {
	ID              string           `json:"id"`
	ItemID          string           `json:"itemId"`
	FarmID          string           `json:"farmId"`
	UserID          string           `json:"userId"`
	Type            string           `json:"type"`
	Quantity        decimal.Decimal  `json:"quantity"`
	PreviousBalance decimal.Decimal  `json:"previousBalance"`
	NewBalance      decimal.Decimal  `json:"newBalance"`
	UnitPrice       *decimal.Decimal `json:"unitPrice,omitempty"`
	TotalPrice      *decimal.Decimal `json:"totalPrice,omitempty"`
	DocumentNumber  string           `json:"documentNumber,omitempty"`
	Counterparty    string           `json:"counterparty,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	OccurredAt      time.Time        `json:"occurredAt"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// StockTransactionFromDomain converts domain transaction to response.
func StockTransactionFromDomain(t *domain.StockTransaction) *StockTransactionResponse {
	return &StockTransactionResponse{
		ID:              t.ID,
		ItemID:          t.ItemID,
		FarmID:          t.FarmID,
		UserID:          t.UserID,
		Type:            string(t.Type),
		Quantity:        t.Quantity,
		PreviousBalance: t.PreviousBalance,
		NewBalance:      t.NewBalance,
		UnitPrice:       t.UnitPrice,
		TotalPrice:      t.TotalPrice,
		DocumentNumber:  t.DocumentNumber,
		Counterparty:    t.Counterparty,
		Notes:           t.Notes,
		OccurredAt:      t.OccurredAt,
		CreatedAt:       t.CreatedAt,
	}
}

// StockTransactionsFromDomain converts domain transactions to responses.
func StockTransactionsFromDomain(transactions []*domain.StockTransaction) []*StockTransactionResponse {
	result := make([]*StockTransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = StockTransactionFromDomain(t)
	}
	return result
}

// StockOperationResponse pairs the recorded transaction with the item it
// moved.
type StockOperationResponse struct {
	Transaction *StockTransactionResponse `json:"transaction"`
	Item        *ItemResponse             `json:"inventory"`
}

// StockOperationFromResult converts a use case result to a response.
func StockOperationFromResult(result *usecase.StockResult) *StockOperationResponse {
	return &StockOperationResponse{
		Transaction: StockTransactionFromDomain(result.Transaction),
		Item:        ItemFromDomain(result.Item),
	}
}

// ConsistencyMismatchResponse reports one item whose balance disagrees with
// its ledger.
type ConsistencyMismatchResponse struct {
	ItemID        string          `json:"itemId"`
	Quantity      decimal.Decimal `json:"quantity"`
	LedgerBalance decimal.Decimal `json:"ledgerBalance"`
}

// ConsistencyReportResponse summarizes a farm-wide consistency check.
type ConsistencyReportResponse struct {
	Consistent bool                          `json:"consistent"`
	Checked    int                           `json:"checked"`
	Mismatches []ConsistencyMismatchResponse `json:"mismatches,omitempty"`
}

// ConsistencyReportFromResult converts a use case report to a response.
func ConsistencyReportFromResult(report *usecase.ConsistencyReport) *ConsistencyReportResponse {
	resp := &ConsistencyReportResponse{
		Consistent: report.Consistent,
		Checked:    report.Checked,
	}
	for _, m := range report.Mismatches {
		resp.Mismatches = append(resp.Mismatches, ConsistencyMismatchResponse{
			ItemID:        m.ItemID,
			Quantity:      m.Quantity,
			LedgerBalance: m.LedgerBalance,
		})
	}
	return resp
}

// AuditLogResponse represents an audit record in API responses.
type AuditLogResponse struct {
	ID           string      `json:"id"`
	UserID       string      `json:"userId"`
	Action       string      `json:"action"`
	ResourceType string      `json:"resourceType"`
	ResourceID   string      `json:"resourceId"`
	FarmID       string      `json:"farmId,omitempty"`
	BeforeState  domain.JSON `json:"beforeState,omitempty"`
	AfterState   domain.JSON `json:"afterState,omitempty"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// AuditLogFromDomain converts domain audit log to response.
func AuditLogFromDomain(a *domain.AuditLog) *AuditLogResponse {
	return &AuditLogResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		Action:       string(a.Action),
		ResourceType: a.ResourceType,
		ResourceID:   a.ResourceID,
		FarmID:       a.FarmID,
		BeforeState:  a.BeforeState,
		AfterState:   a.AfterState,
		Status:       string(a.Status),
		ErrorMessage: a.ErrorMessage,
		CreatedAt:    a.CreatedAt,
	}
}

// AuditLogsFromDomain converts domain audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, a := range logs {
		result[i] = AuditLogFromDomain(a)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
