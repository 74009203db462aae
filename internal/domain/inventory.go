package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Item represents a stocked good owned by a farm. Quantity is the running
// balance of the item's transaction ledger and is only ever changed through
// stock operations; item edits never touch it.
type Item struct {
	ID           string
	FarmID       string
	Name         string
	Category     string
	Unit         string
	Quantity     decimal.Decimal
	MinimumLevel *decimal.Decimal // reorder threshold, optional
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsCritical reports whether the item is at or below its reorder threshold.
// Items without a threshold are never critical.
func (i *Item) IsCritical() bool {
	if i.MinimumLevel == nil {
		return false
	}
	return i.Quantity.LessThanOrEqual(*i.MinimumLevel)
}

// ValidateEntry checks if the item can receive an entry of the given quantity.
func (i *Item) ValidateEntry(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	return nil
}

// ValidateWithdrawal checks if the item holds enough stock for a withdrawal.
func (i *Item) ValidateWithdrawal(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	if quantity.GreaterThan(i.Quantity) {
		return &InsufficientStockError{
			ItemID:    i.ID,
			Available: i.Quantity,
			Requested: quantity,
		}
	}
	return nil
}

// ValidateAdjustment checks if the item can be adjusted to the target quantity.
func (i *Item) ValidateAdjustment(target decimal.Decimal) error {
	if target.IsNegative() {
		return ErrInvalidQuantity
	}
	return nil
}

// TransactionType discriminates the three ledger operations.
type TransactionType string

const (
	TransactionIn     TransactionType = "in"
	TransactionOut    TransactionType = "out"
	TransactionAdjust TransactionType = "adjust"
)

var validTransactionTypes = map[TransactionType]bool{
	TransactionIn:     true,
	TransactionOut:    true,
	TransactionAdjust: true,
}

// IsValid checks if the transaction type is known.
func (t TransactionType) IsValid() bool {
	return validTransactionTypes[t]
}

// StockTransaction is one immutable row of an item's ledger. Quantity is the
// magnitude of the change; PreviousBalance and NewBalance chain across the
// item's history.
type StockTransaction struct {
	ID              string
	ItemID          string
	FarmID          string
	UserID          string
	Type            TransactionType
	Quantity        decimal.Decimal
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	UnitPrice       *decimal.Decimal
	TotalPrice      *decimal.Decimal
	DocumentNumber  string
	Counterparty    string // source for entries, destination for withdrawals
	Notes           string
	OccurredAt      time.Time
	CreatedAt       time.Time
}

// Validate checks the balance arithmetic of the transaction.
func (t *StockTransaction) Validate() error {
	if !t.Type.IsValid() {
		return fmt.Errorf("invalid transaction type %q", t.Type)
	}
	if t.Quantity.IsNegative() {
		return ErrInvalidQuantity
	}

	switch t.Type {
	case TransactionIn:
		if !t.NewBalance.Equal(t.PreviousBalance.Add(t.Quantity)) {
			return ErrBalanceMismatch
		}
	case TransactionOut:
		if !t.NewBalance.Equal(t.PreviousBalance.Sub(t.Quantity)) {
			return ErrBalanceMismatch
		}
	case TransactionAdjust:
		if !t.Quantity.Equal(t.NewBalance.Sub(t.PreviousBalance).Abs()) {
			return ErrBalanceMismatch
		}
	}

	return nil
}
