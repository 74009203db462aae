package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrodesk/farmstock/internal/domain"
)

// StockUseCase serializes every change to an item's on-hand quantity through
// one of three operations. Each operation locks the item row, derives the new
// balance from the current one, and writes the updated item and an immutable
// ledger transaction as a single database transaction. Serialization and
// deadlock failures are retried.
type StockUseCase struct {
	txManager TransactionManager
	itemRepo  ItemRepository
	stockRepo StockTransactionRepository
	idGen     IDGenerator
	retrier   Retrier
}

// NewStockUseCase creates a new StockUseCase.
func NewStockUseCase(
	txManager TransactionManager,
	itemRepo ItemRepository,
	stockRepo StockTransactionRepository,
	idGen IDGenerator,
	retrier Retrier,
) *StockUseCase {
	return &StockUseCase{
		txManager: txManager,
		itemRepo:  itemRepo,
		stockRepo: stockRepo,
		idGen:     idGen,
		retrier:   retrier,
	}
}

// StockResult pairs the recorded transaction with the updated item.
type StockResult struct {
	Transaction *domain.StockTransaction
	Item        *domain.Item
}

// EntryInput represents input for a stock entry.
type EntryInput struct {
	FarmID         string
	ItemID         string
	UserID         string
	Quantity       decimal.Decimal
	UnitPrice      *decimal.Decimal
	DocumentNumber string
	Source         string
	Notes          string
	OccurredAt     *time.Time
}

// Entry adds stock to an item.
func (uc *StockUseCase) Entry(ctx context.Context, input EntryInput) (*StockResult, error) {
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	return uc.run(ctx, input.FarmID, input.ItemID, func(item *domain.Item, now time.Time) (*domain.StockTransaction, error) {
		if err := item.ValidateEntry(input.Quantity); err != nil {
			return nil, err
		}

		txn := &domain.StockTransaction{
			ID:              uc.idGen.Generate(),
			ItemID:          item.ID,
			FarmID:          item.FarmID,
			UserID:          input.UserID,
			Type:            domain.TransactionIn,
			Quantity:        input.Quantity,
			PreviousBalance: item.Quantity,
			NewBalance:      item.Quantity.Add(input.Quantity),
			UnitPrice:       input.UnitPrice,
			DocumentNumber:  input.DocumentNumber,
			Counterparty:    input.Source,
			Notes:           input.Notes,
			OccurredAt:      occurredAt(input.OccurredAt, now),
			CreatedAt:       now,
		}

		if input.UnitPrice != nil {
			total := input.Quantity.Mul(*input.UnitPrice)
			txn.TotalPrice = &total
		}

		return txn, nil
	})
}

// WithdrawalInput represents input for a stock withdrawal.
type WithdrawalInput struct {
	FarmID      string
	ItemID      string
	UserID      string
	Quantity    decimal.Decimal
	Destination string
	Notes       string
	OccurredAt  *time.Time
}

// Withdrawal removes stock from an item. Withdrawing more than the current
// balance fails with InsufficientStockError and leaves the item untouched.
func (uc *StockUseCase) Withdrawal(ctx context.Context, input WithdrawalInput) (*StockResult, error) {
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	return uc.run(ctx, input.FarmID, input.ItemID, func(item *domain.Item, now time.Time) (*domain.StockTransaction, error) {
		if err := item.ValidateWithdrawal(input.Quantity); err != nil {
			return nil, err
		}

		return &domain.StockTransaction{
			ID:              uc.idGen.Generate(),
			ItemID:          item.ID,
			FarmID:          item.FarmID,
			UserID:          input.UserID,
			Type:            domain.TransactionOut,
			Quantity:        input.Quantity,
			PreviousBalance: item.Quantity,
			NewBalance:      item.Quantity.Sub(input.Quantity),
			Counterparty:    input.Destination,
			Notes:           input.Notes,
			OccurredAt:      occurredAt(input.OccurredAt, now),
			CreatedAt:       now,
		}, nil
	})
}

// AdjustmentInput represents input for a stock adjustment.
type AdjustmentInput struct {
	FarmID      string
	ItemID      string
	UserID      string
	NewQuantity decimal.Decimal
	Notes       string
	OccurredAt  *time.Time
}

// Adjustment sets an item's balance to an exact non-negative target. The
// recorded quantity is the magnitude of the delta.
func (uc *StockUseCase) Adjustment(ctx context.Context, input AdjustmentInput) (*StockResult, error) {
	if input.NewQuantity.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}

	return uc.run(ctx, input.FarmID, input.ItemID, func(item *domain.Item, now time.Time) (*domain.StockTransaction, error) {
		if err := item.ValidateAdjustment(input.NewQuantity); err != nil {
			return nil, err
		}

		delta := input.NewQuantity.Sub(item.Quantity)

		notes := input.Notes
		if notes == "" {
			notes = adjustmentNote(delta, item.Unit)
		}

		return &domain.StockTransaction{
			ID:              uc.idGen.Generate(),
			ItemID:          item.ID,
			FarmID:          item.FarmID,
			UserID:          input.UserID,
			Type:            domain.TransactionAdjust,
			Quantity:        delta.Abs(),
			PreviousBalance: item.Quantity,
			NewBalance:      input.NewQuantity,
			Notes:           notes,
			OccurredAt:      occurredAt(input.OccurredAt, now),
			CreatedAt:       now,
		}, nil
	})
}

// run executes one ledger operation: lock the item row, build the transaction
// from the locked balance, persist the transaction and the new balance, and
// commit. A failed commit leaves neither write behind. An item belonging to a
// different farm than the one the operation was authorized for is treated as
// not found.
func (uc *StockUseCase) run(ctx context.Context, farmID, itemID string, build func(item *domain.Item, now time.Time) (*domain.StockTransaction, error)) (*StockResult, error) {
	var result *StockResult

	operation := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		item, err := uc.itemRepo.GetByIDForUpdate(ctx, tx, itemID)
		if err != nil {
			return err
		}

		if item.FarmID != farmID {
			return domain.ErrItemNotFound
		}

		now := time.Now().UTC()

		txn, err := build(item, now)
		if err != nil {
			return err
		}

		if err := txn.Validate(); err != nil {
			return err
		}

		if err := uc.stockRepo.Create(ctx, tx, txn); err != nil {
			return err
		}

		if err := uc.itemRepo.UpdateQuantity(ctx, tx, item.ID, txn.NewBalance, now); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		item.Quantity = txn.NewBalance
		item.UpdatedAt = now
		result = &StockResult{Transaction: txn, Item: item}

		return nil
	}

	if err := uc.retrier.Retry(ctx, operation); err != nil {
		return nil, err
	}

	return result, nil
}

// GetTransaction retrieves a stock transaction by ID. A transaction recorded
// for a different farm is treated as not found.
func (uc *StockUseCase) GetTransaction(ctx context.Context, farmID, id string) (*domain.StockTransaction, error) {
	txn, err := uc.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.FarmID != farmID {
		return nil, domain.ErrTransactionNotFound
	}
	return txn, nil
}

// ListByItemInput represents input for listing an item's ledger.
type ListByItemInput struct {
	FarmID string
	ItemID string
	Limit  int
	Offset int
}

// ListByItem lists an item's transactions, most recent first. An item
// belonging to a different farm is treated as not found.
func (uc *StockUseCase) ListByItem(ctx context.Context, input ListByItemInput) ([]*domain.StockTransaction, error) {
	item, err := uc.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item.FarmID != input.FarmID {
		return nil, domain.ErrItemNotFound
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.stockRepo.ListByItem(ctx, input.ItemID, limit, offset)
}

// ListByFarmInput represents input for listing a farm's ledger.
type ListByFarmInput struct {
	FarmID string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// ListByFarm lists a farm's transactions, optionally within a date range,
// most recent first.
func (uc *StockUseCase) ListByFarm(ctx context.Context, input ListByFarmInput) ([]*domain.StockTransaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.stockRepo.ListByFarm(ctx, input.FarmID, input.From, input.To, limit, offset)
}

// ConsistencyMismatch reports an item whose balance disagrees with its ledger.
type ConsistencyMismatch struct {
	ItemID        string
	Quantity      decimal.Decimal
	LedgerBalance decimal.Decimal
}

// ConsistencyReport summarizes a farm-wide ledger consistency check.
type ConsistencyReport struct {
	Consistent bool
	Checked    int
	Mismatches []ConsistencyMismatch
}

// CheckConsistency verifies, for every item of a farm, that the current
// quantity equals the new balance of the item's latest transaction. Items
// with no transactions must hold zero.
func (uc *StockUseCase) CheckConsistency(ctx context.Context, farmID string) (*ConsistencyReport, error) {
	const batch = 500

	report := &ConsistencyReport{Consistent: true}

	for offset := 0; ; offset += batch {
		items, err := uc.itemRepo.ListByFarm(ctx, farmID, batch, offset)
		if err != nil {
			return nil, err
		}

		for _, item := range items {
			report.Checked++

			ledger := decimal.Zero
			last, err := uc.stockRepo.GetLatestByItem(ctx, item.ID)
			if err != nil && err != domain.ErrTransactionNotFound {
				return nil, err
			}
			if last != nil {
				ledger = last.NewBalance
			}

			if !item.Quantity.Equal(ledger) {
				report.Consistent = false
				report.Mismatches = append(report.Mismatches, ConsistencyMismatch{
					ItemID:        item.ID,
					Quantity:      item.Quantity,
					LedgerBalance: ledger,
				})
			}
		}

		if len(items) < batch {
			break
		}
	}

	return report, nil
}

func occurredAt(at *time.Time, now time.Time) time.Time {
	if at != nil {
		return *at
	}
	return now
}

func adjustmentNote(delta decimal.Decimal, unit string) string {
	sign := "+"
	if delta.IsNegative() {
		sign = ""
	}
	return fmt.Sprintf("Stock adjusted by %s%s %s", sign, delta, unit)
}
