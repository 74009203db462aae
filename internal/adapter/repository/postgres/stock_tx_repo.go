package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrodesk/farmstock/internal/domain"
	"github.com/agrodesk/farmstock/internal/usecase"
)

// StockTransactionRepository implements ledger transaction persistence.
// Rows are append-only: there is no update or delete.
type StockTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewStockTransactionRepository creates a new stock transaction repository
func NewStockTransactionRepository(pool *pgxpool.Pool) *StockTransactionRepository {
	return &StockTransactionRepository{pool: pool}
}

const selectTransaction = `
	SELECT id, item_id, farm_id, user_id, type, quantity, previous_balance, new_balance,
	       unit_price, total_price, document_number, counterparty, notes, occurred_at, created_at
	FROM stock_transactions
`

// Create inserts a transaction within the caller's database transaction
func (r *StockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, transaction *domain.StockTransaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO stock_transactions (id, item_id, farm_id, user_id, type, quantity,
			previous_balance, new_balance, unit_price, total_price, document_number,
			counterparty, notes, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := pgxTx.Exec(ctx, query,
		transaction.ID,
		transaction.ItemID,
		transaction.FarmID,
		transaction.UserID,
		transaction.Type,
		decimalToNumeric(transaction.Quantity),
		decimalToNumeric(transaction.PreviousBalance),
		decimalToNumeric(transaction.NewBalance),
		decimalPtrToNumeric(transaction.UnitPrice),
		decimalPtrToNumeric(transaction.TotalPrice),
		transaction.DocumentNumber,
		transaction.Counterparty,
		transaction.Notes,
		transaction.OccurredAt,
		transaction.CreatedAt,
	)

	return err
}

// GetByID retrieves a transaction by ID
func (r *StockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.StockTransaction, error) {
	row := r.pool.QueryRow(ctx, selectTransaction+` WHERE id = $1`, id)
	return scanTransaction(row)
}

// GetLatestByItem retrieves an item's most recent transaction
func (r *StockTransactionRepository) GetLatestByItem(ctx context.Context, itemID string) (*domain.StockTransaction, error) {
	query := selectTransaction + `
		WHERE item_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	row := r.pool.QueryRow(ctx, query, itemID)
	return scanTransaction(row)
}

// ListByItem lists an item's transactions, most recent first
func (r *StockTransactionRepository) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*domain.StockTransaction, error) {
	query := selectTransaction + `
		WHERE item_id = $1
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, itemID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListByFarm lists a farm's transactions, optionally within a date range,
// most recent first
func (r *StockTransactionRepository) ListByFarm(ctx context.Context, farmID string, from, to *time.Time, limit, offset int) ([]*domain.StockTransaction, error) {
	query := selectTransaction + `
		WHERE farm_id = $1
		  AND ($2::timestamptz IS NULL OR occurred_at >= $2)
		  AND ($3::timestamptz IS NULL OR occurred_at <= $3)
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query, farmID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransaction(row pgx.Row) (*domain.StockTransaction, error) {
	var t domain.StockTransaction
	var quantity, previousBalance, newBalance, unitPrice, totalPrice pgtype.Numeric

	err := row.Scan(
		&t.ID,
		&t.ItemID,
		&t.FarmID,
		&t.UserID,
		&t.Type,
		&quantity,
		&previousBalance,
		&newBalance,
		&unitPrice,
		&totalPrice,
		&t.DocumentNumber,
		&t.Counterparty,
		&t.Notes,
		&t.OccurredAt,
		&t.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	t.Quantity = numericToDecimal(quantity)
	t.PreviousBalance = numericToDecimal(previousBalance)
	t.NewBalance = numericToDecimal(newBalance)
	t.UnitPrice = numericToDecimalPtr(unitPrice)
	t.TotalPrice = numericToDecimalPtr(totalPrice)

	return &t, nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.StockTransaction, error) {
	var transactions []*domain.StockTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}
