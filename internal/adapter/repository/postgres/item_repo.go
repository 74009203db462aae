package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/agrodesk/farmstock/internal/domain"
	"github.com/agrodesk/farmstock/internal/usecase"
)

// ItemRepository implements inventory item persistence. Quantity writes go
// through UpdateQuantity only, inside a caller-held transaction.
type ItemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository creates a new item repository
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

const selectItem = `
	SELECT id, farm_id, name, category, unit, quantity, minimum_level, created_at, updated_at
	FROM items
`

// Create inserts a new item
func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (id, farm_id, name, category, unit, quantity, minimum_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.FarmID,
		item.Name,
		item.Category,
		item.Unit,
		decimalToNumeric(item.Quantity),
		decimalPtrToNumeric(item.MinimumLevel),
		item.CreatedAt,
		item.UpdatedAt,
	)

	return err
}

// GetByID retrieves an item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	row := r.pool.QueryRow(ctx, selectItem+` WHERE id = $1`, id)
	return scanItem(row)
}

// GetByIDForUpdate retrieves an item by ID with a FOR UPDATE lock. The lock
// serializes concurrent ledger operations against the same item.
func (r *ItemRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Item, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, selectItem+` WHERE id = $1 FOR UPDATE`, id)
	return scanItem(row)
}

// UpdateQuantity writes an item's balance within a transaction
func (r *ItemRepository) UpdateQuantity(ctx context.Context, tx usecase.Transaction, id string, quantity decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`UPDATE items SET quantity = $2, updated_at = $3 WHERE id = $1`,
		id, decimalToNumeric(quantity), updatedAt,
	)

	return err
}

// UpdateDetails updates item metadata, leaving the balance untouched
func (r *ItemRepository) UpdateDetails(ctx context.Context, item *domain.Item) error {
	query := `
		UPDATE items
		SET name = $2, category = $3, unit = $4, minimum_level = $5, updated_at = $6
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Category,
		item.Unit,
		decimalPtrToNumeric(item.MinimumLevel),
		item.UpdatedAt,
	)

	return err
}

// ListByFarm lists a farm's items with pagination
func (r *ItemRepository) ListByFarm(ctx context.Context, farmID string, limit, offset int) ([]*domain.Item, error) {
	query := selectItem + `
		WHERE farm_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, farmID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListCritical lists items at or below their minimum level
func (r *ItemRepository) ListCritical(ctx context.Context, farmID string) ([]*domain.Item, error) {
	query := selectItem + `
		WHERE farm_id = $1 AND minimum_level IS NOT NULL AND quantity <= minimum_level
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	var item domain.Item
	var quantity, minimumLevel pgtype.Numeric

	err := row.Scan(
		&item.ID,
		&item.FarmID,
		&item.Name,
		&item.Category,
		&item.Unit,
		&quantity,
		&minimumLevel,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	item.Quantity = numericToDecimal(quantity)
	item.MinimumLevel = numericToDecimalPtr(minimumLevel)

	return &item, nil
}

func scanItems(rows pgx.Rows) ([]*domain.Item, error) {
	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
