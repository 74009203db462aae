package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrodesk/farmstock/internal/domain"
	"github.com/agrodesk/farmstock/internal/usecase"
)

// FarmRepository implements farm persistence
type FarmRepository struct {
	pool *pgxpool.Pool
}

// NewFarmRepository creates a new farm repository
func NewFarmRepository(pool *pgxpool.Pool) *FarmRepository {
	return &FarmRepository{pool: pool}
}

// Create inserts a new farm within a transaction
func (r *FarmRepository) Create(ctx context.Context, tx usecase.Transaction, farm *domain.Farm) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO farms (id, name, location, admin_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := pgxTx.Exec(ctx, query,
		farm.ID,
		farm.Name,
		farm.Location,
		farm.AdminID,
		farm.CreatedBy,
		farm.CreatedAt,
		farm.UpdatedAt,
	)

	return err
}

// GetByID retrieves a farm by ID
func (r *FarmRepository) GetByID(ctx context.Context, id string) (*domain.Farm, error) {
	query := `
		SELECT id, name, location, admin_id, created_by, created_at, updated_at
		FROM farms
		WHERE id = $1
	`

	var farm domain.Farm
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&farm.ID,
		&farm.Name,
		&farm.Location,
		&farm.AdminID,
		&farm.CreatedBy,
		&farm.CreatedAt,
		&farm.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFarmNotFound
	}
	if err != nil {
		return nil, err
	}

	return &farm, nil
}

// Update updates a farm
func (r *FarmRepository) Update(ctx context.Context, farm *domain.Farm) error {
	query := `
		UPDATE farms
		SET name = $2, location = $3, admin_id = $4, updated_at = $5
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query,
		farm.ID,
		farm.Name,
		farm.Location,
		farm.AdminID,
		farm.UpdatedAt,
	)

	return err
}

// ListByMember lists the farms a user is a member of
func (r *FarmRepository) ListByMember(ctx context.Context, userID string) ([]*domain.Farm, error) {
	query := `
		SELECT f.id, f.name, f.location, f.admin_id, f.created_by, f.created_at, f.updated_at
		FROM farms f
		JOIN memberships m ON m.farm_id = f.id
		WHERE m.user_id = $1
		ORDER BY f.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var farms []*domain.Farm
	for rows.Next() {
		var farm domain.Farm
		err := rows.Scan(
			&farm.ID,
			&farm.Name,
			&farm.Location,
			&farm.AdminID,
			&farm.CreatedBy,
			&farm.CreatedAt,
			&farm.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		farms = append(farms, &farm)
	}

	return farms, rows.Err()
}
