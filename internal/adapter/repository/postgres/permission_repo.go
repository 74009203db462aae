package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrodesk/farmstock/internal/domain"
	"github.com/agrodesk/farmstock/internal/usecase"
)

// PermissionRepository implements module permission persistence. The table
// carries a unique constraint on (user_id, farm_id, module), so there is at
// most one row per user, farm, and module.
type PermissionRepository struct {
	pool *pgxpool.Pool
}

// NewPermissionRepository creates a new permission repository
func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

// Upsert inserts or replaces the permission row for (user, farm, module)
func (r *PermissionRepository) Upsert(ctx context.Context, permission *domain.Permission) error {
	query := `
		INSERT INTO permissions (id, user_id, farm_id, module, level, granted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, farm_id, module)
		DO UPDATE SET level = EXCLUDED.level, granted_by = EXCLUDED.granted_by, updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		permission.ID,
		permission.UserID,
		permission.FarmID,
		permission.Module,
		permission.Level,
		permission.GrantedBy,
		permission.CreatedAt,
		permission.UpdatedAt,
	)

	return err
}

// Get retrieves the permission row for (user, farm, module)
func (r *PermissionRepository) Get(ctx context.Context, userID, farmID string, module domain.Module) (*domain.Permission, error) {
	query := `
		SELECT id, user_id, farm_id, module, level, granted_by, created_at, updated_at
		FROM permissions
		WHERE user_id = $1 AND farm_id = $2 AND module = $3
	`

	var permission domain.Permission
	err := r.pool.QueryRow(ctx, query, userID, farmID, module).Scan(
		&permission.ID,
		&permission.UserID,
		&permission.FarmID,
		&permission.Module,
		&permission.Level,
		&permission.GrantedBy,
		&permission.CreatedAt,
		&permission.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPermissionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &permission, nil
}

// ListByUserFarm lists a user's permissions within a farm
func (r *PermissionRepository) ListByUserFarm(ctx context.Context, userID, farmID string) ([]*domain.Permission, error) {
	query := `
		SELECT id, user_id, farm_id, module, level, granted_by, created_at, updated_at
		FROM permissions
		WHERE user_id = $1 AND farm_id = $2
		ORDER BY module
	`

	rows, err := r.pool.Query(ctx, query, userID, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []*domain.Permission
	for rows.Next() {
		var permission domain.Permission
		err := rows.Scan(
			&permission.ID,
			&permission.UserID,
			&permission.FarmID,
			&permission.Module,
			&permission.Level,
			&permission.GrantedBy,
			&permission.CreatedAt,
			&permission.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, &permission)
	}

	return permissions, rows.Err()
}

// Delete removes the permission row for (user, farm, module)
func (r *PermissionRepository) Delete(ctx context.Context, userID, farmID string, module domain.Module) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM permissions WHERE user_id = $1 AND farm_id = $2 AND module = $3`,
		userID, farmID, module,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPermissionNotFound
	}

	return nil
}

// DeleteByUserFarmTx removes every permission row for (user, farm) within a
// transaction. Used by membership removal so no orphaned grants survive.
func (r *PermissionRepository) DeleteByUserFarmTx(ctx context.Context, tx usecase.Transaction, userID, farmID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`DELETE FROM permissions WHERE user_id = $1 AND farm_id = $2`,
		userID, farmID,
	)

	return err
}
