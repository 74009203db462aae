package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrodesk/farmstock/internal/domain"
	"github.com/agrodesk/farmstock/internal/usecase"
)

// MembershipRepository implements farm membership persistence
type MembershipRepository struct {
	pool *pgxpool.Pool
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

const insertMembership = `
	INSERT INTO memberships (id, user_id, farm_id, role, created_at)
	VALUES ($1, $2, $3, $4, $5)
`

// Create inserts a new membership
func (r *MembershipRepository) Create(ctx context.Context, membership *domain.Membership) error {
	_, err := r.pool.Exec(ctx, insertMembership,
		membership.ID,
		membership.UserID,
		membership.FarmID,
		membership.Role,
		membership.CreatedAt,
	)

	return err
}

// CreateTx inserts a new membership within a transaction
func (r *MembershipRepository) CreateTx(ctx context.Context, tx usecase.Transaction, membership *domain.Membership) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, insertMembership,
		membership.ID,
		membership.UserID,
		membership.FarmID,
		membership.Role,
		membership.CreatedAt,
	)

	return err
}

// Get retrieves the membership of a user in a farm
func (r *MembershipRepository) Get(ctx context.Context, userID, farmID string) (*domain.Membership, error) {
	query := `
		SELECT id, user_id, farm_id, role, created_at
		FROM memberships
		WHERE user_id = $1 AND farm_id = $2
	`

	var membership domain.Membership
	err := r.pool.QueryRow(ctx, query, userID, farmID).Scan(
		&membership.ID,
		&membership.UserID,
		&membership.FarmID,
		&membership.Role,
		&membership.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}

	return &membership, nil
}

// ListByFarm lists the memberships of a farm
func (r *MembershipRepository) ListByFarm(ctx context.Context, farmID string) ([]*domain.Membership, error) {
	query := `
		SELECT id, user_id, farm_id, role, created_at
		FROM memberships
		WHERE farm_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []*domain.Membership
	for rows.Next() {
		var membership domain.Membership
		err := rows.Scan(
			&membership.ID,
			&membership.UserID,
			&membership.FarmID,
			&membership.Role,
			&membership.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, &membership)
	}

	return memberships, rows.Err()
}

// DeleteTx removes a membership within a transaction
func (r *MembershipRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, userID, farmID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM memberships WHERE user_id = $1 AND farm_id = $2`, userID, farmID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrMembershipNotFound
	}

	return nil
}
