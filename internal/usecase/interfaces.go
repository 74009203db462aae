package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrodesk/farmstock/internal/domain"
)

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

// FarmRepository defines data access for farms.
type FarmRepository interface {
	Create(ctx context.Context, tx Transaction, farm *domain.Farm) error
	GetByID(ctx context.Context, id string) (*domain.Farm, error)
	Update(ctx context.Context, farm *domain.Farm) error
	ListByMember(ctx context.Context, userID string) ([]*domain.Farm, error)
}

// MembershipRepository defines data access for farm memberships.
type MembershipRepository interface {
	Create(ctx context.Context, membership *domain.Membership) error
	CreateTx(ctx context.Context, tx Transaction, membership *domain.Membership) error
	Get(ctx context.Context, userID, farmID string) (*domain.Membership, error)
	ListByFarm(ctx context.Context, farmID string) ([]*domain.Membership, error)
	DeleteTx(ctx context.Context, tx Transaction, userID, farmID string) error
}

// PermissionRepository defines data access for per-farm module permissions.
type PermissionRepository interface {
	// Upsert inserts or replaces the single row for (user, farm, module).
	Upsert(ctx context.Context, permission *domain.Permission) error
	Get(ctx context.Context, userID, farmID string, module domain.Module) (*domain.Permission, error)
	ListByUserFarm(ctx context.Context, userID, farmID string) ([]*domain.Permission, error)
	Delete(ctx context.Context, userID, farmID string, module domain.Module) error
	// DeleteByUserFarmTx removes every permission row for (user, farm) inside
	// the transaction that removes the membership.
	DeleteByUserFarmTx(ctx context.Context, tx Transaction, userID, farmID string) error
}

// ItemRepository defines data access for inventory items. Quantity writes go
// through UpdateQuantity only, inside a ledger transaction.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Item, error)
	UpdateQuantity(ctx context.Context, tx Transaction, id string, quantity decimal.Decimal, updatedAt time.Time) error
	UpdateDetails(ctx context.Context, item *domain.Item) error
	ListByFarm(ctx context.Context, farmID string, limit, offset int) ([]*domain.Item, error)
	ListCritical(ctx context.Context, farmID string) ([]*domain.Item, error)
}

// StockTransactionRepository defines data access for the append-only stock
// ledger. Rows are never updated or deleted.
type StockTransactionRepository interface {
	Create(ctx context.Context, tx Transaction, transaction *domain.StockTransaction) error
	GetByID(ctx context.Context, id string) (*domain.StockTransaction, error)
	GetLatestByItem(ctx context.Context, itemID string) (*domain.StockTransaction, error)
	ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*domain.StockTransaction, error)
	ListByFarm(ctx context.Context, farmID string, from, to *time.Time, limit, offset int) ([]*domain.StockTransaction, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient persistence failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
