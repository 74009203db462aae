package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrodesk/farmstock/internal/domain"
)

// criticalCacheTTL bounds staleness of the critical-stock report.
const criticalCacheTTL = 30 * time.Second

// ItemUseCase handles inventory item metadata. Quantities are out of its
// reach: items are created at zero and only StockUseCase moves the balance.
type ItemUseCase struct {
	itemRepo ItemRepository
	idGen    IDGenerator
	cache    Cache // optional
}

// NewItemUseCase creates a new ItemUseCase.
func NewItemUseCase(itemRepo ItemRepository, idGen IDGenerator, cache Cache) *ItemUseCase {
	return &ItemUseCase{
		itemRepo: itemRepo,
		idGen:    idGen,
		cache:    cache,
	}
}

// CreateItemInput represents input for creating an item.
type CreateItemInput struct {
	FarmID       string
	Name         string
	Category     string
	Unit         string
	MinimumLevel *decimal.Decimal
}

// CreateItem creates an item with a zero balance. Opening stock is applied
// afterwards through a regular ledger entry.
func (uc *ItemUseCase) CreateItem(ctx context.Context, input CreateItemInput) (*domain.Item, error) {
	if err := domain.ValidateItemName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateUnit(input.Unit); err != nil {
		return nil, err
	}

	if input.MinimumLevel != nil && input.MinimumLevel.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}

	now := time.Now().UTC()
	item := &domain.Item{
		ID:           uc.idGen.Generate(),
		FarmID:       input.FarmID,
		Name:         input.Name,
		Category:     input.Category,
		Unit:         input.Unit,
		Quantity:     decimal.Zero,
		MinimumLevel: input.MinimumLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// GetItem retrieves an item by ID. An item belonging to a different farm is
// treated as not found.
func (uc *ItemUseCase) GetItem(ctx context.Context, farmID, id string) (*domain.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.FarmID != farmID {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

// UpdateItemInput represents input for updating item details. Quantity is
// deliberately absent.
type UpdateItemInput struct {
	FarmID       string
	ID           string
	Name         *string
	Category     *string
	Unit         *string
	MinimumLevel *decimal.Decimal
}

// UpdateItem updates item metadata, never its balance.
func (uc *ItemUseCase) UpdateItem(ctx context.Context, input UpdateItemInput) (*domain.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if item.FarmID != input.FarmID {
		return nil, domain.ErrItemNotFound
	}

	if input.Name != nil {
		if err := domain.ValidateItemName(*input.Name); err != nil {
			return nil, err
		}
		item.Name = *input.Name
	}

	if input.Category != nil {
		item.Category = *input.Category
	}

	if input.Unit != nil {
		if err := domain.ValidateUnit(*input.Unit); err != nil {
			return nil, err
		}
		item.Unit = *input.Unit
	}

	if input.MinimumLevel != nil {
		if input.MinimumLevel.IsNegative() {
			return nil, domain.ErrInvalidQuantity
		}
		item.MinimumLevel = input.MinimumLevel
	}

	item.UpdatedAt = time.Now().UTC()

	if err := uc.itemRepo.UpdateDetails(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// ListItemsInput represents input for listing a farm's items.
type ListItemsInput struct {
	FarmID string
	Limit  int
	Offset int
}

// ListItems lists a farm's items with pagination.
func (uc *ItemUseCase) ListItems(ctx context.Context, input ListItemsInput) ([]*domain.Item, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.itemRepo.ListByFarm(ctx, input.FarmID, limit, offset)
}

// CriticalItems lists items at or below their reorder threshold. The report
// is served from cache for a short window when a cache is configured.
func (uc *ItemUseCase) CriticalItems(ctx context.Context, farmID string) ([]*domain.Item, error) {
	key := "critical:" + farmID

	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, key); err == nil && data != nil {
			var items []*domain.Item
			if err := json.Unmarshal(data, &items); err == nil {
				return items, nil
			}
		}
	}

	items, err := uc.itemRepo.ListCritical(ctx, farmID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(items); err == nil {
			_ = uc.cache.Set(ctx, key, data, criticalCacheTTL)
		}
	}

	return items, nil
}
