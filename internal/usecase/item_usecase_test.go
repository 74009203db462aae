package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/agrodesk/farmstock/internal/domain"
	"github.com/agrodesk/farmstock/internal/usecase"
	"github.com/agrodesk/farmstock/internal/usecase/mocks"
)

func TestItemUseCase_CreateItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	itemRepo := mocks.NewMockItemRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	idGen.EXPECT().Generate().Return("item-1")
	itemRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, item *domain.Item) error {
			if !item.Quantity.IsZero() {
				t.Errorf("expected zero opening quantity, got %s", item.Quantity)
			}
			return nil
		})

	uc := usecase.NewItemUseCase(itemRepo, idGen, nil)

	minimum := decimal.NewFromInt(50)
	item, err := uc.CreateItem(context.Background(), usecase.CreateItemInput{
		FarmID:       "farm-1",
		Name:         "Ração para gado",
		Category:     "alimentação",
		Unit:         "kg",
		MinimumLevel: &minimum,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.MinimumLevel == nil || !item.MinimumLevel.Equal(minimum) {
		t.Errorf("expected minimum level 50, got %v", item.MinimumLevel)
	}
}

func TestItemUseCase_CreateItem_Rejections(t *testing.T) {
	uc := usecase.NewItemUseCase(nil, nil, nil)

	t.Run("blank name", func(t *testing.T) {
		_, err := uc.CreateItem(context.Background(), usecase.CreateItemInput{
			FarmID: "farm-1",
			Name:   "",
			Unit:   "kg",
		})
		if !errors.Is(err, domain.ErrInvalidItemName) {
			t.Errorf("expected ErrInvalidItemName, got %v", err)
		}
	})

	t.Run("blank unit", func(t *testing.T) {
		_, err := uc.CreateItem(context.Background(), usecase.CreateItemInput{
			FarmID: "farm-1",
			Name:   "Ração",
			Unit:   "",
		})
		if !errors.Is(err, domain.ErrInvalidUnit) {
			t.Errorf("expected ErrInvalidUnit, got %v", err)
		}
	})

	t.Run("negative minimum level", func(t *testing.T) {
		negative := decimal.NewFromInt(-1)
		_, err := uc.CreateItem(context.Background(), usecase.CreateItemInput{
			FarmID:       "farm-1",
			Name:         "Ração",
			Unit:         "kg",
			MinimumLevel: &negative,
		})
		if !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Errorf("expected ErrInvalidQuantity, got %v", err)
		}
	})
}

func TestItemUseCase_UpdateItem_NeverTouchesQuantity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	itemRepo := mocks.NewMockItemRepository(ctrl)

	itemRepo.EXPECT().GetByID(gomock.Any(), "item-1").Return(&domain.Item{
		ID:       "item-1",
		FarmID:   "farm-1",
		Name:     "Ração",
		Unit:     "kg",
		Quantity: decimal.NewFromInt(700),
	}, nil)
	itemRepo.EXPECT().UpdateDetails(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, item *domain.Item) error {
			if !item.Quantity.Equal(decimal.NewFromInt(700)) {
				t.Errorf("expected quantity untouched at 700, got %s", item.Quantity)
			}
			return nil
		})

	uc := usecase.NewItemUseCase(itemRepo, nil, nil)

	name := "Ração para gado"
	item, err := uc.UpdateItem(context.Background(), usecase.UpdateItemInput{
		FarmID: "farm-1",
		ID:     "item-1",
		Name:   &name,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Name != name {
		t.Errorf("expected updated name, got %q", item.Name)
	}
}

func TestItemUseCase_UpdateItem_RejectsItemOfOtherFarm(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	itemRepo := mocks.NewMockItemRepository(ctrl)

	itemRepo.EXPECT().GetByID(gomock.Any(), "item-1").Return(&domain.Item{
		ID:     "item-1",
		FarmID: "farm-2",
		Name:   "Ração",
		Unit:   "kg",
	}, nil)

	// No UpdateDetails: the foreign item is never written.
	uc := usecase.NewItemUseCase(itemRepo, nil, nil)

	name := "Ração para gado"
	_, err := uc.UpdateItem(context.Background(), usecase.UpdateItemInput{
		FarmID: "farm-1",
		ID:     "item-1",
		Name:   &name,
	})

	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestItemUseCase_GetItem_RejectsItemOfOtherFarm(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	itemRepo := mocks.NewMockItemRepository(ctrl)

	itemRepo.EXPECT().GetByID(gomock.Any(), "item-1").Return(&domain.Item{
		ID:     "item-1",
		FarmID: "farm-2",
	}, nil)

	uc := usecase.NewItemUseCase(itemRepo, nil, nil)

	if _, err := uc.GetItem(context.Background(), "farm-1", "item-1"); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestItemUseCase_CriticalItems_CacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	itemRepo := mocks.NewMockItemRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)

	critical := []*domain.Item{{ID: "item-1", FarmID: "farm-1", Quantity: decimal.NewFromInt(10)}}

	cache.EXPECT().Get(gomock.Any(), "critical:farm-1").Return(nil, nil)
	itemRepo.EXPECT().ListCritical(gomock.Any(), "farm-1").Return(critical, nil)
	cache.EXPECT().Set(gomock.Any(), "critical:farm-1", gomock.Any(), gomock.Any()).Return(nil)

	uc := usecase.NewItemUseCase(itemRepo, nil, cache)

	items, err := uc.CriticalItems(context.Background(), "farm-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}
}

func TestItemUseCase_CriticalItems_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	itemRepo := mocks.NewMockItemRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)

	cached, err := json.Marshal([]*domain.Item{{ID: "item-1", FarmID: "farm-1"}})
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}

	cache.EXPECT().Get(gomock.Any(), "critical:farm-1").Return(cached, nil)

	// The repository is never queried on a cache hit.
	uc := usecase.NewItemUseCase(itemRepo, nil, cache)

	items, err := uc.CriticalItems(context.Background(), "farm-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "item-1" {
		t.Errorf("expected cached item, got %v", items)
	}
}

func TestItemUseCase_CriticalItems_NoCacheConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	itemRepo := mocks.NewMockItemRepository(ctrl)
	itemRepo.EXPECT().ListCritical(gomock.Any(), "farm-1").Return(nil, nil)

	uc := usecase.NewItemUseCase(itemRepo, nil, nil)

	if _, err := uc.CriticalItems(context.Background(), "farm-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
