package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/agrodesk/farmstock/internal/adapter/http/dto"
	"github.com/agrodesk/farmstock/internal/adapter/http/middleware"
	"github.com/agrodesk/farmstock/internal/domain"
	"github.com/agrodesk/farmstock/internal/infrastructure/metrics"
	"github.com/agrodesk/farmstock/internal/usecase"
)

// ItemService defines the behavior needed by ItemHandler.
type ItemService interface {
	CreateItem(ctx context.Context, input usecase.CreateItemInput) (*domain.Item, error)
	GetItem(ctx context.Context, farmID, id string) (*domain.Item, error)
	UpdateItem(ctx context.Context, input usecase.UpdateItemInput) (*domain.Item, error)
	ListItems(ctx context.Context, input usecase.ListItemsInput) ([]*domain.Item, error)
	CriticalItems(ctx context.Context, farmID string) ([]*domain.Item, error)
}

// OpeningEntryService books the opening balance of a freshly created item.
type OpeningEntryService interface {
	Entry(ctx context.Context, input usecase.EntryInput) (*usecase.StockResult, error)
}

// ItemHandler handles inventory item requests.
type ItemHandler struct {
	itemUC  ItemService
	stockUC OpeningEntryService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemUC ItemService, stockUC OpeningEntryService) *ItemHandler {
	return &ItemHandler{
		itemUC:  itemUC,
		stockUC: stockUC,
	}
}

// Create creates an item. An initial quantity, when supplied, is booked
// through the ledger as an opening entry so the balance chain starts at the
// stated amount.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if farmID := chi.URLParam(r, "farmID"); farmID != "" {
		req.FarmID = farmID
	}
	if req.FarmID == "" {
		writeError(w, http.StatusBadRequest, domain.ErrFarmIDRequired.Error(), "")
		return
	}

	item, err := h.itemUC.CreateItem(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create item", err.Error())
		return
	}

	if req.InitialQuantity != nil && req.InitialQuantity.GreaterThan(decimal.Zero) {
		result, err := h.stockUC.Entry(r.Context(), usecase.EntryInput{
			FarmID:   item.FarmID,
			ItemID:   item.ID,
			UserID:   actor.ID,
			Quantity: *req.InitialQuantity,
			Notes:    "Opening balance",
		})
		if err != nil {
			writeError(w, mapDomainError(err), "failed to book opening balance", err.Error())
			return
		}
		item = result.Item
	}

	writeJSON(w, http.StatusCreated, dto.ItemFromDomain(item))
}

// Get retrieves an item by ID.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	farmID := chi.URLParam(r, "farmID")
	if farmID == "" {
		writeError(w, http.StatusBadRequest, domain.ErrFarmIDRequired.Error(), "")
		return
	}

	id := chi.URLParam(r, "itemID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing item ID", "")
		return
	}

	item, err := h.itemUC.GetItem(r.Context(), farmID, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get item", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ItemFromDomain(item))
}

// Update updates item details. The balance is not reachable from here.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	farmID := chi.URLParam(r, "farmID")
	if farmID == "" {
		writeError(w, http.StatusBadRequest, domain.ErrFarmIDRequired.Error(), "")
		return
	}

	id := chi.URLParam(r, "itemID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing item ID", "")
		return
	}

	var req dto.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	item, err := h.itemUC.UpdateItem(r.Context(), req.ToUseCaseInput(farmID, id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update item", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ItemFromDomain(item))
}

// List lists a farm's items.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	farmID := chi.URLParam(r, "farmID")
	if farmID == "" {
		writeError(w, http.StatusBadRequest, domain.ErrFarmIDRequired.Error(), "")
		return
	}

	items, err := h.itemUC.ListItems(r.Context(), usecase.ListItemsInput{
		FarmID: farmID,
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list items", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ItemsFromDomain(items))
}

// Critical lists items at or below their reorder threshold.
func (h *ItemHandler) Critical(w http.ResponseWriter, r *http.Request) {
	farmID := chi.URLParam(r, "farmID")
	if farmID == "" {
		writeError(w, http.StatusBadRequest, domain.ErrFarmIDRequired.Error(), "")
		return
	}

	items, err := h.itemUC.CriticalItems(r.Context(), farmID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list critical items", err.Error())
		return
	}

	metrics.CriticalItems.WithLabelValues(farmID).Set(float64(len(items)))
	writeJSON(w, http.StatusOK, dto.ItemsFromDomain(items))
}
