package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrodesk/farmstock/internal/adapter/http/dto"
	"github.com/agrodesk/farmstock/internal/adapter/http/middleware"
	"github.com/agrodesk/farmstock/internal/domain"
	"github.com/agrodesk/farmstock/internal/infrastructure/metrics"
	"github.com/agrodesk/farmstock/internal/usecase"
)

// StockService defines the behavior needed by StockHandler.
type StockService interface {
	Entry(ctx context.Context, input usecase.EntryInput) (*usecase.StockResult, error)
	Withdrawal(ctx context.Context, input usecase.WithdrawalInput) (*usecase.StockResult, error)
	Adjustment(ctx context.Context, input usecase.AdjustmentInput) (*usecase.StockResult, error)
	GetTransaction(ctx context.Context, farmID, id string) (*domain.StockTransaction, error)
	ListByItem(ctx context.Context, input usecase.ListByItemInput) ([]*domain.StockTransaction, error)
	ListByFarm(ctx context.Context, input usecase.ListByFarmInput) ([]*domain.StockTransaction, error)
	CheckConsistency(ctx context.Context, farmID string) (*usecase.ConsistencyReport, error)
}

// StockHandler handles ledger operation requests.
type StockHandler struct {
	stockUC StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockUC StockService) *StockHandler {
	return &StockHandler{stockUC: stockUC}
}

// Entry records a stock entry.
func (h *StockHandler) Entry(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.StockEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.stockUC.Entry(r.Context(), req.ToUseCaseInput(actor.ID))
	if err != nil {
		metrics.StockOperationsTotal.WithLabelValues("in", "error").Inc()
		writeError(w, mapDomainError(err), "failed to record entry", err.Error())
		return
	}

	metrics.StockOperationsTotal.WithLabelValues("in", "success").Inc()
	writeJSON(w, http.StatusCreated, dto.StockOperationFromResult(result))
}

// Withdrawal records a stock withdrawal.
func (h *StockHandler) Withdrawal(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.StockWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.stockUC.Withdrawal(r.Context(), req.ToUseCaseInput(actor.ID))
	if err != nil {
		metrics.StockOperationsTotal.WithLabelValues("out", "error").Inc()
		writeError(w, mapDomainError(err), "failed to record withdrawal", err.Error())
		return
	}

	metrics.StockOperationsTotal.WithLabelValues("out", "success").Inc()
	writeJSON(w, http.StatusCreated, dto.StockOperationFromResult(result))
}

// Adjustment records a stock adjustment to an exact quantity.
func (h *StockHandler) Adjustment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.StockAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.stockUC.Adjustment(r.Context(), req.ToUseCaseInput(actor.ID))
	if err != nil {
		metrics.StockOperationsTotal.WithLabelValues("adjust", "error").Inc()
		writeError(w, mapDomainError(err), "failed to record adjustment", err.Error())
		return
	}

	metrics.StockOperationsTotal.WithLabelValues("adjust", "success").Inc()
	writeJSON(w, http.StatusCreated, dto.StockOperationFromResult(result))
}

// GetTransaction retrieves a ledger transaction by ID.
func (h *StockHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	farmID := chi.URLParam(r, "farmID")
	if farmID == "" {
		writeError(w, http.StatusBadRequest, domain.ErrFarmIDRequired.Error(), "")
		return
	}

	id := chi.URLParam(r, "transactionID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, err := h.stockUC.GetTransaction(r.Context(), farmID, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StockTransactionFromDomain(txn))
}

// ListByItem lists an item's ledger, most recent first.
func (h *StockHandler) ListByItem(w http.ResponseWriter, r *http.Request) {
	farmID := chi.URLParam(r, "farmID")
	if farmID == "" {
		writeError(w, http.StatusBadRequest, domain.ErrFarmIDRequired.Error(), "")
		return
	}

	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "missing item ID", "")
		return
	}

	transactions, err := h.stockUC.ListByItem(r.Context(), usecase.ListByItemInput{
		FarmID: farmID,
		ItemID: itemID,
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StockTransactionsFromDomain(transactions))
}

// ListByFarm lists a farm's ledger, optionally within a date range.
func (h *StockHandler) ListByFarm(w http.ResponseWriter, r *http.Request) {
	farmID := chi.URLParam(r, "farmID")
	if farmID == "" {
		writeError(w, http.StatusBadRequest, domain.ErrFarmIDRequired.Error(), "")
		return
	}

	transactions, err := h.stockUC.ListByFarm(r.Context(), usecase.ListByFarmInput{
		FarmID: farmID,
		From:   parseTimeQuery(r, "from"),
		To:     parseTimeQuery(r, "to"),
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StockTransactionsFromDomain(transactions))
}

// Consistency verifies a farm's item balances against its ledger.
func (h *StockHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	farmID := chi.URLParam(r, "farmID")
	if farmID == "" {
		writeError(w, http.StatusBadRequest, domain.ErrFarmIDRequired.Error(), "")
		return
	}

	report, err := h.stockUC.CheckConsistency(r.Context(), farmID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyReportFromResult(report))
}
