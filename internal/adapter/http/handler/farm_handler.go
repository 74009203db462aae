package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrodesk/farmstock/internal/adapter/http/dto"
	"github.com/agrodesk/farmstock/internal/adapter/http/middleware"
	"github.com/agrodesk/farmstock/internal/domain"
	"github.com/agrodesk/farmstock/internal/usecase"
)

// FarmService defines the behavior needed by FarmHandler.
type FarmService interface {
	CreateFarm(ctx context.Context, input usecase.CreateFarmInput) (*domain.Farm, error)
	GetFarm(ctx context.Context, id string) (*domain.Farm, error)
	ListFarms(ctx context.Context, userID string) ([]*domain.Farm, error)
}

// FarmHandler handles farm-related HTTP requests.
type FarmHandler struct {
	farmUC FarmService
}

// NewFarmHandler creates a new FarmHandler.
func NewFarmHandler(farmUC FarmService) *FarmHandler {
	return &FarmHandler{farmUC: farmUC}
}

// Create creates a new farm.
func (h *FarmHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateFarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	farm, err := h.farmUC.CreateFarm(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create farm", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.FarmFromDomain(farm))
}

// Get retrieves a farm by ID.
func (h *FarmHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "farmID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing farm ID", "")
		return
	}

	farm, err := h.farmUC.GetFarm(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get farm", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FarmFromDomain(farm))
}

// List lists the farms the authenticated user belongs to.
func (h *FarmHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	farms, err := h.farmUC.ListFarms(r.Context(), actor.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list farms", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FarmsFromDomain(farms))
}
