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

// AccessService defines the behavior needed by AccessHandler.
type AccessService interface {
	GrantPermission(ctx context.Context, input usecase.GrantPermissionInput) (*domain.Permission, error)
	RevokePermission(ctx context.Context, input usecase.RevokePermissionInput) error
	AssignMembership(ctx context.Context, input usecase.AssignMembershipInput) (*domain.Membership, error)
	RemoveMembership(ctx context.Context, input usecase.RemoveMembershipInput) error
	ListPermissions(ctx context.Context, userID, farmID string) ([]*domain.Permission, error)
	ListMembers(ctx context.Context, farmID string) ([]*domain.Membership, error)
}

// AccessHandler handles permission and membership requests.
type AccessHandler struct {
	accessUC AccessService
}

// NewAccessHandler creates a new AccessHandler.
func NewAccessHandler(accessUC AccessService) *AccessHandler {
	return &AccessHandler{accessUC: accessUC}
}

// GrantPermission sets a user's access level for a module within a farm.
func (h *AccessHandler) GrantPermission(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	farmID := chi.URLParam(r, "farmID")
	if farmID == "" {
		writeError(w, http.StatusBadRequest, domain.ErrFarmIDRequired.Error(), "")
		return
	}

	var req dto.GrantPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	perm, err := h.accessUC.GrantPermission(r.Context(), usecase.GrantPermissionInput{
		Actor:  actor,
		UserID: req.UserID,
		FarmID: farmID,
		Module: domain.Module(req.Module),
		Level:  domain.AccessLevel(req.Level),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to grant permission", err.Error())
		return
	}

	metrics.PermissionGrantsTotal.WithLabelValues("grant").Inc()
	writeJSON(w, http.StatusCreated, dto.PermissionFromDomain(perm))
}

// RevokePermission removes a user's permission for a module within a farm.
func (h *AccessHandler) RevokePermission(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	farmID := chi.URLParam(r, "farmID")
	userID := chi.URLParam(r, "userID")
	module := chi.URLParam(r, "module")
	if farmID == "" || userID == "" || module == "" {
		writeError(w, http.StatusBadRequest, "missing path parameters", "")
		return
	}

	err := h.accessUC.RevokePermission(r.Context(), usecase.RevokePermissionInput{
		Actor:  actor,
		UserID: userID,
		FarmID: farmID,
		Module: domain.Module(module),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to revoke permission", err.Error())
		return
	}

	metrics.PermissionGrantsTotal.WithLabelValues("revoke").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// ListPermissions lists a user's permissions within a farm.
func (h *AccessHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	farmID := chi.URLParam(r, "farmID")
	userID := chi.URLParam(r, "userID")
	if farmID == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "missing path parameters", "")
		return
	}

	perms, err := h.accessUC.ListPermissions(r.Context(), userID, farmID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list permissions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PermissionsFromDomain(perms))
}

// AssignMembership adds a user to a farm.
func (h *AccessHandler) AssignMembership(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	farmID := chi.URLParam(r, "farmID")
	if farmID == "" {
		writeError(w, http.StatusBadRequest, domain.ErrFarmIDRequired.Error(), "")
		return
	}

	var req dto.AssignMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	membership, err := h.accessUC.AssignMembership(r.Context(), usecase.AssignMembershipInput{
		Actor:  actor,
		UserID: req.UserID,
		FarmID: farmID,
		Role:   domain.MembershipRole(req.Role),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to assign membership", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.MembershipFromDomain(membership))
}

// RemoveMembership removes a user from a farm along with every permission the
// user held there.
func (h *AccessHandler) RemoveMembership(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	farmID := chi.URLParam(r, "farmID")
	userID := chi.URLParam(r, "userID")
	if farmID == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "missing path parameters", "")
		return
	}

	err := h.accessUC.RemoveMembership(r.Context(), usecase.RemoveMembershipInput{
		Actor:  actor,
		UserID: userID,
		FarmID: farmID,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to remove membership", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMembers lists a farm's memberships.
func (h *AccessHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	farmID := chi.URLParam(r, "farmID")
	if farmID == "" {
		writeError(w, http.StatusBadRequest, domain.ErrFarmIDRequired.Error(), "")
		return
	}

	members, err := h.accessUC.ListMembers(r.Context(), farmID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list members", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MembershipsFromDomain(members))
}
