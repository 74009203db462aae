package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/agrodesk/farmstock/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrItemNotFound, http.StatusNotFound},
		{domain.ErrTransactionNotFound, http.StatusNotFound},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrFarmNotFound, http.StatusNotFound},
		{domain.ErrMembershipNotFound, http.StatusNotFound},
		{domain.ErrPermissionNotFound, http.StatusNotFound},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrExpiredToken, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrSelfRoleChange, http.StatusForbidden},
		{domain.ErrSuperAdminProtected, http.StatusForbidden},
		{domain.ErrUserInactive, http.StatusForbidden},
		{domain.ErrEmailTaken, http.StatusConflict},
		{domain.ErrInsufficientStock, http.StatusBadRequest},
		{domain.ErrInvalidQuantity, http.StatusBadRequest},
		{domain.ErrBalanceMismatch, http.StatusBadRequest},
		{domain.ErrInvalidModule, http.StatusBadRequest},
		{domain.ErrInvalidLevel, http.StatusBadRequest},
		{domain.ErrFarmIDRequired, http.StatusBadRequest},
		{domain.ErrPasswordTooWeak, http.StatusBadRequest},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.want {
				t.Errorf("mapDomainError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestMapDomainError_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("recording entry: %w", domain.ErrInvalidQuantity)
	if got := mapDomainError(wrapped); got != http.StatusBadRequest {
		t.Errorf("expected 400 for wrapped error, got %d", got)
	}

	insufficient := &domain.InsufficientStockError{
		ItemID:    "item-1",
		Available: decimal.NewFromInt(700),
		Requested: decimal.NewFromInt(800),
	}
	if got := mapDomainError(insufficient); got != http.StatusBadRequest {
		t.Errorf("expected 400 for insufficient stock, got %d", got)
	}
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items?limit=25&offset=abc", nil)

	if got := parseIntQuery(req, "limit", 50); got != 25 {
		t.Errorf("expected 25, got %d", got)
	}
	if got := parseIntQuery(req, "offset", 0); got != 0 {
		t.Errorf("expected default 0 for invalid value, got %d", got)
	}
	if got := parseIntQuery(req, "missing", 50); got != 50 {
		t.Errorf("expected default 50 for absent value, got %d", got)
	}
}

func TestParseTimeQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/transactions?from=2025-06-01T00:00:00Z&to=yesterday", nil)

	from := parseTimeQuery(req, "from")
	if from == nil {
		t.Fatal("expected parsed time, got nil")
	}
	if from.Year() != 2025 || from.Month() != 6 {
		t.Errorf("unexpected time %v", from)
	}

	if to := parseTimeQuery(req, "to"); to != nil {
		t.Errorf("expected nil for malformed value, got %v", to)
	}
	if missing := parseTimeQuery(req, "until"); missing != nil {
		t.Errorf("expected nil for absent value, got %v", missing)
	}
}
