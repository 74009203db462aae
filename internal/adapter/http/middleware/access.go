package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrodesk/farmstock/internal/domain"
	"github.com/agrodesk/farmstock/internal/infrastructure/metrics"
)

// maxBodyPeek bounds how much of the body is buffered when looking for a
// farm ID in the request payload.
const maxBodyPeek = 1 << 20

// AccessChecker decides whether an actor holds the required access level for
// a module within a farm.
type AccessChecker interface {
	CheckAccess(ctx context.Context, actor *domain.User, farmID string, module domain.Module, required domain.AccessLevel) bool
}

// RequireModuleAccess gates a route on farm-scoped module access. The farm ID
// comes from the farmID route parameter; for routes without one, the request
// body is inspected for a farmId field and re-buffered for the handler. A
// missing farm ID is a client error, and a failed check is a 403 with no
// detail about what was missing.
func RequireModuleAccess(checker AccessChecker, module domain.Module, level domain.AccessLevel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetUserFromContext(r.Context())
			if !ok {
				writeAccessError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			farmID := chi.URLParam(r, "farmID")
			if farmID == "" {
				farmID = farmIDFromBody(r)
			}

			if farmID == "" {
				writeAccessError(w, http.StatusBadRequest, domain.ErrFarmIDRequired.Error())
				return
			}

			if !checker.CheckAccess(r.Context(), actor, farmID, module, level) {
				metrics.AccessChecksTotal.WithLabelValues(string(module), "denied").Inc()
				writeAccessError(w, http.StatusForbidden, "Access denied")
				return
			}

			metrics.AccessChecksTotal.WithLabelValues(string(module), "allowed").Inc()
			next.ServeHTTP(w, r)
		})
	}
}

// farmIDFromBody reads a farmId field out of a JSON body, restoring the body
// so the handler can decode it again.
func farmIDFromBody(r *http.Request) string {
	if r.Body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyPeek))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	var payload struct {
		FarmID string `json:"farmId"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}

	return payload.FarmID
}

func writeAccessError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
