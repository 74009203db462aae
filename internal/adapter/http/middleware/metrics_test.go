package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{
			name:       "normalizes item path",
			method:     http.MethodGet,
			path:       "/api/v1/farms/01JF8/items/01JF9",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "keeps non-matching path as-is",
			method:     http.MethodPost,
			path:       "/health",
			statusCode: http.StatusCreated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			httpRequestsTotal.Reset()
			httpRequestDuration.Reset()
			httpRequestsInFlight.Set(0)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			Metrics(next).ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			normalized := normalizePath(tc.path)
			counter := httpRequestsTotal.WithLabelValues(tc.method, normalized, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "farm path without suffix",
			input:    "/api/v1/farms/01JF8ZW2",
			expected: "/api/v1/farms/:id",
		},
		{
			name:     "nested item path",
			input:    "/api/v1/farms/01JF8ZW2/items/01JF9AB3",
			expected: "/api/v1/farms/:id/items/:id",
		},
		{
			name:     "critical items report",
			input:    "/api/v1/farms/01JF8ZW2/items/critical",
			expected: "/api/v1/farms/:id/items/critical",
		},
		{
			name:     "consistency report",
			input:    "/api/v1/farms/01JF8ZW2/stock/consistency",
			expected: "/api/v1/farms/:id/stock/consistency",
		},
		{
			name:     "transaction path",
			input:    "/api/v1/farms/01JF8ZW2/stock/transactions/01JF9CD4",
			expected: "/api/v1/farms/:id/stock/transactions/:id",
		},
		{
			name:     "member removal path",
			input:    "/api/v1/farms/01JF8ZW2/members/01JF9EF5",
			expected: "/api/v1/farms/:id/members/:id",
		},
		{
			name:     "non-matching path",
			input:    "/health",
			expected: "/health",
		},
		{
			name:     "collection without identifier",
			input:    "/api/v1/farms",
			expected: "/api/v1/farms",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
