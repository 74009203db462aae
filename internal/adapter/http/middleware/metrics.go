package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Metrics middleware records HTTP metrics.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// idSegments marks path segments whose following element is an identifier.
var idSegments = map[string]struct{}{
	"farms":        {},
	"items":        {},
	"transactions": {},
	"users":        {},
	"members":      {},
	"permissions":  {},
}

// literalSegments are fixed sub-resource names that follow a collection
// segment and must not be mistaken for identifiers.
var literalSegments = map[string]struct{}{
	"critical":    {},
	"consistency": {},
	"stock":       {},
}

// normalizePath replaces resource identifiers with :id to keep metric
// cardinality bounded.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/api/") {
		return path
	}

	parts := strings.Split(path, "/")
	for i := 0; i < len(parts)-1; i++ {
		if _, ok := idSegments[parts[i]]; !ok || parts[i+1] == "" {
			continue
		}
		if _, next := idSegments[parts[i+1]]; next {
			continue
		}
		if _, literal := literalSegments[parts[i+1]]; literal {
			continue
		}
		parts[i+1] = ":id"
	}

	return strings.Join(parts, "/")
}
