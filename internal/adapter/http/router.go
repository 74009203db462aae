package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/agrodesk/farmstock/internal/adapter/http/handler"
	"github.com/agrodesk/farmstock/internal/adapter/http/middleware"
	"github.com/agrodesk/farmstock/internal/domain"
	"github.com/agrodesk/farmstock/internal/infrastructure/auth"
	"github.com/agrodesk/farmstock/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	FarmHandler      *handler.FarmHandler
	AccessHandler    *handler.AccessHandler
	ItemHandler      *handler.ItemHandler
	StockHandler     *handler.StockHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	AccessChecker    middleware.AccessChecker
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", cfg.AuthHandler.Login)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
				r.Use(idempotencyMiddleware.Wrap)
			}

			r.Get("/auth/me", cfg.AuthHandler.Me)

			// Users
			r.Route("/users", func(r chi.Router) {
				r.With(middleware.RequireRole(domain.RoleSuperAdmin, domain.RoleFarmAdmin)).Post("/", cfg.UserHandler.Create)
				r.With(middleware.RequireRole(domain.RoleSuperAdmin, domain.RoleFarmAdmin)).Get("/", cfg.UserHandler.List)
				r.Get("/{userID}", cfg.UserHandler.Get)
				r.With(middleware.RequireRole(domain.RoleSuperAdmin, domain.RoleFarmAdmin)).Put("/{userID}", cfg.UserHandler.Update)
			})

			// Farms
			r.Route("/farms", func(r chi.Router) {
				r.Post("/", cfg.FarmHandler.Create)
				r.Get("/", cfg.FarmHandler.List)

				r.Route("/{farmID}", func(r chi.Router) {
					r.Get("/", cfg.FarmHandler.Get)

					// Membership and permission administration
					r.Route("/members", func(r chi.Router) {
						r.Post("/", cfg.AccessHandler.AssignMembership)
						r.Get("/", cfg.AccessHandler.ListMembers)
						r.Delete("/{userID}", cfg.AccessHandler.RemoveMembership)
					})

					r.Route("/permissions", func(r chi.Router) {
						r.Post("/", cfg.AccessHandler.GrantPermission)
						r.Get("/{userID}", cfg.AccessHandler.ListPermissions)
						r.Delete("/{userID}/{module}", cfg.AccessHandler.RevokePermission)
					})

					// Inventory items
					r.Route("/items", func(r chi.Router) {
						r.With(requireInventory(cfg, domain.AccessEdit)).Post("/", cfg.ItemHandler.Create)
						r.With(requireInventory(cfg, domain.AccessReadOnly)).Get("/", cfg.ItemHandler.List)
						r.With(requireInventory(cfg, domain.AccessReadOnly)).Get("/critical", cfg.ItemHandler.Critical)
						r.With(requireInventory(cfg, domain.AccessReadOnly)).Get("/{itemID}", cfg.ItemHandler.Get)
						r.With(requireInventory(cfg, domain.AccessEdit)).Put("/{itemID}", cfg.ItemHandler.Update)
						r.With(requireInventory(cfg, domain.AccessReadOnly)).Get("/{itemID}/transactions", cfg.StockHandler.ListByItem)
					})

					// Ledger
					r.Route("/stock", func(r chi.Router) {
						r.With(requireInventory(cfg, domain.AccessReadOnly)).Get("/transactions", cfg.StockHandler.ListByFarm)
						r.With(requireInventory(cfg, domain.AccessReadOnly)).Get("/transactions/{transactionID}", cfg.StockHandler.GetTransaction)
						r.With(requireInventory(cfg, domain.AccessManage)).Get("/consistency", cfg.StockHandler.Consistency)
					})
				})
			})

			// Ledger operations carry farmId in the body; the access
			// middleware falls back to it when no route parameter exists.
			r.Route("/stock", func(r chi.Router) {
				r.With(requireInventory(cfg, domain.AccessEdit)).Post("/entries", cfg.StockHandler.Entry)
				r.With(requireInventory(cfg, domain.AccessEdit)).Post("/withdrawals", cfg.StockHandler.Withdrawal)
				r.With(requireInventory(cfg, domain.AccessEdit)).Post("/adjustments", cfg.StockHandler.Adjustment)
			})
		})
	})

	return r
}

func requireInventory(cfg RouterConfig, level domain.AccessLevel) func(http.Handler) http.Handler {
	return middleware.RequireModuleAccess(cfg.AccessChecker, domain.ModuleInventory, level)
}
