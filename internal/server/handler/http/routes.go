package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atinyakov/AccountKeeper/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the account
// API under /api and Prometheus metrics under /metrics.
//
// Routes:
//
//	GET    /api/accounts                → accounts.List
//	POST   /api/accounts                → accounts.Add
//	GET    /api/accounts/{id}           → accounts.Get
//	PATCH  /api/accounts/{id}           → accounts.Update
//	DELETE /api/accounts/{id}           → accounts.Remove
//	POST   /api/accounts/{id}/validate  → accounts.Validate
//	GET    /api/labels                  → accounts.Labels
//
// Middleware chain (applied in order):
//  1. Recoverer                          — turns panics into 500s
//  2. metrics                            — request counter and latency histogram
//  3. WithRequestLogging(logger)         — logs served requests
//  4. AllowContentType("application/json") on /api — rejects non-JSON bodies
func NewRouter(accounts *AccountHandler, logger *zap.Logger, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.NewMetrics(reg).Handler)
	r.Use(middleware.WithRequestLogging(logger))

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Get("/labels", accounts.Labels)

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", accounts.List)
			r.Post("/", accounts.Add)
			r.Get("/{id}", accounts.Get)
			r.Patch("/{id}", accounts.Update)
			r.Delete("/{id}", accounts.Remove)
			r.Post("/{id}/validate", accounts.Validate)
		})
	})

	return r
}
