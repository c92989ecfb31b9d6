// Package app wires the router, middleware, storage backend and HTTP server.
package app

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"modelreports/internal/config"
	"modelreports/internal/handlers"
)

// InitMiddleware - initializes middleware handlers for the router.
func InitMiddleware(r *chi.Mux, conf *config.Config, ctrl *handlers.Controller) {
	r.Use(middleware.Recoverer)
	r.Use(ctrl.RequestIDMiddleware)
	r.Use(ctrl.LoggingMiddleware)
	r.Use(ctrl.MetricsMiddleware)
	r.Use(middleware.Timeout(time.Duration(conf.Timeout) * time.Second))
	r.Use(middleware.Compress(5, "application/json", "text/html", "text/plain"))
}

// Routing - registers routes for the report controller.
// Registered routes:
//   - GET "/": landing page through ctrl.Home().
//   - GET "/model/{modelName}/{modelVersion}/performance": performance rows through ctrl.ModelPerformance().
//   - GET "/model/{modelName}/{modelVersion}/score/{uniqueId}": scoring rows through ctrl.ModelScore().
//   - GET "/ping": storage availability check through ctrl.PingHandler().
//   - GET "/metrics": prometheus metrics.
func Routing(r *chi.Mux, ctrl *handlers.Controller) {
	r.Get("/", ctrl.Home())
	r.Route("/model/{modelName}/{modelVersion}", func(r chi.Router) {
		r.Get("/performance", ctrl.ModelPerformance())
		r.Get("/score/{uniqueId:[0-9]+}", ctrl.ModelScore())
	})
	r.Get("/ping", ctrl.PingHandler())
	r.Method("GET", "/metrics", ctrl.Metrics())
}

// NewRouter builds a chi router with the middleware chain and every route registered.
func NewRouter(conf *config.Config, ctrl *handlers.Controller) *chi.Mux {
	r := chi.NewRouter()
	InitMiddleware(r, conf, ctrl)
	Routing(r, ctrl)
	return r
}
