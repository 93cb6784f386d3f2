// Package rest wires the HTTP surface of the explorer service.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"memview-backend/interfaces/http/rest/handlers"
	"memview-backend/interfaces/http/rest/middleware"
	"memview-backend/pkg/observability"
)

// Handlers bundles the route handlers
type Handlers struct {
	View   *handlers.ViewHandler
	Search *handlers.SearchHandler
	Menu   *handlers.MenuHandler
	Graph  *handlers.GraphHandler
}

// NewRouter builds the chi router with the standard middleware stack
func NewRouter(h Handlers, collector *observability.Collector, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics(collector))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", collector.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/view", h.View.GetView)
		r.Put("/view/filters", h.View.ApplyFilters)
		r.Put("/view/sizing", h.View.SetSizing)

		r.Post("/search", h.Search.Submit)
		r.Delete("/search", h.Search.Clear)

		r.Post("/menu/open", h.Menu.Open)
		r.Post("/menu/action", h.Menu.Dispatch)
		r.Post("/menu/confirm", h.Menu.Resolve)
		r.Delete("/menu", h.Menu.Close)

		r.Post("/refresh", h.Graph.Refresh)
		r.Post("/generate", h.Graph.Generate)
		r.Post("/events", h.Graph.PushEvent)
	})

	return r
}
