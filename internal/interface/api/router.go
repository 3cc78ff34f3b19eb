package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	corslib "github.com/rs/cors"
)

// NewRouter wires the trigger surface onto a Chi router
func NewRouter(h *Handler, allowOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	c := corslib.New(corslib.Options{
		AllowedOrigins: allowOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})
	r.Use(c.Handler)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Post("/monitor", h.RunMonitor)
		r.Get("/monitor/status", h.MonitorStatus)
		r.Route("/flights/{flightID}", func(r chi.Router) {
			r.Post("/check", h.CheckFlight)
			r.Get("/history", h.PriceHistory)
		})
	})

	return r
}
