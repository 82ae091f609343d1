package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// WebSocket auth is via the token query parameter, checked in the handler.
		r.Get("/ws", s.handleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/snapshot", s.handleSnapshot)
			r.Get("/plan", s.handlePlan)
			r.Get("/cycle", s.handleCycle)
			r.Get("/tracked", s.handleTracked)

			r.Route("/state", func(r chi.Router) {
				r.Get("/", s.handleState)
				r.Get("/registry", s.handleRegistry)
				r.With(s.requireOperator).Put("/selects/{key}", s.handleSetSelect)
			})

			r.Route("/commands", func(r chi.Router) {
				r.Get("/", s.handleListCommands)
				r.With(s.requireOperator).Post("/", s.handleCommand)
			})

			r.Get("/audit", s.handleListAudit)
			r.Get("/decisions", s.handleListDecisions)
		})
	})

	return r
}

// handleHealth returns the server and engine health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	health := s.engine.Health()
	status := "ok"
	if !health.OK {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            status,
		"version":           s.version,
		"engine":            health,
		"websocket_clients": s.hub.ClientCount(),
	})
}
