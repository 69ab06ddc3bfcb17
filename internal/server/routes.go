package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reqsearch/internal/handlers"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(runner handlers.Runner) {
	executeHandler := handlers.NewExecuteHandler(runner)
	healthHandler := handlers.NewHealthHandler()
	examplesHandler := handlers.NewExamplesHandler()

	s.App.Post("/execute-request", executeHandler.Execute)

	// Informational endpoints
	s.App.Get("/health", healthHandler.Health)
	s.App.Get("/healthz", healthHandler.Liveness)
	s.App.Get("/examples", examplesHandler.Examples)
	s.App.Get("/endpoints", examplesHandler.Endpoints)

	// Prometheus exposition
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
