package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-finder/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	indexHandler := handlers.NewIndexHandler(s.app, s.jobManager)
	recordsHandler := handlers.NewRecordsHandler(s.app)
	selfieHandler := handlers.NewSelfieHandler(s.app)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)

		// Index lifecycle
		r.Get("/index", indexHandler.Get)
		r.Post("/index/rebuild", indexHandler.Rebuild)
		r.Get("/index/rebuild/{jobId}", indexHandler.RebuildStatus)
		r.Delete("/cache", indexHandler.ClearCache)

		// Indexed records
		r.Get("/records", recordsHandler.List)
		r.Get("/records/{id}/thumbnail", recordsHandler.Thumbnail)
		r.Get("/records/{id}/download", recordsHandler.Download)

		// Selfie matching
		r.Post("/selfie", selfieHandler.Match)
	})
}
