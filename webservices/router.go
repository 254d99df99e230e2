package webservices

import (
	"github.com/go-chi/chi"
	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/logpkg"
)

// NewRouter mounts the API services under /api/. Every request is traced with tracer.
func NewRouter(logger *logpkg.Logger, tracer *tracing.Tracer, styleSessions *StyleSessions, tileSize int, shouldProfile bool) chi.Router {
	router := chi.NewRouter()
	router.Use(tracing.Middleware(tracer))
	router.Route("/api/", func(r chi.Router) {
		r.Mount("/info", NewInfoService(logger, styleSessions.StyleSet(), tileSize))
		r.Mount("/tiles/", NewTileService(logger, styleSessions, shouldProfile))
		r.Mount("/static", NewStaticService(logger, styleSessions))
	})

	return router
}
