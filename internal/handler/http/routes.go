package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/register", h.register)
		r.Post("/api/user/login", h.login)
		r.Get("/api/version/", h.getServerVersion)
	})

	// sync tokens are only handed out for an account session
	router.Group(func(r chi.Router) {
		r.Use(h.authAccess)
		r.Post("/api/sync/token", h.issueSyncToken)
		r.Post("/api/checklists/{checklistID}/shares", h.shareChecklist)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/sync/changes", h.changesSince)

		r.With(h.withHashCheck).Post("/api/sync/batch", h.syncBatch)
		r.With(h.withHashCheck).Post("/api/sync/conflicts/resolve", h.resolveConflict)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
