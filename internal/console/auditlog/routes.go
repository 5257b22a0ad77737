package auditlog

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-pos/meridian-console/internal/access"
)

// MountRoutes attaches audit trail routes.
func (h *Handler) MountRoutes(r chi.Router) {
	view := access.Require(access.Requirement{
		AnyOf: []string{access.PermAuditView},
	})

	r.Route("/audit-log", func(r chi.Router) {
		r.With(view).Get("/", h.state)
		r.With(view).Post("/fetch", h.fetch)
		r.With(view).Post("/search", h.search)
		r.With(view).Post("/filter", h.filter)
		r.With(view).Post("/page", h.page)
		r.With(view).Post("/poll", h.poll)
	})
}
