package sales

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-pos/meridian-console/internal/access"
)

// MountRoutes attaches sales history routes. Voiding a sale needs the
// manage permission and is hidden (404) from plain viewers.
func (h *Handler) MountRoutes(r chi.Router) {
	view := access.Require(access.Requirement{
		AnyOf: []string{access.PermSalesView, access.PermSalesManage},
	})
	manage := access.Require(access.Requirement{
		AnyOf: []string{access.PermSalesManage},
		Hide:  true,
	})

	r.Route("/sales", func(r chi.Router) {
		r.With(view).Get("/", h.state)
		r.With(view).Post("/fetch", h.fetch)
		r.With(view).Post("/search", h.search)
		r.With(view).Post("/filter", h.filter)
		r.With(view).Post("/page", h.page)
		r.With(view).Post("/select", h.selectEntity)
		r.With(view).Get("/{id}", h.detail)

		r.With(manage).Post("/{id}/void", h.void)
	})
}
