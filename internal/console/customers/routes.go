package customers

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-pos/meridian-console/internal/access"
)

// MountRoutes attaches customer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	view := access.Require(access.Requirement{
		AnyOf: []string{access.PermCustomersView, access.PermCustomersEdit},
	})
	manage := access.Require(access.Requirement{
		AnyOf: []string{access.PermCustomersEdit},
		Hide:  true,
	})

	r.Route("/customers", func(r chi.Router) {
		r.With(view).Get("/", h.state)
		r.With(view).Post("/fetch", h.fetch)
		r.With(view).Post("/search", h.search)
		r.With(view).Post("/filter", h.filter)
		r.With(view).Post("/page", h.page)
		r.With(view).Post("/select", h.selectEntity)

		r.With(manage).Post("/", h.create)
		r.With(manage).Patch("/{id}", h.update)
		r.With(manage).Delete("/{id}", h.delete)
	})
}
