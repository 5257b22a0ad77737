package inventory

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-pos/meridian-console/internal/access"
)

// MountRoutes attaches inventory routes. Stock adjustment has its own
// permission, separate from catalog edits.
func (h *Handler) MountRoutes(r chi.Router) {
	view := access.Require(access.Requirement{
		AnyOf: []string{access.PermInventoryView, access.PermInventoryEdit, access.PermStockAdjust},
	})
	manage := access.Require(access.Requirement{
		AnyOf: []string{access.PermInventoryEdit},
		Hide:  true,
	})
	adjust := access.Require(access.Requirement{
		AnyOf: []string{access.PermStockAdjust, access.PermInventoryEdit},
		Hide:  true,
	})

	r.Route("/inventory", func(r chi.Router) {
		r.With(view).Get("/", h.state)
		r.With(view).Post("/fetch", h.fetch)
		r.With(view).Post("/search", h.search)
		r.With(view).Post("/filter", h.filter)
		r.With(view).Post("/page", h.page)
		r.With(view).Post("/select", h.selectEntity)
		r.With(view).Get("/summary", h.summary)
		r.With(view).Get("/valuation", h.valuation)
		r.With(view).Get("/{id}/movements", h.movements)

		r.With(manage).Post("/", h.create)
		r.With(manage).Patch("/{id}", h.update)
		r.With(manage).Delete("/{id}", h.delete)
		r.With(adjust).Post("/{id}/adjust", h.adjust)
	})
}
