package inventory

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-pos/meridian-console/internal/console"
	"github.com/meridian-pos/meridian-console/internal/listview"
	"github.com/meridian-pos/meridian-console/internal/mutation"
	"github.com/meridian-pos/meridian-console/internal/notify"
	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
	"github.com/meridian-pos/meridian-console/internal/session"
)

// Handler drives the product catalog list, stock mutations and the
// inventory aggregates.
type Handler struct {
	svc      *Service
	views    *listview.Set[Product]
	co       *mutation.Coordinator
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler constructs the inventory handler.
func NewHandler(svc *Service, invalidator mutation.Invalidator, logger *slog.Logger) *Handler {
	h := &Handler{
		svc:      svc,
		co:       mutation.NewCoordinator("inventory", invalidator, logger),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
	h.views = listview.NewSet(func() *listview.Controller[Product] {
		return listview.NewController(svc.Source(), listview.Options{Logger: logger})
	})
	return h
}

// DropViewer tears down the viewer's controller on logout.
func (h *Handler) DropViewer(viewerID string) {
	h.views.Drop(viewerID)
}

func (h *Handler) controller(r *http.Request) *listview.Controller[Product] {
	return h.views.For(session.FromContext(r.Context()).ID)
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	console.WriteListView(w, http.StatusOK, h.controller(r))
}

func (h *Handler) fetch(w http.ResponseWriter, r *http.Request) {
	ctl := h.controller(r)
	err := ctl.Fetch(r.Context())
	console.ExpireOnAuthFailure(r, err)
	console.WriteListView(w, http.StatusOK, ctl)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	ctl := h.controller(r)
	ctl.SetSearch(r.Context(), req.Term)
	console.WriteListView(w, http.StatusAccepted, ctl)
}

func (h *Handler) filter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := console.Validate(h.validate, req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	ctl := h.controller(r)
	err := ctl.SetFilter(r.Context(), req.Key, req.Value)
	console.ExpireOnAuthFailure(r, err)
	console.WriteListView(w, http.StatusOK, ctl)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	ctl := h.controller(r)
	var err error
	if req.Size > 0 {
		err = ctl.SetPageSize(r.Context(), req.Size)
	}
	if req.Page > 0 {
		err = ctl.SetPage(r.Context(), req.Page)
	}
	console.ExpireOnAuthFailure(r, err)
	console.WriteListView(w, http.StatusOK, ctl)
}

func (h *Handler) selectEntity(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	ctl := h.controller(r)
	if !ctl.Select(req.ID) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	console.WriteListView(w, http.StatusOK, ctl)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context())
	if err != nil {
		console.ExpireOnAuthFailure(r, err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}

func (h *Handler) valuation(w http.ResponseWriter, r *http.Request) {
	val, err := h.svc.Valuation(r.Context())
	if err != nil {
		console.ExpireOnAuthFailure(r, err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, val)
}

func (h *Handler) movements(w http.ResponseWriter, r *http.Request) {
	id, err := console.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	log, err := h.svc.Movements(r.Context(), id)
	if err != nil {
		console.ExpireOnAuthFailure(r, err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, log)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := console.Validate(h.validate, req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctl := h.controller(r)
	sess := session.FromContext(r.Context())
	_, err := mutation.Perform(r.Context(), h.co, ctl, notify.ForSession(sess), mutation.Mutation[Product]{
		Kind: mutation.KindCreate,
		Apply: func(st *listview.State[Product], provisionalID int64) {
			if len(st.Items) < st.PageSize {
				st.Items = append(st.Items, Product{
					ID:       provisionalID,
					SKU:      req.SKU,
					Name:     req.Name,
					Category: req.Category,
					Price:    req.Price,
					Stock:    req.Stock,
					MinStock: req.MinStock,
					Status:   "ACTIVE",
				})
			}
			st.Total++
		},
		Request: func(ctx context.Context) (Product, error) {
			return h.svc.Create(ctx, req)
		},
		SuccessMessage: "Product added",
		Invalidates:    []string{SummaryKey, ValuationKey},
	})
	if err != nil {
		console.ExpireOnAuthFailure(r, err)
		httpx.RespondError(w, err)
		return
	}
	console.WriteListView(w, http.StatusCreated, ctl)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := console.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := console.Validate(h.validate, req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctl := h.controller(r)
	sess := session.FromContext(r.Context())
	_, err = mutation.Perform(r.Context(), h.co, ctl, notify.ForSession(sess), mutation.Mutation[Product]{
		Kind:     mutation.KindUpdate,
		TargetID: id,
		Apply: func(st *listview.State[Product], _ int64) {
			for i := range st.Items {
				if st.Items[i].ID != id {
					continue
				}
				if req.Name != nil {
					st.Items[i].Name = *req.Name
				}
				if req.Category != nil {
					st.Items[i].Category = *req.Category
				}
				if req.Price != nil {
					st.Items[i].Price = *req.Price
				}
				if req.MinStock != nil {
					st.Items[i].MinStock = *req.MinStock
				}
				if req.Status != nil {
					st.Items[i].Status = *req.Status
				}
				return
			}
		},
		Request: func(ctx context.Context) (Product, error) {
			return h.svc.Update(ctx, id, req)
		},
		SuccessMessage: "Product updated",
		Invalidates:    []string{ValuationKey},
	})
	if err != nil {
		console.ExpireOnAuthFailure(r, err)
		httpx.RespondError(w, err)
		return
	}
	console.WriteListView(w, http.StatusOK, ctl)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := console.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	ctl := h.controller(r)
	sess := session.FromContext(r.Context())
	_, err = mutation.Perform(r.Context(), h.co, ctl, notify.ForSession(sess), mutation.Mutation[Product]{
		Kind:     mutation.KindDelete,
		TargetID: id,
		Apply: func(st *listview.State[Product], _ int64) {
			for i, p := range st.Items {
				if p.ID == id {
					st.Items = append(st.Items[:i], st.Items[i+1:]...)
					st.Total--
					return
				}
			}
		},
		Request: func(ctx context.Context) (Product, error) {
			return Product{}, h.svc.Delete(ctx, id)
		},
		SuccessMessage: "Product removed",
		Invalidates:    []string{SummaryKey, ValuationKey},
	})
	if err != nil {
		console.ExpireOnAuthFailure(r, err)
		httpx.RespondError(w, err)
		return
	}
	console.WriteListView(w, http.StatusOK, ctl)
}

// adjust shifts stock optimistically. The list row changes immediately;
// the summary and valuation are only marked stale, never patched in place.
func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	id, err := console.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req AdjustRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := console.Validate(h.validate, req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctl := h.controller(r)
	sess := session.FromContext(r.Context())
	_, err = mutation.Perform(r.Context(), h.co, ctl, notify.ForSession(sess), mutation.Mutation[Product]{
		Kind:     mutation.KindAdjust,
		TargetID: id,
		Apply: func(st *listview.State[Product], _ int64) {
			for i := range st.Items {
				if st.Items[i].ID == id {
					st.Items[i].Stock += req.Delta
					return
				}
			}
		},
		Request: func(ctx context.Context) (Product, error) {
			return h.svc.Adjust(ctx, id, req)
		},
		SuccessMessage: "Stock adjusted",
		Invalidates:    []string{SummaryKey, ValuationKey, "dashboard:overview"},
	})
	if err != nil {
		console.ExpireOnAuthFailure(r, err)
		httpx.RespondError(w, err)
		return
	}
	console.WriteListView(w, http.StatusOK, ctl)
}
