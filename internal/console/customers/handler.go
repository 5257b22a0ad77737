package customers

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

// Handler drives the customer list and its mutations.
type Handler struct {
	svc      *Service
	views    *listview.Set[Customer]
	co       *mutation.Coordinator
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler constructs the customers handler.
func NewHandler(svc *Service, invalidator mutation.Invalidator, logger *slog.Logger) *Handler {
	h := &Handler{
		svc:      svc,
		co:       mutation.NewCoordinator("customers", invalidator, logger),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
	h.views = listview.NewSet(func() *listview.Controller[Customer] {
		return listview.NewController(svc.Source(), listview.Options{Logger: logger})
	})
	return h
}

// DropViewer tears down the viewer's controller on logout.
func (h *Handler) DropViewer(viewerID string) {
	h.views.Drop(viewerID)
}

func (h *Handler) controller(r *http.Request) *listview.Controller[Customer] {
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
	_, err := mutation.Perform(r.Context(), h.co, ctl, notify.ForSession(sess), mutation.Mutation[Customer]{
		Kind: mutation.KindCreate,
		Apply: func(st *listview.State[Customer], provisionalID int64) {
			if len(st.Items) < st.PageSize {
				st.Items = append(st.Items, Customer{
					ID:     provisionalID,
					Name:   req.Name,
					Email:  req.Email,
					Phone:  req.Phone,
					Status: "ACTIVE",
				})
			}
			st.Total++
		},
		Request: func(ctx context.Context) (Customer, error) {
			return h.svc.Create(ctx, req)
		},
		SuccessMessage: "Customer registered",
		Invalidates:    []string{"dashboard:overview"},
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
	_, err = mutation.Perform(r.Context(), h.co, ctl, notify.ForSession(sess), mutation.Mutation[Customer]{
		Kind:     mutation.KindUpdate,
		TargetID: id,
		Apply: func(st *listview.State[Customer], _ int64) {
			for i := range st.Items {
				if st.Items[i].ID != id {
					continue
				}
				if req.Name != nil {
					st.Items[i].Name = *req.Name
				}
				if req.Email != nil {
					st.Items[i].Email = *req.Email
				}
				if req.Phone != nil {
					st.Items[i].Phone = *req.Phone
				}
				if req.Status != nil {
					st.Items[i].Status = *req.Status
				}
				return
			}
		},
		Request: func(ctx context.Context) (Customer, error) {
			return h.svc.Update(ctx, id, req)
		},
		SuccessMessage: "Customer updated",
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
	_, err = mutation.Perform(r.Context(), h.co, ctl, notify.ForSession(sess), mutation.Mutation[Customer]{
		Kind:     mutation.KindDelete,
		TargetID: id,
		Apply: func(st *listview.State[Customer], _ int64) {
			for i, c := range st.Items {
				if c.ID == id {
					st.Items = append(st.Items[:i], st.Items[i+1:]...)
					st.Total--
					return
				}
			}
		},
		Request: func(ctx context.Context) (Customer, error) {
			return Customer{}, h.svc.Delete(ctx, id)
		},
		SuccessMessage: "Customer removed",
		Invalidates:    []string{"dashboard:overview"},
	})
	if err != nil {
		console.ExpireOnAuthFailure(r, err)
		httpx.RespondError(w, err)
		return
	}
	console.WriteListView(w, http.StatusOK, ctl)
}
