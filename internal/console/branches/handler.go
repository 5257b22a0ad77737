package branches

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

// Handler owns one list controller per viewer and the branch mutation
// coordinator.
type Handler struct {
	svc      *Service
	views    *listview.Set[Branch]
	co       *mutation.Coordinator
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler constructs the branches handler.
func NewHandler(svc *Service, invalidator mutation.Invalidator, logger *slog.Logger) *Handler {
	h := &Handler{
		svc:      svc,
		co:       mutation.NewCoordinator("branches", invalidator, logger),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
	h.views = listview.NewSet(func() *listview.Controller[Branch] {
		return listview.NewController(svc.Source(), listview.Options{Logger: logger})
	})
	return h
}

// DropViewer tears down the viewer's controller on logout.
func (h *Handler) DropViewer(viewerID string) {
	h.views.Drop(viewerID)
}

func (h *Handler) controller(r *http.Request) *listview.Controller[Branch] {
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
	// The fetch fires after the quiet period; answer with current state.
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
	_, err := mutation.Perform(r.Context(), h.co, ctl, notify.ForSession(sess), mutation.Mutation[Branch]{
		Kind: mutation.KindCreate,
		Apply: func(st *listview.State[Branch], provisionalID int64) {
			// A full page stays full; the new row surfaces on the next fetch.
			if len(st.Items) < st.PageSize {
				st.Items = append(st.Items, Branch{
					ID:      provisionalID,
					Name:    req.Name,
					Address: req.Address,
					Phone:   req.Phone,
					Status:  "PENDING",
				})
			}
			st.Total++
		},
		Request: func(ctx context.Context) (Branch, error) {
			return h.svc.Create(ctx, req)
		},
		SuccessMessage: "Branch created",
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
	_, err = mutation.Perform(r.Context(), h.co, ctl, notify.ForSession(sess), mutation.Mutation[Branch]{
		Kind:     mutation.KindUpdate,
		TargetID: id,
		Apply: func(st *listview.State[Branch], _ int64) {
			for i := range st.Items {
				if st.Items[i].ID != id {
					continue
				}
				if req.Name != nil {
					st.Items[i].Name = *req.Name
				}
				if req.Address != nil {
					st.Items[i].Address = *req.Address
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
		Request: func(ctx context.Context) (Branch, error) {
			return h.svc.Update(ctx, id, req)
		},
		SuccessMessage: "Branch updated",
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
	_, err = mutation.Perform(r.Context(), h.co, ctl, notify.ForSession(sess), mutation.Mutation[Branch]{
		Kind:     mutation.KindDelete,
		TargetID: id,
		Apply: func(st *listview.State[Branch], _ int64) {
			for i, b := range st.Items {
				if b.ID == id {
					st.Items = append(st.Items[:i], st.Items[i+1:]...)
					st.Total--
					return
				}
			}
		},
		Request: func(ctx context.Context) (Branch, error) {
			return Branch{}, h.svc.Delete(ctx, id)
		},
		SuccessMessage: "Branch deleted",
		Invalidates:    []string{"dashboard:overview"},
	})
	if err != nil {
		console.ExpireOnAuthFailure(r, err)
		httpx.RespondError(w, err)
		return
	}
	console.WriteListView(w, http.StatusOK, ctl)
}
