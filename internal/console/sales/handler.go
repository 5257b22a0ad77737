package sales

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-pos/meridian-console/internal/console"
	"github.com/meridian-pos/meridian-console/internal/format"
	"github.com/meridian-pos/meridian-console/internal/listview"
	"github.com/meridian-pos/meridian-console/internal/mutation"
	"github.com/meridian-pos/meridian-console/internal/notify"
	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
	"github.com/meridian-pos/meridian-console/internal/session"
)

// Handler drives the sales history list.
type Handler struct {
	svc      *Service
	views    *listview.Set[Sale]
	co       *mutation.Coordinator
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler constructs the sales handler.
func NewHandler(svc *Service, invalidator mutation.Invalidator, logger *slog.Logger) *Handler {
	h := &Handler{
		svc:      svc,
		co:       mutation.NewCoordinator("sales", invalidator, logger),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
	h.views = listview.NewSet(func() *listview.Controller[Sale] {
		return listview.NewController(svc.Source(), listview.Options{Logger: logger})
	})
	return h
}

// DropViewer tears down the viewer's controller on logout.
func (h *Handler) DropViewer(viewerID string) {
	h.views.Drop(viewerID)
}

func (h *Handler) controller(r *http.Request) *listview.Controller[Sale] {
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

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	id, err := console.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	d, err := h.svc.Detail(r.Context(), id)
	if err != nil {
		console.ExpireOnAuthFailure(r, err)
		httpx.RespondError(w, err)
		return
	}
	view := detailView{
		Detail:       d,
		TotalDisplay: format.Money(d.Total),
		LineDisplays: make([]string, 0, len(d.Lines)),
	}
	for _, line := range d.Lines {
		view.LineDisplays = append(view.LineDisplays,
			fmt.Sprintf("%s x%d @ %s = %s", line.ProductName, line.Quantity, format.Money(line.UnitPrice), format.Money(line.Subtotal)))
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) void(w http.ResponseWriter, r *http.Request) {
	id, err := console.PathID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req voidRequest
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
	_, err = mutation.Perform(r.Context(), h.co, ctl, notify.ForSession(sess), mutation.Mutation[Sale]{
		Kind:     mutation.KindUpdate,
		TargetID: id,
		Apply: func(st *listview.State[Sale], _ int64) {
			for i := range st.Items {
				if st.Items[i].ID == id {
					st.Items[i].Status = "VOIDED"
					return
				}
			}
		},
		Request: func(ctx context.Context) (Sale, error) {
			return h.svc.Void(ctx, id, req.Reason)
		},
		SuccessMessage: "Sale voided",
		Invalidates:    []string{"dashboard:overview", "sales:summary"},
	})
	if err != nil {
		console.ExpireOnAuthFailure(r, err)
		httpx.RespondError(w, err)
		return
	}
	console.WriteListView(w, http.StatusOK, ctl)
}
