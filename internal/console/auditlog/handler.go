package auditlog

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-pos/meridian-console/internal/console"
	"github.com/meridian-pos/meridian-console/internal/listview"
	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
	"github.com/meridian-pos/meridian-console/internal/session"
)

// Handler drives the audit trail list. The view is read only; the one
// extra control is a live-tail toggle that polls the upstream for new
// entries.
type Handler struct {
	svc          *Service
	views        *listview.Set[Entry]
	validate     *validator.Validate
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewHandler constructs the audit trail handler.
func NewHandler(svc *Service, pollInterval time.Duration, logger *slog.Logger) *Handler {
	h := &Handler{
		svc:          svc,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		pollInterval: pollInterval,
		logger:       logger,
	}
	h.views = listview.NewSet(func() *listview.Controller[Entry] {
		return listview.NewController(svc.Source(), listview.Options{Logger: logger})
	})
	return h
}

// DropViewer tears down the viewer's controller on logout, stopping any
// active poll loop with it.
func (h *Handler) DropViewer(viewerID string) {
	h.views.Drop(viewerID)
}

func (h *Handler) controller(r *http.Request) *listview.Controller[Entry] {
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

func (h *Handler) poll(w http.ResponseWriter, r *http.Request) {
	var req pollRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	ctl := h.controller(r)
	if !req.Enabled {
		ctl.StopPolling()
		httpx.JSON(w, http.StatusOK, pollState{Enabled: false})
		return
	}
	// Detached from the request: the loop outlives this toggle call and
	// runs until toggled off or the viewer logs out.
	ctl.StartPolling(context.WithoutCancel(r.Context()), h.pollInterval)
	httpx.JSON(w, http.StatusOK, pollState{Enabled: true, IntervalSeconds: int(h.pollInterval.Seconds())})
}
