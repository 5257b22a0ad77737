// Package auth handles the console's own session lifecycle: exchanging
// credentials with the upstream backend, loading the permission set and
// serving the navigation the signed-in user may see.
package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-pos/meridian-console/internal/access"
	"github.com/meridian-pos/meridian-console/internal/console"
	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
	"github.com/meridian-pos/meridian-console/internal/session"
	"github.com/meridian-pos/meridian-console/internal/upstream"
)

// Teardown releases per-viewer resources (list controllers, poll loops)
// when a session ends. Each list handler registers one.
type Teardown func(viewerID string)

// Handler serves login, logout and session introspection.
type Handler struct {
	client    *upstream.Client
	validate  *validator.Validate
	teardowns []Teardown
	logger    *slog.Logger
}

// NewHandler constructs the auth handler.
func NewHandler(client *upstream.Client, logger *slog.Logger) *Handler {
	return &Handler{
		client:   client,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// OnLogout registers a teardown to run when a viewer's session ends.
func (h *Handler) OnLogout(t Teardown) {
	h.teardowns = append(h.teardowns, t)
}

// MountPublic attaches the unauthenticated routes.
func (h *Handler) MountPublic(r chi.Router) {
	r.Post("/login", h.login)
}

// MountRoutes attaches the session-scoped routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
	r.Post("/me/permissions/refresh", h.refreshPermissions)
	r.Get("/nav", h.nav)
	r.Get("/notifications", h.notifications)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

type meResponse struct {
	UserID            string   `json:"user_id"`
	Role              string   `json:"role"`
	Permissions       []string `json:"permissions"`
	PermissionsLoaded bool     `json:"permissions_loaded"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := console.Validate(h.validate, req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	creds, err := upstream.Login(r.Context(), h.client, req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	sess := session.FromContext(r.Context())
	sess.Authenticate(creds.Token, creds.UserID, creds.Role)

	// Permission load is best effort: a failure leaves the session in the
	// permissions-pending state, where gated routes answer 425 and the
	// navigation falls back to the safe subset.
	if codes, err := upstream.Permissions(r.Context(), h.client, creds.Token); err != nil {
		h.logger.Warn("permission load failed after login",
			slog.String("user_id", creds.UserID), slog.Any("error", err))
	} else {
		sess.SetPermissions(codes)
	}

	httpx.JSON(w, http.StatusOK, meResponse{
		UserID:            sess.UserID(),
		Role:              sess.Role(),
		Permissions:       sess.Permissions(),
		PermissionsLoaded: sess.PermissionsLoaded(),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	for _, t := range h.teardowns {
		t(sess.ID)
	}
	sess.Destroy()
	httpx.NoContent(w)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	httpx.JSON(w, http.StatusOK, meResponse{
		UserID:            sess.UserID(),
		Role:              sess.Role(),
		Permissions:       sess.Permissions(),
		PermissionsLoaded: sess.PermissionsLoaded(),
	})
}

func (h *Handler) refreshPermissions(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	codes, err := upstream.Permissions(r.Context(), h.client, sess.Token())
	if err != nil {
		console.ExpireOnAuthFailure(r, err)
		httpx.RespondError(w, err)
		return
	}
	sess.SetPermissions(codes)
	httpx.JSON(w, http.StatusOK, meResponse{
		UserID:            sess.UserID(),
		Role:              sess.Role(),
		Permissions:       sess.Permissions(),
		PermissionsLoaded: sess.PermissionsLoaded(),
	})
}

func (h *Handler) nav(w http.ResponseWriter, r *http.Request) {
	ident := access.IdentityFromContext(r.Context())
	entries := access.FilterNavigation(access.Navigation(), ident)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"entries":            entries,
		"permissions_loaded": ident.Loaded(),
	})
}

func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	notes := sess.DrainNotifications()
	if notes == nil {
		notes = []session.Notification{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"notifications": notes})
}
