package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-pos/meridian-console/internal/access"
	authhttp "github.com/meridian-pos/meridian-console/internal/console/auth"
	"github.com/meridian-pos/meridian-console/internal/console/auditlog"
	"github.com/meridian-pos/meridian-console/internal/console/branches"
	"github.com/meridian-pos/meridian-console/internal/console/customers"
	"github.com/meridian-pos/meridian-console/internal/console/dashboard"
	"github.com/meridian-pos/meridian-console/internal/console/inventory"
	"github.com/meridian-pos/meridian-console/internal/console/sales"
	"github.com/meridian-pos/meridian-console/internal/console/users"
	"github.com/meridian-pos/meridian-console/internal/observability"
	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
	"github.com/meridian-pos/meridian-console/internal/session"
	"github.com/meridian-pos/meridian-console/internal/upstream"
	"github.com/meridian-pos/meridian-console/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *session.Manager
	Upstream       *upstream.Client

	AuthHandler      *authhttp.Handler
	DashboardHandler *dashboard.Handler
	BranchesHandler  *branches.Handler
	CustomersHandler *customers.Handler
	SalesHandler     *sales.Handler
	InventoryHandler *inventory.Handler
	UsersHandler     *users.Handler
	AuditLogHandler  *auditlog.Handler

	JobsHandler *jobs.Handler
	Metrics     *observability.Metrics
}

// NewRouter constructs the chi.Router with console defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status, err := upstream.Health(r.Context(), params.Upstream)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		code := http.StatusOK
		if !status.Reachable {
			code = http.StatusServiceUnavailable
		}
		httpx.JSON(w, code, map[string]any{
			"status":   "ok",
			"upstream": status,
		})
	})

	r.Route("/auth", params.AuthHandler.MountPublic)

	r.Group(func(r chi.Router) {
		r.Use(access.RequireSession)

		r.Route("/auth/session", params.AuthHandler.MountRoutes)
		params.DashboardHandler.MountRoutes(r)
		params.BranchesHandler.MountRoutes(r)
		params.CustomersHandler.MountRoutes(r)
		params.SalesHandler.MountRoutes(r)
		params.InventoryHandler.MountRoutes(r)
		params.UsersHandler.MountRoutes(r)
		params.AuditLogHandler.MountRoutes(r)

		if params.JobsHandler != nil {
			r.Route("/jobs", func(r chi.Router) {
				r.Use(access.Require(access.Requirement{
					AnyOf: []string{access.PermSettingsEdit},
					Hide:  true,
				}))
				params.JobsHandler.MountRoutes(r)
			})
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
