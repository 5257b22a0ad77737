// Package dashboard serves the landing overview. The figures are
// aggregates fetched from the upstream reporting endpoint, cached in Redis
// and refreshed when a mutation marks them stale.
package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/meridian-pos/meridian-console/internal/console"
	"github.com/meridian-pos/meridian-console/internal/format"
	"github.com/meridian-pos/meridian-console/internal/invalidate"
	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
	"github.com/meridian-pos/meridian-console/internal/session"
	"github.com/meridian-pos/meridian-console/internal/upstream"
)

// OverviewKey is the stale-mark key mutations invalidate after settling.
const OverviewKey = "dashboard:overview"

const (
	cacheKey = "console:cache:dashboard:overview"
	cacheTTL = 60 * time.Second
)

// Overview is the upstream aggregate.
type Overview struct {
	SalesToday     int     `json:"sales_today"`
	RevenueToday   float64 `json:"revenue_today"`
	RevenueMonth   float64 `json:"revenue_month"`
	ActiveBranches int     `json:"active_branches"`
	LowStockCount  int     `json:"low_stock_count"`
	CustomerCount  int     `json:"customer_count"`
}

// overviewView adds display strings to the raw figures.
type overviewView struct {
	Overview
	RevenueTodayDisplay  string `json:"revenue_today_display"`
	RevenueMonthDisplay  string `json:"revenue_month_display"`
	CustomerCountDisplay string `json:"customer_count_display"`
}

// Handler serves the dashboard overview.
type Handler struct {
	client *upstream.Client
	cache  *redis.Client
	marks  *invalidate.Marks
	group  singleflight.Group
	logger *slog.Logger
}

// NewHandler constructs the dashboard handler.
func NewHandler(client *upstream.Client, cache *redis.Client, marks *invalidate.Marks, logger *slog.Logger) *Handler {
	return &Handler{client: client, cache: cache, marks: marks, logger: logger}
}

// MountRoutes attaches the dashboard route. The overview is part of the
// safe landing set, so no permission beyond an authenticated session.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.overview)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.fetch(r.Context())
	if err != nil {
		console.ExpireOnAuthFailure(r, err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, overviewView{
		Overview:             ov,
		RevenueTodayDisplay:  format.Money(ov.RevenueToday),
		RevenueMonthDisplay:  format.Money(ov.RevenueMonth),
		CustomerCountDisplay: format.Count(ov.CustomerCount),
	})
}

// Warm refreshes the overview cache outside a user request, e.g. from the
// warmup job. The caller provides a context carrying a service session.
func (h *Handler) Warm(ctx context.Context) error {
	_, err := h.fetch(ctx)
	return err
}

func (h *Handler) fetch(ctx context.Context) (Overview, error) {
	token := session.TokenFromContext(ctx)
	if !h.marks.IsStale(ctx, OverviewKey) {
		if raw, err := h.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached Overview
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	v, err, _ := h.group.Do(cacheKey, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		ov, err := upstream.Get[Overview](ctx, h.client, token, "/api/reports/overview")
		if err != nil {
			return Overview{}, err
		}
		if raw, err := json.Marshal(ov); err == nil {
			h.cache.Set(ctx, cacheKey, raw, cacheTTL)
		}
		h.marks.Clear(ctx, OverviewKey)
		return ov, nil
	})
	if err != nil {
		return Overview{}, err
	}
	return v.(Overview), nil
}
