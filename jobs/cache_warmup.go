package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/meridian-pos/meridian-console/internal/console/dashboard"
	"github.com/meridian-pos/meridian-console/internal/console/inventory"
	"github.com/meridian-pos/meridian-console/internal/session"
)

// CacheWarmupJob refreshes aggregate caches off the request path so the
// first dashboard view after an invalidation does not pay the upstream
// round trip. It authenticates with the configured service token.
type CacheWarmupJob struct {
	dashboard    *dashboard.Handler
	inventory    *inventory.Service
	serviceToken string
	logger       *slog.Logger
}

// NewCacheWarmupJob constructs the warmup job. An empty service token
// disables warmup; the task then no-ops.
func NewCacheWarmupJob(dash *dashboard.Handler, inv *inventory.Service, serviceToken string, logger *slog.Logger) *CacheWarmupJob {
	return &CacheWarmupJob{dashboard: dash, inventory: inv, serviceToken: serviceToken, logger: logger}
}

// Handle processes TaskCacheWarmup tasks.
func (j *CacheWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j.serviceToken == "" {
		j.logger.Info("cache warmup skipped, no service token configured")
		return nil
	}
	var payload CacheWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	} else {
		payload = CacheWarmupPayload{Dashboard: true, Inventory: true}
	}

	sess := &session.Session{}
	sess.Authenticate(j.serviceToken, "service", "SERVICE")
	ctx = session.ContextWith(ctx, sess)

	if payload.Dashboard {
		if err := j.dashboard.Warm(ctx); err != nil {
			j.logger.Warn("dashboard warmup", slog.Any("error", err))
		}
	}
	if payload.Inventory {
		if _, err := j.inventory.Summary(ctx); err != nil {
			j.logger.Warn("inventory warmup", slog.Any("error", err))
		}
	}
	return nil
}
