package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-pos/meridian-console/internal/upstream"
)

// statusKey holds the last observed backend status for the health endpoint.
const statusKey = "console:upstream:status"

// HealthProbeJob records backend reachability so operators see flapping
// connectivity without waiting for a user request to fail.
type HealthProbeJob struct {
	client *upstream.Client
	redis  *redis.Client
	logger *slog.Logger
}

// NewHealthProbeJob constructs the probe job.
func NewHealthProbeJob(client *upstream.Client, redisClient *redis.Client, logger *slog.Logger) *HealthProbeJob {
	return &HealthProbeJob{client: client, redis: redisClient, logger: logger}
}

// Handle processes TaskUpstreamHealthProbe tasks.
func (j *HealthProbeJob) Handle(ctx context.Context, _ *asynq.Task) error {
	status, err := upstream.Health(ctx, j.client)
	if err != nil {
		return err
	}
	if !status.Reachable {
		j.logger.Warn("upstream unreachable")
	}
	raw, err := json.Marshal(status)
	if err != nil {
		return asynq.SkipRetry
	}
	if err := j.redis.Set(ctx, statusKey, raw, 5*time.Minute).Err(); err != nil {
		j.logger.Warn("store upstream status", slog.Any("error", err))
	}
	return nil
}
