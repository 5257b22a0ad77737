// Package jobs holds the background tasks the console schedules: probing the
// upstream backend and keeping the aggregate caches warm.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskUpstreamHealthProbe probes backend connectivity.
	TaskUpstreamHealthProbe = "upstream:health_probe"
	// TaskCacheWarmup refreshes the dashboard and inventory aggregates.
	TaskCacheWarmup = "cache:warmup"
)

// CacheWarmupPayload selects which aggregates to refresh.
type CacheWarmupPayload struct {
	Dashboard bool `json:"dashboard"`
	Inventory bool `json:"inventory"`
}

// NewUpstreamHealthProbeTask constructs the probe task.
func NewUpstreamHealthProbeTask() *asynq.Task {
	return asynq.NewTask(TaskUpstreamHealthProbe, nil)
}

// NewCacheWarmupTask constructs a warmup task.
func NewCacheWarmupTask(payload CacheWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCacheWarmup, data), nil
}
