// Package invalidate tracks stale marks for derived aggregate caches
// (inventory summary, valuation, dashboard figures). Mutations mark their
// dependent aggregates stale on settle; readers refetch when marked instead
// of trusting an optimistically patched value.
package invalidate

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

// Marks stores stale flags in Redis so every console process observes them.
type Marks struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewMarks constructs a Marks store.
func NewMarks(client *redis.Client, logger *slog.Logger) *Marks {
	return &Marks{client: client, ttl: defaultTTL, logger: logger}
}

// MarkStale flags the given aggregate keys. Failures are logged, not
// returned: a missed mark only delays a refresh until the TTL of the cached
// aggregate itself.
func (m *Marks) MarkStale(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := m.client.Set(ctx, m.redisKey(key), "1", m.ttl).Err(); err != nil && m.logger != nil {
			m.logger.Warn("mark stale", slog.String("key", key), slog.Any("error", err))
		}
	}
}

// IsStale reports whether the aggregate was flagged since the last Clear.
func (m *Marks) IsStale(ctx context.Context, key string) bool {
	n, err := m.client.Exists(ctx, m.redisKey(key)).Result()
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("check stale", slog.String("key", key), slog.Any("error", err))
		}
		// Unreachable Redis degrades to always-refetch, never to stale data.
		return true
	}
	return n > 0
}

// Clear removes the flag after the aggregate has been refetched.
func (m *Marks) Clear(ctx context.Context, key string) {
	if err := m.client.Del(ctx, m.redisKey(key)).Err(); err != nil && m.logger != nil {
		m.logger.Warn("clear stale", slog.String("key", key), slog.Any("error", err))
	}
}

func (m *Marks) redisKey(key string) string {
	return "console:stale:" + key
}
