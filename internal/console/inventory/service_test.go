package inventory

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-console/internal/invalidate"
	"github.com/meridian-pos/meridian-console/internal/session"
	"github.com/meridian-pos/meridian-console/internal/upstream"
)

func newInventoryService(t *testing.T, backend http.Handler) (*Service, *invalidate.Marks, context.Context) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.DiscardHandler)
	marks := invalidate.NewMarks(client, logger)
	svc := NewService(upstream.New(srv.URL, 0, logger), client, marks)

	sess := &session.Session{ID: "viewer-1"}
	sess.Authenticate("tok", "u1", "MANAGER")
	ctx := session.ContextWith(context.Background(), sess)
	return svc, marks, ctx
}

func TestSummaryServedFromCacheUntilStale(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/summary", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Summary{TotalProducts: 10, TotalStock: 400, TotalValue: 1234.5})
	})
	svc, marks, ctx := newInventoryService(t, mux)

	first, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, first.TotalProducts)
	require.EqualValues(t, 1, calls.Load())

	_, err = svc.Summary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load(), "second read must come from cache")

	marks.MarkStale(ctx, SummaryKey)
	_, err = svc.Summary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load(), "stale mark forces a refetch")
	assert.False(t, marks.IsStale(ctx, SummaryKey), "refetch clears the mark")
}

func TestValuationDerivedWhenEndpointMissing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/valuation", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("GET /api/products/summary", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Summary{TotalProducts: 3, TotalValue: 987.25})
	})
	svc, _, ctx := newInventoryService(t, mux)

	val, err := svc.Valuation(ctx)
	require.NoError(t, err)
	assert.True(t, val.Derived)
	assert.Equal(t, 987.25, val.TotalValue)
	assert.Empty(t, val.ByCategory)
}

func TestValuationPassedThroughWhenAvailable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/valuation", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Valuation{
			TotalValue: 500,
			ByCategory: map[string]float64{"drinks": 200, "food": 300},
		})
	})
	svc, _, ctx := newInventoryService(t, mux)

	val, err := svc.Valuation(ctx)
	require.NoError(t, err)
	assert.False(t, val.Derived)
	assert.Len(t, val.ByCategory, 2)
}

func TestMovementsFallBackToEmptyLog(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/7/movements", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	svc, _, ctx := newInventoryService(t, mux)

	log, err := svc.Movements(ctx, 7)
	require.NoError(t, err)
	assert.True(t, log.Derived)
	assert.NotNil(t, log.Items)
	assert.Empty(t, log.Items)
}

func TestMovementsPassedThrough(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/7/movements", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []Movement{{ID: 1, ProductID: 7, Delta: -3, Reason: "sale"}},
			"total": 1,
		})
	})
	svc, _, ctx := newInventoryService(t, mux)

	log, err := svc.Movements(ctx, 7)
	require.NoError(t, err)
	assert.False(t, log.Derived)
	require.Len(t, log.Items, 1)
	assert.Equal(t, -3, log.Items[0].Delta)
}
