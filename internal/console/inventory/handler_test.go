package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-console/internal/invalidate"
	"github.com/meridian-pos/meridian-console/internal/session"
	"github.com/meridian-pos/meridian-console/internal/upstream"
)

type recordingInvalidator struct {
	keys []string
}

func (r *recordingInvalidator) MarkStale(_ context.Context, keys ...string) {
	r.keys = append(r.keys, keys...)
}

func newHandlerStack(t *testing.T, backend http.Handler, logger *slog.Logger) (http.Handler, *recordingInvalidator) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inv := &recordingInvalidator{}
	svc := NewService(upstream.New(srv.URL, 0, logger), client, invalidate.NewMarks(client, logger))
	h := NewHandler(svc, inv, logger)

	sess := &session.Session{ID: "clerk-1"}
	sess.Authenticate("tok", "u1", "MANAGER")
	sess.SetPermissions([]string{"inventory:view", "inventory:adjust"})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.ContextWith(req.Context(), sess)))
		})
	})
	h.MountRoutes(r)
	return r, inv
}

func TestAdjustAppliesStockAndReportsAdjustKind(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []Product{{ID: 7, SKU: "SKU-7", Name: "Espresso Beans", Stock: 20, Status: "ACTIVE"}},
			"total": 1,
		})
	})
	mux.HandleFunc("POST /api/products/7/adjust", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Product{ID: 7, SKU: "SKU-7", Name: "Espresso Beans", Stock: 17, Status: "ACTIVE"})
	})

	var logs bytes.Buffer
	handler, inv := newHandlerStack(t, mux, slog.New(slog.NewJSONHandler(&logs, nil)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inventory/fetch", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	payload, err := json.Marshal(AdjustRequest{Delta: -3, Reason: "damaged in transit"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/inventory/7/adjust", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Items []Product `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 17, view.Items[0].Stock, "the confirmed stock level replaces the optimistic one")

	assert.Contains(t, inv.keys, SummaryKey)
	assert.Contains(t, inv.keys, ValuationKey)
	assert.Contains(t, inv.keys, "dashboard:overview")
	assert.Contains(t, logs.String(), `"kind":"adjust"`, "stock adjustments are logged as their own kind")
}
