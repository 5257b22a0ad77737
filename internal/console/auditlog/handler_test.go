package auditlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-console/internal/session"
	"github.com/meridian-pos/meridian-console/internal/upstream"
)

func newAuditStack(t *testing.T, backend http.Handler) (http.Handler, *Handler) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.DiscardHandler)
	h := NewHandler(NewService(upstream.New(srv.URL, 0, logger)), 10*time.Millisecond, logger)

	sess := &session.Session{ID: "auditor-1"}
	sess.Authenticate("tok", "u1", "ADMIN")
	sess.SetPermissions([]string{"audit:view"})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.ContextWith(req.Context(), sess)))
		})
	})
	h.MountRoutes(r)
	return r, h
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func auditBackend(calls *atomic.Int32) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/audit-log", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []Entry{{ID: 1, Actor: "ana", Action: "branch.create", Entity: "branch", TargetID: 42}},
			"total": 1,
		})
	})
	return mux
}

func TestFetchLoadsEntries(t *testing.T) {
	var calls atomic.Int32
	handler, _ := newAuditStack(t, auditBackend(&calls))

	rec := postJSON(t, handler, "/audit-log/fetch", struct{}{})
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Items []Entry `json:"items"`
		Total int     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "branch.create", view.Items[0].Action)
	assert.EqualValues(t, 1, calls.Load())
}

func TestLiveTailPollsUntilDisabled(t *testing.T) {
	var calls atomic.Int32
	handler, h := newAuditStack(t, auditBackend(&calls))
	t.Cleanup(func() { h.DropViewer("auditor-1") })

	rec := postJSON(t, handler, "/audit-log/poll", pollRequest{Enabled: true})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond, "poll loop should refetch repeatedly")

	rec = postJSON(t, handler, "/audit-log/poll", pollRequest{Enabled: false})
	require.Equal(t, http.StatusOK, rec.Code)

	stopped := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.InDelta(t, stopped, calls.Load(), 1, "at most one in-flight tick may land after disable")
}
