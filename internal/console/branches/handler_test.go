package branches

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-console/internal/session"
	"github.com/meridian-pos/meridian-console/internal/upstream"
)

type recordingInvalidator struct {
	keys []string
}

func (r *recordingInvalidator) MarkStale(_ context.Context, keys ...string) {
	r.keys = append(r.keys, keys...)
}

type listViewBody struct {
	Items      []Branch `json:"items"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	Total      int      `json:"total"`
	Loading    bool     `json:"loading"`
	Error      string   `json:"error"`
	SelectedID int64    `json:"selected_id"`
}

func newTestStack(t *testing.T, backend http.Handler, sess *session.Session) (http.Handler, *recordingInvalidator) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.DiscardHandler)
	inv := &recordingInvalidator{}
	h := NewHandler(NewService(upstream.New(srv.URL, 0, logger)), inv, logger)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.ContextWith(req.Context(), sess)))
		})
	})
	h.MountRoutes(r)
	return r, inv
}

func managerSession() *session.Session {
	sess := &session.Session{ID: "viewer-1"}
	sess.Authenticate("token-1", "u1", "MANAGER")
	sess.SetPermissions([]string{"branches:view", "branches:manage"})
	return sess
}

func listBackend(branches []Branch, createStatus int, created Branch, problem string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/branches", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": branches,
			"pagination": map[string]int{
				"page": 1, "size": 20, "total": len(branches),
			},
		})
	})
	mux.HandleFunc("POST /api/branches", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(createStatus)
		if createStatus < 400 {
			_ = json.NewEncoder(w).Encode(created)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"title": "Conflict", "detail": problem})
	})
	return mux
}

func doJSON(t *testing.T, handler http.Handler, method, path string, payload any) (*httptest.ResponseRecorder, listViewBody) {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var view listViewBody
	_ = json.Unmarshal(rec.Body.Bytes(), &view)
	return rec, view
}

func TestFetchLoadsAndAutoSelectsFirst(t *testing.T) {
	sess := managerSession()
	handler, _ := newTestStack(t, listBackend([]Branch{
		{ID: 1, Name: "Main", Status: "ACTIVE"},
		{ID: 2, Name: "East", Status: "ACTIVE"},
	}, http.StatusCreated, Branch{}, ""), sess)

	rec, view := doJSON(t, handler, http.MethodPost, "/branches/fetch", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 2, view.Total)
	assert.False(t, view.Loading)
	assert.Empty(t, view.Error)
	assert.Equal(t, int64(1), view.SelectedID)
}

func TestCreateMergesConfirmedBranch(t *testing.T) {
	sess := managerSession()
	handler, inv := newTestStack(t, listBackend([]Branch{
		{ID: 1, Name: "Main", Status: "ACTIVE"},
		{ID: 2, Name: "East", Status: "ACTIVE"},
	}, http.StatusCreated, Branch{ID: 42, Name: "West Branch", Status: "ACTIVE"}, ""), sess)

	rec, _ := doJSON(t, handler, http.MethodPost, "/branches/fetch", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, view := doJSON(t, handler, http.MethodPost, "/branches/", map[string]string{"name": "West Branch"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, view.Items, 3)
	assert.Equal(t, 3, view.Total)

	var found bool
	for _, b := range view.Items {
		assert.Greater(t, b.ID, int64(0), "no provisional id may survive confirmation")
		if b.ID == 42 {
			found = true
			assert.Equal(t, "West Branch", b.Name)
			assert.Equal(t, "ACTIVE", b.Status)
		}
	}
	assert.True(t, found, "server-confirmed branch missing")
	assert.Contains(t, inv.keys, "dashboard:overview")

	notes := sess.DrainNotifications()
	require.Len(t, notes, 1)
	assert.Equal(t, session.NoticeSuccess, notes[0].Kind)
	assert.Equal(t, "Branch created", notes[0].Message)
}

func TestCreateFailureRestoresState(t *testing.T) {
	sess := managerSession()
	handler, _ := newTestStack(t, listBackend([]Branch{
		{ID: 1, Name: "Main", Status: "ACTIVE"},
		{ID: 2, Name: "East", Status: "ACTIVE"},
	}, http.StatusConflict, Branch{}, "branch name already in use"), sess)

	rec, before := doJSON(t, handler, http.MethodPost, "/branches/fetch", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, handler, http.MethodPost, "/branches/", map[string]string{"name": "Main"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec, after := doJSON(t, handler, http.MethodGet, "/branches/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.Total, after.Total)
	assert.Equal(t, before.SelectedID, after.SelectedID)

	notes := sess.DrainNotifications()
	require.Len(t, notes, 1)
	assert.Equal(t, session.NoticeError, notes[0].Kind)
	assert.Contains(t, notes[0].Message, "branch name already in use")
}

func TestMutationRoutesHiddenFromViewers(t *testing.T) {
	sess := &session.Session{ID: "viewer-2"}
	sess.Authenticate("token-2", "u2", "CASHIER")
	sess.SetPermissions([]string{"branches:view"})

	handler, _ := newTestStack(t, listBackend(nil, http.StatusCreated, Branch{}, ""), sess)

	rec, _ := doJSON(t, handler, http.MethodGet, "/branches/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, handler, http.MethodPost, "/branches/", map[string]string{"name": "Nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code, "manage routes answer 404 for plain viewers")
}

func TestRoutesAnswer425WhilePermissionsPending(t *testing.T) {
	sess := &session.Session{ID: "viewer-3"}
	sess.Authenticate("token-3", "u3", "CASHIER")

	handler, _ := newTestStack(t, listBackend(nil, http.StatusCreated, Branch{}, ""), sess)

	rec, _ := doJSON(t, handler, http.MethodGet, "/branches/", nil)
	assert.Equal(t, http.StatusTooEarly, rec.Code)
}

func TestCreateOnFullPageHoldsPageSize(t *testing.T) {
	sess := managerSession()
	handler, _ := newTestStack(t, listBackend([]Branch{
		{ID: 1, Name: "Main", Status: "ACTIVE"},
		{ID: 2, Name: "East", Status: "ACTIVE"},
	}, http.StatusCreated, Branch{ID: 42, Name: "West Branch", Status: "ACTIVE"}, ""), sess)

	rec, view := doJSON(t, handler, http.MethodPost, "/branches/page", map[string]int{"size": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, view.Items, 2)

	rec, view = doJSON(t, handler, http.MethodPost, "/branches/", map[string]string{"name": "West Branch"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, view.Items, 2, "a full page never grows past its size")
	assert.Equal(t, 3, view.Total, "the created branch still counts toward the total")
	for _, b := range view.Items {
		assert.Greater(t, b.ID, int64(0))
	}
}

func TestUpstreamAuthFailureEndsSession(t *testing.T) {
	sess := managerSession()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/branches", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	handler, _ := newTestStack(t, mux, sess)

	require.True(t, sess.Authenticated())
	rec, view := doJSON(t, handler, http.MethodPost, "/branches/fetch", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, view.Error)
	assert.False(t, sess.Authenticated(), "an expired upstream token must end the console session")
}

func TestDeleteOfSelectedClearsSelection(t *testing.T) {
	sess := managerSession()
	mux := http.NewServeMux()
	items := []Branch{
		{ID: 1, Name: "Main", Status: "ACTIVE"},
		{ID: 2, Name: "East", Status: "ACTIVE"},
	}
	mux.HandleFunc("GET /api/branches", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "total": len(items)})
	})
	mux.HandleFunc("DELETE /api/branches/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler, _ := newTestStack(t, mux, sess)

	rec, view := doJSON(t, handler, http.MethodPost, "/branches/fetch", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(1), view.SelectedID)

	rec, view = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/branches/%d", 1), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(2), view.Items[0].ID)
	assert.Equal(t, 1, view.Total)
	assert.Equal(t, int64(1), view.SelectedID, "selection is corrected on the next fetch, not by delete itself")
}
