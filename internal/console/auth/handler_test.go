package auth

import (
	"bytes"
	"encoding/json"
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

func newAuthStack(t *testing.T, backend http.Handler, sess *session.Session) (*Handler, http.Handler) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	h := NewHandler(upstream.New(srv.URL, 0, slog.New(slog.DiscardHandler)), slog.New(slog.DiscardHandler))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.ContextWith(req.Context(), sess)))
		})
	})
	h.MountPublic(r)
	h.MountRoutes(r)
	return h, r
}

func post(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func loginBackend(permStatus int) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok-123",
			"user_id":      "u-7",
			"role":         "MANAGER",
		})
	})
	mux.HandleFunc("GET /api/auth/me/permissions", func(w http.ResponseWriter, r *http.Request) {
		if permStatus >= 400 {
			w.WriteHeader(permStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string][]string{
			"permissions": {"sales:view", "customers:view"},
		})
	})
	return mux
}

func TestLoginLoadsPermissions(t *testing.T) {
	sess := &session.Session{ID: "s1"}
	_, handler := newAuthStack(t, loginBackend(http.StatusOK), sess)

	rec := post(t, handler, "/login", map[string]string{"email": "m@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body meResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u-7", body.UserID)
	assert.Equal(t, "MANAGER", body.Role)
	assert.True(t, body.PermissionsLoaded)
	assert.ElementsMatch(t, []string{"sales:view", "customers:view"}, body.Permissions)
	assert.Equal(t, "tok-123", sess.Token())
}

func TestLoginSurvivesPermissionLoadFailure(t *testing.T) {
	sess := &session.Session{ID: "s2"}
	_, handler := newAuthStack(t, loginBackend(http.StatusInternalServerError), sess)

	rec := post(t, handler, "/login", map[string]string{"email": "m@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body meResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.PermissionsLoaded, "failed permission load leaves the session pending")
	assert.True(t, sess.Authenticated())
}

func TestNavFallsBackWhilePermissionsPending(t *testing.T) {
	sess := &session.Session{ID: "s3"}
	sess.Authenticate("tok", "u1", "CASHIER")
	_, handler := newAuthStack(t, loginBackend(http.StatusOK), sess)

	req := httptest.NewRequest(http.MethodGet, "/nav", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Entries []struct {
			ID string `json:"id"`
		} `json:"entries"`
		PermissionsLoaded bool `json:"permissions_loaded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.PermissionsLoaded)

	ids := make([]string, 0, len(body.Entries))
	for _, e := range body.Entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"dashboard", "pos", "sales", "inventory", "customers"}, ids)
}

func TestRefreshPermissionsSettlesSession(t *testing.T) {
	sess := &session.Session{ID: "s4"}
	sess.Authenticate("tok", "u1", "CASHIER")
	_, handler := newAuthStack(t, loginBackend(http.StatusOK), sess)

	rec := post(t, handler, "/me/permissions/refresh", struct{}{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sess.PermissionsLoaded())
	assert.ElementsMatch(t, []string{"sales:view", "customers:view"}, sess.Permissions())
}

func TestLogoutRunsTeardownsAndDestroys(t *testing.T) {
	sess := &session.Session{ID: "s5"}
	sess.Authenticate("tok", "u1", "MANAGER")
	h, handler := newAuthStack(t, loginBackend(http.StatusOK), sess)

	var dropped []string
	h.OnLogout(func(viewerID string) { dropped = append(dropped, viewerID) })
	h.OnLogout(func(viewerID string) { dropped = append(dropped, viewerID) })

	rec := post(t, handler, "/logout", struct{}{})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"s5", "s5"}, dropped)
}

func TestDrainedNotificationsAreOneTime(t *testing.T) {
	sess := &session.Session{ID: "s6"}
	sess.Authenticate("tok", "u1", "MANAGER")
	sess.Notify(session.NoticeSuccess, "Branch created")
	_, handler := newAuthStack(t, loginBackend(http.StatusOK), sess)

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Notifications []session.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, "Branch created", body.Notifications[0].Message)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Notifications)
}
