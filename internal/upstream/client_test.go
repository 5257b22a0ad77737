package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
)

type branch struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestListPaginationEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("search") != "west" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":1,"name":"West"}],"pagination":{"page":2,"size":10,"total":11}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	res, err := List[branch](context.Background(), c, "tok", "/api/branches", ListQuery{Page: 2, Size: 10, Search: "west"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Name != "West" {
		t.Fatalf("unexpected items: %+v", res.Items)
	}
	if res.Page.Total != 11 || res.Page.Page != 2 {
		t.Fatalf("unexpected pagination: %+v", res.Page)
	}
}

func TestListLegacyTotalEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":1,"name":"A"},{"id":2,"name":"B"}],"total":40}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	res, err := List[branch](context.Background(), c, "tok", "/api/audit-logs", ListQuery{Page: 3, Size: 2})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if res.Page.Total != 40 || res.Page.Page != 3 || res.Page.Size != 2 {
		t.Fatalf("unexpected pagination: %+v", res.Page)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusUnauthorized, `{"message":"token expired"}`, httpx.ErrUnauthorized},
		{http.StatusForbidden, `{}`, httpx.ErrForbidden},
		{http.StatusNotFound, `{}`, httpx.ErrNotFound},
		{http.StatusConflict, `{"error":"name taken"}`, httpx.ErrDuplicate},
		{http.StatusUnprocessableEntity, `{"detail":"name required"}`, httpx.ErrValidation},
		{http.StatusBadGateway, `{}`, httpx.ErrUnavailable},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		}))
		c := New(srv.URL, 0, nil)
		_, err := Get[branch](context.Background(), c, "tok", "/api/branches/1")
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: got %v want %v", tc.status, err, tc.want)
		}
		srv.Close()
	}
}

func TestValidationErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"branch name already in use"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	_, err := Create[branch](context.Background(), c, "tok", "/api/branches", map[string]string{"name": "West"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "validation failed: branch name already in use" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestHealthOffline(t *testing.T) {
	c := New("http://127.0.0.1:1", 0, nil)
	status, err := Health(context.Background(), c)
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if status.Reachable {
		t.Fatal("expected unreachable backend")
	}
}

func TestHealthOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, nil)
	status, err := Health(context.Background(), c)
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if !status.Reachable || status.Status != "ok" {
		t.Fatalf("unexpected status: %+v", status)
	}
}
