// Package console holds the JSON view envelopes and request helpers shared
// by the per-entity console packages.
package console

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/meridian-pos/meridian-console/internal/listview"
	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
	"github.com/meridian-pos/meridian-console/internal/session"
)

// ListView is the JSON envelope for one entity list state.
type ListView[T any] struct {
	Items      []T               `json:"items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
	SearchTerm string            `json:"search_term,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
	SelectedID int64             `json:"selected_id,omitempty"`
}

// NewListView projects controller state into the response envelope.
func NewListView[T listview.Entity](st listview.State[T]) ListView[T] {
	items := st.Items
	if items == nil {
		items = []T{}
	}
	return ListView[T]{
		Items:      items,
		Page:       st.Page,
		PageSize:   st.PageSize,
		Total:      st.Total,
		TotalPages: st.MaxPage(),
		SearchTerm: st.SearchTerm,
		Filters:    st.Filters,
		Loading:    st.Loading,
		Error:      st.Err,
		SelectedID: st.SelectedID,
	}
}

// WriteListView responds with the controller's current state.
func WriteListView[T listview.Entity](w http.ResponseWriter, status int, ctl *listview.Controller[T]) {
	httpx.JSON(w, status, NewListView(ctl.Snapshot()))
}

// QueryInt parses an integer query parameter, falling back on absence or
// garbage.
func QueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// PathID parses a positive int64 id from a URL parameter value.
func PathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// ExpireOnAuthFailure destroys the session when the upstream rejected its
// token; the next request starts unauthenticated instead of retrying.
func ExpireOnAuthFailure(r *http.Request, err error) {
	if err == nil || !errors.Is(err, httpx.ErrUnauthorized) {
		return
	}
	if sess := session.FromContext(r.Context()); sess != nil {
		sess.Destroy()
	}
}
