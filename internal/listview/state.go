// Package listview implements the paginated, filtered list state machine
// behind every console table view: debounced search, sequence-guarded
// fetches, stale-while-error retention, selection tracking and polling.
package listview

import (
	"context"
	"maps"
)

// Entity is anything listable. Provisional entities created optimistically
// carry negative ids until the server assigns a real one.
type Entity interface {
	EntityID() int64
}

// State is the authoritative view state for one entity list. It is owned
// exclusively by its Controller; the mutation coordinator borrows it through
// Controller.Update for the duration of a single mutation.
type State[T Entity] struct {
	Items      []T
	Page       int
	PageSize   int
	Total      int
	SearchTerm string
	Filters    map[string]string
	Loading    bool
	Err        string
	SelectedID int64
}

// Selected returns the selected entity, if it is present in the list.
func (s *State[T]) Selected() (T, bool) {
	var zero T
	if s.SelectedID == 0 {
		return zero, false
	}
	for _, item := range s.Items {
		if item.EntityID() == s.SelectedID {
			return item, true
		}
	}
	return zero, false
}

// Clone returns a deep copy safe to hold across mutations.
func (s *State[T]) Clone() State[T] {
	out := *s
	out.Items = append([]T(nil), s.Items...)
	out.Filters = maps.Clone(s.Filters)
	return out
}

// MaxPage returns the last valid page for the current totals.
func (s *State[T]) MaxPage() int {
	if s.Total <= 0 || s.PageSize <= 0 {
		return 1
	}
	pages := (s.Total + s.PageSize - 1) / s.PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Query is the parameter set one fetch is issued with.
type Query struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]string
}

// Result is one settled page from the backing source.
type Result[T Entity] struct {
	Items []T
	Total int
}

// Source fetches one page for the controller. Implementations wrap the
// upstream API client.
type Source[T Entity] func(ctx context.Context, q Query) (Result[T], error)
