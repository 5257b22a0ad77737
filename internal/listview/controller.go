package listview

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
)

const (
	// DefaultPageSize matches the backend's default list size.
	DefaultPageSize = 20
	// DefaultDebounce is the quiet period applied to search keystrokes.
	DefaultDebounce = 300 * time.Millisecond

	defaultFetchTimeout = 15 * time.Second
)

// observeStale counts discarded out-of-order fetch results. Set once at
// startup, before any request is served.
var observeStale = func() {}

// SetStaleObserver installs a metrics hook for discarded fetch results.
func SetStaleObserver(fn func()) {
	if fn != nil {
		observeStale = fn
	}
}

// Options tunes a Controller.
type Options struct {
	PageSize     int
	Debounce     time.Duration
	FetchTimeout time.Duration
	Logger       *slog.Logger
}

// Controller owns the list state for one entity type and one viewer. A new
// fetch invalidates every outstanding one: responses carry the sequence
// number they were issued with and stale settles are discarded, so the most
// recently issued fetch wins regardless of settle order.
type Controller[T Entity] struct {
	mu     sync.Mutex
	source Source[T]
	state  State[T]
	seq    uint64

	debounce     time.Duration
	fetchTimeout time.Duration
	searchTimer  *time.Timer
	logger       *slog.Logger

	pollCancel context.CancelFunc
}

// NewController constructs a Controller over the given source.
func NewController[T Entity](source Source[T], opts Options) *Controller[T] {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fetchTimeout := opts.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &Controller[T]{
		source: source,
		state: State[T]{
			Page:     1,
			PageSize: pageSize,
			Filters:  map[string]string{},
		},
		debounce:     debounce,
		fetchTimeout: fetchTimeout,
		logger:       opts.Logger,
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Update runs fn with exclusive access to the state. It exists for the
// mutation coordinator, which patches and restores list state around a
// single mutation; nothing else mutates the state from outside.
func (c *Controller[T]) Update(fn func(*State[T])) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
}

// Fetch loads the current page with the current parameters. The returned
// error mirrors what went into the state's error message (nil when the
// response was discarded as stale); callers that need to react to specific
// failures, e.g. an expired session, inspect it with errors.Is.
func (c *Controller[T]) Fetch(ctx context.Context) error {
	c.mu.Lock()
	q := c.queryLocked()
	seq := c.beginFetchLocked()
	c.mu.Unlock()
	return c.runFetch(ctx, seq, q)
}

// Retry re-issues the last fetch unchanged.
func (c *Controller[T]) Retry(ctx context.Context) error {
	return c.Fetch(ctx)
}

// SetSearch records the search term and schedules a debounced fetch with the
// page reset to 1. Each keystroke resets the quiet period; only the timer
// that survives it fires. The fetch runs on a detached copy of ctx so it
// survives the originating request while keeping its session values.
func (c *Controller[T]) SetSearch(ctx context.Context, term string) {
	detached := context.WithoutCancel(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SearchTerm = term
	if c.searchTimer != nil {
		c.searchTimer.Stop()
	}
	c.searchTimer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		c.state.Page = 1
		q := c.queryLocked()
		seq := c.beginFetchLocked()
		c.mu.Unlock()

		fetchCtx, cancel := context.WithTimeout(detached, c.fetchTimeout)
		defer cancel()
		_ = c.runFetch(fetchCtx, seq, q)
	})
}

// SetFilter applies a filter and fetches immediately with the page reset to
// 1. An empty value removes the filter.
func (c *Controller[T]) SetFilter(ctx context.Context, key, value string) error {
	c.mu.Lock()
	if value == "" {
		delete(c.state.Filters, key)
	} else {
		c.state.Filters[key] = value
	}
	c.state.Page = 1
	q := c.queryLocked()
	seq := c.beginFetchLocked()
	c.mu.Unlock()
	return c.runFetch(ctx, seq, q)
}

// SetPage moves to the given page without touching other parameters.
func (c *Controller[T]) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.state.Page = page
	q := c.queryLocked()
	seq := c.beginFetchLocked()
	c.mu.Unlock()
	return c.runFetch(ctx, seq, q)
}

// SetPageSize changes the page size and refetches.
func (c *Controller[T]) SetPageSize(ctx context.Context, size int) error {
	if size < 1 {
		size = DefaultPageSize
	}
	c.mu.Lock()
	c.state.PageSize = size
	q := c.queryLocked()
	seq := c.beginFetchLocked()
	c.mu.Unlock()
	return c.runFetch(ctx, seq, q)
}

// Select marks the entity as selected when it is present in the list.
func (c *Controller[T]) Select(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.state.Items {
		if item.EntityID() == id {
			c.state.SelectedID = id
			return true
		}
	}
	return false
}

func (c *Controller[T]) queryLocked() Query {
	return Query{
		Page:     c.state.Page,
		PageSize: c.state.PageSize,
		Search:   c.state.SearchTerm,
		Filters:  maps.Clone(c.state.Filters),
	}
}

func (c *Controller[T]) beginFetchLocked() uint64 {
	c.seq++
	c.state.Loading = true
	c.state.Err = ""
	return c.seq
}

func (c *Controller[T]) runFetch(ctx context.Context, seq uint64, q Query) error {
	res, err := c.source(ctx, q)

	c.mu.Lock()
	if seq != c.seq {
		// A newer fetch was issued while this one was in flight.
		c.mu.Unlock()
		observeStale()
		return nil
	}
	if err != nil {
		// Stale-while-error: keep the previous items visible.
		c.state.Loading = false
		c.state.Err = userMessage(err)
		c.mu.Unlock()
		if c.logger != nil {
			c.logger.Warn("list fetch failed", slog.Any("error", err))
		}
		return err
	}

	c.state.Loading = false
	c.state.Items = res.Items
	c.state.Total = res.Total
	c.state.Page = q.Page
	c.state.PageSize = q.PageSize
	if maxPage := c.state.MaxPage(); c.state.Page > maxPage {
		c.state.Page = maxPage
	}
	c.applySelectionLocked()

	refetch := q.Page > c.state.Page && len(res.Items) == 0 && res.Total > 0
	var nextSeq uint64
	var nextQuery Query
	if refetch {
		// The requested page fell past the end (entities deleted under
		// us); reload the clamped page.
		nextQuery = c.queryLocked()
		nextSeq = c.beginFetchLocked()
	}
	c.mu.Unlock()

	if refetch {
		return c.runFetch(ctx, nextSeq, nextQuery)
	}
	return nil
}

func (c *Controller[T]) applySelectionLocked() {
	if c.state.SelectedID != 0 {
		for _, item := range c.state.Items {
			if item.EntityID() == c.state.SelectedID {
				return
			}
		}
		// The selected entity disappeared (deleted by another actor).
		c.state.SelectedID = 0
		return
	}
	if len(c.state.Items) > 0 {
		c.state.SelectedID = c.state.Items[0].EntityID()
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, httpx.ErrUnavailable):
		return "Cannot reach the server. Check the connection and retry."
	case errors.Is(err, httpx.ErrUnauthorized):
		return "Your session has expired. Sign in again."
	case errors.Is(err, httpx.ErrForbidden):
		return "You do not have permission to view this data."
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out. Retry."
	default:
		return "Could not load the list. Retry."
	}
}
