package listview

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
)

type item struct {
	ID   int64
	Name string
}

func (i item) EntityID() int64 { return i.ID }

func fixedSource(items []item, total int) Source[item] {
	return func(ctx context.Context, q Query) (Result[item], error) {
		return Result[item]{Items: items, Total: total}, nil
	}
}

func TestFetchPopulatesStateAndSelectsFirst(t *testing.T) {
	c := NewController(fixedSource([]item{{ID: 1, Name: "Main"}, {ID: 2, Name: "West"}}, 2), Options{})
	c.Fetch(context.Background())

	st := c.Snapshot()
	if st.Loading {
		t.Fatal("loading must clear after settle")
	}
	if len(st.Items) != 2 || st.Total != 2 {
		t.Fatalf("unexpected state: %+v", st)
	}
	if st.SelectedID != 1 {
		t.Fatalf("first item must be auto-selected, got %d", st.SelectedID)
	}
}

func TestFetchFailureKeepsStaleItems(t *testing.T) {
	var fail atomic.Bool
	source := func(ctx context.Context, q Query) (Result[item], error) {
		if fail.Load() {
			return Result[item]{}, fmt.Errorf("%w: connection refused", httpx.ErrUnavailable)
		}
		return Result[item]{Items: []item{{ID: 1, Name: "Main"}}, Total: 1}, nil
	}
	c := NewController(source, Options{})
	c.Fetch(context.Background())

	fail.Store(true)
	c.Retry(context.Background())

	st := c.Snapshot()
	if len(st.Items) != 1 {
		t.Fatalf("stale items must survive a failed refresh, got %d", len(st.Items))
	}
	if st.Err == "" || st.Loading {
		t.Fatalf("error state not surfaced: %+v", st)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int64
	source := func(ctx context.Context, q Query) (Result[item], error) {
		if calls.Add(1) == 1 {
			<-release
			return Result[item]{Items: []item{{ID: 99, Name: "stale"}}, Total: 1}, nil
		}
		return Result[item]{Items: []item{{ID: 2, Name: "fresh"}}, Total: 1}, nil
	}
	c := NewController(source, Options{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Fetch(context.Background())
	}()
	for calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	c.SetPage(context.Background(), 1)
	close(release)
	wg.Wait()

	st := c.Snapshot()
	if len(st.Items) != 1 || st.Items[0].ID != 2 {
		t.Fatalf("slow stale response must not overwrite the newer one: %+v", st.Items)
	}
}

func TestDebouncedSearchFiresOnce(t *testing.T) {
	var calls atomic.Int64
	var lastSearch atomic.Value
	source := func(ctx context.Context, q Query) (Result[item], error) {
		calls.Add(1)
		lastSearch.Store(q.Search)
		if q.Page != 1 {
			t.Errorf("search must reset page to 1, got %d", q.Page)
		}
		return Result[item]{}, nil
	}
	c := NewController(source, Options{Debounce: 30 * time.Millisecond})

	for _, term := range []string{"w", "we", "wes", "west"} {
		c.SetSearch(context.Background(), term)
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly 1 debounced fetch, got %d", got)
	}
	if got := lastSearch.Load(); got != "west" {
		t.Fatalf("fetch must carry the final term, got %v", got)
	}
}

func TestPageClampedAndReloaded(t *testing.T) {
	var pages []int
	var mu sync.Mutex
	source := func(ctx context.Context, q Query) (Result[item], error) {
		mu.Lock()
		pages = append(pages, q.Page)
		mu.Unlock()
		if q.Page > 1 {
			return Result[item]{Items: nil, Total: 10}, nil
		}
		return Result[item]{Items: []item{{ID: 1}}, Total: 10}, nil
	}
	c := NewController(source, Options{PageSize: 20})
	c.SetPage(context.Background(), 5)

	st := c.Snapshot()
	if st.Page != 1 {
		t.Fatalf("page must clamp to [1, maxPage], got %d", st.Page)
	}
	if len(st.Items) != 1 {
		t.Fatalf("clamped page must be reloaded, got %d items", len(st.Items))
	}
	mu.Lock()
	defer mu.Unlock()
	if len(pages) != 2 || pages[1] != 1 {
		t.Fatalf("expected reload at clamped page, fetched pages %v", pages)
	}
}

func TestSelectionPreservedAndCleared(t *testing.T) {
	items := []item{{ID: 1}, {ID: 2}, {ID: 3}}
	var current []item
	source := func(ctx context.Context, q Query) (Result[item], error) {
		return Result[item]{Items: current, Total: len(current)}, nil
	}
	c := NewController(source, Options{})

	current = items
	c.Fetch(context.Background())
	if !c.Select(2) {
		t.Fatal("selecting a listed entity must succeed")
	}

	c.Fetch(context.Background())
	if st := c.Snapshot(); st.SelectedID != 2 {
		t.Fatalf("selection must survive a refetch, got %d", st.SelectedID)
	}

	current = []item{{ID: 1}, {ID: 3}}
	c.Fetch(context.Background())
	if st := c.Snapshot(); st.SelectedID != 0 {
		t.Fatalf("selection must clear when the entity disappears, got %d", st.SelectedID)
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	var lastQuery Query
	var mu sync.Mutex
	source := func(ctx context.Context, q Query) (Result[item], error) {
		mu.Lock()
		lastQuery = q
		mu.Unlock()
		return Result[item]{Total: 100}, nil
	}
	c := NewController(source, Options{})
	c.SetPage(context.Background(), 3)
	c.SetFilter(context.Background(), "status", "ACTIVE")

	mu.Lock()
	defer mu.Unlock()
	if lastQuery.Page != 1 {
		t.Fatalf("filter change must reset to page 1, got %d", lastQuery.Page)
	}
	if lastQuery.Filters["status"] != "ACTIVE" {
		t.Fatalf("filter missing from query: %v", lastQuery.Filters)
	}
}

func TestPollingStopsAndNeverOverlaps(t *testing.T) {
	var inFlight, maxInFlight, calls atomic.Int64
	source := func(ctx context.Context, q Query) (Result[item], error) {
		calls.Add(1)
		cur := inFlight.Add(1)
		if cur > maxInFlight.Load() {
			maxInFlight.Store(cur)
		}
		time.Sleep(25 * time.Millisecond)
		inFlight.Add(-1)
		return Result[item]{}, nil
	}
	c := NewController(source, Options{})

	stop := c.StartPolling(context.Background(), 10*time.Millisecond)
	time.Sleep(120 * time.Millisecond)
	stop()

	settled := calls.Load()
	if settled == 0 {
		t.Fatal("polling never fetched")
	}
	if maxInFlight.Load() > 1 {
		t.Fatalf("poll ticks overlapped: max in flight %d", maxInFlight.Load())
	}

	time.Sleep(80 * time.Millisecond)
	if calls.Load() > settled+1 {
		t.Fatalf("fetches continued after stop: %d -> %d", settled, calls.Load())
	}
}

func TestSessionExpiredMessage(t *testing.T) {
	source := func(ctx context.Context, q Query) (Result[item], error) {
		return Result[item]{}, fmt.Errorf("%w: token expired", httpx.ErrUnauthorized)
	}
	c := NewController(source, Options{})
	c.Fetch(context.Background())
	st := c.Snapshot()
	if st.Err != "Your session has expired. Sign in again." {
		t.Fatalf("unexpected message: %q", st.Err)
	}
}
