package listview

import (
	"context"
	"time"
)

// StartPolling refetches at a fixed interval until the returned stop
// function is called or ctx is cancelled. The loop issues ticks
// sequentially and the ticker drops ticks that elapse while a request is
// outstanding, so poll requests never overlap. Starting a new poll stops
// the previous one.
func (c *Controller[T]) StartPolling(ctx context.Context, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	c.mu.Lock()
	if c.pollCancel != nil {
		c.pollCancel()
	}
	pollCtx, cancel := context.WithCancel(ctx)
	c.pollCancel = cancel
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				c.mu.Lock()
				q := c.queryLocked()
				seq := c.beginFetchLocked()
				c.mu.Unlock()

				fetchCtx, cancelFetch := context.WithTimeout(pollCtx, c.fetchTimeout)
				c.runFetch(fetchCtx, seq, q)
				cancelFetch()
			}
		}
	}()
	return cancel
}

// StopPolling cancels the active poll loop, if any.
func (c *Controller[T]) StopPolling() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
}
