package listview

import "sync"

// Set keeps one Controller per viewer (session). Controllers are created
// lazily on first use and dropped on logout.
type Set[T Entity] struct {
	mu      sync.Mutex
	factory func() *Controller[T]
	views   map[string]*Controller[T]
}

// NewSet constructs a Set with the given controller factory.
func NewSet[T Entity](factory func() *Controller[T]) *Set[T] {
	return &Set[T]{factory: factory, views: map[string]*Controller[T]{}}
}

// For returns the viewer's controller, creating it if needed.
func (s *Set[T]) For(viewerID string) *Controller[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.views[viewerID]; ok {
		return c
	}
	c := s.factory()
	s.views[viewerID] = c
	return c
}

// Drop tears down the viewer's controller; any active poll loop is stopped
// so no state updates resolve against a dead view.
func (s *Set[T]) Drop(viewerID string) {
	s.mu.Lock()
	c, ok := s.views[viewerID]
	delete(s.views, viewerID)
	s.mu.Unlock()
	if ok {
		c.StopPolling()
	}
}
