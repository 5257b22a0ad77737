// Package mutation coordinates optimistic mutations against list state:
// snapshot of the mutated row, synchronous optimistic apply, server
// confirmation merge, row-scoped rollback on failure. Mutations against the
// same entity are serialized through a per-key lock; mutations against
// different entities of the same list run concurrently, and a rollback
// restores only its own row so it cannot clobber a neighbour's outcome.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/meridian-pos/meridian-console/internal/listview"
	"github.com/meridian-pos/meridian-console/internal/platform/httpx"
)

// Kind names the mutation flavors.
type Kind string

const (
	KindCreate Kind = "create"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
	KindAdjust Kind = "adjust"
)

// Notifier surfaces mutation outcomes to the user.
type Notifier interface {
	Notify(kind, message string)
}

// Invalidator marks derived aggregates stale for refetch on settle. They are
// never patched optimistically because their derivation is not safely
// invertible on rollback.
type Invalidator interface {
	MarkStale(ctx context.Context, keys ...string)
}

// observe receives settled mutation outcomes. Set once at startup, before
// any request is served.
var observe = func(scope, outcome string) {}

// SetObserver installs a metrics hook for settled mutations.
func SetObserver(fn func(scope, outcome string)) {
	if fn != nil {
		observe = fn
	}
}

// provisionalSeq assigns locally unique negative ids to provisional
// entities; a negative id never collides with a server-assigned one.
var provisionalSeq atomic.Int64

// NextProvisionalID returns a fresh negative sentinel id.
func NextProvisionalID() int64 {
	return -provisionalSeq.Add(1)
}

// Coordinator is shared per entity console. It owns no list state; it
// borrows the controller's state for the duration of one mutation.
type Coordinator struct {
	scope       string
	locks       *keyLocks
	invalidator Invalidator
	logger      *slog.Logger
}

// NewCoordinator constructs a Coordinator. scope namespaces the per-entity
// locks (e.g. "branches").
func NewCoordinator(scope string, invalidator Invalidator, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		scope:       scope,
		locks:       newKeyLocks(),
		invalidator: invalidator,
		logger:      logger,
	}
}

// Mutation describes one optimistic operation.
type Mutation[T listview.Entity] struct {
	Kind Kind
	// TargetID identifies the mutated entity for update/delete/adjust.
	TargetID int64
	// Apply patches the state optimistically. For creates, provisionalID
	// carries the sentinel id the inserted entity must use.
	Apply func(st *listview.State[T], provisionalID int64)
	// Request performs the server call and returns the confirmed entity.
	// The returned entity is ignored for deletes.
	Request func(ctx context.Context) (T, error)
	// OnRollback runs after the snapshot is restored on failure.
	OnRollback func()
	// SuccessMessage is surfaced on confirmation when non-empty.
	SuccessMessage string
	// Invalidates lists aggregate cache keys to mark stale on settle.
	Invalidates []string
}

// Perform runs the mutation lifecycle: idle -> optimistic-applied ->
// confirmed | rolled-back. There is no automatic retry; the caller resubmits.
func Perform[T listview.Entity](ctx context.Context, co *Coordinator, ctl *listview.Controller[T], notifier Notifier, m Mutation[T]) (T, error) {
	var zero T
	if m.Apply == nil || m.Request == nil {
		return zero, errors.New("mutation: apply and request are required")
	}

	provisionalID := int64(0)
	targetID := m.TargetID
	if m.Kind == KindCreate {
		provisionalID = NextProvisionalID()
		targetID = provisionalID
	}
	release := co.locks.acquire(fmt.Sprintf("%s:%d", co.scope, targetID))
	defer release()

	mutationID := uuid.NewString()

	// Snapshot only the mutated row. A whole-list snapshot would let this
	// mutation's rollback erase what a concurrent mutation on another
	// entity has since confirmed.
	var snap rowSnapshot[T]
	ctl.Update(func(st *listview.State[T]) {
		snap = captureRow(st, targetID)
		m.Apply(st, provisionalID)
		snap.totalDelta = st.Total - snap.total
		snap.selAfter = st.SelectedID
	})

	result, err := m.Request(ctx)
	defer co.markStale(ctx, m.Invalidates)

	if err != nil {
		ctl.Update(func(st *listview.State[T]) {
			restoreRow(st, targetID, snap)
		})
		if m.OnRollback != nil {
			m.OnRollback()
		}
		if notifier != nil {
			notifier.Notify("error", failureMessage(err))
		}
		observe(co.scope, "rolled_back")
		if co.logger != nil {
			co.logger.Warn("mutation rolled back",
				slog.String("mutation", mutationID),
				slog.String("scope", co.scope),
				slog.String("kind", string(m.Kind)),
				slog.Any("error", err))
		}
		return zero, err
	}

	ctl.Update(func(st *listview.State[T]) {
		mergeConfirmed(st, m.Kind, provisionalID, m.TargetID, result)
	})
	observe(co.scope, "confirmed")
	if notifier != nil && m.SuccessMessage != "" {
		notifier.Notify("success", m.SuccessMessage)
	}
	if co.logger != nil {
		co.logger.Info("mutation confirmed",
			slog.String("mutation", mutationID),
			slog.String("scope", co.scope),
			slog.String("kind", string(m.Kind)))
	}
	return result, nil
}

// rowSnapshot is the rollback baseline for one mutation: the mutated row
// (if it existed), its position, and the deltas the apply made to the
// counters it owns.
type rowSnapshot[T listview.Entity] struct {
	row        T
	index      int
	present    bool
	total      int
	totalDelta int
	selBefore  int64
	selAfter   int64
}

func captureRow[T listview.Entity](st *listview.State[T], id int64) rowSnapshot[T] {
	snap := rowSnapshot[T]{index: -1, total: st.Total, selBefore: st.SelectedID}
	for i, entity := range st.Items {
		if entity.EntityID() == id {
			snap.row = entity
			snap.index = i
			snap.present = true
			break
		}
	}
	return snap
}

// restoreRow undoes the optimistic apply for the mutated row only. Rows
// settled by other mutations in the meantime are left alone, and the
// selection is put back only if this mutation was the one that moved it.
func restoreRow[T listview.Entity](st *listview.State[T], id int64, snap rowSnapshot[T]) {
	idx := -1
	for i, entity := range st.Items {
		if entity.EntityID() == id {
			idx = i
			break
		}
	}
	switch {
	case snap.present && idx >= 0:
		st.Items[idx] = snap.row
	case snap.present && idx < 0:
		at := min(snap.index, len(st.Items))
		st.Items = append(st.Items[:at], append([]T{snap.row}, st.Items[at:]...)...)
	case !snap.present && idx >= 0:
		st.Items = append(st.Items[:idx], st.Items[idx+1:]...)
	}
	st.Total -= snap.totalDelta
	if snap.selAfter != snap.selBefore && st.SelectedID == snap.selAfter {
		st.SelectedID = snap.selBefore
	}
}

// mergeConfirmed replaces the provisional/patched entity with the server
// truth and keeps selection pointing at it.
func mergeConfirmed[T listview.Entity](st *listview.State[T], kind Kind, provisionalID, targetID int64, confirmed T) {
	switch kind {
	case KindDelete:
		return
	case KindCreate:
		targetID = provisionalID
	}
	for i, entity := range st.Items {
		if entity.EntityID() == targetID {
			st.Items[i] = confirmed
			break
		}
	}
	if st.SelectedID == targetID {
		st.SelectedID = confirmed.EntityID()
	}
}

func (co *Coordinator) markStale(ctx context.Context, keys []string) {
	if co.invalidator == nil || len(keys) == 0 {
		return
	}
	co.invalidator.MarkStale(ctx, keys...)
}

// failureMessage surfaces the server-provided message when available and a
// generic fallback otherwise.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, httpx.ErrUnavailable):
		return "The change was not saved: cannot reach the server."
	case errors.Is(err, httpx.ErrUnauthorized):
		return "Your session has expired. Sign in again."
	case err != nil && err.Error() != "":
		return err.Error()
	default:
		return "The change could not be saved."
	}
}
