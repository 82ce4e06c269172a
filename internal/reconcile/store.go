package reconcile

import (
	"context"
	"log/slog"
	"sync"
)

// Store owns the reconciled local list of one collection. All mutation flows
// through Apply, serialized by a single lock, so concurrent invocations on the
// same collection cannot interleave. Readers receive immutable snapshots.
type Store[T any] struct {
	name   string
	id     func(T) string
	logger *slog.Logger

	mu      sync.Mutex
	list    []T
	subs    map[int]chan []T
	nextSub int
}

// NewStore creates an empty store for the named collection. The id function
// extracts the reconciliation key from an entity.
func NewStore[T any](name string, id func(T) string, logger *slog.Logger) *Store[T] {
	return &Store[T]{
		name:   name,
		id:     id,
		logger: logger,
		subs:   make(map[int]chan []T),
	}
}

// Apply folds one event into the collection and publishes the new snapshot to
// all observers. Anomalies (CHANGED or REMOVED for an unknown id) are absorbed
// per the fold rules and logged, never raised.
func (s *Store[T]) Apply(ev Event[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if (ev.Type == EventChanged || ev.Type == EventRemoved) && !contains(s.list, ev.ID, s.id) {
		s.logger.Warn("reconciliation anomaly",
			slog.String("collection", s.name),
			slog.String("event", string(ev.Type)),
			slog.String("id", ev.ID),
		)
	}

	s.list = Apply(s.list, ev, s.id)
	for _, ch := range s.subs {
		publish(ch, s.list)
	}
}

// Replace swaps the whole collection for a full snapshot read, bypassing the
// event fold. Used when a point-read seeds the store before the stream starts.
func (s *Store[T]) Replace(list []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.list = make([]T, len(list))
	copy(s.list, list)
	for _, ch := range s.subs {
		publish(ch, s.list)
	}
}

// Snapshot returns a copy of the current list.
func (s *Store[T]) Snapshot() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, len(s.list))
	copy(out, s.list)
	return out
}

// Observe returns a channel that delivers the current snapshot first and then
// the latest snapshot after each applied event. Slow consumers only skip
// intermediate states, never the final one. Cancelling ctx deterministically
// unregisters the observer and closes the channel; nothing is delivered after
// cancellation.
func (s *Store[T]) Observe(ctx context.Context) <-chan []T {
	ch := make(chan []T, 1)

	s.mu.Lock()
	sub := s.nextSub
	s.nextSub++
	s.subs[sub] = ch
	initial := make([]T, len(s.list))
	copy(initial, s.list)
	ch <- initial
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, sub)
		s.mu.Unlock()
		// Discard an in-flight snapshot so the closed channel yields nothing.
		select {
		case <-ch:
		default:
		}
		close(ch)
	}()

	return ch
}

// publish pushes the snapshot with latest-wins semantics: a stale undelivered
// snapshot is dropped in favour of the new one.
func publish[T any](ch chan []T, snapshot []T) {
	select {
	case ch <- snapshot:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}
