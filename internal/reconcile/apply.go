package reconcile

// Apply folds one change event into the list and returns a fresh slice; the
// input is never mutated or aliased, so earlier snapshots stay valid.
//
// Delivery from the backend is at-least-once and unordered, which dictates the
// fold rules:
//
//   - ADDED for a known id replaces the entry in place (idempotent re-add),
//     otherwise appends.
//   - CHANGED for an unknown id is treated as ADDED rather than dropped, so a
//     CHANGED that overtakes its ADDED still lands.
//   - REMOVED deletes every match; an unknown id is a no-op.
//   - MOVED carries no position semantics here; local ordering is insertion
//     order and stays stable across updates.
func Apply[T any](list []T, ev Event[T], id func(T) string) []T {
	switch ev.Type {
	case EventAdded, EventChanged:
		out := make([]T, len(list), len(list)+1)
		copy(out, list)
		for i := range out {
			if id(out[i]) == ev.ID {
				out[i] = ev.Value
				return out
			}
		}
		return append(out, ev.Value)
	case EventRemoved:
		out := make([]T, 0, len(list))
		for _, entry := range list {
			if id(entry) != ev.ID {
				out = append(out, entry)
			}
		}
		return out
	default:
		out := make([]T, len(list))
		copy(out, list)
		return out
	}
}

// contains reports whether the list already holds an entity with the given id.
func contains[T any](list []T, key string, id func(T) string) bool {
	for _, entry := range list {
		if id(entry) == key {
			return true
		}
	}
	return false
}
