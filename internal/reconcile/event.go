package reconcile

// EventType discriminates incremental change notifications.
type EventType string

const (
	EventAdded   EventType = "ADDED"
	EventChanged EventType = "CHANGED"
	EventRemoved EventType = "REMOVED"
	EventMoved   EventType = "MOVED"
)

// Event is one change notification for an entity in a backend-held collection.
// ID is the authoritative key; Value is only meaningful for ADDED and CHANGED.
// Events are ephemeral: consumed once, never stored.
type Event[T any] struct {
	Type  EventType
	ID    string
	Value T
}
