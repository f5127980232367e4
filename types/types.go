// Package types holds the envelope shared by every watch feed.
package types

type EventType string

const (
	EventTypeAdded    EventType = "ADDED"
	EventTypeModified EventType = "MODIFIED"
	EventTypeDeleted  EventType = "DELETED"
	EventTypeBookmark EventType = "BOOKMARK"
	EventTypeError    EventType = "ERROR"
)

// Valid reports whether the event type is one the API server sends.
func (e EventType) Valid() bool {
	switch e {
	case EventTypeAdded, EventTypeModified, EventTypeDeleted, EventTypeBookmark, EventTypeError:
		return true
	default:
		return false
	}
}

// Event represents a single event to a watched resource.
//
// The object is decoded into T, so callers choose between a static type
// (eg a Pod), a dynamic one (eg unstructured.Unstructured or any) or raw
// bytes (json.RawMessage).
type Event[T any] struct {
	Type   EventType `json:"type"`
	Object T         `json:"object"`
}
