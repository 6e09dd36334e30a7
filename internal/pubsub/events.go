// Package pubsub provides a generic publish/subscribe event system used for
// view lifecycle notifications and the log feed.
package pubsub

import "time"

// EventType represents the type of event being published.
type EventType string

const (
	// LogEntryEvent carries one formatted log line.
	LogEntryEvent EventType = "log.entry"

	// View lifecycle events published by the session manager.
	ViewOpenedEvent    EventType = "view.opened"
	ViewClosedEvent    EventType = "view.closed"
	DispatchedEvent    EventType = "view.dispatched"
	ListenExpiredEvent EventType = "listen.expired"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}
