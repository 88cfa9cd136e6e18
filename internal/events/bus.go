package events

import (
	"github.com/kelindar/event"

	"github.com/smazurov/blinknode/internal/logging"
)

// Bus wraps kelindar/event dispatcher for event broadcasting.
// Handlers run on dispatcher goroutines, never on the publisher's.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers
// Usage: bus.Publish(StateChangedEvent{...})
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case StateChangedEvent:
		event.Publish(b.dispatcher, e)
	case RequestServedEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function.
// The handler type determines which events it receives.
// Returns an unsubscribe function; unknown handler types get a no-op.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(StateChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(RequestServedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}

// SubscribeToChannel bridges a callback subscription to a channel.
// Events are dropped while ch is full.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- T) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}


// PublishLogs forwards every log entry to the bus until the returned
// function is called. Subscribers of LogEntryEvent must not log.
func (b *Bus) PublishLogs() func() {
	logging.SetLogCallback(func(entry logging.LogEntry) {
		b.Publish(LogEntryEvent{Entry: entry})
	})
	return func() { logging.SetLogCallback(nil) }
}
