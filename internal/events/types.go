package events

import (
	"time"

	"github.com/smazurov/blinknode/internal/logging"
	"github.com/smazurov/blinknode/internal/pattern"
)

// Event type constants for kelindar/event.
const (
	TypeStateChanged uint32 = iota + 1
	TypeRequestServed
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// Causes of a state change.
const (
	CauseStartup = "startup"
	CauseTick    = "tick"
	CauseToggle  = "toggle"
)

// StateChangedEvent carries the engine state after a tick or a toggle.
type StateChangedEvent struct {
	Snapshot  pattern.Snapshot
	Cause     string
	Timestamp time.Time
}

// Type returns the event type identifier for StateChangedEvent.
func (e StateChangedEvent) Type() uint32 { return TypeStateChanged }

// RequestServedEvent is published once per accepted connection.
type RequestServedEvent struct {
	ConnID   string
	Method   string
	Target   string
	Command  string // empty when the request never reached the router
	Outcome  string
	Duration time.Duration
}

// Type returns the event type identifier for RequestServedEvent.
func (e RequestServedEvent) Type() uint32 { return TypeRequestServed }

// LogEntryEvent carries one log entry as it is written.
type LogEntryEvent struct {
	Entry logging.LogEntry
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
