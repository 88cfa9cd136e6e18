package metrics

import (
	"github.com/smazurov/blinknode/internal/events"
)

// Recorder feeds bus events into the metrics.
type Recorder struct {
	unsubs []func()
}

// NewRecorder subscribes to state and request events on bus.
func NewRecorder(bus *events.Bus) *Recorder {
	r := &Recorder{}
	r.unsubs = append(r.unsubs,
		bus.Subscribe(func(e events.StateChangedEvent) {
			RecordSnapshot(e.Snapshot, e.Cause, e.Timestamp)
		}),
		bus.Subscribe(func(e events.RequestServedEvent) {
			RecordRequest(e.Command, e.Outcome, e.Duration)
		}),
	)
	return r
}

// Stop unsubscribes from the bus.
func (r *Recorder) Stop() {
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
}
