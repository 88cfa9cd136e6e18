package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/blinknode/internal/api/models"
	"github.com/smazurov/blinknode/internal/events"
	"github.com/smazurov/blinknode/internal/logging"
)

// registerSSERoutes registers the live event stream.
func (s *Server) registerSSERoutes() {
	if s.eventBus == nil {
		s.logger.Debug("No event bus, skipping event stream route")
		return
	}

	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of state changes, served requests and log entries",
		Tags:        []string{"events"},
	}, map[string]any{
		"state-changed":  models.StateChangedEvent{},
		"request-served": models.RequestServedEvent{},
		"log":            models.LogEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		stateCh := make(chan events.StateChangedEvent, 10)
		requestCh := make(chan events.RequestServedEvent, 10)
		logCh := make(chan events.LogEntryEvent, 100)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.StateChangedEvent](s.eventBus, stateCh),
			events.SubscribeToChannel[events.RequestServedEvent](s.eventBus, requestCh),
			events.SubscribeToChannel[events.LogEntryEvent](s.eventBus, logCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		for {
			var msg any
			select {
			case <-ctx.Done():
				return
			case ev := <-stateCh:
				msg = models.StateChangedEvent{
					StatusData: statusData(ev.Snapshot, ev.Cause, ev.Timestamp),
				}
			case ev := <-requestCh:
				msg = requestServed(ev)
			case ev := <-logCh:
				msg = models.LogEvent{
					LogEntry: logEntry(ev.Entry),
					Line:     logging.FormatLogLine(ev.Entry),
				}
			}
			if err := send.Data(msg); err != nil {
				return
			}
		}
	})
}

func requestServed(ev events.RequestServedEvent) models.RequestServedEvent {
	return models.RequestServedEvent{
		ConnID:     ev.ConnID,
		Method:     ev.Method,
		Target:     ev.Target,
		Command:    ev.Command,
		Outcome:    ev.Outcome,
		DurationMs: float64(ev.Duration.Microseconds()) / 1000,
	}
}
