package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/blinknode/internal/api/models"
	"github.com/smazurov/blinknode/internal/logging"
)

// registerLogRoutes exposes the in-memory log history.
func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Logs",
		Description: "Recent log entries from the in-memory log history, oldest first",
		Tags:        []string{"logs"},
	}, func(_ context.Context, input *models.LogsInput) (*models.LogsResponse, error) {
		var entries []logging.LogEntry
		if history := logging.GetBuffer(); history != nil {
			entries = history.Entries(input.Module, input.Limit)
		}

		out := make([]models.LogEntry, len(entries))
		for i, entry := range entries {
			out[i] = logEntry(entry)
		}

		return &models.LogsResponse{
			Body: models.LogsData{Entries: out, Count: len(out)},
		}, nil
	})
}

func logEntry(e logging.LogEntry) models.LogEntry {
	return models.LogEntry{
		Timestamp:  e.Timestamp,
		Level:      e.Level,
		Module:     e.Module,
		Message:    e.Message,
		Attributes: e.Attributes,
	}
}
