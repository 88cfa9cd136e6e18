package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/blinknode/internal/api/models"
	"github.com/smazurov/blinknode/internal/metrics"
	"github.com/smazurov/blinknode/internal/pattern"
)

func (s *Server) registerStatusRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/status",
		Summary:     "Status",
		Description: "Last channel and pattern state published by the event loop",
		Tags:        []string{"status"},
		Errors:      []int{503},
	}, func(ctx context.Context, _ *struct{}) (*models.StatusResponse, error) {
		state, ok := metrics.Latest()
		if !ok {
			return nil, huma.Error503ServiceUnavailable("No state published yet")
		}
		return &models.StatusResponse{
			Body: statusData(state.Snapshot, state.Cause, state.UpdatedAt),
		}, nil
	})
}

func statusData(snap pattern.Snapshot, cause string, at time.Time) models.StatusData {
	channels := make([]models.ChannelStatus, 0, len(snap.Channels))
	for _, ch := range snap.Channels {
		channels = append(channels, models.ChannelStatus{
			Name:    ch.ID.String(),
			Enabled: ch.Enabled,
			Level:   ch.Level,
			Lit:     ch.Active(),
		})
	}
	return models.StatusData{
		Channels:      channels,
		Mode:          snap.Mode.String(),
		RotationIndex: snap.RotationIndex,
		Ticks:         snap.Ticks,
		Cause:         cause,
		UpdatedAt:     at,
	}
}
