package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/blinknode/internal/api/models"
)

func (s *Server) registerSystemdRoutes() {
	if s.options.ServiceManager == nil || s.options.ServiceName == "" {
		return
	}

	serviceName := s.options.ServiceName

	huma.Register(s.api, huma.Operation{
		OperationID: "get-service-status",
		Method:      http.MethodGet,
		Path:        "/api/service",
		Summary:     "Service Status",
		Description: "Get the systemd ActiveState of the configured unit",
		Tags:        []string{"systemd"},
		Errors:      []int{500},
	}, func(ctx context.Context, _ *struct{}) (*models.SystemdServiceStatusResponse, error) {
		status, err := s.options.ServiceManager.GetServiceStatus(ctx, serviceName)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to get service status", err)
		}
		return &models.SystemdServiceStatusResponse{
			Body: models.SystemdServiceStatus{
				Service: serviceName,
				Status:  status,
			},
		}, nil
	})
}
