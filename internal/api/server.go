// Package api serves the read-only admin API: health, version, the last
// engine state, buffered logs, a live event stream and Prometheus
// metrics. It never touches the engine; everything it reports comes from
// the event bus or caches fed by it.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/blinknode/internal/api/models"
	"github.com/smazurov/blinknode/internal/events"
	"github.com/smazurov/blinknode/internal/logging"
	"github.com/smazurov/blinknode/internal/version"
)

// ServiceStatusGetter reports the ActiveState of a systemd unit.
type ServiceStatusGetter interface {
	GetServiceStatus(ctx context.Context, unit string) (string, error)
}

// Options configures the admin server.
type Options struct {
	EventBus          *events.Bus         // source for /api/events; nil disables the stream
	PrometheusHandler http.Handler        // optional, mounted at /metrics
	ServiceManager    ServiceStatusGetter // optional, enables /api/service
	ServiceName       string              // unit queried by /api/service
}

// Server is the huma admin API server.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	options    *Options
	eventBus   *events.Bus
	logger     *slog.Logger
}

// NewServer builds the admin API. A nil opts serves health, version,
// status and logs only.
func NewServer(opts *Options) *Server {
	if opts == nil {
		opts = &Options{}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("OPTIONS /", handlePreflight)
	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	config := huma.DefaultConfig("blinknode admin API", "1.0.0")
	config.Info.Description = "Read-only status, logs and events of the LED control surface"
	config.Servers = []*huma.Server{} // relative URLs in the OpenAPI document

	s := &Server{
		api:      humago.New(mux, config),
		mux:      mux,
		options:  opts,
		eventBus: opts.EventBus,
		logger:   logging.GetLogger("api"),
		httpServer: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	s.api.UseMiddleware(corsMiddleware, s.logRequests)

	s.registerSystemRoutes()
	s.registerStatusRoutes()
	s.registerLogRoutes()
	s.registerSSERoutes()
	s.registerSystemdRoutes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// GetAPI returns the Huma API instance
func (s *Server) GetAPI() huma.API {
	return s.api
}

// Start serves on addr until Stop is called. It returns nil after Stop.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	addr := ln.Addr().String()
	s.logger.Info("Admin API listening", "addr", addr, "docs", "http://"+addr+"/docs")

	if err := s.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes the server and every open connection, SSE streams included.
func (s *Server) Stop() error {
	s.logger.Info("Stopping admin API server")
	return s.httpServer.Close()
}

// registerSystemRoutes registers health and build information.
func (s *Server) registerSystemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        healthPath,
		Summary:     "Health",
		Tags:        []string{"system"},
	}, func(context.Context, *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{Status: "ok", Message: "API is healthy"},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Build information of the running binary",
		Tags:        []string{"system"},
	}, func(context.Context, *struct{}) (*models.VersionResponse, error) {
		return &models.VersionResponse{Body: models.VersionData(version.Get())}, nil
	})
}
