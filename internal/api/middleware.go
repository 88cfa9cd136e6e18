package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

const (
	healthPath = "/api/health"
	eventsPath = "/api/events"
)

// logRequests logs one line per admin request once the handler returns.
// For the event stream that is when the client goes away.
func (s *Server) logRequests(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	next(ctx)

	u := ctx.URL()
	status := ctx.Status()
	attrs := []slog.Attr{
		slog.String("method", ctx.Method()),
		slog.String("path", u.Path),
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)),
		slog.String("remote_addr", ctx.RemoteAddr()),
	}
	if u.RawQuery != "" {
		attrs = append(attrs, slog.String("query", u.RawQuery))
	}

	msg := "Admin request served"
	if u.Path == eventsPath {
		msg = "Event stream closed"
	}
	s.logger.LogAttrs(ctx.Context(), requestLevel(u.Path, status), msg, attrs...)
}

// requestLevel keeps health checks out of the default log, and raises
// client errors to warn and server errors to error.
func requestLevel(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case path == healthPath:
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
