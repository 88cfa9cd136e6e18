package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// The admin API is read-only, so any origin may read it and only GET and
// preflight are advertised. Last-Event-ID lets EventSource reconnect.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, OPTIONS",
	"Access-Control-Allow-Headers": "Accept, Cache-Control, Content-Type, Last-Event-ID, Origin",
	"Access-Control-Max-Age":       "86400",
}

// corsMiddleware adds the CORS headers to every huma response.
func corsMiddleware(ctx huma.Context, next func(huma.Context)) {
	for k, v := range corsHeaders {
		ctx.SetHeader(k, v)
	}
	next(ctx)
}

// handlePreflight answers OPTIONS on any path. huma routes by method, so
// a preflight never reaches its middleware chain.
func handlePreflight(w http.ResponseWriter, _ *http.Request) {
	for k, v := range corsHeaders {
		w.Header().Set(k, v)
	}
	w.WriteHeader(http.StatusNoContent)
}
