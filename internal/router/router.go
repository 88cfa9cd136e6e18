// Package router maps request targets to engine commands and writes the
// response: the status page or a static asset.
package router

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/smazurov/blinknode/internal/assets"
	"github.com/smazurov/blinknode/internal/led"
	"github.com/smazurov/blinknode/internal/page"
	"github.com/smazurov/blinknode/internal/pattern"
	"github.com/smazurov/blinknode/internal/wire"
)

// Outcome classifies how a request ended.
type Outcome string

const (
	OutcomePage              Outcome = "page"
	OutcomeAsset             Outcome = "asset"
	OutcomeAssetError        Outcome = "asset_error"
	OutcomeClientError       Outcome = "client_error"
	OutcomeMalformed         Outcome = "malformed"
	OutcomeUnsupportedMethod Outcome = "unsupported_method"
)

// Engine is the part of the pattern engine the router drives.
type Engine interface {
	ToggleEnabled(id led.ID) error
	ToggleBlink() error
	ToggleRotate() error
	Snapshot() pattern.Snapshot
}

// Result describes a served request.
type Result struct {
	Command Command
	Outcome Outcome
	Bytes   int64 // body bytes of an asset response
}

// Router is not safe for concurrent use; the event loop owns it.
type Router struct {
	engine   Engine
	renderer *page.Renderer
	assets   fs.FS
	logger   *slog.Logger
}

// New creates a Router.
func New(engine Engine, renderer *page.Renderer, assets fs.FS, logger *slog.Logger) *Router {
	return &Router{
		engine:   engine,
		renderer: renderer,
		assets:   assets,
		logger:   logger,
	}
}

// SetRenderer swaps the page template.
func (rt *Router) SetRenderer(r *page.Renderer) {
	rt.renderer = r
}

// Drain consumes the remaining request headers.
func Drain(r *bufio.Reader) error {
	_, err := wire.DrainHeaders(r)
	return err
}

// Serve handles a GET for target. r is positioned after the start line.
// Client I/O failures are logged and reported in the Result; the returned
// error is reserved for engine faults.
func (rt *Router) Serve(target string, r *bufio.Reader, w io.Writer) (Result, error) {
	if err := Drain(r); err != nil {
		rt.logger.Debug("Header read ended early", "target", target, "error", err)
	}

	cmd := Parse(target)
	res := Result{Command: cmd}

	if err := rt.apply(cmd); err != nil {
		return res, fmt.Errorf("%s: %w", cmd.Label(), err)
	}

	if cmd.Kind == Asset {
		n, err := assets.Stream(w, rt.assets, cmd.Path)
		res.Bytes = n
		if err != nil {
			rt.logger.Warn("Failed to serve asset", "path", cmd.Path, "error", err)
			res.Outcome = OutcomeAssetError
			return res, nil
		}
		res.Outcome = OutcomeAsset
		return res, nil
	}

	if err := rt.renderer.Render(w, rt.engine.Snapshot()); err != nil {
		rt.logger.Warn("Failed to write page", "target", target, "error", err)
		res.Outcome = OutcomeClientError
		return res, nil
	}
	res.Outcome = OutcomePage
	return res, nil
}

func (rt *Router) apply(cmd Command) error {
	switch cmd.Kind {
	case ToggleChannel:
		return rt.engine.ToggleEnabled(cmd.Channel)
	case ToggleBlink:
		return rt.engine.ToggleBlink()
	case ToggleRotate:
		return rt.engine.ToggleRotate()
	default:
		return nil
	}
}
