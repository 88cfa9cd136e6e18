// Package server runs the control surface event loop.
//
// One goroutine owns the pattern engine and the router. It waits for an
// accepted connection, a tick timeout, a template reload or shutdown, and
// handles exactly one of them at a time. A connection that is being served
// delays the next tick.
//
// The listen backlog is one, but the accept goroutine holds one more
// accepted connection while it waits for the loop, so up to two clients
// can be pending behind the one being served.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/smazurov/blinknode/internal/events"
	"github.com/smazurov/blinknode/internal/page"
	"github.com/smazurov/blinknode/internal/pattern"
	"github.com/smazurov/blinknode/internal/router"
	"github.com/smazurov/blinknode/internal/wire"
)

// Defaults for Options.
const (
	DefaultAddr         = ":80"
	DefaultTickInterval = 500 * time.Millisecond
	DefaultReadTimeout  = 10 * time.Second
	listenBacklog       = 1
)

// Options configures the event loop.
type Options struct {
	Addr         string
	TickInterval time.Duration
	ReadTimeout  time.Duration // 0 waits on a client forever
}

// Server is the event loop. Create it with New and start it with Run.
type Server struct {
	opts   Options
	engine *pattern.Engine
	router *router.Router
	bus    *events.Bus
	logger *slog.Logger

	reload chan *page.Renderer
	ready  chan struct{}
	addr   net.Addr
}

// New creates a Server. bus may be nil.
func New(opts Options, engine *pattern.Engine, rt *router.Router, bus *events.Bus, logger *slog.Logger) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	return &Server{
		opts:   opts,
		engine: engine,
		router: rt,
		bus:    bus,
		logger: logger,
		reload: make(chan *page.Renderer, 1),
		ready:  make(chan struct{}),
	}
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address. It is nil until Ready is closed.
func (s *Server) Addr() net.Addr {
	select {
	case <-s.ready:
		return s.addr
	default:
		return nil
	}
}

// Reload hands a new page renderer to the loop. Only the latest pending
// renderer is kept.
func (s *Server) Reload(r *page.Renderer) {
	for {
		select {
		case s.reload <- r:
			return
		default:
		}
		select {
		case <-s.reload:
		default:
		}
	}
}

// Run binds the listener and loops until ctx is cancelled or a channel
// driver fault occurs.
func (s *Server) Run(ctx context.Context) error {
	ln, err := listen(s.opts.Addr, listenBacklog)
	if err != nil {
		return err
	}
	defer ln.Close()

	s.addr = ln.Addr()
	close(s.ready)
	s.logger.Info("Control surface listening", "addr", s.addr.String(), "tick_interval", s.opts.TickInterval)

	stop := make(chan struct{})
	defer close(stop)

	conns := make(chan net.Conn)
	acceptErr := make(chan error, 1)
	go s.acceptLoop(ln, conns, acceptErr, stop)

	s.publishState(events.CauseStartup)

	timer := time.NewTimer(s.opts.TickInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Control surface stopping")
			return nil

		case r := <-s.reload:
			s.router.SetRenderer(r)
			s.logger.Info("Page template reloaded", "template", r.Name())

		case err := <-acceptErr:
			return fmt.Errorf("accept: %w", err)

		case conn := <-conns:
			if err := s.handle(conn); err != nil {
				return err
			}
			timer.Reset(s.opts.TickInterval)

		case <-timer.C:
			if err := s.engine.Tick(); err != nil {
				return err
			}
			s.publishState(events.CauseTick)
			timer.Reset(s.opts.TickInterval)
		}
	}
}

func (s *Server) acceptLoop(ln net.Listener, conns chan<- net.Conn, errs chan<- error, stop <-chan struct{}) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-stop:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			errs <- err
			return
		}

		select {
		case conns <- conn:
		case <-stop:
			conn.Close()
			return
		}
	}
}

// handle serves one connection and closes it. Only engine faults are
// returned.
func (s *Server) handle(conn net.Conn) error {
	defer conn.Close()

	start := time.Now()
	ev := events.RequestServedEvent{ConnID: uuid.NewString()}
	logger := s.logger.With("conn_id", ev.ConnID, "remote", conn.RemoteAddr().String())
	defer func() {
		ev.Duration = time.Since(start)
		logger.Debug("Request served",
			"method", ev.Method,
			"target", ev.Target,
			"command", ev.Command,
			"outcome", ev.Outcome,
			"duration", ev.Duration)
		s.publish(ev)
	}()

	if s.opts.ReadTimeout > 0 {
		if err := conn.SetDeadline(start.Add(s.opts.ReadTimeout)); err != nil {
			logger.Debug("Failed to set deadline", "error", err)
		}
	}

	r := bufio.NewReader(conn)
	line, err := wire.ReadRequestLine(r)
	if err != nil {
		if errors.Is(err, wire.ErrMalformed) {
			ev.Outcome = string(router.OutcomeMalformed)
		} else {
			ev.Outcome = string(router.OutcomeClientError)
		}
		logger.Debug("Dropping request", "error", err)
		return nil
	}
	ev.Method, ev.Target = line.Method, line.Target

	if line.Method != wire.MethodGet {
		if err := router.Drain(r); err != nil {
			logger.Debug("Header read ended early", "error", err)
		}
		ev.Outcome = string(router.OutcomeUnsupportedMethod)
		return nil
	}

	res, err := s.router.Serve(line.Target, r, conn)
	ev.Command = res.Command.Label()
	ev.Outcome = string(res.Outcome)
	if err != nil {
		return fmt.Errorf("serve %s: %w", line.Target, err)
	}

	if res.Command.Mutates() {
		logger.Info("State changed by request", "command", ev.Command, "mode", s.engine.Mode().String())
		s.publishState(events.CauseToggle)
	}
	return nil
}

func (s *Server) publishState(cause string) {
	s.publish(events.StateChangedEvent{
		Snapshot:  s.engine.Snapshot(),
		Cause:     cause,
		Timestamp: time.Now(),
	})
}

func (s *Server) publish(ev events.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}
