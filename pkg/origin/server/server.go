// Package server wires config, logging, routing, and the worker pool into
// a running acceptor, mirroring pkg/shockwave/server's
// Config/Stats/Server shape adapted to the non-blocking, poller-driven
// architecture of §4.
package server

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/yourusername/originserver/internal/config"
	"github.com/yourusername/originserver/pkg/origin/acceptor"
	"github.com/yourusername/originserver/pkg/origin/builders"
	"github.com/yourusername/originserver/pkg/origin/routing"
	"github.com/yourusername/originserver/pkg/origin/workerpool"
)

// Stats tracks lifetime server counters, updated by the acceptor and
// connection handlers without any shared lock, per §5.
type Stats struct {
	ConnectionsAccepted atomic.Uint64
	RequestsHandled     atomic.Uint64
	StartTime           time.Time
}

// Duration returns the time elapsed since the server started.
func (s *Stats) Duration() time.Duration {
	return time.Since(s.StartTime)
}

// Server owns the acceptor, worker pool, and lifecycle flag for one
// listening instance. The zero value is not usable; construct with New.
type Server struct {
	cfg      config.Config
	logger   *slog.Logger
	pool     *workerpool.Pool
	acceptor *acceptor.Acceptor
	running  atomic.Bool
	stats    Stats
	done     chan struct{}
}

// New validates cfg, builds the routing resolver and builder registry,
// and constructs (but does not start) the acceptor and worker pool.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	resolver, err := routing.NewResolver(cfg.DocumentRoot, cfg.IndexFile)
	if err != nil {
		return nil, err
	}

	registry := builders.NewRegistry(
		builders.NewGetBuilder(resolver),
		builders.NewPostBuilder(),
	)

	s := &Server{
		cfg:    cfg,
		logger: logger,
		pool:   workerpool.New(cfg.Workers),
		done:   make(chan struct{}),
	}
	s.running.Store(true)
	s.stats.StartTime = time.Now()

	a, err := acceptor.New(cfg.Port, s.pool, registry, logger, &s.running,
		&s.stats.ConnectionsAccepted, &s.stats.RequestsHandled)
	if err != nil {
		s.pool.Shutdown()
		return nil, err
	}
	s.acceptor = a

	return s, nil
}

// Run drives the acceptor loop until Shutdown flips running to false, then returns once the acceptor has torn down its dependencies.
// It blocks the calling goroutine; callers typically run it in its own
// goroutine and call Shutdown from a signal handler.
func (s *Server) Run() {
	s.logger.Info("server: listening", "port", s.cfg.Port, "workers", s.cfg.Workers)
	s.acceptor.Run()
	close(s.done)
}

// Shutdown requests a graceful stop: the running flag is cleared, the
// acceptor's multiplexer is woken so it does not wait out its 500ms
// timeout, and Shutdown blocks until Run has returned or ctx expires.
// Connections already in flight are allowed to reach a natural
// Continue/Close transition within their own keep-alive budget.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)
	if err := s.acceptor.Wake(); err != nil {
		s.logger.Debug("server: wake on shutdown failed", "error", err)
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the server's lifetime counters.
func (s *Server) Stats() *Stats {
	return &s.stats
}
