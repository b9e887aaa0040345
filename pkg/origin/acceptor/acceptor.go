// Package acceptor owns the listening socket and the multiplexer that
// drives it, per §4.9.
package acceptor

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/yourusername/originserver/pkg/origin/builders"
	"github.com/yourusername/originserver/pkg/origin/conn"
	"github.com/yourusername/originserver/pkg/origin/netpoll"
	"github.com/yourusername/originserver/pkg/origin/socket"
	"github.com/yourusername/originserver/pkg/origin/workerpool"
)

const (
	listenBacklog = 10
	waitTimeoutMs = 500
)

// Acceptor binds and listens on a single port, draining accepts on every
// readiness event and enqueuing each connection to pool.
type Acceptor struct {
	listener    *socket.Handle
	poller      netpoll.Poller
	pool        *workerpool.Pool
	registry    *builders.Registry
	logger      *slog.Logger
	running     *atomic.Bool
	connCounter *atomic.Uint64
	reqCounter  *atomic.Uint64
}

// New creates the listening socket bound to port on all interfaces,
// non-blocking, SO_REUSEADDR, backlog 10, and registers it with a fresh
// multiplexer. The acceptor does not start accepting until Run is called.
// connCounter and reqCounter, if non-nil, are incremented on every accept
// and every successfully handled request respectively.
func New(port int, pool *workerpool.Pool, registry *builders.Registry, logger *slog.Logger, running *atomic.Bool, connCounter, reqCounter *atomic.Uint64) (*Acceptor, error) {
	listener, err := socket.Create(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, err
	}

	if err := listener.SetReuseAddr(); err != nil {
		listener.Close()
		return nil, err
	}
	if err := listener.SetNonBlocking(true); err != nil {
		listener.Close()
		return nil, err
	}
	if err := listener.Bind(port); err != nil {
		listener.Close()
		return nil, err
	}

	listenerFd, err := listener.Fd()
	if err != nil {
		listener.Close()
		return nil, err
	}
	if err := socket.ApplyListener(listenerFd, socket.DefaultTuningConfig()); err != nil {
		logger.Debug("acceptor: listener tuning partially failed", "error", err)
	}

	if err := listener.Listen(listenBacklog); err != nil {
		listener.Close()
		return nil, err
	}

	poller, err := netpoll.NewPoller()
	if err != nil {
		listener.Close()
		return nil, err
	}

	if err := poller.Add(listenerFd, netpoll.Readable); err != nil {
		listener.Close()
		poller.Close()
		return nil, err
	}

	return &Acceptor{
		listener:    listener,
		poller:      poller,
		pool:        pool,
		registry:    registry,
		logger:      logger,
		running:     running,
		connCounter: connCounter,
		reqCounter:  reqCounter,
	}, nil
}

// Wake unblocks a concurrent Run's multiplexer wait, used by the signal
// handler to break the accept loop promptly instead of waiting out the
// 500ms timeout.
func (a *Acceptor) Wake() error {
	return a.poller.Wake()
}

// Run drives the accept loop until running transitions to false, then
// tears down the multiplexer, worker pool, and listening socket.
func (a *Acceptor) Run() {
	listenerFd, err := a.listener.Fd()
	if err != nil {
		a.logger.Error("acceptor: listener already closed", "error", err)
		return
	}

	for a.running.Load() {
		events, err := a.poller.Wait(waitTimeoutMs)
		if err != nil {
			a.logger.Error("acceptor: multiplexer wait failed", "error", err)
			continue
		}

		for _, ev := range events {
			if ev.Fd != listenerFd {
				continue
			}
			a.drainAccepts()
		}
	}

	a.shutdown()
}

// drainAccepts accepts connections in a tight loop until Accept signals
// would-block, per §4.9: "drains all pending accepts on each readiness
// event."
func (a *Acceptor) drainAccepts() {
	for {
		client, err := a.listener.Accept()
		if err != nil {
			if errors.Is(err, socket.ErrWouldBlock) {
				return
			}
			a.logger.Debug("acceptor: accept failed", "error", err)
			return
		}

		if a.connCounter != nil {
			a.connCounter.Add(1)
		}

		if clientFd, err := client.Fd(); err == nil {
			if err := socket.ApplyConn(clientFd, socket.DefaultTuningConfig()); err != nil {
				a.logger.Debug("acceptor: connection tuning partially failed", "error", err)
			}
		}

		handler := conn.NewHandler(client, a.registry, a.logger, a.running, a.reqCounter)
		discard := func() { client.Close() }
		if err := a.pool.SubmitWithDiscard(handler.Run, discard); err != nil {
			a.logger.Debug("acceptor: submit after shutdown, dropping connection", "error", err)
			client.Close()
		}
	}
}

// shutdown releases the worker pool, multiplexer, and listening socket, in
// that order, per §4.9's "releases all shared dependencies" contract.
func (a *Acceptor) shutdown() {
	a.pool.Shutdown()
	a.poller.Close()
	a.listener.Close()
}
