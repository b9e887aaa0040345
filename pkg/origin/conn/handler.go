// Package conn implements the per-connection HTTP/1.1 state machine (§4.7):
// WaitForData -> ReadRequest -> Build -> Send -> Continue/Close.
package conn

import (
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/valyala/bytebufferpool"
	"golang.org/x/sys/unix"

	"github.com/yourusername/originserver/pkg/origin/builders"
	"github.com/yourusername/originserver/pkg/origin/httpproto"
	"github.com/yourusername/originserver/pkg/origin/netpoll"
	"github.com/yourusername/originserver/pkg/origin/socket"
)

const (
	// keepAliveBudget is the total time WaitForData allows for a request to
	// arrive on an already-used, keep-alive-eligible connection.
	keepAliveBudget = 60 * time.Second
	// firstRequestBudget is the proactive idle check applied only to the
	// first WaitForData of a connection's life, closing clients that
	// connect and never send anything promptly.
	firstRequestBudget = 500 * time.Millisecond
	// pollSlice is how often WaitForData re-checks the running flag while
	// waiting for readability.
	pollSlice = 100 * time.Millisecond
	// maxRequestsPerConn is the per-connection keep-alive cap (§4.7/§8).
	maxRequestsPerConn = 100
	// readChunkSize is how many bytes ReadRequest tries to recv per call.
	readChunkSize = 4096
)

var errPeerClosed = errors.New("conn: peer closed during read")

type state int

const (
	stateWaitForData state = iota
	stateReadRequest
	stateBuild
	stateSend
	stateContinue
	stateClose
)

// Handler runs one connection's state machine to completion. It owns sock
// exclusively for its lifetime; no other goroutine touches it.
type Handler struct {
	sock       *socket.Handle
	registry   *builders.Registry
	logger     *slog.Logger
	running    *atomic.Bool
	reqCounter *atomic.Uint64
}

// NewHandler returns a Handler for sock, dispatching parsed requests
// through registry. running is the server-wide lifecycle flag; the
// handler checks it on every poll slice so shutdown doesn't have to wait
// out a full keep-alive envelope. reqCounter, if non-nil, is incremented
// once per successfully sent response.
func NewHandler(sock *socket.Handle, registry *builders.Registry, logger *slog.Logger, running *atomic.Bool, reqCounter *atomic.Uint64) *Handler {
	return &Handler{sock: sock, registry: registry, logger: logger, running: running, reqCounter: reqCounter}
}

// Run drives the connection to completion, then half-closes and closes
// the socket. It never returns an error: all failures are logged and
// terminate the connection, matching §7's "transport errors... logged,
// connection closed" policy.
func (h *Handler) Run() {
	poller, err := netpoll.NewPoller()
	if err != nil {
		h.logger.Error("conn: failed to create poller", "error", err)
		h.sock.Close()
		return
	}
	defer poller.Close()

	fd, err := h.sock.Fd()
	if err != nil {
		h.logger.Error("conn: socket already closed", "error", err)
		return
	}

	if err := poller.Add(fd, netpoll.Readable); err != nil {
		h.logger.Error("conn: failed to register socket", "error", err)
		h.sock.Close()
		return
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	st := stateWaitForData
	requestCount := 0
	firstWait := true

	var req *httpproto.Request
	var resp *httpproto.Response
	var closeAfter bool

	for {
		switch st {
		case stateWaitForData:
			budget := keepAliveBudget
			if firstWait {
				budget = firstRequestBudget
			}
			if h.waitForData(poller, fd, budget) {
				st = stateReadRequest
			} else {
				st = stateClose
			}

		case stateReadRequest:
			parsed, consumed, err := h.readRequest(poller, fd, buf)
			switch {
			case err == nil:
				req = parsed
				buf.B = buf.B[consumed:]
				firstWait = false
				st = stateBuild
			case errors.Is(err, errPeerClosed):
				st = stateClose
			default:
				resp = httpproto.ComposeError(400)
				closeAfter = true
				st = stateSend
			}

		case stateBuild:
			resp, closeAfter = h.build(req)
			st = stateSend

		case stateClose:
			h.sock.Shutdown(unix.SHUT_RDWR)
			h.sock.Close()
			return

		case stateSend:
			if err := h.send(resp); err != nil {
				h.logger.Debug("conn: send failed", "error", err)
				st = stateClose
				continue
			}
			requestCount++
			if h.reqCounter != nil {
				h.reqCounter.Add(1)
			}
			if closeAfter || !req.KeepAlive() || requestCount >= maxRequestsPerConn {
				st = stateClose
			} else {
				st = stateContinue
			}

		case stateContinue:
			closeAfter = false
			st = stateWaitForData
		}
	}
}

// waitForData blocks in 100ms slices, checking the running flag between
// each, until fd is readable, budget elapses, or the server shuts down.
// Returns false on timeout, shutdown, or poll error.
func (h *Handler) waitForData(poller netpoll.Poller, fd int, budget time.Duration) bool {
	deadline := time.Now().Add(budget)

	for time.Now().Before(deadline) {
		if !h.running.Load() {
			return false
		}

		events, err := poller.Wait(int(pollSlice / time.Millisecond))
		if err != nil {
			return false
		}
		for _, ev := range events {
			if ev.Fd == fd && ev.Ready&netpoll.Readable != 0 {
				return true
			}
		}
	}
	return false
}

// readRequest accumulates bytes into buf via non-blocking recv until a
// full request is parsed. It returns httpproto.ErrIncompleteRequest only
// internally; callers see either a parsed request or a terminal error.
func (h *Handler) readRequest(poller netpoll.Poller, fd int, buf *bytebufferpool.ByteBuffer) (*httpproto.Request, int, error) {
	chunk := make([]byte, readChunkSize)

	for {
		req, consumed, err := httpproto.ParseRequest(buf.B)
		if err == nil {
			return req, consumed, nil
		}
		if !errors.Is(err, httpproto.ErrIncompleteRequest) {
			return nil, 0, err
		}

		if !h.waitForData(poller, fd, keepAliveBudget) {
			return nil, 0, errPeerClosed
		}

		n, recvErr := h.sock.Recv(chunk)
		if recvErr != nil {
			if errors.Is(recvErr, socket.ErrWouldBlock) {
				continue
			}
			return nil, 0, recvErr
		}
		if n == 0 {
			return nil, 0, errPeerClosed
		}
		buf.Write(chunk[:n])
		_ = socket.SetQuickAck(fd)
	}
}

// build invokes the registry for req.Method, falling back to a synthesized
// error response for any builder failure or unregistered method, per
// §4.5/§4.7. The boolean return reports whether the connection should
// close after this response regardless of what Connection header, if any,
// the client sent.
func (h *Handler) build(req *httpproto.Request) (*httpproto.Response, bool) {
	builder, ok := h.registry.Lookup(req.Method)
	if !ok {
		return httpproto.ComposeError(501), true
	}

	resp, err := builder.Build(req)
	if err != nil {
		status := 500
		var se *builders.StatusError
		if errors.As(err, &se) {
			status = se.Status
		}
		return httpproto.ComposeError(status), true
	}

	closeAfter := false
	if v, ok := resp.Headers.Get("Connection"); ok && v == "close" {
		closeAfter = true
	}
	if !req.KeepAlive() {
		closeAfter = true
	}
	if closeAfter {
		resp.Headers.Replace("Connection", "close")
	} else {
		resp.Headers.Replace("Connection", "keep-alive")
	}
	return resp, closeAfter
}

// send serializes and transmits resp per §4.6/§4.7: headers first, then
// either the static file (via sendfile) or the in-memory body.
func (h *Handler) send(resp *httpproto.Response) error {
	headerBytes := httpproto.ComposeHeaders(resp)
	if _, err := h.sock.Send(headerBytes); err != nil {
		return err
	}

	if resp.Static {
		file, err := openForSend(resp.FilePath)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = h.sock.SendFile(file, 0, resp.FileSize)
		return err
	}

	if len(resp.Body) == 0 {
		return nil
	}
	_, err := h.sock.Send(resp.Body)
	return err
}

func openForSend(path string) (*os.File, error) {
	return os.Open(path)
}
