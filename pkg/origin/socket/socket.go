// Package socket provides scoped, move-only ownership of a raw OS socket
// descriptor, plus cross-platform tuning and sendfile helpers.
//
// Handle deliberately does not wrap net.Conn: the acceptor and connection
// handler drive their own non-blocking readiness polling through
// pkg/origin/netpoll, so they need the raw file descriptor rather than a
// descriptor hidden behind the Go runtime's network poller. Platform-specific
// optimizations are in tuning_linux.go, tuning_darwin.go and tuning_other.go.
package socket

import (
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// ErrWouldBlock is returned by Recv/Send/SendFile/Accept when the operation
// could not complete without blocking. It is never wrapped: callers compare
// against it directly with errors.Is.
var ErrWouldBlock = errors.New("socket: would block")

// ErrClosed is returned by any operation attempted on a Handle after Close.
var ErrClosed = errors.New("socket: use of closed handle")

// Handle owns exactly one OS socket descriptor. It is move-only: the zero
// value is not usable, copying a Handle by value and using both copies is a
// bug (the second Close will double-close), and the only safe way to transfer
// ownership is to pass the pointer and stop using the source.
type Handle struct {
	fd     atomic.Int32 // holds -1 once closed; accessed atomically so Close is idempotent from any goroutine
	closed atomic.Bool
}

// Errno wraps an OS error code, matching the source spec's requirement that
// every non-would-block failure carry the original error code.
type Errno struct {
	Op  string
	Err unix.Errno
}

func (e *Errno) Error() string { return fmt.Sprintf("socket: %s: %s", e.Op, e.Err.Error()) }
func (e *Errno) Unwrap() error { return e.Err }

func errnoOf(op string, err error) error {
	if err == nil {
		return nil
	}
	if errno, ok := err.(unix.Errno); ok {
		return &Errno{Op: op, Err: errno}
	}
	return fmt.Errorf("socket: %s: %w", op, err)
}

// Create allocates a new IPv4 stream socket (domain/type/protocol mirror the
// POSIX socket(2) arguments; callers normally pass unix.AF_INET,
// unix.SOCK_STREAM, 0).
func Create(domain, typ, protocol int) (*Handle, error) {
	fd, err := unix.Socket(domain, typ, protocol)
	if err != nil {
		return nil, errnoOf("socket", err)
	}
	return Adopt(fd), nil
}

// Adopt wraps an already-open descriptor, transferring its ownership to the
// returned Handle. The caller must not use fd directly again.
func Adopt(fd int) *Handle {
	h := &Handle{}
	h.fd.Store(int32(fd))
	return h
}

func (h *Handle) fdOrClosed() (int, error) {
	if h.closed.Load() {
		return -1, ErrClosed
	}
	fd := int(h.fd.Load())
	if fd < 0 {
		return -1, ErrClosed
	}
	return fd, nil
}

// Fd returns the raw descriptor for use by the event multiplexer. It remains
// owned by h; callers must not close it directly.
func (h *Handle) Fd() (int, error) { return h.fdOrClosed() }

// SetNonBlocking toggles O_NONBLOCK on the descriptor.
func (h *Handle) SetNonBlocking(nonBlocking bool) error {
	fd, err := h.fdOrClosed()
	if err != nil {
		return err
	}
	if err := unix.SetNonblock(fd, nonBlocking); err != nil {
		return errnoOf("set-nonblocking", err)
	}
	return nil
}

// SetReuseAddr sets SO_REUSEADDR, allowing the acceptor to rebind a port
// still draining TIME_WAIT connections from a prior run.
func (h *Handle) SetReuseAddr() error {
	fd, err := h.fdOrClosed()
	if err != nil {
		return err
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return errnoOf("setsockopt(SO_REUSEADDR)", err)
	}
	return nil
}

// Bind binds the socket to 0.0.0.0:port.
func (h *Handle) Bind(port int) error {
	fd, err := h.fdOrClosed()
	if err != nil {
		return err
	}
	addr := &unix.SockaddrInet4{Port: port}
	if err := unix.Bind(fd, addr); err != nil {
		return errnoOf("bind", err)
	}
	return nil
}

// Listen marks the socket as a passive listener with the given backlog.
func (h *Handle) Listen(backlog int) error {
	fd, err := h.fdOrClosed()
	if err != nil {
		return err
	}
	if err := unix.Listen(fd, backlog); err != nil {
		return errnoOf("listen", err)
	}
	return nil
}

// Accept accepts one pending connection. It returns ErrWouldBlock when no
// connection is pending and the socket is non-blocking.
func (h *Handle) Accept() (*Handle, error) {
	fd, err := h.fdOrClosed()
	if err != nil {
		return nil, err
	}
	clientFd, _, err := unix.Accept4(fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil, ErrWouldBlock
		}
		return nil, errnoOf("accept4", err)
	}
	return Adopt(clientFd), nil
}

// Recv reads into buf. It returns (0, nil) on peer close (EOF), ErrWouldBlock
// when no data is currently available, or (n, nil) for n>0 bytes read.
func (h *Handle) Recv(buf []byte) (int, error) {
	fd, err := h.fdOrClosed()
	if err != nil {
		return 0, err
	}
	n, err := unix.Read(fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, ErrWouldBlock
		}
		if err == unix.EINTR {
			return 0, ErrWouldBlock
		}
		return 0, errnoOf("read", err)
	}
	return n, nil
}

// Send writes all of buf, retrying internally on would-block until every
// byte has been written or a hard error occurs. Callers that want to await
// writability through the multiplexer instead of spin-retrying should use
// SendOnce in a poll loop; Send is the simple, spec-literal retry form.
func (h *Handle) Send(buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := h.SendOnce(buf[total:])
		if err != nil {
			if errors.Is(err, ErrWouldBlock) {
				continue
			}
			return total, err
		}
		total += n
	}
	return total, nil
}

// SendOnce attempts a single write, returning ErrWouldBlock if the socket
// buffer is full.
func (h *Handle) SendOnce(buf []byte) (int, error) {
	fd, err := h.fdOrClosed()
	if err != nil {
		return 0, err
	}
	n, err := unix.Write(fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, ErrWouldBlock
		}
		if err == unix.EINTR {
			return 0, ErrWouldBlock
		}
		return 0, errnoOf("write", err)
	}
	return n, nil
}

// Shutdown half-closes the connection in the given direction(s) before
// Close; how is one of unix.SHUT_RD, unix.SHUT_WR, unix.SHUT_RDWR.
func (h *Handle) Shutdown(how int) error {
	fd, err := h.fdOrClosed()
	if err != nil {
		return err
	}
	if err := unix.Shutdown(fd, how); err != nil {
		return errnoOf("shutdown", err)
	}
	return nil
}

// Close closes the descriptor exactly once; subsequent calls are no-ops.
func (h *Handle) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	fd := int(h.fd.Swap(-1))
	if fd < 0 {
		return nil
	}
	if err := unix.Close(fd); err != nil {
		return errnoOf("close", err)
	}
	return nil
}
