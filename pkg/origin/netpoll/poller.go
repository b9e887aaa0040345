// Package netpoll implements the readiness-notification multiplexer the
// acceptor and connection handlers poll instead of blocking on Go's runtime
// netpoller (which raw, non-blocking file descriptors bypass entirely).
//
// The platform backend is epoll on Linux (poller_linux.go), kqueue on Darwin
// (poller_darwin.go), and poll(2) elsewhere (poller_other.go) — the same
// three-way split pkg/origin/socket uses for its tuning code, all against
// golang.org/x/sys/unix.
package netpoll

// Interest is a bitmask of readiness conditions to watch a descriptor for.
type Interest uint8

const (
	// Readable watches for incoming data or a pending accept.
	Readable Interest = 1 << iota
	// Writable watches for buffer space becoming available.
	Writable
)

// Event reports which conditions fired for one descriptor.
type Event struct {
	Fd    int
	Ready Interest
}

// Poller is the multiplexer contract used by the acceptor and connection
// handlers. The acceptor and every connection handler each create their
// own Poller. Add, Remove and Wait are safe to call concurrently with each
// other and with Wake: the epoll and kqueue backends rely on epoll_ctl and
// kevent being safe for concurrent use, and the poll(2) backend guards its
// descriptor set with a mutex.
type Poller interface {
	// Add registers fd for the given interest. Re-adding an already
	// registered fd updates its interest mask.
	Add(fd int, interest Interest) error
	// Remove unregisters fd. Removing an fd not currently registered is a
	// no-op, matching §4.2's "remove" contract.
	Remove(fd int) error
	// Wait blocks until at least one registered descriptor is ready, the
	// timeout elapses, or Wake is called. timeoutMs of -1 blocks
	// indefinitely. The self-wake descriptor is filtered out of the
	// returned events; its only externally visible effect is causing Wait
	// to return promptly.
	Wait(timeoutMs int) ([]Event, error)
	// Wake causes a concurrent (or the next) Wait call to return promptly.
	// Used by the signal handler / shutdown path to unblock the acceptor.
	Wake() error
	// Close releases the poller's own resources (epoll fd, kqueue fd, self-
	// wake pipe). It does not close any descriptor the caller registered.
	Close() error
}
