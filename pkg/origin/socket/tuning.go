package socket

import "golang.org/x/sys/unix"

// TuningConfig represents socket tuning configuration. Zero values mean "use
// system defaults". Adapted from the teacher's socket.Config, rebased onto
// golang.org/x/sys/unix and raw file descriptors instead of net.Conn.
type TuningConfig struct {
	// NoDelay disables Nagle's algorithm (TCP_NODELAY) for low latency.
	// Default: true.
	NoDelay bool

	// RecvBuffer sets SO_RCVBUF in bytes. Zero leaves the system default.
	RecvBuffer int

	// SendBuffer sets SO_SNDBUF in bytes. Zero leaves the system default.
	SendBuffer int

	// QuickAck requests TCP_QUICKACK where supported (Linux only).
	QuickAck bool

	// DeferAccept requests TCP_DEFER_ACCEPT on the listener (Linux only).
	DeferAccept bool

	// FastOpen requests TCP_FASTOPEN on the listener (Linux/Darwin).
	FastOpen bool

	// KeepAlive enables SO_KEEPALIVE.
	KeepAlive bool
}

// DefaultTuningConfig returns the recommended configuration for a static
// file + form-echo HTTP/1.1 workload: low latency, moderate buffers.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		NoDelay:     true,
		RecvBuffer:  256 * 1024,
		SendBuffer:  256 * 1024,
		QuickAck:    true,
		DeferAccept: true,
		FastOpen:    true,
		KeepAlive:   true,
	}
}

// ApplyConn applies connection-level socket options immediately after accept.
// Non-critical (platform-specific) options are applied best-effort; only
// TCP_NODELAY failing is treated as an error.
func ApplyConn(fd int, cfg *TuningConfig) error {
	if cfg == nil {
		cfg = DefaultTuningConfig()
	}

	if cfg.NoDelay {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
			return errnoOf("setsockopt(TCP_NODELAY)", err)
		}
	}

	if cfg.RecvBuffer > 0 {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, cfg.RecvBuffer)
	}
	if cfg.SendBuffer > 0 {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, cfg.SendBuffer)
	}
	if cfg.KeepAlive {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1)
	}

	applyPlatformOptions(fd, cfg)
	return nil
}

// ApplyListener applies listener-level options (TCP_DEFER_ACCEPT,
// TCP_FASTOPEN) that must be set before Listen/Accept.
func ApplyListener(fd int, cfg *TuningConfig) error {
	if cfg == nil {
		cfg = DefaultTuningConfig()
	}
	return applyListenerOptions(fd, cfg)
}
