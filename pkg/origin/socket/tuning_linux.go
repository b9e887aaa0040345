//go:build linux

package socket

import "golang.org/x/sys/unix"

// Linux-specific socket options not exported by golang.org/x/sys/unix under
// those names on every architecture.
const (
	tcpDeferAccept = 0x9 // TCP_DEFER_ACCEPT
)

// applyPlatformOptions applies Linux-specific socket options.
func applyPlatformOptions(fd int, cfg *TuningConfig) {
	if cfg.QuickAck {
		// Not persistent: cleared after the next ACK. Re-applied by the
		// connection handler after each recv, same caveat the teacher's
		// tuning_linux.go documents.
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_QUICKACK, 1)
	}

	_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_USER_TIMEOUT, 10000)

	if cfg.KeepAlive {
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_KEEPIDLE, 60)
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_KEEPINTVL, 10)
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_KEEPCNT, 3)
	}
}

// applyListenerOptions applies Linux-specific listener options.
func applyListenerOptions(fd int, cfg *TuningConfig) error {
	var lastErr error

	if cfg.DeferAccept {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, tcpDeferAccept, 5); err != nil {
			lastErr = err
		}
	}

	if cfg.FastOpen {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_FASTOPEN, 256); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// SetQuickAck re-applies TCP_QUICKACK; the kernel clears it after every ACK,
// so callers that want persistent QuickACK behavior call this after each
// successful recv.
func SetQuickAck(fd int) error {
	return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_QUICKACK, 1)
}
