//go:build darwin

package socket

import "golang.org/x/sys/unix"

// Darwin-specific socket options absent from golang.org/x/sys/unix's
// generic constant set.
const (
	tcpFastOpenDarwin = 0x105 // TCP_FASTOPEN (client+server)
	tcpKeepAlive      = 0x10  // TCP_KEEPALIVE (idle-time equivalent of Linux TCP_KEEPIDLE)
)

// applyPlatformOptions applies Darwin-specific socket options.
func applyPlatformOptions(fd int, cfg *TuningConfig) {
	// SO_NOSIGPIPE: Linux uses MSG_NOSIGNAL on send() instead; Darwin has no
	// such send flag, so this is set once per socket here.
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_NOSIGPIPE, 1)

	if cfg.KeepAlive {
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, tcpKeepAlive, 60)
	}
}

// applyListenerOptions applies Darwin-specific listener options.
func applyListenerOptions(fd int, cfg *TuningConfig) error {
	var lastErr error
	if cfg.FastOpen {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, tcpFastOpenDarwin, 256); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// SetQuickAck is a no-op on Darwin; there is no TCP_QUICKACK equivalent.
func SetQuickAck(fd int) error { return nil }
