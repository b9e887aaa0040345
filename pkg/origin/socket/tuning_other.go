//go:build !linux && !darwin

package socket

// applyPlatformOptions is a no-op on platforms without specific optimizations.
func applyPlatformOptions(fd int, cfg *TuningConfig) {}

// applyListenerOptions is a no-op on platforms without specific optimizations.
func applyListenerOptions(fd int, cfg *TuningConfig) error { return nil }

// SetQuickAck is a no-op on platforms without TCP_QUICKACK.
func SetQuickAck(fd int) error { return nil }
