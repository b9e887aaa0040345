// Package logging builds the single *slog.Logger the server threads
// explicitly through main -> server.New -> every worker, rather than a
// package-level mutable logger, per Design Notes' singleton rule.
package logging

import (
	"io"
	"log/slog"
)

// New returns a text-handler logger writing to w, at Debug level if debug
// is set and Info otherwise. log/slog's handler contract guarantees safe
// concurrent use across the acceptor, every worker, and the signal
// handler, so one instance is shared by reference (§5).
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
