// Command originserver runs a single-host HTTP/1.1 origin server that
// serves static files from a document root and accepts form posts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourusername/originserver/internal/config"
	"github.com/yourusername/originserver/internal/logging"
	"github.com/yourusername/originserver/pkg/origin/server"
)

const shutdownGrace = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	defaults := config.Default()

	cfg := config.Config{}
	flag.IntVar(&cfg.Port, "port", defaults.Port, "TCP port to listen on")
	flag.StringVar(&cfg.DocumentRoot, "root", defaults.DocumentRoot, "document root for static files")
	flag.StringVar(&cfg.IndexFile, "index", defaults.IndexFile, "index file served for / and empty targets")
	flag.IntVar(&cfg.Workers, "workers", defaults.Workers, "worker pool size, 0 runs connections inline")
	flag.BoolVar(&cfg.Debug, "debug", defaults.Debug, "enable debug-level logging")
	flag.Parse()

	logger := logging.New(os.Stdout, cfg.Debug)

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("originserver: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	runDone := make(chan struct{})
	go func() {
		srv.Run()
		close(runDone)
	}()

	select {
	case sig := <-sigCh:
		logger.Info("originserver: shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("originserver: shutdown: %w", err)
		}
	case <-runDone:
	}

	return nil
}
