// Package config holds the immutable configuration surface consumed by
// server.New, following the Config/DefaultConfig/validate-in-constructor
// shape pkg/shockwave/server.Config and pkg/shockwave/socket.Config use.
package config

import (
	"errors"
	"os"
)

// Config holds the server's configuration surface, assembled by main from
// Default() overridden by flags, then validated once before any socket is
// opened, per §6.
type Config struct {
	// Port is the TCP port to listen on, all interfaces.
	// Default: 60001
	Port int

	// DocumentRoot is the directory static GET requests are served from.
	// Default: "./www"
	DocumentRoot string

	// IndexFile is the filename served for "/" and empty targets, resolved
	// relative to DocumentRoot.
	// Default: "index.html"
	IndexFile string

	// Workers is the worker pool size. 0 means inline (no pool goroutines).
	// Default: 4
	Workers int

	// Debug enables debug-level logging.
	// Default: false
	Debug bool
}

// Default returns the configuration in effect before any flag override.
func Default() Config {
	return Config{
		Port:         60001,
		DocumentRoot: "./www",
		IndexFile:    "index.html",
		Workers:      4,
		Debug:        false,
	}
}

var (
	ErrInvalidPort         = errors.New("config: port must be between 1 and 65535")
	ErrDocumentRootMissing = errors.New("config: document root does not exist or is not a directory")
	ErrIndexFileMissing    = errors.New("config: index file does not exist under document root")
	ErrIndexFileNoExt      = errors.New("config: index file must have an extension")
	ErrNegativeWorkers     = errors.New("config: worker count must be non-negative")
)

// Validate checks c against the constraints in §6, resolving
// DocumentRoot/IndexFile against the filesystem. It must be called once at
// startup before any socket is opened.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.Workers < 0 {
		return ErrNegativeWorkers
	}

	rootInfo, err := os.Stat(c.DocumentRoot)
	if err != nil || !rootInfo.IsDir() {
		return ErrDocumentRootMissing
	}

	indexPath := c.DocumentRoot + string(os.PathSeparator) + c.IndexFile
	indexInfo, err := os.Stat(indexPath)
	if err != nil || !indexInfo.Mode().IsRegular() {
		return ErrIndexFileMissing
	}
	if lastDotExt(c.IndexFile) == "" {
		return ErrIndexFileNoExt
	}

	return nil
}

func lastDotExt(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i:]
		}
		if name[i] == '/' || name[i] == os.PathSeparator {
			break
		}
	}
	return ""
}
