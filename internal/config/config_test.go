package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Port != 60001 {
		t.Errorf("Port = %d, want 60001", c.Port)
	}
	if c.Workers != 4 {
		t.Errorf("Workers = %d, want 4", c.Workers)
	}
	if c.Debug {
		t.Error("Debug = true, want false by default")
	}
}

func newValidRoot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return dir
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	c := Default()
	c.DocumentRoot = newValidRoot(t)

	if err := c.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestValidateRejectsOutOfRangePort(t *testing.T) {
	c := Default()
	c.DocumentRoot = newValidRoot(t)
	c.Port = 0

	if err := c.Validate(); err != ErrInvalidPort {
		t.Errorf("Validate err = %v, want ErrInvalidPort", err)
	}
}

func TestValidateRejectsMissingDocumentRoot(t *testing.T) {
	c := Default()
	c.DocumentRoot = "/nonexistent/path/for/test"

	if err := c.Validate(); err != ErrDocumentRootMissing {
		t.Errorf("Validate err = %v, want ErrDocumentRootMissing", err)
	}
}

func TestValidateRejectsMissingIndexFile(t *testing.T) {
	c := Default()
	c.DocumentRoot = t.TempDir()

	if err := c.Validate(); err != ErrIndexFileMissing {
		t.Errorf("Validate err = %v, want ErrIndexFileMissing", err)
	}
}

func TestValidateRejectsNegativeWorkers(t *testing.T) {
	c := Default()
	c.DocumentRoot = newValidRoot(t)
	c.Workers = -1

	if err := c.Validate(); err != ErrNegativeWorkers {
		t.Errorf("Validate err = %v, want ErrNegativeWorkers", err)
	}
}

func TestValidateAcceptsZeroWorkers(t *testing.T) {
	c := Default()
	c.DocumentRoot = newValidRoot(t)
	c.Workers = 0

	if err := c.Validate(); err != nil {
		t.Errorf("Validate failed for inline mode: %v", err)
	}
}
