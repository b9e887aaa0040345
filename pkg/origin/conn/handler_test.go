package conn

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/yourusername/originserver/pkg/origin/builders"
	"github.com/yourusername/originserver/pkg/origin/routing"
	"github.com/yourusername/originserver/pkg/origin/socket"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// socketPair returns a socket.Handle for the server side and a raw fd for
// the test to drive as the client, matching the non-blocking fd contract
// the acceptor hands to every Handler.
func socketPair(t *testing.T) (*socket.Handle, int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK, 0)
	if err != nil {
		t.Fatalf("Socketpair failed: %v", err)
	}
	client := fds[1]
	t.Cleanup(func() { unix.Close(client) })
	return socket.Adopt(fds[0]), client
}

func newTestRegistry(t *testing.T) *builders.Registry {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	resolver, err := routing.NewResolver(dir, "index.html")
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	return builders.NewRegistry(builders.NewGetBuilder(resolver), builders.NewPostBuilder())
}

func readAll(t *testing.T, fd int, timeout time.Duration) []byte {
	t.Helper()
	deadline := time.Now().Add(timeout)
	var out []byte
	buf := make([]byte, 4096)
	for time.Now().Before(deadline) {
		n, err := unix.Read(fd, buf)
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if n == 0 {
			return out
		}
		out = append(out, buf[:n]...)
		if len(out) > 0 {
			return out
		}
	}
	t.Fatal("timed out waiting for response")
	return nil
}

func TestHandlerServesSimpleGet(t *testing.T) {
	sock, client := socketPair(t)
	registry := newTestRegistry(t)
	running := &atomic.Bool{}
	running.Store(true)

	h := NewHandler(sock, registry, testLogger(), running, nil)

	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	if _, err := unix.Write(client, []byte("GET / HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n")); err != nil {
		t.Fatalf("write request failed: %v", err)
	}

	resp := readAll(t, client, 2*time.Second)
	if len(resp) == 0 {
		t.Fatal("empty response")
	}
	if string(resp[:15]) != "HTTP/1.1 200 OK" {
		t.Fatalf("response = %q, want status line HTTP/1.1 200 OK", resp[:min(len(resp), 40)])
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Handler.Run did not return after Connection: close")
	}
}

// TestHandlerDefaultsToKeepAlive verifies a successful response with no
// client-supplied Connection header carries "Connection: keep-alive" on
// the wire and leaves the connection open for a second request.
func TestHandlerDefaultsToKeepAlive(t *testing.T) {
	sock, client := socketPair(t)
	registry := newTestRegistry(t)
	running := &atomic.Bool{}
	running.Store(true)

	h := NewHandler(sock, registry, testLogger(), running, nil)

	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	if _, err := unix.Write(client, []byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n")); err != nil {
		t.Fatalf("write request failed: %v", err)
	}

	resp := readAll(t, client, 2*time.Second)
	if len(resp) == 0 {
		t.Fatal("empty response")
	}
	if !strings.Contains(string(resp), "Connection: keep-alive\r\n") {
		t.Fatalf("response = %q, want a Connection: keep-alive header", resp)
	}

	if _, err := unix.Write(client, []byte("GET / HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n")); err != nil {
		t.Fatalf("write second request failed: %v", err)
	}
	second := readAll(t, client, 2*time.Second)
	if len(second) == 0 {
		t.Fatal("empty second response, connection was not kept alive")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Handler.Run did not return after second request's Connection: close")
	}
}

func TestHandlerClosesIdleConnection(t *testing.T) {
	sock, client := socketPair(t)
	registry := newTestRegistry(t)
	running := &atomic.Bool{}
	running.Store(true)

	h := NewHandler(sock, registry, testLogger(), running, nil)

	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Handler.Run did not close an idle connection within its first-request budget")
	}

	buf := make([]byte, 1)
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		n, err := unix.Read(client, buf)
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if n == 0 || err != nil {
			return
		}
	}
	t.Fatal("peer fd never observed the handler's close")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
