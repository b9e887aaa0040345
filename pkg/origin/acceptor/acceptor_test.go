package acceptor

import (
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yourusername/originserver/pkg/origin/builders"
	"github.com/yourusername/originserver/pkg/origin/workerpool"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find a free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestAcceptorAcceptsConnection(t *testing.T) {
	port := freePort(t)
	pool := workerpool.New(2)
	registry := builders.NewRegistry(nil, nil)
	running := &atomic.Bool{}
	running.Store(true)

	a, err := New(port, pool, registry, testLogger(), running, nil, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		a.Run()
		close(done)
	}()

	var conn net.Conn
	for i := 0; i < 50; i++ {
		conn, err = net.DialTimeout("tcp", "127.0.0.1:"+strconv.Itoa(port), 50*time.Millisecond)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("failed to dial acceptor: %v", err)
	}
	conn.Close()

	running.Store(false)
	a.Wake()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("acceptor Run did not return after shutdown")
	}
}
