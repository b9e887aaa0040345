package socket

import (
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

func TestSendFileTransmitsFullContent(t *testing.T) {
	content := make([]byte, 200000)
	for i := range content {
		content[i] = byte(i % 256)
	}

	f, err := os.CreateTemp(t.TempDir(), "sendfile-*")
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(content); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK, 0)
	if err != nil {
		t.Fatalf("Socketpair failed: %v", err)
	}
	sender := Adopt(fds[0])
	defer sender.Close()
	receiver := Adopt(fds[1])
	defer receiver.Close()

	sendDone := make(chan error, 1)
	go func() {
		_, sendErr := sender.SendFile(f, 0, int64(len(content)))
		sendDone <- sendErr
	}()

	got := make([]byte, 0, len(content))
	buf := make([]byte, 65536)
	for len(got) < len(content) {
		n, recvErr := receiver.Recv(buf)
		if recvErr != nil {
			if recvErr == ErrWouldBlock {
				continue
			}
			t.Fatalf("Recv failed: %v", recvErr)
		}
		got = append(got, buf[:n]...)
	}

	if err := <-sendDone; err != nil {
		t.Fatalf("SendFile failed: %v", err)
	}
	if len(got) != len(content) {
		t.Fatalf("received %d bytes, want %d", len(got), len(content))
	}
	for i := range content {
		if got[i] != content[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], content[i])
		}
	}
}
