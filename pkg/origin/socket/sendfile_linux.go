//go:build linux

package socket

import (
	"os"

	"golang.org/x/sys/unix"
)

// sendFileOnce performs one sendfile(2) call, transferring directly from the
// kernel page cache to the socket buffer with no userspace copy. Adapted
// from the teacher's socket.SendFile, rebased onto raw fds and
// golang.org/x/sys/unix instead of net.Conn's SyscallConn.Write.
func (h *Handle) sendFileOnce(file *os.File, offset, count int64) (int64, error) {
	dstFd, err := h.fdOrClosed()
	if err != nil {
		return 0, err
	}

	srcFd := int(file.Fd())

	// sendfile(2) moves at most just under 2GB per call; each call here
	// asks for at most 1GiB and SendFile loops for the remainder.
	chunk := count
	if chunk > 1<<30 {
		chunk = 1 << 30
	}

	curOffset := offset
	n, err := unix.Sendfile(dstFd, srcFd, &curOffset, int(chunk))
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
			return 0, ErrWouldBlock
		}
		return 0, errnoOf("sendfile", err)
	}
	return int64(n), nil
}
