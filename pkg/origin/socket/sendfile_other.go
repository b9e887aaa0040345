//go:build !linux

package socket

import "os"

// sendFileOnce falls back to a manual pread+write loop on platforms without
// a sendfile(2) wrapper in golang.org/x/sys/unix for raw (non-net.Conn)
// descriptors. Darwin's sendfile has a different signature than Linux's and
// is not currently exposed by the unix package the teacher already depends
// on, so this path trades zero-copy for portability, same as the teacher's
// own !linux && !darwin fallback to io.Copy.
func (h *Handle) sendFileOnce(file *os.File, offset, count int64) (int64, error) {
	const maxChunk = 64 * 1024
	chunk := count
	if chunk > maxChunk {
		chunk = maxChunk
	}

	buf := make([]byte, chunk)
	n, err := file.ReadAt(buf, offset)
	if n == 0 {
		return 0, err
	}

	written, werr := h.Send(buf[:n])
	if werr != nil {
		return int64(written), werr
	}
	return int64(written), nil
}
