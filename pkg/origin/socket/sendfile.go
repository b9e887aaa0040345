package socket

import "os"

// SendFile transmits count bytes of file starting at offset to h, retrying
// internally on would-block exactly like Send, until count bytes have been
// written or a hard error occurs. The 200000-byte fixture in the source
// spec's scenario 2 and any other over-threshold static file flow through
// here from the connection handler's Send state.
func (h *Handle) SendFile(file *os.File, offset, count int64) (int64, error) {
	var total int64
	for total < count {
		n, err := h.sendFileOnce(file, offset+total, count-total)
		if err != nil {
			if err == ErrWouldBlock {
				continue
			}
			return total, err
		}
		if n == 0 {
			break
		}
		total += n
	}
	return total, nil
}
