package netpoll

import "golang.org/x/sys/unix"

// selfPipe is the self-wake descriptor every backend registers for
// readability. Writing a single byte to wake() unblocks a concurrent Wait;
// drain() is called once Wait observes it readable, consuming every queued
// byte so a single wake doesn't cause repeat spurious wakeups (§4.2).
type selfPipe struct {
	readFd, writeFd int
}

func newSelfPipe() (*selfPipe, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, err
	}
	return &selfPipe{readFd: fds[0], writeFd: fds[1]}, nil
}

func (p *selfPipe) wake() error {
	_, err := unix.Write(p.writeFd, []byte{1})
	if err != nil && err != unix.EAGAIN {
		return err
	}
	return nil
}

// drain reads and discards every byte currently queued on the pipe.
func (p *selfPipe) drain() {
	var buf [64]byte
	for {
		n, err := unix.Read(p.readFd, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

func (p *selfPipe) close() error {
	err1 := unix.Close(p.readFd)
	err2 := unix.Close(p.writeFd)
	if err1 != nil {
		return err1
	}
	return err2
}
