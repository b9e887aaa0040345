//go:build !linux && !darwin

package netpoll

import (
	"sync"

	"golang.org/x/sys/unix"
)

// pollPoller backs Poller with poll(2) for platforms without epoll or
// kqueue. Registration state is kept in userspace since poll(2) takes the
// full descriptor set on every call rather than maintaining it kernel-side.
type pollPoller struct {
	mu   sync.Mutex
	fds  map[int]Interest
	wake *selfPipe
}

func newPlatformPoller() (Poller, error) {
	sp, err := newSelfPipe()
	if err != nil {
		return nil, err
	}
	p := &pollPoller{fds: make(map[int]Interest), wake: sp}
	p.fds[sp.readFd] = Readable
	return p, nil
}

// NewPoller constructs the platform-appropriate Poller.
func NewPoller() (Poller, error) {
	return newPlatformPoller()
}

func toPollEvents(interest Interest) int16 {
	var events int16
	if interest&Readable != 0 {
		events |= unix.POLLIN
	}
	if interest&Writable != 0 {
		events |= unix.POLLOUT
	}
	return events
}

func (p *pollPoller) Add(fd int, interest Interest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fds[fd] = interest
	return nil
}

func (p *pollPoller) Remove(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.fds, fd)
	return nil
}

func (p *pollPoller) Wait(timeoutMs int) ([]Event, error) {
	p.mu.Lock()
	pfds := make([]unix.PollFd, 0, len(p.fds))
	for fd, interest := range p.fds {
		pfds = append(pfds, unix.PollFd{Fd: int32(fd), Events: toPollEvents(interest)})
	}
	p.mu.Unlock()

	n, err := unix.Poll(pfds, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	events := make([]Event, 0, n)
	for _, pfd := range pfds {
		if pfd.Revents == 0 {
			continue
		}
		fd := int(pfd.Fd)
		if fd == p.wake.readFd {
			p.wake.drain()
			continue
		}
		var ready Interest
		if pfd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
			ready |= Readable
		}
		if pfd.Revents&unix.POLLOUT != 0 {
			ready |= Writable
		}
		events = append(events, Event{Fd: fd, Ready: ready})
	}
	return events, nil
}

func (p *pollPoller) Wake() error {
	return p.wake.wake()
}

func (p *pollPoller) Close() error {
	p.wake.close()
	return nil
}
