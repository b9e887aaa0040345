//go:build linux

package netpoll

import (
	"golang.org/x/sys/unix"
)

// epollPoller backs Poller with epoll, mirroring the edge-triggered-free
// (level-triggered) default epoll gives you: a descriptor that's still
// readable after a partial read stays marked ready on the next Wait, which
// is exactly the semantic the connection handler's 100ms poll slices
// (§4.2) assume.
type epollPoller struct {
	epfd int
	wake *selfPipe
}

func newPlatformPoller() (Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	sp, err := newSelfPipe()
	if err != nil {
		unix.Close(epfd)
		return nil, err
	}
	p := &epollPoller{epfd: epfd, wake: sp}
	if err := p.Add(sp.readFd, Readable); err != nil {
		sp.close()
		unix.Close(epfd)
		return nil, err
	}
	return p, nil
}

// NewPoller constructs the platform-appropriate Poller.
func NewPoller() (Poller, error) {
	return newPlatformPoller()
}

func toEpollEvents(interest Interest) uint32 {
	var events uint32
	if interest&Readable != 0 {
		events |= unix.EPOLLIN
	}
	if interest&Writable != 0 {
		events |= unix.EPOLLOUT
	}
	return events
}

func (p *epollPoller) Add(fd int, interest Interest) error {
	ev := unix.EpollEvent{Events: toEpollEvents(interest), Fd: int32(fd)}
	err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
	if err == unix.EEXIST {
		return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &ev)
	}
	return err
}

func (p *epollPoller) Remove(fd int) error {
	err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	if err == unix.ENOENT {
		return nil
	}
	return err
}

func (p *epollPoller) Wait(timeoutMs int) ([]Event, error) {
	raw := make([]unix.EpollEvent, 64)
	n, err := unix.EpollWait(p.epfd, raw, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	events := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		fd := int(raw[i].Fd)
		if fd == p.wake.readFd {
			p.wake.drain()
			continue
		}
		var ready Interest
		if raw[i].Events&(unix.EPOLLIN|unix.EPOLLHUP|unix.EPOLLERR) != 0 {
			ready |= Readable
		}
		if raw[i].Events&unix.EPOLLOUT != 0 {
			ready |= Writable
		}
		events = append(events, Event{Fd: fd, Ready: ready})
	}
	return events, nil
}

func (p *epollPoller) Wake() error {
	return p.wake.wake()
}

func (p *epollPoller) Close() error {
	p.wake.close()
	return unix.Close(p.epfd)
}
