//go:build darwin

package netpoll

import (
	"golang.org/x/sys/unix"
)

// kqueuePoller backs Poller with kqueue. Unlike epoll, kqueue tracks read
// and write interest as separate filters per fd, so Add/Remove register or
// drop each filter independently.
type kqueuePoller struct {
	kq   int
	wake *selfPipe
}

func newPlatformPoller() (Poller, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	sp, err := newSelfPipe()
	if err != nil {
		unix.Close(kq)
		return nil, err
	}
	p := &kqueuePoller{kq: kq, wake: sp}
	if err := p.Add(sp.readFd, Readable); err != nil {
		sp.close()
		unix.Close(kq)
		return nil, err
	}
	return p, nil
}

// NewPoller constructs the platform-appropriate Poller.
func NewPoller() (Poller, error) {
	return newPlatformPoller()
}

func (p *kqueuePoller) changeFilter(fd int, filter int16, flags uint16) error {
	kev := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: filter,
		Flags:  flags,
	}
	_, err := unix.Kevent(p.kq, []unix.Kevent_t{kev}, nil, nil)
	return err
}

func (p *kqueuePoller) Add(fd int, interest Interest) error {
	if interest&Readable != 0 {
		if err := p.changeFilter(fd, unix.EVFILT_READ, unix.EV_ADD|unix.EV_ENABLE); err != nil {
			return err
		}
	} else {
		p.changeFilter(fd, unix.EVFILT_READ, unix.EV_DELETE)
	}
	if interest&Writable != 0 {
		if err := p.changeFilter(fd, unix.EVFILT_WRITE, unix.EV_ADD|unix.EV_ENABLE); err != nil {
			return err
		}
	} else {
		p.changeFilter(fd, unix.EVFILT_WRITE, unix.EV_DELETE)
	}
	return nil
}

func (p *kqueuePoller) Remove(fd int) error {
	p.changeFilter(fd, unix.EVFILT_READ, unix.EV_DELETE)
	p.changeFilter(fd, unix.EVFILT_WRITE, unix.EV_DELETE)
	return nil
}

func (p *kqueuePoller) Wait(timeoutMs int) ([]Event, error) {
	var ts *unix.Timespec
	if timeoutMs >= 0 {
		t := unix.NsecToTimespec(int64(timeoutMs) * 1e6)
		ts = &t
	}

	raw := make([]unix.Kevent_t, 64)
	n, err := unix.Kevent(p.kq, nil, raw, ts)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	byFd := make(map[int]Interest, n)
	for i := 0; i < n; i++ {
		fd := int(raw[i].Ident)
		if fd == p.wake.readFd {
			p.wake.drain()
			continue
		}
		switch raw[i].Filter {
		case unix.EVFILT_READ:
			byFd[fd] |= Readable
		case unix.EVFILT_WRITE:
			byFd[fd] |= Writable
		}
	}

	events := make([]Event, 0, len(byFd))
	for fd, ready := range byFd {
		events = append(events, Event{Fd: fd, Ready: ready})
	}
	return events, nil
}

func (p *kqueuePoller) Wake() error {
	return p.wake.wake()
}

func (p *kqueuePoller) Close() error {
	p.wake.close()
	return unix.Close(p.kq)
}
