package coro

import (
	"time"
)

// Handle adapts a non-blocking file descriptor registered with a Reactor
// into a blocking-looking Readable/Writable/Read/Write/ReadLine surface
// for coroutine code: the calling context suspends via the scheduler
// instead of the OS thread blocking, and is woken either by the reactor
// callback or by a deadline timer, whichever comes first.
type Handle struct {
	rt      *Runtime
	bridge  *EventLoopBridge
	fd      int
	desc    string
	timeout time.Duration

	waiter    *Context
	waitFired IOEvents

	readBuf []byte
	partial int
}

// NewHandle registers fd with the bridge's reactor. The single callback
// installed here lives for the handle's lifetime; waitFor only toggles
// which events are armed via ModifyFD, since a poller's RegisterFD
// cannot be called twice for the same fd.
func NewHandle(rt *Runtime, bridge *EventLoopBridge, fd int, desc string) (*Handle, error) {
	h := &Handle{rt: rt, bridge: bridge, fd: fd, desc: desc}
	if err := bridge.reactor.RegisterFD(fd, 0, h.onIOEvent); err != nil {
		return nil, WrapError("handle: register fd", err)
	}
	return h, nil
}

func (h *Handle) onIOEvent(ev IOEvents) {
	h.waitFired = ev
	if h.waiter != nil {
		_ = h.waiter.Ready()
	}
}

// SetTimeout bounds how long Readable/Writable/Read/Write/ReadLine will
// wait before returning an ErrKindTimeout error. Zero (the default) means
// no bound.
func (h *Handle) SetTimeout(d time.Duration) { h.timeout = d }

// waitFor suspends the current context until fd becomes ready for any of
// events, or the handle's timeout elapses first, disarming the reactor
// watch and the timer on every exit path.
func (h *Handle) waitFor(events IOEvents) error {
	cur := h.rt.current

	if err := h.bridge.reactor.ModifyFD(h.fd, events); err != nil {
		return WrapError("handle: modify fd", err)
	}
	h.waiter = cur
	h.waitFired = 0

	var tEntry *timerEntry
	if h.timeout > 0 {
		tEntry = h.rt.timers.insert(time.Now().Add(h.timeout), cur)
	}

	cur.cancelUnlink = func() {
		h.waiter = nil
		_ = h.bridge.reactor.ModifyFD(h.fd, 0)
		if tEntry != nil {
			h.rt.timers.cancel(tEntry)
		}
	}
	cur.setStatus(StatusSuspended)
	h.rt.Schedule()
	cur.cancelUnlink = nil

	if tEntry != nil {
		h.rt.timers.cancel(tEntry)
	}
	h.waiter = nil
	_ = h.bridge.reactor.ModifyFD(h.fd, 0)

	if h.waitFired&events == 0 {
		return &Error{Kind: ErrKindTimeout, Message: "handle: operation timed out"}
	}
	return nil
}

// Readable blocks the current context until fd has data available to read.
func (h *Handle) Readable() error { return h.waitFor(EventRead) }

// Writable blocks the current context until fd can accept a write.
func (h *Handle) Writable() error { return h.waitFor(EventWrite) }

// Read drains any bytes already buffered by a prior ReadLine call first;
// only once that buffer is empty does it block on Readable and perform a
// non-blocking read, looping past spurious EAGAIN/EWOULDBLOCK wakeups
// (possible under edge-triggered readiness) instead of surfacing them.
func (h *Handle) Read(buf []byte) (int, error) {
	if len(h.readBuf) > 0 {
		n := copy(buf, h.readBuf)
		h.readBuf = append([]byte(nil), h.readBuf[n:]...)
		h.partial -= n
		if h.partial < 0 {
			h.partial = 0
		}
		return n, nil
	}

	for {
		if err := h.Readable(); err != nil {
			return 0, err
		}
		n, err := readFD(h.fd, buf)
		if err != nil {
			if isRetryableIOError(err) {
				continue
			}
			return n, err
		}
		if n == 0 {
			continue
		}
		return n, nil
	}
}

// Write blocks until fd is writable, then performs a single non-blocking
// write of buf.
func (h *Handle) Write(buf []byte) (int, error) {
	if err := h.Writable(); err != nil {
		return 0, err
	}
	return writeFD(h.fd, buf)
}

// ReadLine reads until term is seen (inclusive) or the timeout elapses,
// buffering partial reads across calls to Readable.
func (h *Handle) ReadLine(term byte) ([]byte, error) {
	for {
		for i := h.partial; i < len(h.readBuf); i++ {
			if h.readBuf[i] == term {
				line := h.readBuf[:i+1]
				h.readBuf = append([]byte(nil), h.readBuf[i+1:]...)
				h.partial = 0
				return line, nil
			}
		}
		h.partial = len(h.readBuf)

		if err := h.Readable(); err != nil {
			return nil, err
		}
		var chunk [4096]byte
		n, err := readFD(h.fd, chunk[:])
		if n > 0 {
			h.readBuf = append(h.readBuf, chunk[:n]...)
		}
		if err != nil {
			return nil, err
		}
	}
}

// Close unregisters fd from the reactor and closes it.
func (h *Handle) Close() error {
	_ = h.bridge.reactor.UnregisterFD(h.fd)
	return closeFD(h.fd)
}
