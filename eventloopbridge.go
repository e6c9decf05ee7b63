package coro

import (
	"time"
)

// EventLoopBridge wires a Reactor and a Runtime's TimerHeap into the
// scheduler's idle hook, turning "nothing is ready" into "poll the OS for
// I/O readiness and fire any due timers" instead of the default deadlock
// diagnostic. Install one with NewEventLoopBridge before calling Run.
type EventLoopBridge struct {
	rt      *Runtime
	reactor Reactor

	wakeFd      int
	wakeWriteFd int
}

// NewEventLoopBridge initializes reactor, registers a wake fd on it (so
// external goroutines posting to the runtime's external-deadline channel
// can interrupt a blocked PollIO), and installs itself as rt's idle hook.
// It must be called before rt.Run.
func NewEventLoopBridge(rt *Runtime, reactor Reactor) (*EventLoopBridge, error) {
	if err := reactor.Init(); err != nil {
		return nil, WrapError("event loop bridge: reactor init", err)
	}

	b := &EventLoopBridge{rt: rt, reactor: reactor, wakeFd: -1, wakeWriteFd: -1}

	if isWakeFdSupported() {
		rfd, wfd, err := createWakeFd(0, EFD_NONBLOCK|EFD_CLOEXEC)
		if err != nil {
			_ = reactor.Close()
			return nil, WrapError("event loop bridge: create wake fd", err)
		}
		b.wakeFd, b.wakeWriteFd = rfd, wfd
		if err := reactor.RegisterFD(b.wakeFd, EventRead, func(IOEvents) { b.drainWake() }); err != nil {
			_ = closeWakeFd(b.wakeFd, b.wakeWriteFd)
			_ = reactor.Close()
			return nil, WrapError("event loop bridge: register wake fd", err)
		}
	}

	rt.bridge = b
	rt.idle = b.onIdle
	return b, nil
}

// drainWake empties the wake fd so a future write can re-signal it. It is
// only ever invoked as the reactor's callback for wakeFd's read-readiness.
func (b *EventLoopBridge) drainWake() {
	if b.wakeFd < 0 {
		return
	}
	var buf [8]byte
	for {
		n, err := readFD(b.wakeFd, buf[:])
		if err != nil || n <= 0 {
			break
		}
	}
}

// Wake interrupts a PollIO call blocked in another goroutine's idle-hook
// invocation, used by code outside the runtime's own goroutines (e.g. a
// callback fired from an unrelated goroutine) to prompt a fresh scan.
func (b *EventLoopBridge) Wake() error {
	if b.wakeWriteFd < 0 {
		if w, ok := b.reactor.(interface{ Wakeup() error }); ok {
			return w.Wakeup()
		}
		return submitGenericWakeup(0)
	}
	var buf [8]byte
	buf[7] = 1
	_, err := writeFD(b.wakeWriteFd, buf[:])
	return err
}

// onIdle implements IdleHook: compute the next timeout from the timer
// heap (bounded by the runtime's default timer resolution so a bridge
// with no pending timers still polls periodically), call PollIO, then
// fire any timers now due. Per the bridge contract, it does not block at
// all if the runtime already has ready contexts (a race against
// concurrent Ready calls from reactor callbacks dispatched by a prior
// PollIO within this same call).
func (b *EventLoopBridge) onIdle(rt *Runtime) {
	if rt.NReady() > 0 {
		return
	}

	timeoutMs := int(rt.defaultTimerResolution / time.Millisecond)
	if deadline, ok := rt.timers.NextDeadline(); ok {
		if d := time.Until(deadline); d <= 0 {
			timeoutMs = 0
		} else if ms := int(d / time.Millisecond); ms < timeoutMs {
			timeoutMs = ms
		}
	}

	n, err := b.reactor.PollIO(timeoutMs)
	rt.metrics.reactorPolls.Add(1)
	if err != nil {
		rt.logger.logReactorError(err)
	}
	_ = n

	for _, e := range rt.timers.fire(time.Now()) {
		rt.metrics.timersFired.Add(1)
		_ = e.ctx.Ready()
	}
}

// Close releases the reactor and wake fd. Call after Run returns.
func (b *EventLoopBridge) Close() error {
	var err error
	if b.wakeFd >= 0 {
		err = closeWakeFd(b.wakeFd, b.wakeWriteFd)
	}
	if cerr := b.reactor.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
