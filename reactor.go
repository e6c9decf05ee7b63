package coro

// Reactor is the OS I/O multiplexer behind the event-loop bridge. Each
// platform's FastPoller (poller_linux.go, poller_darwin.go,
// poller_windows.go) implements it; IOEvents and IOCallback are declared
// identically in each of those files since only one is ever compiled for
// a given target.
type Reactor interface {
	Init() error
	Close() error
	RegisterFD(fd int, events IOEvents, cb IOCallback) error
	UnregisterFD(fd int) error
	ModifyFD(fd int, events IOEvents) error
	PollIO(timeoutMs int) (int, error)
}

var _ Reactor = (*FastPoller)(nil)
