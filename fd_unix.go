//go:build linux || darwin

package coro

import (
	"golang.org/x/sys/unix"
)

// closeFD closes a file descriptor on Unix systems.
func closeFD(fd int) error {
	return unix.Close(fd)
}

// readFD reads from a file descriptor on Unix systems.
func readFD(fd int, buf []byte) (int, error) {
	return unix.Read(fd, buf)
}

// writeFD writes to a file descriptor on Unix systems.
func writeFD(fd int, buf []byte) (int, error) {
	return unix.Write(fd, buf)
}

// isRetryableIOError reports whether err is a non-blocking fd reporting
// "no data/room right now" rather than a real failure — expected even
// just after a reactor readiness callback fires under edge-triggered
// polling.
func isRetryableIOError(err error) bool {
	return err == unix.EAGAIN || err == unix.EWOULDBLOCK
}
