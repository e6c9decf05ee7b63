//go:build linux

//lint:file-ignore U1000 Platform-specific stub functions (required for Windows/Darwin compatibility)

package coro

import (
	"golang.org/x/sys/unix"
)

const (
	EFD_CLOEXEC  = unix.EFD_CLOEXEC
	EFD_NONBLOCK = unix.EFD_NONBLOCK
)

// createWakeFd creates an eventfd for wake-up notifications (Linux).
// Returns the single eventfd as both read and write ends.
func createWakeFd(initval uint, flags int) (int, int, error) {
	fd, err := unix.Eventfd(initval, flags)
	return fd, fd, err
}

// closeWakeFd closes the wake eventfd on Linux.
func closeWakeFd(wakeFd, wakeWriteFd int) error {
	if wakeFd >= 0 {
		_ = unix.Close(wakeFd)
	}
	return nil
}

// isWakeFdSupported returns true on Linux (eventfd mechanism).
func isWakeFdSupported() bool {
	return true
}

// drainWakeUpPipe would drain a package-level wake eventfd; since
// getWakeReadFd always returns -1 it reads nothing. EventLoopBridge drains
// its own wake fd in drainWake.
func drainWakeUpPipe() error {
	if wakeFd := getWakeReadFd(); wakeFd >= 0 {
		// Read all available wake-ups
		var buf [8]byte
		for {
			_, err := unix.Read(wakeFd, buf[:])
			if err != nil {
				break
			}
		}
	}
	return nil
}

// getWakeReadFd always returns -1: no wake fd is tracked at package
// level. EventLoopBridge keeps its own wake fd in its wakeFd field.
func getWakeReadFd() int {
	return -1
}

// submitGenericWakeup is a stub for Darwin/Linux.
// This function name exists on Windows for PostQueuedCompletionStatus.
// On Darwin/Linux, EventLoopBridge.Wake writes to the wake fd instead.
//
// Note: Wake calls this only when the bridge has no wake fd, which does
// not happen on Darwin/Linux once NewEventLoopBridge has succeeded, so
// this is a safety stub only.
func submitGenericWakeup(_ uintptr) error {
	// Darwin/Linux: EventLoopBridge.Wake writes to the wake fd
	// This stub exists for function name compatibility with Windows
	return nil
}
