package coro

import "testing"

func TestSemaphore_FIFOWakeOrder(t *testing.T) {
	rt, err := NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	var order []string
	rt.Run(func(main *Context) []any {
		sem := NewSemaphore(rt, 1)
		sem.Acquire() // main now holds the only permit

		first := rt.New(func(c *Context) []any {
			sem.Acquire()
			order = append(order, "first")
			sem.Release()
			return nil
		}, WithName("first"))
		second := rt.New(func(c *Context) []any {
			sem.Acquire()
			order = append(order, "second")
			sem.Release()
			return nil
		}, WithName("second"))

		_ = first.Ready()
		_ = second.Ready()
		rt.Cede() // let first and second queue up on sem behind main's hold

		sem.Release() // release main's permit; first (queued earlier) wakes

		_, _ = first.Join(nil)
		_, _ = second.Join(nil)
		return nil
	})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("order = %v, want [first second]", order)
	}
}

func TestSemaphore_TryAcquire(t *testing.T) {
	rt, err := NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}
	sem := NewSemaphore(rt, 1)
	if !sem.TryAcquire() {
		t.Fatalf("TryAcquire() = false on fresh semaphore, want true")
	}
	if sem.TryAcquire() {
		t.Fatalf("TryAcquire() = true with no permits left, want false")
	}
	sem.Release()
	if !sem.TryAcquire() {
		t.Fatalf("TryAcquire() = false after Release, want true")
	}
}

// TestSemaphore_CancelWhileWaitingUnlinksAndPreservesPermit reproduces the
// regression described against the pre-fix Acquire: a waiter cancelled
// while parked in the semaphore's queue must be unlinked so Release wakes
// a real (still-live) waiter instead of popping the cancelled one and
// dropping the permit.
func TestSemaphore_CancelWhileWaitingUnlinksAndPreservesPermit(t *testing.T) {
	rt, err := NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}

	var order []string
	rt.Run(func(main *Context) []any {
		sem := NewSemaphore(rt, 1)
		sem.Acquire() // main now holds the only permit

		cancelled := rt.New(func(c *Context) []any {
			sem.Acquire()
			order = append(order, "cancelled-woke") // must never happen
			return nil
		}, WithName("cancelled"))
		survivor := rt.New(func(c *Context) []any {
			sem.Acquire()
			order = append(order, "survivor")
			sem.Release()
			return nil
		}, WithName("survivor"))

		_ = cancelled.Ready()
		_ = survivor.Ready()
		rt.Cede() // let both queue up behind main's held permit

		cancelled.Cancel() // must remove cancelled from sem.waiters

		sem.Release() // must wake survivor, not the cancelled, dead context

		_, _ = survivor.Join(nil)
		return nil
	})

	if len(order) != 1 || order[0] != "survivor" {
		t.Fatalf("order = %v, want [survivor]", order)
	}
}

func TestMutex_LockUnlock(t *testing.T) {
	rt, err := NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime() error = %v", err)
	}
	m := NewMutex(rt)
	if !m.TryLock() {
		t.Fatalf("TryLock() = false on unlocked mutex, want true")
	}
	if m.TryLock() {
		t.Fatalf("TryLock() = true on already-locked mutex, want false")
	}
	m.Unlock()
	if !m.TryLock() {
		t.Fatalf("TryLock() = false after Unlock, want true")
	}
}
