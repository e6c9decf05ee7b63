package coro

// Mutex is a non-reentrant mutual-exclusion lock with FIFO wake order,
// built as a thin wrapper over a one-permit Semaphore the same way the
// teacher's higher-level primitives compose out of its state machine
// rather than duplicating wait-queue logic.
type Mutex struct {
	sem *Semaphore
}

// NewMutex constructs an unlocked Mutex.
func NewMutex(rt *Runtime) *Mutex {
	return &Mutex{sem: NewSemaphore(rt, 1)}
}

// Lock blocks the current context until the mutex is free, then takes it.
func (m *Mutex) Lock() { m.sem.Acquire() }

// TryLock takes the mutex without blocking if it is immediately free.
func (m *Mutex) TryLock() bool { return m.sem.TryAcquire() }

// Unlock releases the mutex, waking the longest-waiting locker if any.
// Unlocking an unheld Mutex is a caller bug. Unlike sync.Mutex, which
// fails fatally, it is not detected here: the semaphore simply gains a
// permit.
func (m *Mutex) Unlock() { m.sem.Release() }
