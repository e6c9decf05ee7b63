package coro

// Semaphore is a counting semaphore whose waiters are released in the
// FIFO order they arrived, mirroring the join-queue wake discipline in
// context.go. Acquire/Release must be called from the context that owns
// rt (the normal single-goroutine-active invariant).
type Semaphore struct {
	rt      *Runtime
	count   int
	waiters waitQueue
}

// NewSemaphore constructs a Semaphore with n initial permits.
func NewSemaphore(rt *Runtime, n int) *Semaphore {
	return &Semaphore{rt: rt, count: n}
}

// Acquire blocks the current context until a permit is available.
func (s *Semaphore) Acquire() {
	if s.count > 0 && s.waiters.empty() {
		s.count--
		return
	}
	cur := s.rt.current
	s.waiters.pushBack(cur)
	cur.cancelUnlink = func() { s.waiters.remove(cur) }
	cur.setStatus(StatusSuspended)
	s.rt.Schedule()
	cur.cancelUnlink = nil
}

// TryAcquire takes a permit without blocking if one is immediately
// available, reporting whether it succeeded.
func (s *Semaphore) TryAcquire() bool {
	if s.count > 0 && s.waiters.empty() {
		s.count--
		return true
	}
	return false
}

// Release returns a permit, waking the longest-waiting blocked context if
// any, or incrementing the free count otherwise.
func (s *Semaphore) Release() {
	if w := s.waiters.popFront(); w != nil {
		_ = w.Ready()
		return
	}
	s.count++
}

// Count returns the number of permits currently available to TryAcquire.
func (s *Semaphore) Count() int { return s.count }
