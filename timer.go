package coro

import (
	"container/heap"
	"time"
)

// timerEntry is one (deadline, context) pair in the TimerHeap. cancelled
// entries are tombstoned rather than removed, matching the teacher's
// lazy-deletion heap pattern in loop.go's timerHeap.
type timerEntry struct {
	deadline  time.Time
	ctx       *Context
	cancelled bool
	index     int
}

type timerHeapImpl []*timerEntry

func (h timerHeapImpl) Len() int            { return len(h) }
func (h timerHeapImpl) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h timerHeapImpl) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeapImpl) Push(x any) {
	e := x.(*timerEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *timerHeapImpl) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// TimerHeap is a time-ordered min-heap of pending wakeups, serviced by an
// EventLoopBridge. Sleep inserts an entry and suspends the current
// context until the EventLoopBridge's idle hook fires it (or it is
// cancelled first).
type TimerHeap struct {
	h timerHeapImpl
}

// NewTimerHeap constructs an empty TimerHeap.
func NewTimerHeap() *TimerHeap {
	t := &TimerHeap{}
	heap.Init(&t.h)
	return t
}

// Len returns the number of live (non-tombstoned) entries. O(n).
func (t *TimerHeap) Len() int {
	n := 0
	for _, e := range t.h {
		if !e.cancelled {
			n++
		}
	}
	return n
}

// NextDeadline returns the deadline of the earliest live entry, skipping
// and discarding tombstones as it goes, and whether one exists.
func (t *TimerHeap) NextDeadline() (time.Time, bool) {
	for len(t.h) > 0 {
		top := t.h[0]
		if top.cancelled {
			heap.Pop(&t.h)
			continue
		}
		return top.deadline, true
	}
	return time.Time{}, false
}

// insert adds a new entry for ctx at deadline and returns it so the
// caller can cancel it later.
func (t *TimerHeap) insert(deadline time.Time, ctx *Context) *timerEntry {
	e := &timerEntry{deadline: deadline, ctx: ctx}
	heap.Push(&t.h, e)
	return e
}

func (t *TimerHeap) cancel(e *timerEntry) {
	e.cancelled = true
}

// fire pops and returns every live entry whose deadline is <= now,
// discarding tombstones along the way.
func (t *TimerHeap) fire(now time.Time) []*timerEntry {
	var fired []*timerEntry
	for len(t.h) > 0 {
		top := t.h[0]
		if top.cancelled {
			heap.Pop(&t.h)
			continue
		}
		if top.deadline.After(now) {
			break
		}
		heap.Pop(&t.h)
		fired = append(fired, top)
	}
	return fired
}

// Sleep suspends the current context for at least dt, then resumes it.
// Requires an EventLoopBridge installed via Runtime's idle hook (see
// NewEventLoopBridge) to actually service the timer heap; without one,
// nothing will ever fire the deadline and the scheduler's idle hook
// (deadlock detection) takes over instead.
func (rt *Runtime) Sleep(dt time.Duration) {
	cur := rt.current
	e := rt.timers.insert(time.Now().Add(dt), cur)
	cur.cancelUnlink = func() { rt.timers.cancel(e) }
	cur.setStatus(StatusSuspended)
	rt.Schedule()
	cur.cancelUnlink = nil
	rt.timers.cancel(e) // no-op if it already fired and was popped
}
