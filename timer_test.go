package coro

import (
	"testing"
	"time"
)

func TestTimerHeap_FireOrderAndTombstone(t *testing.T) {
	h := NewTimerHeap()
	base := time.Now()

	c1 := &Context{name: "c1"}
	c2 := &Context{name: "c2"}
	c3 := &Context{name: "c3"}

	e1 := h.insert(base.Add(10*time.Millisecond), c1)
	h.insert(base.Add(20*time.Millisecond), c2)
	e3 := h.insert(base.Add(30*time.Millisecond), c3)

	h.cancel(e3) // tombstoned, must never fire
	h.cancel(e1) // inserted then cancelled before firing

	fired := h.fire(base.Add(time.Hour))
	if len(fired) != 1 {
		t.Fatalf("fire() returned %d entries, want 1 (c2 only)", len(fired))
	}
	if fired[0].ctx != c2 {
		t.Fatalf("fire()[0].ctx = %v, want c2", fired[0].ctx)
	}
}

func TestTimerHeap_NextDeadlineSkipsTombstones(t *testing.T) {
	h := NewTimerHeap()
	base := time.Now()

	e1 := h.insert(base, &Context{name: "c1"})
	h.insert(base.Add(time.Second), &Context{name: "c2"})
	h.cancel(e1)

	d, ok := h.NextDeadline()
	if !ok {
		t.Fatalf("NextDeadline() ok = false, want true")
	}
	if !d.Equal(base.Add(time.Second)) {
		t.Fatalf("NextDeadline() = %v, want %v", d, base.Add(time.Second))
	}
}

func TestTimerHeap_EmptyHasNoDeadline(t *testing.T) {
	h := NewTimerHeap()
	if _, ok := h.NextDeadline(); ok {
		t.Fatalf("NextDeadline() ok = true on empty heap, want false")
	}
}
