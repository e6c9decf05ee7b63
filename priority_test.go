package coro

import "testing"

func TestPrioBucket_Range(t *testing.T) {
	if got := prioBucket(PrioMin); got != 0 {
		t.Errorf("prioBucket(PrioMin) = %d, want 0", got)
	}
	if got := prioBucket(prioReaper); got != numPrioBuckets-1 {
		t.Errorf("prioBucket(prioReaper) = %d, want %d", got, numPrioBuckets-1)
	}
}

func TestReadyQueue_FIFO(t *testing.T) {
	a, b, c := &Context{name: "a"}, &Context{name: "b"}, &Context{name: "c"}
	var q readyQueue
	q.pushBack(a)
	q.pushBack(b)
	q.pushBack(c)

	if got := q.popFront(); got != a {
		t.Fatalf("popFront() = %v, want a", got)
	}
	if !q.remove(c) {
		t.Fatalf("remove(c) = false, want true")
	}
	if got := q.popFront(); got != b {
		t.Fatalf("popFront() = %v, want b", got)
	}
	if !q.empty() {
		t.Fatalf("expected queue empty after draining")
	}
}

func TestReadyQueue_RemoveMissing(t *testing.T) {
	var q readyQueue
	q.pushBack(&Context{name: "a"})
	if q.remove(&Context{name: "ghost"}) {
		t.Fatalf("remove() of an absent context returned true")
	}
}
