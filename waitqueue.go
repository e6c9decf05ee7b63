package coro

// waitQueue is a FIFO of contexts blocked on a synchronization primitive
// (semaphore, mutex, rwlock, signal, channel). It is the same plain-slice
// shape as readyQueue and Context.joinQ: a primitive's waiters are never
// scanned by more than one goroutine at a time, so there is nothing here
// that benefits from a lock-free structure.
type waitQueue struct {
	items []*Context
}

func (q *waitQueue) pushBack(c *Context) {
	q.items = append(q.items, c)
}

func (q *waitQueue) popFront() *Context {
	if len(q.items) == 0 {
		return nil
	}
	c := q.items[0]
	copy(q.items, q.items[1:])
	q.items[len(q.items)-1] = nil
	q.items = q.items[:len(q.items)-1]
	return c
}

func (q *waitQueue) remove(c *Context) bool {
	for i, x := range q.items {
		if x == c {
			copy(q.items[i:], q.items[i+1:])
			q.items[len(q.items)-1] = nil
			q.items = q.items[:len(q.items)-1]
			return true
		}
	}
	return false
}

func (q *waitQueue) empty() bool {
	return len(q.items) == 0
}

func (q *waitQueue) len() int {
	return len(q.items)
}
