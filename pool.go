package coro

// poolWorker is a reusable goroutine slot. After the context it is
// running terminates, the goroutine either parks itself back in the
// runtime's pool (bounded by WithStackPoolSize) awaiting a new context
// assignment, or exits if the pool is already full — amortizing
// goroutine-creation cost the way the original runtime amortizes stack
// allocation via a pooled, LRU-capped set of idle stacks.
type poolWorker struct {
	assign chan *Context
}

// launchContext starts c running: reusing a parked worker goroutine if
// one is available, or spawning a fresh one otherwise. Returns promptly
// either way; it does not wait for c to actually begin executing.
func (rt *Runtime) launchContext(c *Context) {
	select {
	case w := <-rt.pool:
		w.assign <- c
	default:
		w := &poolWorker{assign: make(chan *Context)}
		go rt.workerLoop(w, c)
	}
}

func (rt *Runtime) workerLoop(w *poolWorker, c *Context) {
	for {
		rt.runningGoroutineID.store(currentGoroutineID())
		c.runEntry()
		select {
		case rt.pool <- w:
			c = <-w.assign
		default:
			return
		}
	}
}

// runEntry executes c's entry function to completion (including recovery
// from a panic), transitions c to ZOMBIE, and calls Schedule so control
// passes to whatever the scheduler picks next. Because c is ZOMBIE by the
// time Schedule runs, it routes through transferFinal and returns here
// promptly instead of parking forever.
func (c *Context) runEntry() {
	rt := c.rt
	var ret []any
	func() {
		defer func() {
			if r := recover(); r != nil {
				rt.logger.logPanic(c, r)
				ret = nil
			}
		}()
		ret = c.entry(c)
	}()
	c.terminateWith(ret)
	rt.Schedule()
}
