package coro

import (
	"context"
	"os"
	"time"

	"github.com/joeycumines/go-catrate"
)

// IdleHook is invoked when the scheduler finds nothing ready. The default
// hook logs a deadlock diagnostic and exits the process with status 51,
// matching the original runtime's default. Event-loop adapters install
// their own hook that drains a reactor and calls Ready on whatever became
// runnable, returning to let the scheduler rescan.
type IdleHook func(rt *Runtime)

func defaultIdleHook(rt *Runtime) {
	rt.logger.logDeadlock()
	os.Exit(51)
}

// Runtime owns the ready queues, the current-context pointer, the reaper,
// and everything else needed to drive a cooperative scheduling loop. A
// Runtime must only ever be driven by goroutines that are themselves
// contexts of that Runtime (or the one external goroutine that calls
// Run); see assertOwnerGoroutine.
type Runtime struct {
	readyQueues [numPrioBuckets]readyQueue
	nready      int

	current *Context
	main    *Context
	reaper  *Context

	destroyList []*Context

	idle        IdleHook
	idleLimiter *catrate.Limiter

	logger  *Logger
	metrics Metrics

	runningGoroutineID ownerID

	externalCh chan *Context

	pool          chan *poolWorker
	stackPoolSize int

	timers                 *TimerHeap
	bridge                 *EventLoopBridge
	defaultTimerResolution time.Duration

	g globals
}

// NewRuntime constructs a Runtime along with its implicit main context and
// reaper. The goroutine that calls NewRuntime must be the same one that
// later calls Run.
func NewRuntime(opts ...RuntimeOption) (*Runtime, error) {
	cfg, err := resolveRuntimeOptions(opts)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		idle:                   cfg.idle,
		logger:                 cfg.logger,
		stackPoolSize:          cfg.stackPoolSize,
		defaultTimerResolution: cfg.defaultTimerResolution,
		externalCh:             make(chan *Context, 256),
		idleLimiter: catrate.NewLimiter(map[time.Duration]int{
			time.Second: 20,
		}),
	}
	if rt.stackPoolSize < 1 {
		rt.stackPoolSize = 1
	}
	rt.pool = make(chan *poolWorker, rt.stackPoolSize)

	rt.main = rt.newContextCommon(&contextOptions{priority: PrioNormal, name: "main", saveMask: SaveDef})
	rt.main.status.Store(int32(StatusRunning))
	rt.main.started.Store(true)
	rt.current = rt.main

	rt.reaper = rt.newContextCommon(&contextOptions{priority: prioReaper, name: "reaper", saveMask: SaveDef})
	rt.reaper.entry = rt.reaperEntry

	rt.timers = NewTimerHeap()

	rt.runningGoroutineID.store(currentGoroutineID())

	return rt, nil
}

// Run executes fn as the body of the implicit main context, on the
// calling goroutine, and returns its result. fn may spawn, cede to, and
// join other contexts. When fn returns, Run returns — any other contexts
// still alive are abandoned, exactly as abandoning green threads on
// process exit in the original runtime.
func (rt *Runtime) Run(fn func(*Context) []any) []any {
	rt.assertOwnerGoroutine()
	rt.main.entry = fn
	ret := fn(rt.main)
	rt.main.retVals = ret
	rt.main.status.Store(int32(StatusDead))
	return ret
}

// Current returns the runtime's currently-running context.
func (rt *Runtime) Current() *Context { return rt.current }

// NReady returns the number of contexts across all priority buckets that
// are READY but not yet RUNNING.
func (rt *Runtime) NReady() int { return rt.nready }

// Metrics returns the runtime's counters.
func (rt *Runtime) Metrics() *Metrics { return &rt.metrics }

func (rt *Runtime) enqueue(c *Context) {
	rt.readyQueues[prioBucket(c.Prio())].pushBack(c)
	rt.nready++
}

func (rt *Runtime) rebucket(c *Context, newPrio int8) {
	rt.readyQueues[prioBucket(c.Prio())].remove(c)
	c.priority.Store(int32(newPrio))
	rt.readyQueues[prioBucket(newPrio)].pushBack(c)
}

// scanBuckets pops and returns the head of the highest non-empty priority
// bucket, or nil if every bucket is empty. Caller owns nready bookkeeping.
func (rt *Runtime) scanBuckets() *Context {
	for idx := numPrioBuckets - 1; idx >= 0; idx-- {
		if !rt.readyQueues[idx].empty() {
			return rt.readyQueues[idx].popFront()
		}
	}
	return nil
}

// scanBucketsExcluding is scanBuckets, but skips skip wherever it is found
// and keeps looking (including within skip's own bucket, and into lower
// buckets) rather than stopping at skip's bucket.
func (rt *Runtime) scanBucketsExcluding(skip *Context) *Context {
	for idx := numPrioBuckets - 1; idx >= 0; idx-- {
		q := &rt.readyQueues[idx]
		for i, c := range q.items {
			if c == skip {
				continue
			}
			copy(q.items[i:], q.items[i+1:])
			q.items[len(q.items)-1] = nil
			q.items = q.items[:len(q.items)-1]
			return c
		}
	}
	return nil
}

func (rt *Runtime) drainExternal() {
	for {
		select {
		case c := <-rt.externalCh:
			_ = c.Ready()
		default:
			return
		}
	}
}

func (rt *Runtime) pickNext() *Context {
	for {
		rt.drainExternal()
		if c := rt.scanBuckets(); c != nil {
			rt.nready--
			return c
		}
		rt.idle(rt)
		if t, ok := rt.idleLimiter.Allow("idle-retry"); !ok {
			time.Sleep(time.Until(t))
		}
	}
}

// Schedule suspends the current context and resumes the highest-priority
// ready context. The caller is responsible for having already placed the
// current context into whatever wait structure applies (a ready bucket
// for Cede, a wait-queue for a primitive, nothing at all for a plain
// blocking wait woken only by an external Ready) and for having set its
// status accordingly before calling Schedule.
func (rt *Runtime) Schedule() {
	rt.assertOwnerGoroutine()
	prev := rt.current
	next := rt.pickNext()
	rt.metrics.schedulerTicks.Add(1)
	if next == prev {
		prev.setStatus(StatusRunning)
		return
	}
	if Status(prev.status.Load()) == StatusZombie {
		rt.transferFinal(prev, next)
		return
	}
	rt.transfer(prev, next)
}

// Cede gives up the current context's timeslice to ready contexts of
// equal or higher priority, re-enqueueing the current context at the back
// of its own bucket first.
func (rt *Runtime) Cede() {
	rt.assertOwnerGoroutine()
	cur := rt.current
	cur.setStatus(StatusReady)
	rt.enqueue(cur)
	rt.Schedule()
}

// CedeNotSelf is like Cede, but looks past the current context even if it
// occupies the highest non-empty bucket, yielding to any other runnable
// context regardless of relative priority.
func (rt *Runtime) CedeNotSelf() {
	rt.assertOwnerGoroutine()
	cur := rt.current
	cur.setStatus(StatusReady)
	rt.enqueue(cur)
	next := rt.scanBucketsExcluding(cur)
	if next == nil {
		rt.readyQueues[prioBucket(cur.Prio())].remove(cur)
		rt.nready--
		cur.setStatus(StatusRunning)
		return
	}
	rt.nready--
	rt.metrics.schedulerTicks.Add(1)
	rt.transfer(cur, next)
}

// Terminate is equivalent to rt.Current().Cancel(values...).
func (rt *Runtime) Terminate(values ...any) {
	rt.current.Cancel(values...)
}

// watchExternalDeadline races deadline.Done() against a cooperative wait,
// waking cur via the external-ready channel if it fires first. The
// returned stop func must be called once the cooperative wait resolves by
// whichever means, to release the watcher goroutine.
func (rt *Runtime) watchExternalDeadline(cur *Context, deadline context.Context) func() {
	stopped := make(chan struct{})
	go func() {
		select {
		case <-deadline.Done():
			cur.extWake.Store(true)
			rt.externalCh <- cur
			if rt.bridge != nil {
				_ = rt.bridge.Wake()
			}
		case <-stopped:
		}
	}()
	return func() { close(stopped) }
}
