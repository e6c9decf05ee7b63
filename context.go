package coro

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
)

var nextContextID atomic.Uint64

// Context is a single cooperative thread of execution: an entry function,
// its own logical call stack (backed by a goroutine), per-context
// "globals" selected by a save mask, and lifecycle/scheduling metadata.
//
// A zero Context is not usable; construct one with Runtime.New or
// Runtime.NewEmpty.
type Context struct {
	id   uint64
	rt   *Runtime
	name string

	entry    func(*Context) []any
	saveSlot bool // constructed via NewEmpty: legal only as prev of a transfer

	status   atomic.Int32
	priority atomic.Int32
	desc     string
	saveMask SaveMask

	defav []any
	defsv any
	errsv error
	irssv string
	deffh any

	retVals []any
	joinQ   []*Context

	resumeCh chan struct{}
	started  atomic.Bool

	// extWake is set by watchExternalDeadline when an external
	// context.Context fires before the joined context terminated.
	extWake atomic.Bool

	// cancelUnlink, when set, removes this context from whatever
	// primitive wait-queue or timer it is currently parked in. Every
	// suspension point that isn't the ready queue (Semaphore, RWLock,
	// Channel, Signal, TimerHeap, Handle, a join queue) sets this before
	// calling Schedule and clears it immediately after waking normally;
	// terminateWith calls it once, for the case where the suspension
	// ends by cancellation instead.
	cancelUnlink func()
}

func (rt *Runtime) newContextCommon(cfg *contextOptions) *Context {
	c := &Context{
		id:       nextContextID.Add(1),
		rt:       rt,
		name:     cfg.name,
		desc:     cfg.desc,
		saveMask: cfg.saveMask,
		resumeCh: make(chan struct{}),
	}
	c.status.Store(int32(StatusNew))
	c.priority.Store(int32(cfg.priority))
	rt.metrics.contextsCreated.Add(1)
	rt.metrics.contextsLive.Add(1)
	return c
}

// New constructs a context with the given entry function. fn receives the
// context itself (useful for self-referential Ready/Cancel/Prio calls) and
// returns the values delivered to joiners on termination.
func (rt *Runtime) New(fn func(*Context) []any, opts ...ContextOption) *Context {
	cfg, err := resolveContextOptions(opts)
	if err != nil {
		panic(err)
	}
	c := rt.newContextCommon(cfg)
	c.entry = fn
	return c
}

// NewEmpty constructs an "empty" context: one with no entry point. Its
// only legal use is as the prev argument of a transfer, i.e. as a save
// slot for the calling goroutine's own state. It can never be made Ready.
func (rt *Runtime) NewEmpty(opts ...ContextOption) *Context {
	cfg, err := resolveContextOptions(opts)
	if err != nil {
		panic(err)
	}
	c := rt.newContextCommon(cfg)
	c.saveSlot = true
	return c
}

// ID returns a stable, process-unique identifier for diagnostics.
func (c *Context) ID() uint64 { return c.id }

// Status returns the context's current lifecycle status. Safe to call
// from outside the owning goroutine for diagnostics.
func (c *Context) Status() Status { return Status(c.status.Load()) }

func (c *Context) setStatus(s Status) {
	old := Status(c.status.Swap(int32(s)))
	c.rt.logger.logTransition(c, old, s)
}

// Prio returns the context's current priority.
func (c *Context) Prio() int8 { return int8(c.priority.Load()) }

// SetPrio sets the context's priority. If the context is currently READY
// (enqueued but not running), it is immediately re-bucketed into its new
// priority's FIFO, appended at the back — see SPEC_FULL.md's Open
// Question resolution. A change to the *current* context takes effect at
// its next Schedule.
func (c *Context) SetPrio(p int8) {
	c.rt.assertOwnerGoroutine()
	if Status(c.status.Load()) == StatusReady {
		c.rt.rebucket(c, p)
		return
	}
	c.priority.Store(int32(p))
}

// Nice adjusts priority by delta, clamped to [PrioMin, PrioMax].
func (c *Context) Nice(delta int8) {
	p := int(c.Prio()) + int(delta)
	if p < int(PrioMin) {
		p = int(PrioMin)
	}
	if p > int(PrioMax) {
		p = int(PrioMax)
	}
	c.SetPrio(int8(p))
}

// Desc returns the free-form description string.
func (c *Context) Desc() string { return c.desc }

// SetDesc sets the free-form description string.
func (c *Context) SetDesc(s string) { c.desc = s }

// SaveFlags returns the context's current save mask.
func (c *Context) SaveFlags() SaveMask { return c.saveMask }

// SetSaveFlags replaces the context's save mask outright.
func (c *Context) SetSaveFlags(m SaveMask) { c.saveMask = m }

// SaveAlso ORs extra flags into the context's save mask.
func (c *Context) SaveAlso(extra SaveMask) { c.saveMask |= extra }

// GuardedSave ORs extra flags into the save mask and returns a revert
// function that restores the prior mask exactly. Intended for a bounded
// scope: `defer ctx.GuardedSave(coro.SaveErrSV)()`.
func (c *Context) GuardedSave(extra SaveMask) (revert func()) {
	prev := c.saveMask
	c.saveMask |= extra
	return func() {
		c.saveMask = prev
	}
}

// Ready moves a NEW or SUSPENDED context to READY and enqueues it on the
// scheduler. A no-op if already READY or RUNNING. An error if the context
// is an empty save-slot, or ZOMBIE/DEAD.
func (c *Context) Ready() error {
	c.rt.assertOwnerGoroutine()
	if c.saveSlot {
		return &Error{Kind: ErrKindProgramming, Message: "cannot ready an empty context"}
	}
	switch Status(c.status.Load()) {
	case StatusNew, StatusSuspended:
		c.setStatus(StatusReady)
		c.rt.enqueue(c)
		return nil
	case StatusReady, StatusRunning:
		return nil
	default:
		return fmt.Errorf("coro: cannot ready context %q: %w", c.name, ErrDeadContext)
	}
}

// Cancel stores values as the context's return list, marks it ZOMBIE, and
// wakes the reaper. If c is the current context, this calls Schedule and
// never returns to the caller.
func (c *Context) Cancel(values ...any) {
	c.rt.assertOwnerGoroutine()
	c.terminateWith(values)
	if c == c.rt.current {
		c.rt.Schedule()
		// c is ZOMBIE, so Schedule handed control on via transferFinal and
		// returned; end this goroutine so none of c's code runs again.
		runtime.Goexit()
	}
}

// terminateWith performs the common ZOMBIE transition shared by Cancel
// and a context's own entry function returning.
func (c *Context) terminateWith(values []any) {
	switch Status(c.status.Load()) {
	case StatusZombie, StatusDead:
		return
	}
	if Status(c.status.Load()) == StatusReady {
		c.rt.readyQueues[prioBucket(c.Prio())].remove(c)
		c.rt.nready--
	}
	if c.cancelUnlink != nil {
		c.cancelUnlink()
		c.cancelUnlink = nil
	}
	c.retVals = values
	c.setStatus(StatusZombie)
	c.rt.pushDestroyList(c)
}

// Join suspends the current context until c terminates, then returns the
// values passed to Cancel/Terminate, even if c is already DEAD.
//
// If deadline is non-nil and it is done before c terminates, Join returns
// deadline.Err() instead, without affecting c, and removes the caller
// from c's join queue so the reaper does not wake it later.
func (c *Context) Join(deadline context.Context) ([]any, error) {
	rt := c.rt
	rt.assertOwnerGoroutine()
	cur := rt.current
	if s := Status(c.status.Load()); s == StatusZombie || s == StatusDead {
		return c.retVals, nil
	}

	var stopWatch func()
	if deadline != nil {
		select {
		case <-deadline.Done():
			return nil, deadline.Err()
		default:
		}
		stopWatch = rt.watchExternalDeadline(cur, deadline)
	}

	c.joinQ = append(c.joinQ, cur)
	unlink := func() {
		for i, x := range c.joinQ {
			if x == cur {
				c.joinQ = append(c.joinQ[:i], c.joinQ[i+1:]...)
				break
			}
		}
	}
	cur.cancelUnlink = unlink
	cur.setStatus(StatusSuspended)
	rt.Schedule()
	cur.cancelUnlink = nil

	if stopWatch != nil {
		stopWatch()
	}
	if cur.extWake.CompareAndSwap(true, false) {
		unlink()
		return nil, deadline.Err()
	}
	return c.retVals, nil
}
