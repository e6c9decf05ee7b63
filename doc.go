// Package coro implements cooperative, single-threaded-semantics
// coroutine scheduling for Go: a fixed set of user contexts take turns
// running to completion or voluntary suspension, one at a time, with no
// preemption and no data races between them so long as callers never
// reach across a Context boundary without going through this package's
// primitives.
//
// A Context is realized as a goroutine paired with an unbuffered
// "baton" channel; transferring control between contexts is a channel
// handoff rather than a true stack switch, which is why callers never
// see an assembly-level API here. Exactly one context's goroutine is
// ever runnable past a channel receive at a time, enforced by
// Runtime.assertOwnerGoroutine.
//
// Runtime ties everything together: priority-bucketed ready queues,
// a reaper context that frees terminated contexts' resources, an
// optional EventLoopBridge that turns idle scheduling into OS I/O
// polling via a Reactor, and a bounded pool of reusable worker
// goroutines so long-running programs don't leak one OS thread's worth
// of stack per terminated context.
package coro
