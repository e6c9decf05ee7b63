package coro

import "sync/atomic"

// Metrics holds counters updated by the scheduler and reactor. All are
// monotonic except contextsLive, a gauge the reaper decrements as each
// context becomes DEAD. Safe for concurrent reads from any goroutine.
type Metrics struct {
	contextsCreated atomic.Int64
	contextsLive    atomic.Int64
	schedulerTicks  atomic.Int64
	reactorPolls    atomic.Int64
	timersFired     atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	ContextsCreated int64
	ContextsLive    int64
	SchedulerTicks  int64
	ReactorPolls    int64
	TimersFired     int64
}

// Snapshot returns a copy of the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		ContextsCreated: m.contextsCreated.Load(),
		ContextsLive:    m.contextsLive.Load(),
		SchedulerTicks:  m.schedulerTicks.Load(),
		ReactorPolls:    m.reactorPolls.Load(),
		TimersFired:     m.timersFired.Load(),
	}
}
