package coro

import (
	"log/slog"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"
)

// Logger wraps a logiface.Logger[*islog.Event] for the structured log
// lines this package emits: context status transitions, transfers,
// reaper sweeps, idle-hook deadlocks, reactor errors and recovered
// entry-function panics. The zero value is not usable; construct with NewLogger or
// NewDiscardLogger.
type Logger struct {
	l *logiface.Logger[*islog.Event]
}

// NewLogger builds a Logger backed by the given slog.Handler, following
// the same construction shape as islog.L.New(islog.L.WithSlogHandler(h)).
func NewLogger(handler slog.Handler, opts ...logiface.Option[*islog.Event]) *Logger {
	all := append([]logiface.Option[*islog.Event]{islog.L.WithSlogHandler(handler)}, opts...)
	return &Logger{l: islog.L.New(all...)}
}

// NewDiscardLogger returns a Logger that produces no output. This is the
// default installed when no WithLogger option is supplied.
func NewDiscardLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

func (lg *Logger) logTransition(c *Context, from, to Status) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.l.Debug().
		Str("ctx_name", c.name).
		Int("ctx_id", int(c.id)).
		Str("from_status", from.String()).
		Str("to_status", to.String()).
		Int("priority", int(c.Prio())).
		Log("context status transition")
}

func (lg *Logger) logTransfer(prev, next *Context) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.l.Debug().
		Str("from", prev.name).
		Str("to", next.name).
		Log("transfer")
}

func (lg *Logger) logInfo(msg string) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.l.Info().Log(msg)
}

func (lg *Logger) logDeadlock() {
	if lg == nil || lg.l == nil {
		return
	}
	lg.l.Err().Log("deadlock detected: no ready context and idle hook made nothing ready")
}

func (lg *Logger) logReactorError(err error) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.l.Err().Err(err).Log("reactor error")
}

func (lg *Logger) logPanic(c *Context, recovered any) {
	if lg == nil || lg.l == nil {
		return
	}
	lg.l.Err().
		Str("ctx_name", c.name).
		Int("ctx_id", int(c.id)).
		Interface("recovered", recovered).
		Log("recovered panic in context entry function")
}
