package coro

import "time"

// runtimeOptions holds configuration resolved at Runtime construction.
type runtimeOptions struct {
	logger                *Logger
	idle                  IdleHook
	stackPoolSize         int
	defaultTimerResolution time.Duration
}

// RuntimeOption configures a Runtime. Implementations are returned by the
// With* functions below; nil options are skipped.
type RuntimeOption interface {
	applyRuntime(*runtimeOptions) error
}

type runtimeOptionFunc func(*runtimeOptions) error

func (f runtimeOptionFunc) applyRuntime(o *runtimeOptions) error { return f(o) }

// WithLogger installs a structured logger. If omitted, a no-op logger is
// used so logging is opt-in overhead.
func WithLogger(l *Logger) RuntimeOption {
	return runtimeOptionFunc(func(o *runtimeOptions) error {
		o.logger = l
		return nil
	})
}

// WithIdleHook replaces the default deadlock-detecting idle hook.
func WithIdleHook(h IdleHook) RuntimeOption {
	return runtimeOptionFunc(func(o *runtimeOptions) error {
		o.idle = h
		return nil
	})
}

// WithStackPoolSize bounds how many completed context worker goroutines
// are kept parked for reuse rather than allowed to exit. Default 8.
func WithStackPoolSize(n int) RuntimeOption {
	return runtimeOptionFunc(func(o *runtimeOptions) error {
		o.stackPoolSize = n
		return nil
	})
}

// WithDefaultTimerResolution bounds how long the event-loop bridge may
// block the reactor when no timer is sooner. Default 100ms.
func WithDefaultTimerResolution(d time.Duration) RuntimeOption {
	return runtimeOptionFunc(func(o *runtimeOptions) error {
		o.defaultTimerResolution = d
		return nil
	})
}

func resolveRuntimeOptions(opts []RuntimeOption) (*runtimeOptions, error) {
	cfg := &runtimeOptions{
		stackPoolSize:          8,
		defaultTimerResolution: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyRuntime(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = NewDiscardLogger()
	}
	if cfg.idle == nil {
		cfg.idle = defaultIdleHook
	}
	return cfg, nil
}

// contextOptions holds configuration resolved at Context construction.
type contextOptions struct {
	priority int8
	name     string
	desc     string
	saveMask SaveMask
}

// ContextOption configures a new Context.
type ContextOption interface {
	applyContext(*contextOptions) error
}

type contextOptionFunc func(*contextOptions) error

func (f contextOptionFunc) applyContext(o *contextOptions) error { return f(o) }

// WithPriority sets the initial priority of a new context.
func WithPriority(p int8) ContextOption {
	return contextOptionFunc(func(o *contextOptions) error {
		o.priority = p
		return nil
	})
}

// WithName sets a stable diagnostic identifier, distinct from Desc, used
// only in log lines and error messages.
func WithName(name string) ContextOption {
	return contextOptionFunc(func(o *contextOptions) error {
		o.name = name
		return nil
	})
}

// WithDesc sets the free-form description string.
func WithDesc(desc string) ContextOption {
	return contextOptionFunc(func(o *contextOptions) error {
		o.desc = desc
		return nil
	})
}

// WithSaveMask overrides the default save mask (SaveDef).
func WithSaveMask(m SaveMask) ContextOption {
	return contextOptionFunc(func(o *contextOptions) error {
		o.saveMask = m
		return nil
	})
}

func resolveContextOptions(opts []ContextOption) (*contextOptions, error) {
	cfg := &contextOptions{
		priority: PrioNormal,
		saveMask: SaveDef,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyContext(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
