package coro

// vtableVersion is bumped whenever the VTable struct's field set changes
// in a way that would break a native extension built against an older
// layout. LoadVTable rejects a mismatch rather than silently misbehaving.
const vtableVersion = 1

// VTable is the stable entry-point surface exposed to native extensions
// (cgo callers, plugins loaded via plugin.Open) that need to participate
// in scheduling without importing this package directly — mirroring the
// "native extension" contract named in the original runtime's embedding
// story, realized here as a plain struct of function values rather than a
// C ABI.
type VTable struct {
	Version uint32

	Transfer     func(prev, next *Context)
	Schedule     func(rt *Runtime)
	Cede         func(rt *Runtime)
	CedeNotSelf  func(rt *Runtime)
	Ready        func(c *Context) error
	IsReady      func(c *Context) bool
	NReady       func(rt *Runtime) int
	Current      func(rt *Runtime) *Context
	GetSave      func(c *Context) (defav []any, defsv any, errsv error, irssv string, deffh any)
	SetSave      func(c *Context, defav []any, defsv any, errsv error, irssv string, deffh any)
}

// NewVTable builds a VTable bound to rt, stamped with the current
// vtableVersion.
func NewVTable(rt *Runtime) *VTable {
	return &VTable{
		Version: vtableVersion,
		Transfer: func(prev, next *Context) {
			rt.transfer(prev, next)
		},
		Schedule:    func(*Runtime) { rt.Schedule() },
		Cede:        func(*Runtime) { rt.Cede() },
		CedeNotSelf: func(*Runtime) { rt.CedeNotSelf() },
		Ready:       func(c *Context) error { return c.Ready() },
		IsReady:     func(c *Context) bool { return Status(c.status.Load()) == StatusReady },
		NReady:      func(*Runtime) int { return rt.NReady() },
		Current:     func(*Runtime) *Context { return rt.Current() },
		GetSave: func(c *Context) ([]any, any, error, string, any) {
			return c.defav, c.defsv, c.errsv, c.irssv, c.deffh
		},
		SetSave: func(c *Context, defav []any, defsv any, errsv error, irssv string, deffh any) {
			c.defav, c.defsv, c.errsv, c.irssv, c.deffh = defav, defsv, errsv, irssv, deffh
		},
	}
}

// LoadVTable validates v's Version against this build's vtableVersion,
// returning ErrVersionMismatch instead of aborting the process so a
// native extension can degrade gracefully (e.g. refuse to load) rather
// than crash the host.
func LoadVTable(v *VTable) error {
	if v == nil || v.Version != vtableVersion {
		return ErrVersionMismatch
	}
	return nil
}
