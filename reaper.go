package coro

// pushDestroyList appends a freshly-ZOMBIE context to the destroy list
// and wakes the reaper. Called only from terminateWith.
func (rt *Runtime) pushDestroyList(c *Context) {
	rt.destroyList = append(rt.destroyList, c)
	_ = rt.reaper.Ready()
}

// reaperEntry is the reaper context's entry function: drain the destroy
// list, mark each entry DEAD, wake its joiners, detach its globals, then
// block again until woken by the next termination. A context cannot free
// its own resources while running on them; the reaper owns the invariant
// that freed resources are not live ones.
func (rt *Runtime) reaperEntry(self *Context) []any {
	for {
		for len(rt.destroyList) > 0 {
			c := rt.destroyList[0]
			copy(rt.destroyList, rt.destroyList[1:])
			rt.destroyList[len(rt.destroyList)-1] = nil
			rt.destroyList = rt.destroyList[:len(rt.destroyList)-1]

			c.setStatus(StatusDead)
			rt.metrics.contextsLive.Add(-1)

			joiners := c.joinQ
			c.joinQ = nil
			for _, j := range joiners {
				_ = j.Ready()
			}

			c.defav = nil
			c.defsv = nil
			c.errsv = nil
			c.deffh = nil
		}
		rt.logger.logInfo("reaper sweep complete")
		self.setStatus(StatusSuspended)
		rt.Schedule()
	}
}
