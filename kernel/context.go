package kernel

// Context provides a task body's only access to kernel operations. It is
// scoped to one task and must not be shared with other goroutines.
type Context struct {
	k *Kernel
	t *tcb
}

// Self returns the task's own handle.
func (c *Context) Self() Handle { return c.t.handle() }

// Name returns the task's diagnostic name.
func (c *Context) Name() string { return c.t.name }

// Now returns the current tick.
func (c *Context) Now() uint64 {
	return c.k.Ticks()
}

// Core returns the core the task is running on.
func (c *Context) Core() int {
	c.k.mu.Lock()
	defer c.k.mu.Unlock()
	k := c.k
	k.awaitRunningLocked(c.t)
	return c.t.core
}

// Priority returns the task's current priority.
func (c *Context) Priority() int {
	c.k.mu.Lock()
	defer c.k.mu.Unlock()
	return c.t.prio
}

// Delay blocks the task for d ticks from now (relative delay). A zero
// delay yields the core to equal-priority peers.
func (c *Context) Delay(d uint64) {
	c.k.delay(c.t, d)
}

// DelayUntil blocks the task until *ref + period and advances *ref to that
// deadline, keeping a fixed cadence anchored at the first reference value.
// Initialize ref from Now before the first call. If the deadline has
// already passed the call returns immediately and *ref still advances by
// one period, so an overrunning task catches up deadline by deadline.
func (c *Context) DelayUntil(ref *uint64, period uint64) {
	c.k.delayUntil(c.t, ref, period)
}

// Yield moves the task to the tail of its priority level.
func (c *Context) Yield() {
	c.k.yield(c.t)
}

// Exit deletes the calling task. It never returns.
func (c *Context) Exit() {
	k := c.k
	k.mu.Lock()
	defer k.mu.Unlock()
	k.awaitRunningLocked(c.t)
	k.deleteLocked(c.t)
	panic(taskExit{})
}

// Create starts a new task. If it outranks the caller it runs before
// Create returns.
func (c *Context) Create(cfg TaskConfig, body func(*Context)) (Handle, error) {
	return c.k.create(c.t, cfg, body)
}

// Delete removes a task; deleting the task's own handle does not return.
func (c *Context) Delete(h Handle) error {
	return c.k.delete(c.t, h)
}

// Suspend suspends a task; passing the task's own handle parks the caller
// until another task resumes it.
func (c *Context) Suspend(h Handle) error {
	return c.k.suspend(c.t, h)
}

// Resume makes a suspended task ready.
func (c *Context) Resume(h Handle) error {
	return c.k.resume(c.t, h)
}

// SetPriority changes a task's priority; lowering the caller's own below a
// ready task hands the core over before SetPriority returns.
func (c *Context) SetPriority(h Handle, prio int) error {
	return c.k.setPriority(c.t, h, prio)
}
