package kernel

// taskExit unwinds a task goroutine when its task has been deleted. It is
// recovered by the trampoline and never escapes the kernel.
type taskExit struct{}

// PanicInfo describes a task body panic.
type PanicInfo struct {
	Task  Handle
	Name  string
	Value any
	Stack []byte
}

// SetPanicHandler installs a handler invoked whenever a task body panics.
// The panicking task is deleted and the rest of the kernel keeps running;
// the handler must not panic.
func (k *Kernel) SetPanicHandler(fn func(PanicInfo)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.onPanic = fn
}

// spawnLocked starts the task goroutine. It parks until first dispatched,
// runs the body, and treats a normal return as self-deletion.
func (k *Kernel) spawnLocked(t *tcb) {
	k.wg.Add(1)
	go func() {
		defer k.wg.Done()
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if _, ok := r.(taskExit); ok {
				return
			}
			k.taskPanicked(t, r)
		}()
		k.parkFirst(t)
		t.body(&t.ctx)
		k.exitSelf(t)
	}()
}

func (k *Kernel) parkFirst(t *tcb) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.awaitRunningLocked(t)
}

func (k *Kernel) exitSelf(t *tcb) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.awaitRunningLocked(t)
	k.deleteLocked(t)
	panic(taskExit{})
}

// taskPanicked contains a body panic: the task is deleted and the handler,
// if any, observes it. Runs without k.mu held (kernel ops release it on
// unwind via their deferred unlocks).
func (k *Kernel) taskPanicked(t *tcb, val any) {
	info := PanicInfo{
		Task:  t.handle(),
		Name:  t.name,
		Value: val,
		Stack: captureStack(),
	}
	k.mu.Lock()
	if t.state != StateDeleted {
		k.deleteLocked(t)
	}
	fn := k.onPanic
	k.mu.Unlock()
	if fn != nil {
		fn(info)
	}
}
