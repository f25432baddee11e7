package kernel

import "sync"

// State is a task's scheduling state.
type State uint8

const (
	StateReady State = iota
	StateRunning
	StateBlocked
	StateSuspended
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateBlocked:
		return "blocked"
	case StateSuspended:
		return "suspended"
	case StateDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Handle is a stable, generation-checked task reference. A deleted task's
// handle is never reused: every operation on it fails with
// ErrInvalidHandle, even after the table slot is recycled.
type Handle struct {
	idx uint32
	gen uint32
}

// Valid reports whether the handle was ever issued by a kernel. A valid
// handle may still refer to a deleted task.
func (h Handle) Valid() bool { return h.gen != 0 }

// Affinity selects which cores may run a task.
//
// The zero value leaves the task unpinned (schedulable on any core).
type Affinity struct {
	pinned bool
	core   int
}

// PinnedTo pins a task to a single core.
func PinnedTo(core int) Affinity { return Affinity{pinned: true, core: core} }

func (a Affinity) allows(core int) bool { return !a.pinned || a.core == core }

// TaskConfig describes a task to Create. Zero fields take defaults:
// priority 0, stack DefaultStack, unpinned.
type TaskConfig struct {
	Name     string
	Priority int
	Stack    int // stack budget in bytes drawn from Config.StackPool
	Affinity Affinity
}

// DefaultStack is the stack budget charged when TaskConfig.Stack is zero.
const DefaultStack = 4 << 10

// tcb is the kernel's record of one task.
type tcb struct {
	idx  uint32
	gen  uint32
	name string
	prio int

	state    State
	affinity Affinity
	stack    int
	core     int // core currently running on, -1 otherwise

	// cond gates the task goroutine: it may only proceed past a kernel
	// call while state is Running (or unwind while Deleted).
	cond *sync.Cond

	// wake condition for Blocked state
	timed    bool   // linked into the timer list
	deadline uint64 // valid when timed
	waitq    *Queue // non-nil while on a queue wait set
	waitSend bool   // which wait set of waitq
	timedOut bool   // the last wake was a queue-wait timeout

	ctx  Context
	body func(*Context)
}

func (t *tcb) handle() Handle { return Handle{idx: t.idx, gen: t.gen} }

func (k *Kernel) lookupLocked(h Handle) (*tcb, error) {
	if h.gen == 0 || int(h.idx) >= len(k.slots) {
		return nil, ErrInvalidHandle
	}
	s := &k.slots[h.idx]
	if s.t == nil || s.gen != h.gen {
		return nil, ErrInvalidHandle
	}
	return s.t, nil
}

func (k *Kernel) clampPrio(p int) int {
	if p < 0 {
		return 0
	}
	if p >= k.cfg.PriorityLevels {
		return k.cfg.PriorityLevels - 1
	}
	return p
}

// Create registers a new task and makes it Ready. The body runs on its own
// goroutine, gated by the scheduler; a body that returns is treated as
// self-deletion. Fails with ErrResourceExhausted when the task table or the
// stack pool cannot cover the request.
func (k *Kernel) Create(cfg TaskConfig, body func(*Context)) (Handle, error) {
	return k.create(nil, cfg, body)
}

func (k *Kernel) create(caller *tcb, cfg TaskConfig, body func(*Context)) (Handle, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if caller != nil {
		k.awaitRunningLocked(caller)
	}
	if k.down {
		return Handle{}, ErrResourceExhausted
	}
	if cfg.Affinity.pinned && (cfg.Affinity.core < 0 || cfg.Affinity.core >= k.cfg.Cores) {
		return Handle{}, ErrInvalidCore
	}
	if cfg.Stack <= 0 {
		cfg.Stack = DefaultStack
	}
	if cfg.Stack > k.stackFree {
		return Handle{}, ErrResourceExhausted
	}

	var s *slot
	idx := -1
	for i := range k.slots {
		if k.slots[i].t == nil {
			s, idx = &k.slots[i], i
			break
		}
	}
	if s == nil {
		return Handle{}, ErrResourceExhausted
	}

	t := &tcb{
		idx:      uint32(idx),
		gen:      s.gen,
		name:     cfg.Name,
		prio:     k.clampPrio(cfg.Priority),
		state:    StateReady,
		affinity: cfg.Affinity,
		stack:    cfg.Stack,
		core:     -1,
		body:     body,
	}
	t.cond = sync.NewCond(&k.mu)
	t.ctx = Context{k: k, t: t}
	s.t = t
	k.stackFree -= t.stack

	k.enqueueReadyLocked(t)
	k.spawnLocked(t)
	k.rescheduleLocked()
	if caller != nil {
		k.awaitRunningLocked(caller)
	}
	return t.handle(), nil
}

// Delete removes a task in any state: it is pulled out of whatever ready or
// wait list it occupies, its stack budget is returned, and its handle
// becomes permanently invalid. Other waiters on the same queue observe no
// partial wake-up.
func (k *Kernel) Delete(h Handle) error { return k.delete(nil, h) }

func (k *Kernel) delete(caller *tcb, h Handle) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if caller != nil {
		k.awaitRunningLocked(caller)
	}
	t, err := k.lookupLocked(h)
	if err != nil {
		return err
	}
	self := t == caller
	k.deleteLocked(t)
	if self {
		// Deletion never returns to the deleted task.
		panic(taskExit{})
	}
	if caller != nil {
		k.awaitRunningLocked(caller)
	}
	return nil
}

func (k *Kernel) deleteLocked(t *tcb) {
	switch t.state {
	case StateReady:
		k.removeReadyLocked(t)
	case StateRunning:
		k.clearCoreLocked(t)
	case StateBlocked:
		k.unlinkWaitLocked(t)
	case StateDeleted:
		return
	}
	t.state = StateDeleted
	s := &k.slots[t.idx]
	s.t = nil
	s.gen++
	k.stackFree += t.stack
	t.cond.Broadcast() // let a parked goroutine unwind
	k.rescheduleLocked()
}

// unlinkWaitLocked removes a Blocked task from its timer and queue wait
// lists, discarding the wake condition.
func (k *Kernel) unlinkWaitLocked(t *tcb) {
	if t.timed {
		k.removeTimerLocked(t)
	}
	if t.waitq != nil {
		t.waitq.removeWaiterLocked(t)
		t.waitq = nil
	}
	t.timedOut = false
}

// Suspend takes a task out of scheduling regardless of its state. A task
// suspended while Blocked loses its wake condition: resuming it makes it
// Ready, not blocked again. The state change is complete before Suspend
// returns; the target completes no further kernel operation until resumed.
func (k *Kernel) Suspend(h Handle) error { return k.suspend(nil, h) }

func (k *Kernel) suspend(caller *tcb, h Handle) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if caller != nil {
		k.awaitRunningLocked(caller)
	}
	t, err := k.lookupLocked(h)
	if err != nil {
		return err
	}
	switch t.state {
	case StateRunning:
		k.clearCoreLocked(t)
	case StateReady:
		k.removeReadyLocked(t)
	case StateBlocked:
		k.unlinkWaitLocked(t)
	case StateSuspended:
		return nil
	}
	t.state = StateSuspended
	k.rescheduleLocked()
	if caller != nil {
		k.awaitRunningLocked(caller) // parks here on self-suspend
	}
	return nil
}

// Resume makes a Suspended task Ready. If it outranks a running task it
// preempts immediately, before Resume returns to a lower-priority caller.
// Resuming a task that is not suspended is a no-op.
func (k *Kernel) Resume(h Handle) error { return k.resume(nil, h) }

func (k *Kernel) resume(caller *tcb, h Handle) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if caller != nil {
		k.awaitRunningLocked(caller)
	}
	t, err := k.lookupLocked(h)
	if err != nil {
		return err
	}
	if t.state == StateSuspended {
		t.state = StateReady
		k.enqueueReadyLocked(t)
		k.rescheduleLocked()
	}
	if caller != nil {
		k.awaitRunningLocked(caller)
	}
	return nil
}

// SetPriority changes a task's priority in place (clamped to the kernel's
// range) and re-evaluates preemption: lowering the running task below a
// ready one, or raising a ready task above the running one, switches
// immediately.
func (k *Kernel) SetPriority(h Handle, prio int) error { return k.setPriority(nil, h, prio) }

func (k *Kernel) setPriority(caller *tcb, h Handle, prio int) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if caller != nil {
		k.awaitRunningLocked(caller)
	}
	t, err := k.lookupLocked(h)
	if err != nil {
		return err
	}
	prio = k.clampPrio(prio)
	if t.prio != prio {
		if t.state == StateReady {
			k.removeReadyLocked(t)
			t.prio = prio
			k.enqueueReadyLocked(t)
		} else {
			t.prio = prio
		}
		k.rescheduleLocked()
	}
	if caller != nil {
		k.awaitRunningLocked(caller)
	}
	return nil
}

// TaskState reports a task's current state, for diagnostics.
func (k *Kernel) TaskState(h Handle) (State, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	t, err := k.lookupLocked(h)
	if err != nil {
		return StateDeleted, err
	}
	return t.state, nil
}
