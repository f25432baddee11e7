package kernel

// Scheduling rules: at every scheduling point each core runs the
// highest-priority ready task its affinity admits. Equal priorities run in
// the order they became ready and rotate only when the running task blocks,
// yields or is preempted; there is no time slicing. A task made ready with
// a strictly higher priority than a running task preempts it at the
// scheduling point itself, not at the next tick.

func (k *Kernel) enqueueReadyLocked(t *tcb) {
	k.ready[t.prio] = append(k.ready[t.prio], t)
}

func (k *Kernel) removeReadyLocked(t *tcb) {
	q := k.ready[t.prio]
	for i := range q {
		if q[i] == t {
			k.ready[t.prio] = append(q[:i], q[i+1:]...)
			return
		}
	}
}

// clearCoreLocked takes a running task off its core without requeueing it.
func (k *Kernel) clearCoreLocked(t *tcb) {
	if t.core >= 0 {
		k.cores[t.core] = nil
		t.core = -1
		k.busy--
	}
}

func (k *Kernel) dispatchLocked(t *tcb, core int) {
	t.state = StateRunning
	t.core = core
	k.cores[core] = t
	k.busy++
	t.cond.Signal()
}

// preemptLocked moves a running task back to the tail of its ready level.
// Its goroutine parks at its next kernel call.
func (k *Kernel) preemptLocked(t *tcb) {
	k.clearCoreLocked(t)
	t.state = StateReady
	k.enqueueReadyLocked(t)
}

// rescheduleLocked places ready tasks onto cores, highest priority first and
// FIFO within a level, preempting strictly lower-priority running tasks.
// It repeats until no placement is possible, so a preempted task may itself
// migrate to another core in the same pass.
func (k *Kernel) rescheduleLocked() {
	for k.placeOneLocked() {
	}
	if k.busy == 0 {
		k.idle.Broadcast()
	}
}

func (k *Kernel) placeOneLocked() bool {
	for p := len(k.ready) - 1; p >= 0; p-- {
		for i, t := range k.ready[p] {
			core, victim := k.findCoreLocked(t)
			if core < 0 {
				continue
			}
			k.ready[p] = append(k.ready[p][:i], k.ready[p][i+1:]...)
			if victim != nil {
				k.preemptLocked(victim)
			}
			k.dispatchLocked(t, core)
			return true
		}
	}
	return false
}

// findCoreLocked picks a core for t: a free admissible core if one exists,
// otherwise the admissible core running the lowest priority strictly below
// t's. Returns core -1 if t cannot be placed now.
func (k *Kernel) findCoreLocked(t *tcb) (int, *tcb) {
	core := -1
	var victim *tcb
	for c := range k.cores {
		if !t.affinity.allows(c) {
			continue
		}
		cur := k.cores[c]
		if cur == nil {
			return c, nil
		}
		if cur.prio < t.prio && (victim == nil || cur.prio < victim.prio) {
			core, victim = c, cur
		}
	}
	return core, victim
}

// awaitRunningLocked parks the calling task's goroutine until the scheduler
// has it Running again. Every kernel entry and exit passes through here, so
// a task that was preempted, suspended or deleted between two kernel calls
// cannot complete another one. Unwinds via taskExit when the task has been
// deleted; callers hold k.mu with a deferred unlock.
func (k *Kernel) awaitRunningLocked(t *tcb) {
	for t.state != StateRunning && t.state != StateDeleted {
		t.cond.Wait()
	}
	if t.state == StateDeleted {
		panic(taskExit{})
	}
}

// yieldLocked rotates the caller to the tail of its priority level.
func (k *Kernel) yieldLocked(t *tcb) {
	t.state = StateReady
	k.clearCoreLocked(t)
	k.enqueueReadyLocked(t)
	k.rescheduleLocked()
}

func (k *Kernel) yield(t *tcb) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.awaitRunningLocked(t)
	k.yieldLocked(t)
	k.awaitRunningLocked(t)
}
