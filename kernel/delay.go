package kernel

import "sort"

// The timer list holds every Blocked task with a deadline: relative and
// absolute delays, and queue waits with a finite timeout. It is sorted by
// deadline, FIFO among equal deadlines. A wake is never early and at most
// one tick late.

func (k *Kernel) addTimerLocked(t *tcb, deadline uint64) {
	t.deadline = deadline
	t.timed = true
	i := sort.Search(len(k.timers), func(i int) bool {
		return k.timers[i].deadline > deadline
	})
	k.timers = append(k.timers, nil)
	copy(k.timers[i+1:], k.timers[i:])
	k.timers[i] = t
}

func (k *Kernel) removeTimerLocked(t *tcb) {
	for i := range k.timers {
		if k.timers[i] == t {
			k.timers = append(k.timers[:i], k.timers[i+1:]...)
			break
		}
	}
	t.timed = false
}

// wakeDueLocked readies every task whose deadline has passed. A task still
// sitting on a queue wait set is timing out: it is removed from the wait
// set and will report ErrTimedOut when it runs.
func (k *Kernel) wakeDueLocked() {
	woke := false
	for len(k.timers) > 0 && k.timers[0].deadline <= k.tick {
		t := k.timers[0]
		k.timers = k.timers[1:]
		t.timed = false
		if t.waitq != nil {
			t.waitq.removeWaiterLocked(t)
			t.waitq = nil
			t.timedOut = true
		}
		t.state = StateReady
		k.enqueueReadyLocked(t)
		woke = true
	}
	if woke {
		k.rescheduleLocked()
	}
}

// delay blocks the calling task for d ticks from now. The deadline is
// computed at the call site, so work done before the call pushes every
// subsequent deadline back: relative delays accumulate drift. A zero delay
// yields.
func (k *Kernel) delay(t *tcb, d uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.awaitRunningLocked(t)
	if d == 0 {
		k.yieldLocked(t)
		k.awaitRunningLocked(t)
		return
	}
	k.blockOnDeadlineLocked(t, k.tick+d)
	k.awaitRunningLocked(t)
	t.timedOut = false
}

// delayUntil blocks until *ref + period and advances *ref to exactly that
// deadline, so successive deadlines form an arithmetic sequence anchored at
// the first reference value, independent of how long the work between calls
// took. Overrun policy: if the deadline is already in the past the call
// returns immediately and *ref still advances by one period, so an
// overrunning task fires back-to-back until the reference catches up with
// the clock.
func (k *Kernel) delayUntil(t *tcb, ref *uint64, period uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.awaitRunningLocked(t)
	next := *ref + period
	*ref = next
	if next <= k.tick {
		return
	}
	k.blockOnDeadlineLocked(t, next)
	k.awaitRunningLocked(t)
	t.timedOut = false
}

func (k *Kernel) blockOnDeadlineLocked(t *tcb, deadline uint64) {
	k.addTimerLocked(t, deadline)
	t.state = StateBlocked
	k.clearCoreLocked(t)
	k.rescheduleLocked()
}
