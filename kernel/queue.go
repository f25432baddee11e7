package kernel

// Queue is a fixed-capacity FIFO channel of fixed-size items. Items are
// copied in and out; delivery order is send order. Waiters of each kind
// form their own FIFO: the longest-waiting sender or receiver is woken
// first. A queue has no owner and is never deleted.
type Queue struct {
	k        *Kernel
	itemSize int
	capacity int

	buf   []byte
	lens  []int
	head  int
	count int

	sendW []*tcb // tasks blocked waiting for space
	recvW []*tcb // tasks blocked waiting for an item
}

// NewQueue creates a queue holding up to capacity items of at most itemSize
// bytes each.
func (k *Kernel) NewQueue(capacity, itemSize int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	if itemSize < 1 {
		itemSize = 1
	}
	return &Queue{
		k:        k,
		itemSize: itemSize,
		capacity: capacity,
		buf:      make([]byte, capacity*itemSize),
		lens:     make([]int, capacity),
	}
}

// Cap returns the queue capacity in items.
func (q *Queue) Cap() int { return q.capacity }

// Len returns the current occupancy. It never blocks and never affects
// scheduling; intended for monitoring.
func (q *Queue) Len() int {
	q.k.mu.Lock()
	defer q.k.mu.Unlock()
	return q.count
}

// Send copies item into the queue, waking the longest-waiting receiver. If
// the queue is full the caller blocks until space appears or timeout ticks
// elapse; ErrTimedOut is the normal full-queue result, not a fault. A
// timeout of 0 polls, Forever blocks indefinitely.
func (q *Queue) Send(c *Context, item []byte, timeout uint64) error {
	if c == nil || c.t == nil {
		return ErrInvalidHandle
	}
	if len(item) > q.itemSize {
		return ErrItemTooLarge
	}
	k := q.k
	k.mu.Lock()
	defer k.mu.Unlock()
	t := c.t
	k.awaitRunningLocked(t)
	deadline, timed := k.deadlineLocked(timeout)
	for {
		if q.count < q.capacity {
			q.depositLocked(item)
			q.wakeFirstLocked(&q.recvW)
			k.rescheduleLocked()
			k.awaitRunningLocked(t)
			return nil
		}
		if timeout == 0 || (timed && deadline <= k.tick) {
			return ErrTimedOut
		}
		q.blockLocked(t, true, deadline, timed)
		k.awaitRunningLocked(t)
		if t.timedOut {
			t.timedOut = false
			return ErrTimedOut
		}
		// Woken by space or resumed from suspension: re-check.
	}
}

// Receive copies the oldest item into buf and returns its length, waking
// the longest-waiting sender. Blocking and timeout semantics mirror Send.
func (q *Queue) Receive(c *Context, buf []byte, timeout uint64) (int, error) {
	if c == nil || c.t == nil {
		return 0, ErrInvalidHandle
	}
	if len(buf) < q.itemSize {
		return 0, ErrItemTooLarge
	}
	k := q.k
	k.mu.Lock()
	defer k.mu.Unlock()
	t := c.t
	k.awaitRunningLocked(t)
	deadline, timed := k.deadlineLocked(timeout)
	for {
		if q.count > 0 {
			n := q.takeLocked(buf)
			q.wakeFirstLocked(&q.sendW)
			k.rescheduleLocked()
			k.awaitRunningLocked(t)
			return n, nil
		}
		if timeout == 0 || (timed && deadline <= k.tick) {
			return 0, ErrTimedOut
		}
		q.blockLocked(t, false, deadline, timed)
		k.awaitRunningLocked(t)
		if t.timedOut {
			t.timedOut = false
			return 0, ErrTimedOut
		}
	}
}

func (q *Queue) depositLocked(item []byte) {
	slot := (q.head + q.count) % q.capacity
	copy(q.buf[slot*q.itemSize:(slot+1)*q.itemSize], item)
	q.lens[slot] = len(item)
	q.count++
}

func (q *Queue) takeLocked(buf []byte) int {
	n := q.lens[q.head]
	copy(buf, q.buf[q.head*q.itemSize:q.head*q.itemSize+n])
	q.head = (q.head + 1) % q.capacity
	q.count--
	return n
}

func (q *Queue) blockLocked(t *tcb, send bool, deadline uint64, timed bool) {
	if send {
		q.sendW = append(q.sendW, t)
	} else {
		q.recvW = append(q.recvW, t)
	}
	t.waitq = q
	t.waitSend = send
	if timed {
		q.k.addTimerLocked(t, deadline)
	}
	t.state = StateBlocked
	q.k.clearCoreLocked(t)
	q.k.rescheduleLocked()
}

// wakeFirstLocked readies the longest-waiting task of one kind, if any.
// The woken task re-checks the queue when it runs.
func (q *Queue) wakeFirstLocked(list *[]*tcb) {
	if len(*list) == 0 {
		return
	}
	t := (*list)[0]
	*list = (*list)[1:]
	t.waitq = nil
	if t.timed {
		q.k.removeTimerLocked(t)
	}
	t.state = StateReady
	q.k.enqueueReadyLocked(t)
}

func (q *Queue) removeWaiterLocked(t *tcb) {
	list := &q.recvW
	if t.waitSend {
		list = &q.sendW
	}
	for i := range *list {
		if (*list)[i] == t {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}
