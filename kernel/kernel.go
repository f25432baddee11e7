// Package kernel implements a minimal fixed-priority real-time scheduler:
// preemptive across priorities, cooperative within a priority level, with
// tick-based delays and bounded blocking queues for inter-task hand-off.
//
// Each task body runs on its own goroutine but is gated by the kernel: a
// body can only return from a kernel call while its task is in the Running
// state, so preemption, suspension and deletion take effect before the
// affected task completes any further kernel-visible operation. Task bodies
// interact with the kernel exclusively through their *Context.
package kernel

import (
	"context"
	"sync"
	"time"
)

// Forever blocks a queue wait indefinitely. A timeout of 0 is a
// non-blocking poll.
const Forever = ^uint64(0)

// Config sizes a kernel instance. Zero fields take defaults.
type Config struct {
	// Cores is the number of independent execution contexts. Default 1.
	Cores int

	// PriorityLevels bounds task priorities to 0..PriorityLevels-1,
	// higher is more urgent. Default 16.
	PriorityLevels int

	// MaxTasks is the task table size. Default 32.
	MaxTasks int

	// StackPool is the total stack budget in bytes available to Create.
	// Default 256 KiB.
	StackPool int

	// TickPeriod is the tick interval used by Start. Default 1ms.
	TickPeriod time.Duration
}

func (c Config) withDefaults() Config {
	if c.Cores <= 0 {
		c.Cores = 1
	}
	if c.PriorityLevels <= 0 {
		c.PriorityLevels = 16
	}
	if c.MaxTasks <= 0 {
		c.MaxTasks = 32
	}
	if c.StackPool <= 0 {
		c.StackPool = 256 << 10
	}
	if c.TickPeriod <= 0 {
		c.TickPeriod = time.Millisecond
	}
	return c
}

// Kernel owns the clock, the task table, the ready registry and all queues
// created from it. Instances are independent; tests may run several.
type Kernel struct {
	mu   sync.Mutex
	idle *sync.Cond // signalled when every core goes idle

	cfg Config

	slots  []slot
	ready  [][]*tcb // per-priority FIFO of ready tasks
	timers []*tcb   // blocked tasks with a deadline, soonest first
	cores  []*tcb   // running task per core, nil = idle
	busy   int      // number of occupied cores

	tick      uint64
	stackFree int

	onPanic func(PanicInfo)

	wg   sync.WaitGroup
	quit chan struct{}
	down bool
}

type slot struct {
	gen uint32
	t   *tcb
}

// New creates a kernel instance.
func New(cfg Config) *Kernel {
	cfg = cfg.withDefaults()
	k := &Kernel{
		cfg:       cfg,
		slots:     make([]slot, cfg.MaxTasks),
		ready:     make([][]*tcb, cfg.PriorityLevels),
		cores:     make([]*tcb, cfg.Cores),
		stackFree: cfg.StackPool,
		quit:      make(chan struct{}),
	}
	for i := range k.slots {
		k.slots[i].gen = 1
	}
	k.idle = sync.NewCond(&k.mu)
	return k
}

// Cores returns the number of execution contexts.
func (k *Kernel) Cores() int { return k.cfg.Cores }

// Ticks returns the current tick count.
func (k *Kernel) Ticks() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.tick
}

// Tick advances the clock by one tick and wakes every task whose deadline
// has been reached. It is a scheduling point: newly ready tasks preempt
// lower-priority running tasks before Tick returns.
func (k *Kernel) Tick() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.tick++
	k.wakeDueLocked()
}

// Start drives Tick from a periodic timer until ctx is cancelled or the
// kernel shuts down.
func (k *Kernel) Start(ctx context.Context) {
	k.wg.Add(1)
	go func() {
		defer k.wg.Done()
		t := time.NewTicker(k.cfg.TickPeriod)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-k.quit:
				return
			case <-t.C:
				k.Tick()
			}
		}
	}()
}

// WaitIdle blocks until no task is running on any core, i.e. every live
// task is blocked or suspended. Together with Tick it makes manually
// clocked tests deterministic.
func (k *Kernel) WaitIdle() {
	k.mu.Lock()
	defer k.mu.Unlock()
	for k.busy > 0 {
		k.idle.Wait()
	}
}

// Shutdown deletes every task, stops the ticker and joins all task
// goroutines. The kernel must not be used afterwards.
func (k *Kernel) Shutdown() {
	k.mu.Lock()
	if !k.down {
		k.down = true
		close(k.quit)
	}
	for i := range k.slots {
		if t := k.slots[i].t; t != nil {
			k.deleteLocked(t)
		}
	}
	k.mu.Unlock()
	k.wg.Wait()
}

// deadlineLocked converts a relative timeout to an absolute tick deadline.
// The second result is false for Forever.
func (k *Kernel) deadlineLocked(timeout uint64) (uint64, bool) {
	if timeout == Forever {
		return 0, false
	}
	if timeout > Forever-1-k.tick {
		return Forever - 1, true
	}
	return k.tick + timeout, true
}
