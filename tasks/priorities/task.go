// Package priorities demonstrates preemption: a high-priority task on a
// fast cadence interleaves with a low-priority task on a slow one, and
// after a while the high task demotes itself below the low one.
package priorities

import (
	"fmt"

	"rtkern/hal"
	"rtkern/kernel"
)

const (
	LowPriority  = 3
	HighPriority = 8

	lowPeriod  = 1000
	highPeriod = 500
)

// LowTask logs a heartbeat every lowPeriod ticks.
type LowTask struct {
	logger hal.Logger
}

func NewLow(board hal.Board) *LowTask {
	return &LowTask{logger: board.Logger()}
}

func (t *LowTask) Run(c *kernel.Context) {
	ref := c.Now()
	for {
		t.logger.WriteLineString(fmt.Sprintf("low: tick=%d prio=%d", c.Now(), c.Priority()))
		c.DelayUntil(&ref, lowPeriod)
	}
}

// HighTask logs twice as often as the low task. After demoteAfter
// iterations it drops its own priority below the low task's and keeps
// running, now yielding the core to it.
type HighTask struct {
	logger      hal.Logger
	demoteAfter int
}

func NewHigh(board hal.Board, demoteAfter int) *HighTask {
	return &HighTask{logger: board.Logger(), demoteAfter: demoteAfter}
}

func (t *HighTask) Run(c *kernel.Context) {
	ref := c.Now()
	for i := 0; ; i++ {
		t.logger.WriteLineString(fmt.Sprintf("high: tick=%d prio=%d", c.Now(), c.Priority()))
		if t.demoteAfter > 0 && i+1 == t.demoteAfter {
			t.logger.WriteLineString(fmt.Sprintf("high: demoting to %d", LowPriority-1))
			c.SetPriority(c.Self(), LowPriority-1)
		}
		c.DelayUntil(&ref, highPeriod)
	}
}

// Spawn creates the low and high tasks.
func Spawn(k *kernel.Kernel, board hal.Board, demoteAfter int) (low, high kernel.Handle, err error) {
	low, err = k.Create(kernel.TaskConfig{Name: "low", Priority: LowPriority}, NewLow(board).Run)
	if err != nil {
		return
	}
	high, err = k.Create(kernel.TaskConfig{Name: "high", Priority: HighPriority}, NewHigh(board, demoteAfter).Run)
	return
}
