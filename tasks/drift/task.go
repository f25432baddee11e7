// Package drift contrasts relative and anchored delays. Both tasks do the
// same per-iteration "work" (modelled as a short delay); the relative one
// slips by the work time every cycle while the anchored one holds its
// cadence.
package drift

import (
	"fmt"

	"rtkern/hal"
	"rtkern/kernel"
)

const (
	workTicks = 50
	period    = 500
)

// RelativeTask sleeps period ticks measured from wherever its work ended.
type RelativeTask struct {
	logger hal.Logger
}

func NewRelative(board hal.Board) *RelativeTask {
	return &RelativeTask{logger: board.Logger()}
}

func (t *RelativeTask) Run(c *kernel.Context) {
	for {
		c.Delay(workTicks)
		c.Delay(period)
		t.logger.WriteLineString(fmt.Sprintf("relative: woke at %d", c.Now()))
	}
}

// AnchoredTask sleeps until the next multiple of period past its start.
type AnchoredTask struct {
	logger hal.Logger
}

func NewAnchored(board hal.Board) *AnchoredTask {
	return &AnchoredTask{logger: board.Logger()}
}

func (t *AnchoredTask) Run(c *kernel.Context) {
	ref := c.Now()
	for {
		c.Delay(workTicks)
		c.DelayUntil(&ref, period)
		t.logger.WriteLineString(fmt.Sprintf("anchored: woke at %d", c.Now()))
	}
}

// Spawn creates both tasks at the same priority.
func Spawn(k *kernel.Kernel, board hal.Board) (relative, anchored kernel.Handle, err error) {
	relative, err = k.Create(kernel.TaskConfig{Name: "relative", Priority: 4}, NewRelative(board).Run)
	if err != nil {
		return
	}
	anchored, err = k.Create(kernel.TaskConfig{Name: "anchored", Priority: 4}, NewAnchored(board).Run)
	return
}
