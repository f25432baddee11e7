// Package blink is the smallest possible demo: one task toggling one LED
// on a fixed cadence.
package blink

import (
	"rtkern/hal"
	"rtkern/kernel"
)

// Task toggles an LED at a fixed period. The cadence is anchored to the
// first toggle, so logging time does not accumulate as drift.
type Task struct {
	led    hal.LED
	period uint64
}

// New returns a blink task driving the i'th LED of the board.
func New(board hal.Board, led int, period uint64) *Task {
	if period == 0 {
		period = 500
	}
	return &Task{led: board.LED(led), period: period}
}

func (t *Task) Run(c *kernel.Context) {
	ref := c.Now()
	on := false
	for {
		if on {
			t.led.Low()
		} else {
			t.led.High()
		}
		on = !on
		c.DelayUntil(&ref, t.period)
	}
}

// Spawn creates the blink task at a low priority.
func Spawn(k *kernel.Kernel, board hal.Board, led int, period uint64) (kernel.Handle, error) {
	return k.Create(kernel.TaskConfig{Name: "blink", Priority: 1}, New(board, led, period).Run)
}
