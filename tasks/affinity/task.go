// Package affinity pins one task to each core and has them report where
// they run. A pinned task only ever logs its own core.
package affinity

import (
	"fmt"

	"rtkern/hal"
	"rtkern/kernel"
)

const period = 1000

// Task logs the core it is currently dispatched on.
type Task struct {
	logger hal.Logger
	name   string
}

func New(board hal.Board, name string) *Task {
	return &Task{logger: board.Logger(), name: name}
}

func (t *Task) Run(c *kernel.Context) {
	for {
		t.logger.WriteLineString(fmt.Sprintf("%s: core=%d tick=%d", t.name, c.Core(), c.Now()))
		c.Delay(period)
	}
}

// Spawn creates one pinned task per core plus one unpinned floater.
func Spawn(k *kernel.Kernel, board hal.Board) ([]kernel.Handle, error) {
	var handles []kernel.Handle
	for core := 0; core < k.Cores(); core++ {
		name := fmt.Sprintf("pinned%d", core)
		h, err := k.Create(kernel.TaskConfig{
			Name:     name,
			Priority: 5,
			Affinity: kernel.PinnedTo(core),
		}, New(board, name).Run)
		if err != nil {
			return handles, err
		}
		handles = append(handles, h)
	}
	h, err := k.Create(kernel.TaskConfig{Name: "floater", Priority: 4}, New(board, "floater").Run)
	if err != nil {
		return handles, err
	}
	return append(handles, h), nil
}
