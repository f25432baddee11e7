// Package lifecycle walks a worker task through the full state machine
// from the outside: a controller suspends it mid-sleep, resumes it after a
// quiet window, and finally deletes it.
package lifecycle

import (
	"fmt"

	"rtkern/hal"
	"rtkern/kernel"
)

const (
	workerPeriod  = 1000
	suspendAt     = 2000
	suspendWindow = 3000
	deleteAt      = 8000
)

// WorkerTask logs a heartbeat every workerPeriod ticks until it is deleted.
type WorkerTask struct {
	logger hal.Logger
}

func NewWorker(board hal.Board) *WorkerTask {
	return &WorkerTask{logger: board.Logger()}
}

func (t *WorkerTask) Run(c *kernel.Context) {
	for {
		t.logger.WriteLineString(fmt.Sprintf("worker: alive at %d", c.Now()))
		c.Delay(workerPeriod)
	}
}

// ControllerTask drives the worker through suspend, resume and delete,
// then exits. Deleting a blocked worker discards its pending delay.
type ControllerTask struct {
	logger hal.Logger
	worker kernel.Handle
}

func NewController(board hal.Board, worker kernel.Handle) *ControllerTask {
	return &ControllerTask{logger: board.Logger(), worker: worker}
}

func (t *ControllerTask) Run(c *kernel.Context) {
	c.Delay(suspendAt)
	t.logger.WriteLineString(fmt.Sprintf("controller: suspending worker at %d", c.Now()))
	if err := c.Suspend(t.worker); err != nil {
		t.logger.WriteLineString("controller: suspend failed: " + err.Error())
		return
	}

	c.Delay(suspendWindow)
	t.logger.WriteLineString(fmt.Sprintf("controller: resuming worker at %d", c.Now()))
	if err := c.Resume(t.worker); err != nil {
		t.logger.WriteLineString("controller: resume failed: " + err.Error())
		return
	}

	c.Delay(deleteAt - suspendAt - suspendWindow)
	t.logger.WriteLineString(fmt.Sprintf("controller: deleting worker at %d", c.Now()))
	if err := c.Delete(t.worker); err != nil {
		t.logger.WriteLineString("controller: delete failed: " + err.Error())
	}
}

// HelloTask logs a fixed number of greetings and then just returns, which
// the kernel treats as self-deletion.
type HelloTask struct {
	logger hal.Logger
	count  int
}

func NewHello(board hal.Board, count int) *HelloTask {
	return &HelloTask{logger: board.Logger(), count: count}
}

func (t *HelloTask) Run(c *kernel.Context) {
	for i := 1; i <= t.count; i++ {
		t.logger.WriteLineString(fmt.Sprintf("hello: %d/%d at %d", i, t.count, c.Now()))
		if i < t.count {
			c.Delay(500)
		}
	}
}

// ReaperTask deletes the hello task after a grace period if it is still
// alive. Normally it finds the handle already invalid.
type ReaperTask struct {
	logger hal.Logger
	target kernel.Handle
}

func NewReaper(board hal.Board, target kernel.Handle) *ReaperTask {
	return &ReaperTask{logger: board.Logger(), target: target}
}

func (t *ReaperTask) Run(c *kernel.Context) {
	c.Delay(3000)
	switch err := c.Delete(t.target); err {
	case nil:
		t.logger.WriteLineString(fmt.Sprintf("reaper: deleted straggler at %d", c.Now()))
	case kernel.ErrInvalidHandle:
		t.logger.WriteLineString(fmt.Sprintf("reaper: already gone at %d", c.Now()))
	default:
		t.logger.WriteLineString("reaper: delete failed: " + err.Error())
	}
}

// SpawnHello creates a hello task that exits by returning, plus a reaper
// watching over it.
func SpawnHello(k *kernel.Kernel, board hal.Board) (hello, reaper kernel.Handle, err error) {
	hello, err = k.Create(kernel.TaskConfig{Name: "hello", Priority: 4}, NewHello(board, 5).Run)
	if err != nil {
		return
	}
	reaper, err = k.Create(kernel.TaskConfig{Name: "reaper", Priority: 6}, NewReaper(board, hello).Run)
	return
}

// Spawn creates the worker and its controller.
func Spawn(k *kernel.Kernel, board hal.Board) (worker, controller kernel.Handle, err error) {
	worker, err = k.Create(kernel.TaskConfig{Name: "worker", Priority: 3}, NewWorker(board).Run)
	if err != nil {
		return
	}
	controller, err = k.Create(kernel.TaskConfig{Name: "controller", Priority: 8}, NewController(board, worker).Run)
	return
}
