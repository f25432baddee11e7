//go:build !tinygo

package app

import (
	"rtkern/hal"
	"rtkern/kernel"
	"rtkern/tasks/affinity"
	"rtkern/tasks/blink"
	"rtkern/tasks/drift"
	"rtkern/tasks/lifecycle"
	"rtkern/tasks/pcq"
	"rtkern/tasks/priorities"
)

// Scenario is one runnable demo: a name and a spawn function that creates
// its tasks on a fresh kernel.
type Scenario struct {
	Name        string
	Description string
	Spawn       func(*kernel.Kernel, hal.Board) error
}

var scenarios = []Scenario{
	{
		Name:        "blink",
		Description: "Two tasks blinking two LEDs at different periods.",
		Spawn: func(k *kernel.Kernel, board hal.Board) error {
			if _, err := blink.Spawn(k, board, 0, 500); err != nil {
				return err
			}
			_, err := blink.Spawn(k, board, 1, 300)
			return err
		},
	},
	{
		Name:        "hello",
		Description: "A task that exits by returning, watched by a reaper.",
		Spawn: func(k *kernel.Kernel, board hal.Board) error {
			_, _, err := lifecycle.SpawnHello(k, board)
			return err
		},
	},
	{
		Name:        "priorities",
		Description: "High-priority task preempts a low one, then demotes itself.",
		Spawn: func(k *kernel.Kernel, board hal.Board) error {
			_, _, err := priorities.Spawn(k, board, 10)
			return err
		},
	},
	{
		Name:        "drift",
		Description: "Relative delays drift, anchored delays hold their cadence.",
		Spawn: func(k *kernel.Kernel, board hal.Board) error {
			_, _, err := drift.Spawn(k, board)
			return err
		},
	},
	{
		Name:        "lifecycle",
		Description: "A controller suspends, resumes and finally deletes a worker.",
		Spawn: func(k *kernel.Kernel, board hal.Board) error {
			_, _, err := lifecycle.Spawn(k, board)
			return err
		},
	},
	{
		Name:        "affinity",
		Description: "Core-pinned tasks report where they run.",
		Spawn: func(k *kernel.Kernel, board hal.Board) error {
			_, err := affinity.Spawn(k, board)
			return err
		},
	},
	{
		Name:        "pcq",
		Description: "Producer, consumer and monitor sharing a bounded queue.",
		Spawn: func(k *kernel.Kernel, board hal.Board) error {
			_, _, err := pcq.Spawn(k, board)
			return err
		},
	},
}

// Scenarios returns all registered scenarios.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// FindScenario looks a scenario up by name.
func FindScenario(name string) (Scenario, bool) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}
