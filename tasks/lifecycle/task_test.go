package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rtkern/hal"
	"rtkern/kernel"
)

func step(k *kernel.Kernel, n int) {
	for i := 0; i < n; i++ {
		k.Tick()
		k.WaitIdle()
	}
}

func TestWorkerSurvivesSuspendAndDiesOnDelete(t *testing.T) {
	board := hal.NewMemory(1)
	k := kernel.New(kernel.Config{})
	defer k.Shutdown()

	worker, _, err := Spawn(k, board)
	require.NoError(t, err)
	k.WaitIdle()
	step(k, 9000)

	// The worker is silent during the suspend window and logs nothing at
	// the tick it is suspended or deleted on, because the controller runs
	// first at its higher priority.
	want := []string{
		"worker: alive at 0",
		"worker: alive at 1000",
		"controller: suspending worker at 2000",
		"controller: resuming worker at 5000",
		"worker: alive at 5000",
		"worker: alive at 6000",
		"worker: alive at 7000",
		"controller: deleting worker at 8000",
	}
	require.Equal(t, want, board.Lines())

	_, err = k.TaskState(worker)
	require.ErrorIs(t, err, kernel.ErrInvalidHandle)
}

func TestHelloExitsByReturningBeforeTheReaperFires(t *testing.T) {
	board := hal.NewMemory(1)
	k := kernel.New(kernel.Config{})
	defer k.Shutdown()

	hello, _, err := SpawnHello(k, board)
	require.NoError(t, err)
	k.WaitIdle()
	step(k, 3500)

	want := []string{
		"hello: 1/5 at 0",
		"hello: 2/5 at 500",
		"hello: 3/5 at 1000",
		"hello: 4/5 at 1500",
		"hello: 5/5 at 2000",
		"reaper: already gone at 3000",
	}
	require.Equal(t, want, board.Lines())

	_, err = k.TaskState(hello)
	require.ErrorIs(t, err, kernel.ErrInvalidHandle)
}
