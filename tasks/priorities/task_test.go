package priorities

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

// Before the demotion the high task always logs first when both are due;
// after it, the low task does.
func TestDemotionFlipsInterleaving(t *testing.T) {
	board := hal.NewMemory(1)
	k := kernel.New(kernel.Config{})
	defer k.Shutdown()

	// Stage the tasks one at a time so the first log lines have a fixed
	// order; Spawn creates both back to back.
	_, err := k.Create(kernel.TaskConfig{Name: "low", Priority: LowPriority}, NewLow(board).Run)
	require.NoError(t, err)
	k.WaitIdle()
	_, err = k.Create(kernel.TaskConfig{Name: "high", Priority: HighPriority}, NewHigh(board, 4).Run)
	require.NoError(t, err)
	k.WaitIdle()
	step(k, 2000)

	want := []string{
		"low: tick=0 prio=3",
		"high: tick=0 prio=8",
		"high: tick=500 prio=8",
		"high: tick=1000 prio=8",
		"low: tick=1000 prio=3",
		"high: tick=1500 prio=8",
		"high: demoting to 2",
		"low: tick=2000 prio=3",
		"high: tick=2000 prio=2",
	}
	require.Equal(t, want, board.Lines())
}
