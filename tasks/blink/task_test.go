package blink

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

func TestBlinkTogglesEveryPeriod(t *testing.T) {
	board := hal.NewMemory(1)
	k := kernel.New(kernel.Config{})
	defer k.Shutdown()

	_, err := Spawn(k, board, 0, 500)
	require.NoError(t, err)
	k.WaitIdle()
	step(k, 2500)

	// Toggles at 0, 500, ..., 2500.
	want := []bool{true, false, true, false, true, false}
	require.Equal(t, want, board.Transitions(0))
}
