//go:build tinygo

package main

import (
	"context"
	"time"

	"rtkern/hal"
	"rtkern/kernel"
	"rtkern/tasks/blink"
)

func main() {
	board := hal.New(1)
	k := kernel.New(kernel.Config{TickPeriod: time.Millisecond})
	if _, err := blink.Spawn(k, board, 0, 500); err != nil {
		board.Logger().WriteLineString("spawn: " + err.Error())
		return
	}
	k.Start(context.Background())
	select {}
}
