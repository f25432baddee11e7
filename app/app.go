//go:build !tinygo

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rtkern/hal"
	"rtkern/kernel"
)

// Run executes one scenario on a fresh kernel until the tick budget is
// exhausted, the context is cancelled, or the window is closed.
func Run(ctx context.Context, logger *zap.Logger, cfg Config, scenario Scenario) error {
	cfg.fillDefaults()

	board := hal.NewWithLogger(hal.ZapLogger{L: logger.Named("board")}, cfg.LEDs)
	k := kernel.New(kernel.Config{Cores: cfg.Cores})
	defer k.Shutdown()

	k.SetPanicHandler(func(info kernel.PanicInfo) {
		logger.Error("task panicked",
			zap.String("task", info.Name),
			zap.Any("value", info.Value),
			zap.ByteString("stack", info.Stack))
	})

	logger.Info("starting scenario",
		zap.String("scenario", scenario.Name),
		zap.Int("cores", cfg.Cores),
		zap.Int("hz", cfg.Hz))
	if err := scenario.Spawn(k, board); err != nil {
		return fmt.Errorf("spawn %s: %w", scenario.Name, err)
	}
	k.WaitIdle()

	if cfg.Headless {
		return runHeadless(ctx, k, cfg)
	}
	if err := runWindow(ctx, k, board, cfg, scenario.Name); err != nil && !errors.Is(err, errTickBudget) {
		return err
	}
	return nil
}

var errTickBudget = errors.New("tick budget reached")

func runHeadless(ctx context.Context, k *kernel.Kernel, cfg Config) error {
	t := time.NewTicker(time.Second / time.Duration(cfg.Hz))
	defer t.Stop()

	var ticks uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			k.Tick()
			k.WaitIdle()
			ticks++
			if cfg.Ticks > 0 && ticks >= cfg.Ticks {
				return nil
			}
		}
	}
}

func runWindow(ctx context.Context, k *kernel.Kernel, board hal.Board, cfg Config, name string) error {
	// The window runs at 60 fps; advance however many ticks fit in one
	// frame so the scenario timeline is independent of the frame rate.
	perFrame := cfg.Hz / 60
	if perFrame < 1 {
		perFrame = 1
	}

	var ticks uint64
	return hal.RunWindow("rtkern: "+name, board, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := 0; i < perFrame; i++ {
			k.Tick()
			ticks++
			if cfg.Ticks > 0 && ticks >= cfg.Ticks {
				return errTickBudget
			}
		}
		k.WaitIdle()
		return nil
	})
}
