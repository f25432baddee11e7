//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rtkern/app"
	"rtkern/internal/buildinfo"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	flagCfg := app.DefaultConfig()

	root := &cobra.Command{
		Use:           "rtkern",
		Short:         "Preemptive scheduler kernel demos",
		Long:          "rtkern runs small scheduling demos on a simulated LED board.\nEach subcommand is one scenario; by default it opens a window, use\n--headless for terminal-only output.",
		Version:       buildinfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.IntVar(&flagCfg.Hz, "hz", flagCfg.Hz, "ticks per second")
	flags.Uint64Var(&flagCfg.Ticks, "ticks", flagCfg.Ticks, "stop after N ticks (0 = forever)")
	flags.IntVar(&flagCfg.Cores, "cores", flagCfg.Cores, "scheduler cores")
	flags.IntVar(&flagCfg.LEDs, "leds", flagCfg.LEDs, "board LED count")
	flags.BoolVar(&flagCfg.Headless, "headless", flagCfg.Headless, "run without a window")

	for _, s := range app.Scenarios() {
		s := s
		root.AddCommand(&cobra.Command{
			Use:   s.Name,
			Short: s.Description,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := flagCfg
				if configPath != "" {
					loaded, err := app.LoadConfig(configPath)
					if err != nil {
						return err
					}
					// Explicit flags win over the config file.
					overrideChanged(cmd, &loaded, flagCfg)
					cfg = loaded
				}

				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer logger.Sync()

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()

				if err := app.Run(ctx, logger, cfg, s); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			},
		})
	}
	return root
}

func overrideChanged(cmd *cobra.Command, dst *app.Config, src app.Config) {
	f := cmd.Flags()
	if f.Changed("hz") {
		dst.Hz = src.Hz
	}
	if f.Changed("ticks") {
		dst.Ticks = src.Ticks
	}
	if f.Changed("cores") {
		dst.Cores = src.Cores
	}
	if f.Changed("leds") {
		dst.LEDs = src.LEDs
	}
	if f.Changed("headless") {
		dst.Headless = src.Headless
	}
}
