//go:build !tinygo

package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunHeadlessStopsAtTickBudget(t *testing.T) {
	s, ok := FindScenario("blink")
	require.True(t, ok)

	cfg := Config{Hz: 5000, Ticks: 100, Cores: 1, LEDs: 1, Headless: true}
	err := Run(context.Background(), zap.NewNop(), cfg, s)
	require.NoError(t, err)
}

func TestRunHonorsContextCancel(t *testing.T) {
	s, ok := FindScenario("pcq")
	require.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := Config{Hz: 5000, Cores: 1, LEDs: 1, Headless: true}
	err := Run(ctx, zap.NewNop(), cfg, s)
	require.ErrorIs(t, err, context.Canceled)
}
