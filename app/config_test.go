//go:build !tinygo

package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtkern.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hz: 100\ncores: 2\nheadless: true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Hz)
	assert.Equal(t, 2, cfg.Cores)
	assert.True(t, cfg.Headless)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, DefaultConfig().LEDs, cfg.LEDs)
	assert.Zero(t, cfg.Ticks)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hz: [oops"), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestFindScenario(t *testing.T) {
	for _, s := range Scenarios() {
		got, ok := FindScenario(s.Name)
		require.True(t, ok)
		assert.Equal(t, s.Name, got.Name)
		assert.NotNil(t, got.Spawn)
	}
	_, ok := FindScenario("nope")
	assert.False(t, ok)
}
