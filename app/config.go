//go:build !tinygo

package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls the host runner. Zero values mean "use the default".
type Config struct {
	Hz       int    `yaml:"hz"`       // ticks per second
	Ticks    uint64 `yaml:"ticks"`    // stop after N ticks, 0 = run forever
	Cores    int    `yaml:"cores"`    // scheduler cores
	LEDs     int    `yaml:"leds"`     // board LED count
	Headless bool   `yaml:"headless"` // run without a window
}

// DefaultConfig returns the runner defaults.
func DefaultConfig() Config {
	return Config{
		Hz:    1000,
		Cores: 1,
		LEDs:  4,
	}
}

func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.Hz <= 0 {
		c.Hz = d.Hz
	}
	if c.Cores <= 0 {
		c.Cores = d.Cores
	}
	if c.LEDs <= 0 {
		c.LEDs = d.LEDs
	}
}

// LoadConfig reads a YAML config file. Missing keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}
