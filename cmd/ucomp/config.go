package main

import (
	"github.com/BurntSushi/toml"

	"github.com/ezrec/ucomp/emulator"
)

// Config is the frontend configuration, loadable from a TOML file.
type Config struct {
	Scale        int  `toml:"scale"`          // Window pixels per machine pixel.
	Fullscreen   bool `toml:"fullscreen"`     // Start in fullscreen mode.
	Audio        bool `toml:"audio"`          // Enable the tone generator output.
	CycleDelayMS int  `toml:"cycle_delay_ms"` // Delay between instructions.
	BatchCycles  int  `toml:"batch_cycles"`   // Instructions per display frame.
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() (cfg Config) {
	cfg = Config{
		Scale:       16,
		Audio:       true,
		BatchCycles: emulator.BATCH_CYCLES,
	}

	return
}

// Load overlays the configuration from a TOML file.
func (cfg *Config) Load(path string) (err error) {
	_, err = toml.DecodeFile(path, cfg)

	return
}
