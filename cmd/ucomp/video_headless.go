//go:build headless

package main

import (
	"time"

	"github.com/ezrec/ucomp/emulator"
)

// run loads the program and executes it to completion without a window or
// audio device.
func run(cfg Config, verbose bool, source string) (err error) {
	emu := emulator.NewEmulator(nil)
	emu.Verbose = verbose
	emu.SetCycleDelay(time.Duration(cfg.CycleDelayMS) * time.Millisecond)
	emu.SetBatchCycles(cfg.BatchCycles)

	err = emu.LoadAndReset(source)
	if err != nil {
		return
	}

	err = emu.Run()

	return
}
