package io

import (
	"math/rand/v2"
	"time"

	"github.com/ezrec/ucomp/cpu"
)

// Source supplies the externally-owned input state: currently-pressed key
// codes (newest first) and the mouse position on the pixel grid.
type Source interface {
	Keys() []int32
	Mouse() (x, y int32, down bool)
}

// Bridge copies input state into the memory-mapped input cells. The CPU
// invokes Refresh before every instruction, so the random cell re-rolls and
// the clock cell advances once per step.
type Bridge struct {
	Source Source        // May be nil; input cells then stay zero.
	Rand   func() int32  // Random word source; overridable for tests.
	Now    func() int64  // Millisecond clock; overridable for tests.

	epoch int64
}

// NewBridge creates a bridge over an input source.
func NewBridge(source Source) (br *Bridge) {
	br = &Bridge{
		Source: source,
		Rand:   func() int32 { return rand.Int32() },
		Now:    func() int64 { return time.Now().UnixMilli() },
	}
	br.ResetClock()

	return
}

// ResetClock restarts the CLOCK cell from zero. The emulator calls this on
// every load/reset.
func (br *Bridge) ResetClock() {
	br.epoch = br.Now()
}

var _ cpu.InputRefresher = (*Bridge)(nil)

// Refresh writes the key history, mouse state, random word, and clock into
// the mapped input cells.
func (br *Bridge) Refresh(mem *cpu.Memory) (err error) {
	var keys []int32
	var x, y int32
	var down bool
	if br.Source != nil {
		keys = br.Source.Keys()
		x, y, down = br.Source.Mouse()
	}

	for n := range cpu.KEY_DEPTH {
		var key int32
		if int(n) < len(keys) {
			key = keys[n]
		}
		err = mem.Write(cpu.KEY_BASE+n, key)
		if err != nil {
			return
		}
	}

	x = min(max(x, 0), cpu.VIDEO_WIDTH-1)
	y = min(max(y, 0), cpu.VIDEO_HEIGHT-1)
	pixel := cpu.VIDEO_BASE + y*cpu.VIDEO_WIDTH + x

	var button int32
	if down {
		button = 1
	}

	cells := [](struct {
		address int32
		value   int32
	}){
		{cpu.MOUSE_X, x},
		{cpu.MOUSE_Y, y},
		{cpu.MOUSE_PIXEL, pixel},
		{cpu.MOUSE_DOWN, button},
		{cpu.RANDOM, br.Rand()},
		{cpu.CLOCK, int32(br.Now() - br.epoch)},
	}
	for _, cell := range cells {
		err = mem.Write(cell.address, cell.value)
		if err != nil {
			return
		}
	}

	return
}
