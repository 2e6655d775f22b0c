package cpu

import (
	"fmt"
	"iter"
	"maps"
)

// Address-space partition. Every constant here is also published to programs
// through Defines(), so assembly source can name mapped cells directly.
const (
	TOTAL_MEMORY_SIZE = int32(3100) // Total cell count.

	WORK_BASE = int32(0)    // General-purpose working memory.
	WORK_SIZE = int32(1000) //

	PROGRAM_BASE = int32(1000) // Assembled machine code.
	PROGRAM_SIZE = int32(1000) //

	INPUT_BASE = int32(2000) // Memory-mapped input cells.
	INPUT_SIZE = int32(100)  //

	KEY_BASE  = int32(2000) // Most-recently-pressed keycode history.
	KEY_DEPTH = int32(10)   // History depth; KEY_BASE holds the newest.

	MOUSE_X     = int32(2010) // Mouse column on the pixel grid.
	MOUSE_Y     = int32(2011) // Mouse row on the pixel grid.
	MOUSE_PIXEL = int32(2012) // Mouse position as a video-memory address.
	MOUSE_DOWN  = int32(2013) // 1 while a mouse button is held, else 0.
	RANDOM      = int32(2014) // Re-rolled before every instruction.
	CLOCK       = int32(2015) // Milliseconds since the last reset.

	VIDEO_BASE   = int32(2100) // One palette index per pixel, row-major.
	VIDEO_WIDTH  = int32(30)   //
	VIDEO_HEIGHT = int32(30)   //
	VIDEO_SIZE   = VIDEO_WIDTH * VIDEO_HEIGHT

	AUDIO_BASE     = int32(3000) // Wave/frequency/volume triples per channel.
	AUDIO_CHANNELS = int32(4)    //
	AUDIO_STRIDE   = int32(3)    // Cells per channel.
	AUDIO_SIZE     = int32(100)  //

	AUDIO_WAVE_OFFSET   = int32(0)
	AUDIO_FREQ_OFFSET   = int32(1)
	AUDIO_VOLUME_OFFSET = int32(2)
)

// OPCODE_BASE offsets every opcode so machine code is visually distinct from
// small data values in a memory dump.
const OPCODE_BASE = int32(9000)

var _layout_defines = map[string]int32{
	"TOTAL_MEMORY_SIZE": TOTAL_MEMORY_SIZE,
	"WORK_BASE":         WORK_BASE,
	"WORK_SIZE":         WORK_SIZE,
	"PROGRAM_BASE":      PROGRAM_BASE,
	"PROGRAM_SIZE":      PROGRAM_SIZE,
	"KEY_BASE":          KEY_BASE,
	"KEY_DEPTH":         KEY_DEPTH,
	"MOUSE_X":           MOUSE_X,
	"MOUSE_Y":           MOUSE_Y,
	"MOUSE_PIXEL":       MOUSE_PIXEL,
	"MOUSE_DOWN":        MOUSE_DOWN,
	"RANDOM":            RANDOM,
	"CLOCK":             CLOCK,
	"VIDEO_BASE":        VIDEO_BASE,
	"VIDEO_WIDTH":       VIDEO_WIDTH,
	"VIDEO_HEIGHT":      VIDEO_HEIGHT,
	"AUDIO_BASE":        AUDIO_BASE,
	"AUDIO_CHANNELS":    AUDIO_CHANNELS,
	"AUDIO_STRIDE":      AUDIO_STRIDE,
}

func init() {
	for n := range KEY_DEPTH {
		_layout_defines[fmt.Sprintf("KEY_%d", n)] = KEY_BASE + n
	}
}

// LayoutDefines iterates the named layout constants for assembler predefines.
func LayoutDefines() iter.Seq2[string, int32] {
	return maps.All(_layout_defines)
}
