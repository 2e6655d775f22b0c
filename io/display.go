package io

import (
	"image/color"

	"github.com/ezrec/ucomp/cpu"
)

// Palette is the fixed 16-entry color table; video-memory cells hold indexes
// into it. The entries follow the classic 16-color text-mode palette.
var Palette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xff}, // black
	{0x00, 0x00, 0xaa, 0xff}, // blue
	{0x00, 0xaa, 0x00, 0xff}, // green
	{0x00, 0xaa, 0xaa, 0xff}, // cyan
	{0xaa, 0x00, 0x00, 0xff}, // red
	{0xaa, 0x00, 0xaa, 0xff}, // magenta
	{0xaa, 0x55, 0x00, 0xff}, // brown
	{0xaa, 0xaa, 0xaa, 0xff}, // light gray
	{0x55, 0x55, 0x55, 0xff}, // dark gray
	{0x55, 0x55, 0xff, 0xff}, // light blue
	{0x55, 0xff, 0x55, 0xff}, // light green
	{0x55, 0xff, 0xff, 0xff}, // light cyan
	{0xff, 0x55, 0x55, 0xff}, // light red
	{0xff, 0x55, 0xff, 0xff}, // light magenta
	{0xff, 0xff, 0x55, 0xff}, // yellow
	{0xff, 0xff, 0xff, 0xff}, // white
}

// Display reads video memory into a reusable RGBA framebuffer for whatever
// backend presents it.
type Display struct {
	frame []byte
}

// NewDisplay creates a display sized to the video-memory grid.
func NewDisplay() (disp *Display) {
	disp = &Display{
		frame: make([]byte, cpu.VIDEO_SIZE*4),
	}

	return
}

// Refresh maps every video-memory cell through the palette into the
// framebuffer. A cell outside the palette is fatal.
func (disp *Display) Refresh(mem *cpu.Memory) (err error) {
	for n := range cpu.VIDEO_SIZE {
		var index int32
		index, err = mem.Read(cpu.VIDEO_BASE + n)
		if err != nil {
			return
		}
		if index < 0 || index >= int32(len(Palette)) {
			err = ErrColor(index)
			return
		}

		rgba := Palette[index]
		disp.frame[n*4+0] = rgba.R
		disp.frame[n*4+1] = rgba.G
		disp.frame[n*4+2] = rgba.B
		disp.frame[n*4+3] = rgba.A
	}

	return
}

// Frame returns the RGBA framebuffer, VIDEO_WIDTH×VIDEO_HEIGHT, row-major.
// The slice is reused across Refresh calls.
func (disp *Display) Frame() []byte {
	return disp.frame
}
