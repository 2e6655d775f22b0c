//go:build !headless

package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ezrec/ucomp/cpu"
	"github.com/ezrec/ucomp/emulator"
	"github.com/ezrec/ucomp/io"
)

// keycode maps an ebiten key to the machine keycode: printable keys use their
// ASCII value, the rest get codes above the ASCII range.
func keycode(key ebiten.Key) (code int32) {
	switch {
	case key >= ebiten.KeyA && key <= ebiten.KeyZ:
		code = int32('a') + int32(key-ebiten.KeyA)
	case key >= ebiten.KeyDigit0 && key <= ebiten.KeyDigit9:
		code = int32('0') + int32(key-ebiten.KeyDigit0)
	case key == ebiten.KeySpace:
		code = int32(' ')
	case key == ebiten.KeyEnter:
		code = 13
	case key == ebiten.KeyEscape:
		code = 27
	case key == ebiten.KeyArrowUp:
		code = 128
	case key == ebiten.KeyArrowDown:
		code = 129
	case key == ebiten.KeyArrowLeft:
		code = 130
	case key == ebiten.KeyArrowRight:
		code = 131
	}

	return
}

// inputState adapts ebiten input to the bridge's Source. The game updates it
// once per frame, on the same goroutine that steps the emulator.
type inputState struct {
	history []int32
	pressed []ebiten.Key // scratch for inpututil
}

var _ io.Source = (*inputState)(nil)

// update prepends freshly-pressed keycodes to the history, newest first.
func (in *inputState) update() {
	in.pressed = inpututil.AppendJustPressedKeys(in.pressed[:0])
	for _, key := range in.pressed {
		code := keycode(key)
		if code == 0 {
			continue
		}
		in.history = append([]int32{code}, in.history...)
	}
	if len(in.history) > int(cpu.KEY_DEPTH) {
		in.history = in.history[:cpu.KEY_DEPTH]
	}
}

func (in *inputState) Keys() []int32 {
	return in.history
}

func (in *inputState) Mouse() (x, y int32, down bool) {
	cx, cy := ebiten.CursorPosition()
	x = int32(cx)
	y = int32(cy)
	down = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	return
}

// game drives one batch of instructions per display frame and presents the
// framebuffer. F11 toggles fullscreen.
type game struct {
	emu   *emulator.Emulator
	input *inputState
	done  bool
}

func (g *game) Update() (err error) {
	g.input.update()

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	if g.done {
		return
	}

	g.done, err = g.emu.RunBatch()

	return
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.emu.Display.Frame())
}

func (g *game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return int(cpu.VIDEO_WIDTH), int(cpu.VIDEO_HEIGHT)
}

// run loads the program and executes it under an ebiten window. The window
// stays open after the program halts, holding the final frame.
func run(cfg Config, verbose bool, source string) (err error) {
	input := &inputState{}
	emu := emulator.NewEmulator(input)
	emu.Verbose = verbose
	emu.SetCycleDelay(time.Duration(cfg.CycleDelayMS) * time.Millisecond)
	emu.SetBatchCycles(cfg.BatchCycles)

	err = emu.LoadAndReset(source)
	if err != nil {
		return
	}

	if cfg.Audio {
		var stop func()
		stop, err = startAudio(emu.Synth)
		if err != nil {
			return
		}
		defer stop()
	}

	ebiten.SetWindowSize(
		int(cpu.VIDEO_WIDTH)*cfg.Scale,
		int(cpu.VIDEO_HEIGHT)*cfg.Scale,
	)
	ebiten.SetWindowTitle("ucomp")
	ebiten.SetFullscreen(cfg.Fullscreen)

	emu.Start()
	err = ebiten.RunGame(&game{emu: emu, input: input})

	return
}
