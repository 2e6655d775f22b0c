// Package emulator assembles the virtual computer: a CPU over the shared
// memory, the assembler seeded with the layout defines, the input bridge, and
// the display and synth device models. Frontends drive it through LoadAndReset
// and RunBatch.
package emulator

import (
	"iter"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ezrec/ucomp/cpu"
	"github.com/ezrec/ucomp/internal"
	"github.com/ezrec/ucomp/io"
)

const (
	SAMPLE_RATE  = 44100 // Synth output sample rate, in Hz.
	BATCH_CYCLES = 2048  // Default instructions per RunBatch call.
)

// Emulator bundles the machine and its device models.
type Emulator struct {
	Verbose bool // If set, enables verbose logging.

	Cpu       *cpu.Cpu       // The CPU and machine memory.
	Assembler *cpu.Assembler // Assembler seeded with the layout defines.
	Program   *cpu.Program   // Listing of the loaded program.

	Bridge  *io.Bridge  // Input cell refresher, wired as the CPU bridge.
	Display *io.Display // Video memory to framebuffer.
	Synth   *io.Synth   // Audio cells to samples.

	stop       atomic.Bool
	cycleDelay time.Duration
	batch      int
}

// NewEmulator creates an emulator over the given input source. A nil source
// leaves the input cells zero.
func NewEmulator(source io.Source) (emu *Emulator) {
	emu = &Emulator{
		Cpu:       cpu.NewCpu(),
		Assembler: &cpu.Assembler{},
		Program:   &cpu.Program{},
		Bridge:    io.NewBridge(source),
		Display:   io.NewDisplay(),
		Synth:     io.NewSynth(SAMPLE_RATE),
		batch:     BATCH_CYCLES,
	}

	emu.Cpu.Bridge = emu.Bridge

	for name, value := range emu.Defines() {
		emu.Assembler.Predefine(name, value)
	}

	return
}

// Defines returns an iterator over every named constant exposed to programs.
func (emu *Emulator) Defines() iter.Seq2[string, int32] {
	return internal.IterSeq2Concat(
		cpu.LayoutDefines(),
		io.AudioDefines(),
	)
}

// SetCycleDelay slows execution to roughly one instruction per delay. Zero
// restores full speed.
func (emu *Emulator) SetCycleDelay(delay time.Duration) {
	emu.cycleDelay = delay
}

// SetBatchCycles sets the number of instructions RunBatch executes per call.
func (emu *Emulator) SetBatchCycles(cycles int) {
	if cycles > 0 {
		emu.batch = cycles
	}
}

// LoadAndReset assembles source and loads the image into a freshly reset
// machine. On any assembly error the machine memory is left untouched.
func (emu *Emulator) LoadAndReset(source string) (err error) {
	emu.Assembler.Verbose = emu.Verbose

	prog, err := emu.Assembler.Parse(strings.NewReader(source))
	if err != nil {
		return
	}

	image, err := emu.Assembler.Link(prog)
	if err != nil {
		return
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	for n, value := range image {
		err = emu.Cpu.Mem.Write(cpu.PROGRAM_BASE+int32(n), value)
		if err != nil {
			return
		}
	}

	emu.Program = prog
	emu.Bridge.ResetClock()
	emu.stop.Store(false)

	if emu.Verbose {
		log.Printf("loaded %d cells", len(image))
	}

	return
}

// StepOnce executes exactly one instruction, regardless of the running flag.
// Errors carry the source line of the failing instruction.
func (emu *Emulator) StepOnce() (err error) {
	lineno := emu.Program.LineAt(emu.Cpu.Ip)
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Step()

	return
}

// Start marks the machine running, so the next RunBatch executes
// instructions. A halted machine stays halted until reloaded.
func (emu *Emulator) Start() {
	if !emu.Cpu.Halted {
		emu.Cpu.Running = true
		emu.stop.Store(false)
	}
}

// Stop requests that the current or next RunBatch pause the machine. Safe to
// call from another goroutine.
func (emu *Emulator) Stop() {
	emu.stop.Store(true)
}

// RunBatch executes up to the configured batch of instructions, then
// refreshes the display and synth from memory. It returns done when the
// machine is no longer running, whether from halt, break, or Stop.
func (emu *Emulator) RunBatch() (done bool, err error) {
	for n := 0; emu.Cpu.Running && n < emu.batch; n++ {
		if emu.stop.Load() {
			emu.Cpu.Running = false
			break
		}

		err = emu.StepOnce()
		if err != nil {
			emu.Cpu.Running = false
			break
		}

		if emu.cycleDelay > 0 {
			time.Sleep(emu.cycleDelay)
			break
		}
	}

	done = !emu.Cpu.Running

	rerr := emu.Display.Refresh(emu.Cpu.Mem)
	if err == nil {
		err = rerr
	}
	rerr = emu.Synth.Refresh(emu.Cpu.Mem, emu.Cpu.Running)
	if err == nil {
		err = rerr
	}

	return
}

// Run starts the machine and executes batches until it stops.
func (emu *Emulator) Run() (err error) {
	emu.Start()

	for {
		var done bool
		done, err = emu.RunBatch()
		if err != nil || done {
			return
		}
	}
}
