package io

import (
	"encoding/binary"
	"iter"
	"maps"
	"math"
	"sync"

	"github.com/ezrec/ucomp/cpu"
)

// Wave selects an oscillator shape, stored in a channel's WAVE cell.
type Wave int32

const (
	WAVE_SINE     = Wave(0) // sine
	WAVE_SQUARE   = Wave(1) // square
	WAVE_TRIANGLE = Wave(2) // triangle
	WAVE_SAWTOOTH = Wave(3) // sawtooth
	WAVE_NOISE    = Wave(4) // noise
)

var _audio_defines = map[string]int32{
	"WAVE_SINE":     int32(WAVE_SINE),
	"WAVE_SQUARE":   int32(WAVE_SQUARE),
	"WAVE_TRIANGLE": int32(WAVE_TRIANGLE),
	"WAVE_SAWTOOTH": int32(WAVE_SAWTOOTH),
	"WAVE_NOISE":    int32(WAVE_NOISE),
}

// AudioDefines iterates the wave-type names for assembler predefines.
func AudioDefines() iter.Seq2[string, int32] {
	return maps.All(_audio_defines)
}

// MAX_VOLUME is the full-scale value of a channel's VOLUME cell.
const MAX_VOLUME = 255

type oscillator struct {
	wave  Wave
	freq  float64
	gain  float64
	phase float64
	lfsr  uint32
	level float64 // held noise sample
}

// sample advances the oscillator by one sample period and returns its output
// in [-1, 1] before gain.
func (osc *oscillator) sample(rate float64) (value float64) {
	if osc.freq <= 0 {
		return
	}

	step := osc.freq / rate
	osc.phase += step
	wrapped := osc.phase >= 1
	for osc.phase >= 1 {
		osc.phase -= 1
	}

	switch osc.wave {
	case WAVE_SINE:
		value = math.Sin(2 * math.Pi * osc.phase)
	case WAVE_SQUARE:
		value = 1
		if osc.phase >= 0.5 {
			value = -1
		}
	case WAVE_TRIANGLE:
		value = 4*math.Abs(osc.phase-0.5) - 1
	case WAVE_SAWTOOTH:
		value = 2*osc.phase - 1
	case WAVE_NOISE:
		if wrapped {
			// Galois LFSR, one fresh level per cycle.
			if osc.lfsr == 0 {
				osc.lfsr = 0xace1
			}
			if osc.lfsr&1 != 0 {
				osc.lfsr = (osc.lfsr >> 1) ^ 0xb400
			} else {
				osc.lfsr >>= 1
			}
			osc.level = float64(osc.lfsr&0xffff)/32768 - 1
		}
		value = osc.level
	}

	return
}

// Synth renders the audio-control cells as mixed tone-generator output. It
// implements io.Reader yielding little-endian float32 samples, the contract
// the oto player consumes. Refresh and Read run on different goroutines, so
// channel state is mutex-guarded.
type Synth struct {
	SampleRate int

	mutex    sync.Mutex
	channels [cpu.AUDIO_CHANNELS]oscillator
}

// NewSynth creates a synth at the given sample rate.
func NewSynth(sampleRate int) (sy *Synth) {
	sy = &Synth{
		SampleRate: sampleRate,
	}

	return
}

// Refresh reads each channel's wave/frequency/volume triple. Gain is forced
// to zero whenever the CPU is not running, so a paused machine is silent.
func (sy *Synth) Refresh(mem *cpu.Memory, running bool) (err error) {
	sy.mutex.Lock()
	defer sy.mutex.Unlock()

	for ch := range cpu.AUDIO_CHANNELS {
		base := cpu.AUDIO_BASE + ch*cpu.AUDIO_STRIDE

		var wave, freq, volume int32
		wave, err = mem.Read(base + cpu.AUDIO_WAVE_OFFSET)
		if err != nil {
			return
		}
		freq, err = mem.Read(base + cpu.AUDIO_FREQ_OFFSET)
		if err != nil {
			return
		}
		volume, err = mem.Read(base + cpu.AUDIO_VOLUME_OFFSET)
		if err != nil {
			return
		}

		osc := &sy.channels[ch]
		osc.wave = Wave(wave)
		osc.freq = float64(min(max(freq, 0), 20000))
		gain := float64(min(max(volume, 0), MAX_VOLUME)) / MAX_VOLUME
		if !running || osc.wave < WAVE_SINE || osc.wave > WAVE_NOISE {
			gain = 0
		}
		osc.gain = gain
	}

	return
}

// Silence zeroes every channel's gain immediately.
func (sy *Synth) Silence() {
	sy.mutex.Lock()
	defer sy.mutex.Unlock()

	for ch := range sy.channels {
		sy.channels[ch].gain = 0
	}
}

// Read fills p with mixed little-endian float32 samples. It never blocks and
// never fails; silent channels contribute zero.
func (sy *Synth) Read(p []byte) (n int, err error) {
	sy.mutex.Lock()
	defer sy.mutex.Unlock()

	rate := float64(sy.SampleRate)
	count := len(p) / 4

	for s := range count {
		var mixed float64
		for ch := range sy.channels {
			osc := &sy.channels[ch]
			if osc.gain == 0 {
				continue
			}
			mixed += osc.sample(rate) * osc.gain
		}
		mixed /= float64(cpu.AUDIO_CHANNELS)

		binary.LittleEndian.PutUint32(p[s*4:], math.Float32bits(float32(mixed)))
	}

	n = count * 4
	return
}
