//go:build !headless

package main

import (
	"github.com/ebitengine/oto/v3"

	"github.com/ezrec/ucomp/io"
)

// startAudio opens the audio device and streams the synth through it. The
// returned function stops playback and closes the player.
func startAudio(synth *io.Synth) (stop func(), err error) {
	options := &oto.NewContextOptions{
		SampleRate:   synth.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(options)
	if err != nil {
		return
	}
	<-ready

	player := ctx.NewPlayer(synth)
	player.Play()

	stop = func() {
		synth.Silence()
		_ = player.Close()
	}

	return
}
