// Package io provides the memory-mapped device models of the ucomp virtual
// computer: the input bridge that fills the mapped input cells before each
// CPU step, the display reader that turns video memory into an RGBA
// framebuffer through a fixed 16-color palette, and the tone synth driven by
// the audio-control cells.
package io
