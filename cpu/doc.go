// Package cpu implements the machine core of the ucomp virtual computer.
//
// The machine is a flat array of 3100 signed 32-bit cells partitioned into
// working memory, program memory, memory-mapped input, video memory, and
// audio-control memory. A program counter walks program memory in a
// fetch-decode-execute loop over a closed instruction set with four operand
// addressing kinds (address, constant, pointer, label).
//
// The assembler translates one-instruction-per-line source text into machine
// code in two passes, resolving labels and named constants ("defines") so
// that forward references work.
package cpu
