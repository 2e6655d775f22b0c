package io

import (
	"github.com/ezrec/ucomp/translate"
)

var f = translate.From

// ErrColor reports a video-memory cell holding an out-of-palette index.
type ErrColor int32

func (ec ErrColor) Error() string {
	return f("palette index %d invalid", int32(ec))
}

func (ec ErrColor) Is(err error) (ok bool) {
	_, ok = err.(ErrColor)
	return
}
