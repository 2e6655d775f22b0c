package cpu

import (
	"errors"
	"strings"

	"github.com/ezrec/ucomp/translate"
)

var f = translate.From

var (
	// Runtime errors
	ErrDivideByZero = errors.New(f("divide by zero"))
	ErrModuloByZero = errors.New(f("modulo by zero"))
	ErrHalted       = errors.New(f("machine halted"))

	// Assembler errors
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrLabelEmpty         = errors.New(f("label name empty"))
	ErrDefineSyntax       = errors.New(f("define syntax"))
	ErrPointerSyntax      = errors.New(f("'*' only valid on pointer operands"))
	ErrProgramTooLarge    = errors.New(f("program exceeds program memory"))
)

// ErrAddress reports a memory access outside the total address range.
type ErrAddress int32

func (ea ErrAddress) Error() string {
	return f("address %d out of range", int32(ea))
}

func (ea ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return
}

// ErrIp reports a program counter dereference outside program memory.
type ErrIp int32

func (ei ErrIp) Error() string {
	return f("program counter %d outside program memory", int32(ei))
}

func (ei ErrIp) Is(err error) (ok bool) {
	_, ok = err.(ErrIp)
	return
}

// ErrOpcodeUnknown reports a fetched cell that is not a known opcode.
type ErrOpcodeUnknown int32

func (eo ErrOpcodeUnknown) Error() string {
	return f("unknown opcode %d", int32(eo))
}

func (eo ErrOpcodeUnknown) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcodeUnknown)
	return
}

// ErrValue reports a literal that does not fit in a machine word.
type ErrValue string

func (ev ErrValue) Error() string {
	return f("'%v' does not fit in a machine word", string(ev))
}

func (ev ErrValue) Is(err error) (ok bool) {
	_, ok = err.(ErrValue)
	return
}

type ErrLabelUnknown string

func (el ErrLabelUnknown) Error() string {
	return f("label %v undefined", string(el))
}

func (el ErrLabelUnknown) Is(err error) (ok bool) {
	_, ok = err.(ErrLabelUnknown)
	return
}

type ErrLabelDuplicate string

func (el ErrLabelDuplicate) Error() string {
	return f("label %v duplicated", string(el))
}

func (el ErrLabelDuplicate) Is(err error) (ok bool) {
	_, ok = err.(ErrLabelDuplicate)
	return
}

type ErrDefineUnknown string

func (ed ErrDefineUnknown) Error() string {
	return f("constant %v undefined", string(ed))
}

func (ed ErrDefineUnknown) Is(err error) (ok bool) {
	_, ok = err.(ErrDefineUnknown)
	return
}

type ErrDefineDuplicate string

func (ed ErrDefineDuplicate) Error() string {
	return f("constant %v duplicated", string(ed))
}

func (ed ErrDefineDuplicate) Is(err error) (ok bool) {
	_, ok = err.(ErrDefineDuplicate)
	return
}

// ErrOperandCount reports an instruction given the wrong number of operands.
type ErrOperandCount struct {
	Name string
	Want int
	Got  int
}

func (err ErrOperandCount) Error() string {
	return f("%v wants %d operands, got %d", err.Name, err.Want, err.Got)
}

// ErrSyntax locates an assembly error on its source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, strings.TrimSpace(err.Line), err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
