package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Operand is a parsed operand awaiting resolution. Exactly one of Value or
// Name is meaningful: a non-empty Name is resolved against the define table
// (or the label table, for label kinds) at load time.
type Operand struct {
	Value    int32
	Name     string
	Indirect bool // '*'-prefixed pointer operand.
}

// Statement is one parsed source line: an instruction, a label declaration,
// or a define. Label and define statements occupy no program memory.
type Statement struct {
	LineNo   int
	Addr     int32 // Assigned during linking; emitting statements only.
	Inst     *Instruction
	Label    string
	Define   string
	Words    []string
	Operands []Operand
}

// Size returns the number of cells the statement occupies once loaded.
func (st *Statement) Size() (size int32) {
	if st.Inst != nil {
		size = int32(1 + len(st.Operands))
	}

	return
}

// Program is the intermediate instruction list between the parse and
// resolve/load phases. It is retained after load for line-number diagnostics.
type Program struct {
	Statements []Statement
}

// Size returns the total cell count of the loaded image.
func (prog *Program) Size() (size int32) {
	for n := range prog.Statements {
		size += prog.Statements[n].Size()
	}

	return
}

// LineAt returns the source line number of the statement loaded at the given
// address, or 0 when the address is outside the program.
func (prog *Program) LineAt(address int32) (lineno int) {
	for n := range prog.Statements {
		st := &prog.Statements[n]
		if st.Inst != nil && address >= st.Addr && address < st.Addr+st.Size() {
			lineno = st.LineNo
			return
		}
	}

	return
}

// Listing iterates address/text pairs of the loaded statements, for
// disassembly views.
func (prog *Program) Listing() iter.Seq2[int32, string] {
	return func(yield func(address int32, text string) bool) {
		for n := range prog.Statements {
			st := &prog.Statements[n]
			if st.Inst == nil {
				continue
			}
			if !yield(st.Addr, strings.Join(st.Words, " ")) {
				return
			}
		}
	}
}

// String returns the listing as text.
func (prog *Program) String() (text string) {
	var sb strings.Builder
	for address, line := range prog.Listing() {
		fmt.Fprintf(&sb, "%4d  %v\n", address, line)
	}
	text = sb.String()

	return
}
