package cpu

import (
	"bufio"
	"errors"
	"io"
	"log"
	"maps"
	"strconv"
	"strings"
)

// Assembler turns assembly source into a machine-code image in two phases:
// Parse builds the intermediate statement list, Link resolves labels and
// defines and emits numeric cells. The split exists because forward label
// references cannot be resolved in a single pass.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label  map[string]int32 // Label table of the last Link.
	Define map[string]int32 // Define table of the last Link.

	predefine map[string]int32
}

// Predefine seeds a named constant, available to every program. The emulator
// uses this to expose the memory layout.
func (asm *Assembler) Predefine(name string, value int32) {
	if asm.predefine == nil {
		asm.predefine = map[string]int32{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// parseOperand interprets one operand token for the given operand position
// kind. Label positions keep the token as a name; elsewhere a base-10
// integer parse is attempted, falling back to a name for later define
// resolution. A '*' prefix tags indirection and is only legal on pointer
// positions.
func (asm *Assembler) parseOperand(word string, kind OperandKind) (op Operand, err error) {
	if kind == KIND_LABEL {
		op.Name = word
		return
	}

	if strings.HasPrefix(word, "*") {
		if kind != KIND_POINTER {
			err = ErrPointerSyntax
			return
		}
		op.Indirect = true
		word = word[1:]
	}

	value, perr := strconv.ParseInt(word, 10, 32)
	switch {
	case perr == nil:
		op.Value = int32(value)
	case errors.Is(perr, strconv.ErrRange):
		err = ErrValue(word)
	default:
		op.Name = word
	}

	return
}

// Parse tokenizes source text into a Program. Comments start at ';', blank
// lines are ignored, 'name:' declares a label, and 'define name value'
// declares a named constant. A trailing halt is always appended so a program
// cannot run off the end of its own code.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v", lineno, text)
		}

		line, _, _ = strings.Cut(text, ";")
		words := strings.Fields(line)

		for len(words) > 0 && strings.HasSuffix(words[0], ":") {
			label := strings.TrimSuffix(words[0], ":")
			if len(label) == 0 {
				err = ErrLabelEmpty
				return
			}
			prog.Statements = append(prog.Statements, Statement{
				LineNo: lineno,
				Label:  label,
				Words:  words[:1],
			})
			words = words[1:]
		}

		if len(words) == 0 {
			continue
		}

		if words[0] == "define" {
			if len(words) != 3 {
				err = ErrDefineSyntax
				return
			}
			var op Operand
			op, err = asm.parseOperand(words[2], KIND_CONSTANT)
			if err != nil {
				return
			}
			prog.Statements = append(prog.Statements, Statement{
				LineNo:   lineno,
				Define:   words[1],
				Words:    words,
				Operands: []Operand{op},
			})
			continue
		}

		inst, ok := Lookup(words[0])
		if !ok {
			err = ErrInstructionInvalid
			return
		}

		operands := words[1:]
		if !inst.Variadic && len(operands) != len(inst.Operands) {
			err = ErrOperandCount{
				Name: inst.Name,
				Want: len(inst.Operands),
				Got:  len(operands),
			}
			return
		}

		st := Statement{LineNo: lineno, Inst: inst, Words: words}
		for n, word := range operands {
			kind := KIND_CONSTANT
			if !inst.Variadic {
				kind = inst.Operands[n].Kind
			}
			var op Operand
			op, err = asm.parseOperand(word, kind)
			if err != nil {
				return
			}
			st.Operands = append(st.Operands, op)
		}
		prog.Statements = append(prog.Statements, st)
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	halt, _ := Lookup("halt")
	prog.Statements = append(prog.Statements, Statement{
		LineNo: lineno + 1,
		Inst:   halt,
		Words:  []string{"halt"},
	})

	return
}

// Link resolves a parsed program into a machine-code image. The first
// sub-pass assigns every emitting statement its absolute address and records
// label targets; the second emits opcodes and operands, substituting label
// addresses and define values. Nothing is written to machine memory here, so
// a failed link leaves no partial program behind.
func (asm *Assembler) Link(prog *Program) (image []int32, err error) {
	asm.Label = make(map[string]int32, 16)
	asm.Define = maps.Clone(asm.predefine)
	if asm.Define == nil {
		asm.Define = make(map[string]int32, 16)
	}

	var failed *Statement
	defer func() {
		if err != nil && failed != nil {
			image = nil
			err = &ErrSyntax{
				LineNo: failed.LineNo,
				Line:   strings.Join(failed.Words, " "),
				Err:    err,
			}
		}
	}()

	address := PROGRAM_BASE
	for n := range prog.Statements {
		st := &prog.Statements[n]
		switch {
		case st.Label != "":
			if _, ok := asm.Label[st.Label]; ok {
				failed = st
				err = ErrLabelDuplicate(st.Label)
				return
			}
			asm.Label[st.Label] = address
		case st.Define != "":
			// No cells.
		default:
			st.Addr = address
			address += st.Size()
		}
	}

	if address > PROGRAM_BASE+PROGRAM_SIZE {
		err = ErrProgramTooLarge
		return
	}

	for n := range prog.Statements {
		st := &prog.Statements[n]
		failed = st

		if st.Define != "" {
			var value int32
			value, err = asm.resolve(&st.Operands[0], KIND_CONSTANT)
			if err != nil {
				return
			}
			if _, ok := asm.Define[st.Define]; ok {
				err = ErrDefineDuplicate(st.Define)
				return
			}
			asm.Define[st.Define] = value
			continue
		}
		if st.Inst == nil {
			continue
		}

		image = append(image, int32(st.Inst.Code))
		for i := range st.Operands {
			kind := KIND_CONSTANT
			if !st.Inst.Variadic {
				kind = st.Inst.Operands[i].Kind
			}
			var value int32
			value, err = asm.resolve(&st.Operands[i], kind)
			if err != nil {
				return
			}
			image = append(image, value)
		}
	}

	if asm.Verbose {
		log.Printf("linked %d cells, %d labels, %d defines",
			len(image), len(asm.Label), len(asm.Define))
	}

	return
}

// resolve produces the final cell value of one operand.
func (asm *Assembler) resolve(op *Operand, kind OperandKind) (value int32, err error) {
	if kind == KIND_LABEL {
		var ok bool
		value, ok = asm.Label[op.Name]
		if !ok {
			err = ErrLabelUnknown(op.Name)
		}
		return
	}

	if op.Name != "" {
		var ok bool
		value, ok = asm.Define[op.Name]
		if !ok {
			err = ErrDefineUnknown(op.Name)
		}
		return
	}

	value = op.Value
	return
}
