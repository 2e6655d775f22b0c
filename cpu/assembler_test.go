package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(asm *Assembler, source string) (image []int32, err error) {
	prog, err := asm.Parse(strings.NewReader(source))
	if err != nil {
		return
	}
	image, err = asm.Link(prog)

	return
}

func TestAssemblerEmpty(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)

	// Only the appended trailing halt.
	assert.Equal(1, len(prog.Statements))

	image, err := asm.Link(prog)
	assert.NoError(err)
	assert.Equal([]int32{int32(OP_HALT)}, image)
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("LIMIT", 7)

	image, err := assemble(asm, "copy_to_from_constant 0 LIMIT")
	assert.NoError(err)
	assert.Equal([]int32{
		int32(OP_COPY_TO_FROM_CONSTANT), 0, 7,
		int32(OP_HALT),
	}, image)

	value, ok := asm.Define["LIMIT"]
	assert.True(ok)
	assert.Equal(int32(7), value)
}

func TestAssemblerProgram(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"define LIMIT 3",
		"start: copy_to_from_constant 0 0 ; counter",
		"",
		"loop:",
		"add_constant 0 1 0",
		"branch_if_not_equal_constant 0 LIMIT loop",
		"halt",
	}

	image, err := assemble(asm, strings.Join(program, "\n"))
	assert.NoError(err)

	assert.Equal([]int32{
		int32(OP_COPY_TO_FROM_CONSTANT), 0, 0,
		int32(OP_ADD_CONSTANT), 0, 1, 0,
		int32(OP_BRANCH_IF_NOT_EQUAL_CONST), 0, 3, 1003,
		int32(OP_HALT),
		int32(OP_HALT), // appended
	}, image)

	assert.Equal(int32(1000), asm.Label["start"])
	assert.Equal(int32(1003), asm.Label["loop"])
	assert.Equal(int32(3), asm.Define["LIMIT"])
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"jump_to exit",
		"first: second: copy_to_from_constant 0 1",
		"exit:",
		"halt",
	}

	image, err := assemble(asm, strings.Join(program, "\n"))
	assert.NoError(err)

	// Both labels on one line name the same address; a forward reference
	// resolves to the statement after the label.
	assert.Equal(int32(1002), asm.Label["first"])
	assert.Equal(int32(1002), asm.Label["second"])
	assert.Equal(int32(1005), asm.Label["exit"])
	assert.Equal(int32(1005), image[1])
}

func TestAssemblerData(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"jump_to start",
		"table: data 10 20 30",
		"start:",
		"copy_address_of_label 0 table",
	}

	image, err := assemble(asm, strings.Join(program, "\n"))
	assert.NoError(err)

	assert.Equal([]int32{
		int32(OP_JUMP_TO), 1006,
		int32(OP_DATA), 10, 20, 30,
		int32(OP_COPY_ADDRESS_OF_LABEL), 0, 1002,
		int32(OP_HALT),
	}, image)
}

func TestAssemblerPointer(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	image, err := assemble(asm, "copy_to_from_ptr 0 *5")
	assert.NoError(err)
	assert.Equal([]int32{
		int32(OP_COPY_TO_FROM_PTR), 0, 5,
		int32(OP_HALT),
	}, image)
}

func TestAssemblerTooLarge(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// One data statement larger than program memory.
	source := "data" + strings.Repeat(" 0", int(PROGRAM_SIZE))

	_, err := assemble(asm, source)
	assert.True(errors.Is(err, ErrProgramTooLarge))
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		prog string
		line int
		want error
	}){
		{": halt", 1, ErrLabelEmpty},
		{"define A", 1, ErrDefineSyntax},
		{"define A B C", 1, ErrDefineSyntax},
		{"bogus 1 2", 1, ErrInstructionInvalid},
		{"add 1 2", 1, ErrOperandCount{Name: "add", Want: 3, Got: 2}},
		{"halt 1", 1, ErrOperandCount{Name: "halt", Want: 0, Got: 1}},
		{"copy_to_from 0 *5", 1, ErrPointerSyntax},
		{"copy_to_from_constant 0 *5", 1, ErrPointerSyntax},
		{"copy_to_from_constant 0 99999999999", 1, ErrValue("99999999999")},
		{"dup:\ndup:", 2, ErrLabelDuplicate("dup")},
		{"define A 1\ndefine A 2", 2, ErrDefineDuplicate("A")},
		{"jump_to nowhere", 1, ErrLabelUnknown("nowhere")},
		{"halt\ncopy_to_from 0 missing", 2, ErrDefineUnknown("missing")},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := assemble(asm, entry.prog)

		assert.NotNil(err, entry.prog)
		if err == nil {
			continue
		}

		var se *ErrSyntax
		assert.True(errors.As(err, &se), entry.prog)
		if se != nil {
			assert.Equal(entry.line, se.LineNo, entry.prog)
		}
		assert.True(errors.Is(err, entry.want), entry.prog)
	}
}

func TestAssemblerFailedLinkKeepsNoImage(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	image, err := assemble(asm, "jump_to nowhere")
	assert.Error(err)
	assert.Nil(image)
}
