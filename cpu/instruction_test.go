package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstructionRegistry(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(25, len(instructions))

	for n := range instructions {
		inst := &instructions[n]

		byName, ok := Lookup(inst.Name)
		assert.True(ok, inst.Name)
		assert.Same(inst, byName, inst.Name)

		byCode, ok := LookupOp(inst.Code)
		assert.True(ok, inst.Name)
		assert.Same(inst, byCode, inst.Name)

		assert.Equal(inst.Name, inst.Code.String(), inst.Name)

		if inst.Variadic {
			assert.Equal(0, inst.Arity(), inst.Name)
		} else {
			assert.Equal(len(inst.Operands), inst.Arity(), inst.Name)
		}
	}

	_, ok := Lookup("no_such_instruction")
	assert.False(ok)

	_, ok = LookupOp(Op(OPCODE_BASE - 1))
	assert.False(ok)
}

func TestInstructionCodes(t *testing.T) {
	assert := assert.New(t)

	// Opcode values are part of the machine-code format.
	assert.Equal(Op(9000), OP_COPY_TO_FROM)
	assert.Equal(Op(9015), OP_COMPARE)
	assert.Equal(Op(9017), OP_JUMP_TO)
	assert.Equal(Op(9022), OP_DATA)
	assert.Equal(Op(9023), OP_BREAK)
	assert.Equal(Op(9024), OP_HALT)
}
