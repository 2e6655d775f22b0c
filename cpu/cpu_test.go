package cpu

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func itoa(value int32) string {
	return strconv.Itoa(int(value))
}

// testCpu assembles source and loads the image into a fresh machine.
func testCpu(assert *assert.Assertions, source string) (cpu *Cpu) {
	asm := &Assembler{}
	image, err := assemble(asm, source)
	assert.NoError(err)

	cpu = NewCpu()
	for n, value := range image {
		err = cpu.Mem.Write(PROGRAM_BASE+int32(n), value)
		assert.NoError(err)
	}

	return
}

// runCpu steps until the machine stops running.
func runCpu(assert *assert.Assertions, cpu *Cpu) {
	cpu.Running = true
	for cpu.Running {
		err := cpu.Step()
		assert.NoError(err)
		if err != nil {
			return
		}
	}
}

func cell(assert *assert.Assertions, cpu *Cpu, address int32) (value int32) {
	value, err := cpu.Mem.Read(address)
	assert.NoError(err)

	return
}

func TestCpuCopies(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"copy_to_from_constant 0 42",
		"copy_to_from 1 0",          // 1 <- [0]
		"copy_to_from_constant 2 0", // 2 points at cell 0
		"copy_to_from_ptr 3 *2",     // 3 <- [[2]]
		"copy_to_from_constant 4 5",
		"copy_into_ptr_from *4 0", // [[4]] <- [0]
		"copy_address_of_label 6 here",
		"here:",
	}

	cpu := testCpu(assert, strings.Join(program, "\n"))
	runCpu(assert, cpu)

	assert.Equal(int32(42), cell(assert, cpu, 0))
	assert.Equal(int32(42), cell(assert, cpu, 1))
	assert.Equal(int32(42), cell(assert, cpu, 3))
	assert.Equal(int32(42), cell(assert, cpu, 5))
	assert.Equal(cpu.Ip-1, cell(assert, cpu, 6)) // address of the final halt
	assert.True(cpu.Halted)
}

func TestCpuArith(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op     string
		a, b   int32
		expect int32
	}){
		{"add", 3, 4, 7},
		{"add", -3, 4, 1},
		{"subtract", 3, 4, -1},
		{"multiply", -3, 4, -12},
		{"divide", 7, 2, 3},
		{"divide", -7, 2, -3}, // truncates toward zero
		{"modulo", 7, 3, 1},
		{"modulo", -7, 3, -1},
		{"compare", 1, 2, -1},
		{"compare", 2, 2, 0},
		{"compare", 3, 2, 1},
	}

	for _, entry := range table {
		program := []string{
			"copy_to_from_constant 0 " + itoa(entry.a),
			"copy_to_from_constant 1 " + itoa(entry.b),
			entry.op + " 0 1 2",
			entry.op + "_constant 0 " + itoa(entry.b) + " 3",
		}

		cpu := testCpu(assert, strings.Join(program, "\n"))
		runCpu(assert, cpu)

		assert.Equal(entry.expect, cell(assert, cpu, 2), entry)
		assert.Equal(entry.expect, cell(assert, cpu, 3), entry)
	}
}

func TestCpuDivideByZero(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op   string
		want error
	}){
		{"divide", ErrDivideByZero},
		{"modulo", ErrModuloByZero},
	}

	for _, entry := range table {
		program := []string{
			"copy_to_from_constant 2 99",
			"copy_to_from_constant 0 7",
			entry.op + " 0 1 2",
		}

		cpu := testCpu(assert, strings.Join(program, "\n"))

		assert.NoError(cpu.Step())
		assert.NoError(cpu.Step())
		err := cpu.Step()
		assert.True(errors.Is(err, entry.want), entry.op)

		// The destination is left untouched.
		assert.Equal(int32(99), cell(assert, cpu, 2), entry.op)
	}
}

func TestCpuBranches(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"copy_to_from_constant 0 0",
		"loop:",
		"add_constant 0 1 0",
		"branch_if_not_equal_constant 0 5 loop",
		"copy_to_from_constant 1 1",
	}

	cpu := testCpu(assert, strings.Join(program, "\n"))
	runCpu(assert, cpu)

	assert.Equal(int32(5), cell(assert, cpu, 0))
	assert.Equal(int32(1), cell(assert, cpu, 1))
}

func TestCpuBranchEqual(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"copy_to_from_constant 0 7",
		"copy_to_from_constant 1 7",
		"branch_if_equal 0 1 same",
		"copy_to_from_constant 2 1", // skipped
		"same:",
		"branch_if_equal_constant 0 8 never",
		"copy_to_from_constant 3 1", // not skipped
		"never:",
	}

	cpu := testCpu(assert, strings.Join(program, "\n"))
	runCpu(assert, cpu)

	assert.Equal(int32(0), cell(assert, cpu, 2))
	assert.Equal(int32(1), cell(assert, cpu, 3))
}

func TestCpuJump(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"jump_to skip",
		"copy_to_from_constant 0 1",
		"skip:",
		"copy_to_from_constant 1 1",
	}

	cpu := testCpu(assert, strings.Join(program, "\n"))
	runCpu(assert, cpu)

	assert.Equal(int32(0), cell(assert, cpu, 0))
	assert.Equal(int32(1), cell(assert, cpu, 1))
}

func TestCpuHalt(t *testing.T) {
	assert := assert.New(t)

	cpu := testCpu(assert, "halt")
	runCpu(assert, cpu)

	assert.True(cpu.Halted)
	assert.False(cpu.Running)

	// Halt is terminal until a reload.
	err := cpu.Step()
	assert.True(errors.Is(err, ErrHalted))
}

func TestCpuBreak(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"break",
		"copy_to_from_constant 0 1",
	}

	cpu := testCpu(assert, strings.Join(program, "\n"))
	runCpu(assert, cpu)

	assert.False(cpu.Running)
	assert.False(cpu.Halted)
	assert.Equal(int32(0), cell(assert, cpu, 0))

	// A paused machine resumes where it stopped.
	runCpu(assert, cpu)
	assert.True(cpu.Halted)
	assert.Equal(int32(1), cell(assert, cpu, 0))
}

func TestCpuUnknownOpcode(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Mem.Write(PROGRAM_BASE, 12345))

	err := cpu.Step()
	assert.True(errors.Is(err, ErrOpcodeUnknown(12345)))
}

func TestCpuRunaway(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Ip = PROGRAM_BASE + PROGRAM_SIZE

	err := cpu.Step()
	assert.True(errors.Is(err, ErrIp(cpu.Ip)))
}

type countingBridge struct {
	count int32
}

func (cb *countingBridge) Refresh(mem *Memory) (err error) {
	cb.count += 1
	err = mem.Write(RANDOM, cb.count)

	return
}

func TestCpuBridge(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"copy_to_from 0 2014", // RANDOM
		"copy_to_from 1 2014",
	}

	cpu := testCpu(assert, strings.Join(program, "\n"))
	cpu.Bridge = &countingBridge{}
	runCpu(assert, cpu)

	// The bridge runs before every instruction.
	assert.Equal(int32(1), cell(assert, cpu, 0))
	assert.Equal(int32(2), cell(assert, cpu, 1))
}
