package cpu

import (
	"fmt"
	"log"
)

// InputRefresher copies external input state into the memory-mapped input
// cells. The CPU invokes it before every instruction.
type InputRefresher interface {
	Refresh(mem *Memory) error
}

// Cpu holds the program counter and run/halt state, and owns the machine
// memory. It is the only writer of the program counter.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Mem *Memory // The machine memory.

	Ip      int32 // Current program counter.
	Running bool  // True between run() and break/halt/stop.
	Halted  bool  // Terminal; only a full reload clears it.

	Bridge InputRefresher // Optional pre-step input refresh.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a CPU with a full-size zeroed memory, in the paused state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Mem: NewMemory(int(TOTAL_MEMORY_SIZE)),
	}
	cpu.Reset()

	return
}

// Reset zero-fills memory and returns to the paused state with the program
// counter at the program base.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Mem.Reset()
	cpu.Ip = PROGRAM_BASE
	cpu.Running = false
	cpu.Halted = false
	cpu.Ticks = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	state := "paused"
	switch {
	case cpu.Halted:
		state = "halted"
	case cpu.Running:
		state = "running"
	}
	text = fmt.Sprintf("ip: %d state: %v ticks: %d", cpu.Ip, state, cpu.Ticks)

	return
}

// advance reads the cell at the program counter and increments it. The
// program counter must lie inside program memory; anything else is runaway
// execution, typically a missing halt.
func (cpu *Cpu) advance() (value int32, err error) {
	if cpu.Ip < PROGRAM_BASE || cpu.Ip >= PROGRAM_BASE+PROGRAM_SIZE {
		err = ErrIp(cpu.Ip)
		return
	}

	value, err = cpu.Mem.Read(cpu.Ip)
	if err != nil {
		return
	}
	cpu.Ip += 1

	return
}

// Step executes exactly one fetch-decode-execute cycle.
func (cpu *Cpu) Step() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	if cpu.Bridge != nil {
		err = cpu.Bridge.Refresh(cpu.Mem)
		if err != nil {
			return
		}
	}

	word, err := cpu.advance()
	if err != nil {
		return
	}

	inst, ok := LookupOp(Op(word))
	if !ok {
		err = ErrOpcodeUnknown(word)
		return
	}

	args := make([]int32, inst.Arity())
	for n := range args {
		args[n], err = cpu.advance()
		if err != nil {
			return
		}
	}

	if cpu.Verbose {
		log.Printf("%d: %v %v", cpu.Ip-int32(1+len(args)), inst.Name, args)
	}

	err = cpu.execute(inst, args)
	if err != nil {
		return
	}
	cpu.Ticks += 1

	return
}

// execute dispatches one decoded instruction. Operand values arrive raw from
// the instruction stream; address and pointer sources are dereferenced here,
// label operands are already absolute addresses.
func (cpu *Cpu) execute(inst *Instruction, args []int32) (err error) {
	mem := cpu.Mem

	switch inst.Code {
	case OP_COPY_TO_FROM:
		var value int32
		value, err = mem.Read(args[1])
		if err != nil {
			return
		}
		err = mem.Write(args[0], value)
	case OP_COPY_TO_FROM_CONSTANT:
		err = mem.Write(args[0], args[1])
	case OP_COPY_TO_FROM_PTR:
		var at, value int32
		at, err = mem.Read(args[1])
		if err != nil {
			return
		}
		value, err = mem.Read(at)
		if err != nil {
			return
		}
		err = mem.Write(args[0], value)
	case OP_COPY_INTO_PTR_FROM:
		var at, value int32
		at, err = mem.Read(args[0])
		if err != nil {
			return
		}
		value, err = mem.Read(args[1])
		if err != nil {
			return
		}
		err = mem.Write(at, value)
	case OP_COPY_ADDRESS_OF_LABEL:
		// The label was resolved to an absolute address at load time.
		err = mem.Write(args[0], args[1])
	case OP_ADD, OP_SUBTRACT, OP_MULTIPLY, OP_DIVIDE, OP_MODULO, OP_COMPARE:
		var a, b, value int32
		a, err = mem.Read(args[0])
		if err != nil {
			return
		}
		b, err = mem.Read(args[1])
		if err != nil {
			return
		}
		value, err = cpu.arith(inst.Code, a, b)
		if err != nil {
			return
		}
		err = mem.Write(args[2], value)
	case OP_ADD_CONSTANT, OP_SUBTRACT_CONSTANT, OP_MULTIPLY_CONSTANT,
		OP_DIVIDE_CONSTANT, OP_MODULO_CONSTANT, OP_COMPARE_CONSTANT:
		var a, value int32
		a, err = mem.Read(args[0])
		if err != nil {
			return
		}
		value, err = cpu.arith(inst.Code, a, args[1])
		if err != nil {
			return
		}
		err = mem.Write(args[2], value)
	case OP_JUMP_TO:
		cpu.Ip = args[0]
	case OP_BRANCH_IF_EQUAL, OP_BRANCH_IF_NOT_EQUAL:
		var a, b int32
		a, err = mem.Read(args[0])
		if err != nil {
			return
		}
		b, err = mem.Read(args[1])
		if err != nil {
			return
		}
		cpu.branch(inst.Code, a, b, args[2])
	case OP_BRANCH_IF_EQUAL_CONST, OP_BRANCH_IF_NOT_EQUAL_CONST:
		var a int32
		a, err = mem.Read(args[0])
		if err != nil {
			return
		}
		cpu.branch(inst.Code, a, args[1], args[2])
	case OP_DATA:
		// Assembly-time marker; executing it is a no-op.
	case OP_BREAK:
		cpu.Running = false
	case OP_HALT:
		cpu.Running = false
		cpu.Halted = true
	default:
		// Unreachable through LookupOp; kept for a corrupted registry.
		err = ErrOpcodeUnknown(int32(inst.Code))
	}

	return
}

// arith computes one two-operand result. Division and modulo truncate toward
// zero and fail on a zero divisor without writing the destination.
func (cpu *Cpu) arith(code Op, a, b int32) (value int32, err error) {
	switch code {
	case OP_ADD, OP_ADD_CONSTANT:
		value = a + b
	case OP_SUBTRACT, OP_SUBTRACT_CONSTANT:
		value = a - b
	case OP_MULTIPLY, OP_MULTIPLY_CONSTANT:
		value = a * b
	case OP_DIVIDE, OP_DIVIDE_CONSTANT:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		value = a / b
	case OP_MODULO, OP_MODULO_CONSTANT:
		if b == 0 {
			err = ErrModuloByZero
			return
		}
		value = a % b
	case OP_COMPARE, OP_COMPARE_CONSTANT:
		switch {
		case a < b:
			value = -1
		case a > b:
			value = 1
		}
	}

	return
}

// branch conditionally moves the program counter to an absolute target.
func (cpu *Cpu) branch(code Op, a, b, target int32) {
	taken := a == b
	if code == OP_BRANCH_IF_NOT_EQUAL || code == OP_BRANCH_IF_NOT_EQUAL_CONST {
		taken = !taken
	}

	if taken {
		cpu.Ip = target
	}
}
