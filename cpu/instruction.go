package cpu

import (
	"fmt"
)

// OperandKind tags how an operand cell is interpreted. The parser uses it to
// decide tokenization; the CPU uses it to decide dereferencing.
type OperandKind int

const (
	KIND_ADDRESS  = OperandKind(0) // address to dereference
	KIND_CONSTANT = OperandKind(1) // literal value in the instruction stream
	KIND_POINTER  = OperandKind(2) // address of an address to dereference
	KIND_LABEL    = OperandKind(3) // label, resolved to an absolute address at load
)

func (kind OperandKind) String() (name string) {
	switch kind {
	case KIND_ADDRESS:
		name = "address"
	case KIND_CONSTANT:
		name = "constant"
	case KIND_POINTER:
		name = "pointer"
	case KIND_LABEL:
		name = "label"
	default:
		name = fmt.Sprintf("OperandKind(%d)", int(kind))
	}

	return
}

// Op is a machine opcode. The set is closed; execution dispatches with an
// exhaustive switch, and only a corrupted fetch can produce an unknown value.
type Op int32

const (
	OP_COPY_TO_FROM              = Op(OPCODE_BASE + 0)  // copy_to_from
	OP_COPY_TO_FROM_CONSTANT     = Op(OPCODE_BASE + 1)  // copy_to_from_constant
	OP_COPY_TO_FROM_PTR          = Op(OPCODE_BASE + 2)  // copy_to_from_ptr
	OP_COPY_INTO_PTR_FROM        = Op(OPCODE_BASE + 3)  // copy_into_ptr_from
	OP_COPY_ADDRESS_OF_LABEL     = Op(OPCODE_BASE + 4)  // copy_address_of_label
	OP_ADD                       = Op(OPCODE_BASE + 5)  // add
	OP_ADD_CONSTANT              = Op(OPCODE_BASE + 6)  // add_constant
	OP_SUBTRACT                  = Op(OPCODE_BASE + 7)  // subtract
	OP_SUBTRACT_CONSTANT         = Op(OPCODE_BASE + 8)  // subtract_constant
	OP_MULTIPLY                  = Op(OPCODE_BASE + 9)  // multiply
	OP_MULTIPLY_CONSTANT         = Op(OPCODE_BASE + 10) // multiply_constant
	OP_DIVIDE                    = Op(OPCODE_BASE + 11) // divide
	OP_DIVIDE_CONSTANT           = Op(OPCODE_BASE + 12) // divide_constant
	OP_MODULO                    = Op(OPCODE_BASE + 13) // modulo
	OP_MODULO_CONSTANT           = Op(OPCODE_BASE + 14) // modulo_constant
	OP_COMPARE                   = Op(OPCODE_BASE + 15) // compare
	OP_COMPARE_CONSTANT          = Op(OPCODE_BASE + 16) // compare_constant
	OP_JUMP_TO                   = Op(OPCODE_BASE + 17) // jump_to
	OP_BRANCH_IF_EQUAL           = Op(OPCODE_BASE + 18) // branch_if_equal
	OP_BRANCH_IF_EQUAL_CONST     = Op(OPCODE_BASE + 19) // branch_if_equal_constant
	OP_BRANCH_IF_NOT_EQUAL       = Op(OPCODE_BASE + 20) // branch_if_not_equal
	OP_BRANCH_IF_NOT_EQUAL_CONST = Op(OPCODE_BASE + 21) // branch_if_not_equal_constant
	OP_DATA                      = Op(OPCODE_BASE + 22) // data
	OP_BREAK                     = Op(OPCODE_BASE + 23) // break
	OP_HALT                      = Op(OPCODE_BASE + 24) // halt
)

func (op Op) String() (name string) {
	inst, ok := LookupOp(op)
	if ok {
		name = inst.Name
	} else {
		name = fmt.Sprintf("Op(%d)", int32(op))
	}

	return
}

// OperandSpec names one operand position and its kind.
type OperandSpec struct {
	Name string
	Kind OperandKind
}

// Instruction is one entry of the static instruction set table.
type Instruction struct {
	Name     string
	Code     Op
	Operands []OperandSpec
	Variadic bool // data: any operand count at parse time, none at execute time.
}

// Arity returns the operand count fetched at execute time.
func (inst *Instruction) Arity() (count int) {
	if !inst.Variadic {
		count = len(inst.Operands)
	}

	return
}

func ops(specs ...OperandSpec) []OperandSpec { return specs }
func addr(name string) OperandSpec           { return OperandSpec{Name: name, Kind: KIND_ADDRESS} }
func cnst(name string) OperandSpec           { return OperandSpec{Name: name, Kind: KIND_CONSTANT} }
func ptr(name string) OperandSpec            { return OperandSpec{Name: name, Kind: KIND_POINTER} }
func lbl(name string) OperandSpec            { return OperandSpec{Name: name, Kind: KIND_LABEL} }

var instructions = []Instruction{
	{Name: "copy_to_from", Code: OP_COPY_TO_FROM, Operands: ops(addr("to"), addr("from"))},
	{Name: "copy_to_from_constant", Code: OP_COPY_TO_FROM_CONSTANT, Operands: ops(addr("to"), cnst("value"))},
	{Name: "copy_to_from_ptr", Code: OP_COPY_TO_FROM_PTR, Operands: ops(addr("to"), ptr("from"))},
	{Name: "copy_into_ptr_from", Code: OP_COPY_INTO_PTR_FROM, Operands: ops(ptr("to"), addr("from"))},
	{Name: "copy_address_of_label", Code: OP_COPY_ADDRESS_OF_LABEL, Operands: ops(addr("to"), lbl("target"))},
	{Name: "add", Code: OP_ADD, Operands: ops(addr("a"), addr("b"), addr("result"))},
	{Name: "add_constant", Code: OP_ADD_CONSTANT, Operands: ops(addr("a"), cnst("value"), addr("result"))},
	{Name: "subtract", Code: OP_SUBTRACT, Operands: ops(addr("a"), addr("b"), addr("result"))},
	{Name: "subtract_constant", Code: OP_SUBTRACT_CONSTANT, Operands: ops(addr("a"), cnst("value"), addr("result"))},
	{Name: "multiply", Code: OP_MULTIPLY, Operands: ops(addr("a"), addr("b"), addr("result"))},
	{Name: "multiply_constant", Code: OP_MULTIPLY_CONSTANT, Operands: ops(addr("a"), cnst("value"), addr("result"))},
	{Name: "divide", Code: OP_DIVIDE, Operands: ops(addr("a"), addr("b"), addr("result"))},
	{Name: "divide_constant", Code: OP_DIVIDE_CONSTANT, Operands: ops(addr("a"), cnst("value"), addr("result"))},
	{Name: "modulo", Code: OP_MODULO, Operands: ops(addr("a"), addr("b"), addr("result"))},
	{Name: "modulo_constant", Code: OP_MODULO_CONSTANT, Operands: ops(addr("a"), cnst("value"), addr("result"))},
	{Name: "compare", Code: OP_COMPARE, Operands: ops(addr("a"), addr("b"), addr("result"))},
	{Name: "compare_constant", Code: OP_COMPARE_CONSTANT, Operands: ops(addr("a"), cnst("value"), addr("result"))},
	{Name: "jump_to", Code: OP_JUMP_TO, Operands: ops(lbl("target"))},
	{Name: "branch_if_equal", Code: OP_BRANCH_IF_EQUAL, Operands: ops(addr("a"), addr("b"), lbl("target"))},
	{Name: "branch_if_equal_constant", Code: OP_BRANCH_IF_EQUAL_CONST, Operands: ops(addr("a"), cnst("value"), lbl("target"))},
	{Name: "branch_if_not_equal", Code: OP_BRANCH_IF_NOT_EQUAL, Operands: ops(addr("a"), addr("b"), lbl("target"))},
	{Name: "branch_if_not_equal_constant", Code: OP_BRANCH_IF_NOT_EQUAL_CONST, Operands: ops(addr("a"), cnst("value"), lbl("target"))},
	{Name: "data", Code: OP_DATA, Variadic: true},
	{Name: "break", Code: OP_BREAK},
	{Name: "halt", Code: OP_HALT},
}

var instructionByName map[string]*Instruction
var instructionByCode map[Op]*Instruction

// The registry is bijective: built once here, never mutated afterwards.
func init() {
	instructionByName = make(map[string]*Instruction, len(instructions))
	instructionByCode = make(map[Op]*Instruction, len(instructions))

	for n := range instructions {
		inst := &instructions[n]
		if _, ok := instructionByName[inst.Name]; ok {
			panic("duplicate mnemonic " + inst.Name)
		}
		if _, ok := instructionByCode[inst.Code]; ok {
			panic("duplicate opcode " + inst.Name)
		}
		instructionByName[inst.Name] = inst
		instructionByCode[inst.Code] = inst
	}
}

// Lookup finds an instruction by mnemonic.
func Lookup(name string) (inst *Instruction, ok bool) {
	inst, ok = instructionByName[name]
	return
}

// LookupOp finds an instruction by opcode, for decode and disassembly.
func LookupOp(code Op) (inst *Instruction, ok bool) {
	inst, ok = instructionByCode[code]
	return
}
