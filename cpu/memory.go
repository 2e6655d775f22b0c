package cpu

// Memory is a flat, fixed-length array of signed integer cells. It enforces
// total-size bounds only; the meaning of address regions belongs to the CPU,
// the assembler, and the I/O bridge.
type Memory struct {
	cells []int32
}

// NewMemory creates a zero-filled memory of the given cell count.
func NewMemory(size int) (mem *Memory) {
	mem = &Memory{
		cells: make([]int32, size),
	}

	return
}

// Size returns the total cell count.
func (mem *Memory) Size() int32 {
	return int32(len(mem.cells))
}

// Read returns the value of the cell at address.
func (mem *Memory) Read(address int32) (value int32, err error) {
	if address < 0 || address >= mem.Size() {
		err = ErrAddress(address)
		return
	}

	value = mem.cells[address]
	return
}

// Write replaces the value of the cell at address.
func (mem *Memory) Write(address int32, value int32) (err error) {
	if address < 0 || address >= mem.Size() {
		err = ErrAddress(address)
		return
	}

	mem.cells[address] = value
	return
}

// Reset zero-fills every cell. Uninitialized memory always reads as zero.
func (mem *Memory) Reset() {
	clear(mem.cells)
}
