package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)
	assert.Equal(int32(16), mem.Size())

	err := mem.Write(3, 42)
	assert.NoError(err)

	value, err := mem.Read(3)
	assert.NoError(err)
	assert.Equal(int32(42), value)

	mem.Reset()
	value, err = mem.Read(3)
	assert.NoError(err)
	assert.Equal(int32(0), value)
}

func TestMemoryBounds(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)

	table := []int32{-1, 16, 1000}

	for _, address := range table {
		_, err := mem.Read(address)
		assert.True(errors.Is(err, ErrAddress(address)), address)

		err = mem.Write(address, 1)
		assert.True(errors.Is(err, ErrAddress(address)), address)
	}
}
