package memory

import (
	"errors"
	"testing"

	"cvm8/emu/fault"

	"github.com/retroenv/retrogolib/assert"
)

func TestReadWriteEveryAddress(t *testing.T) {
	m := New()
	for addr := 0; addr < Size; addr++ {
		v := uint8(addr*7 + 3)
		assert.NoError(t, m.Write(uint16(addr), v))
		got, err := m.Read(uint16(addr))
		assert.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestOutOfRange(t *testing.T) {
	m := New()
	var rangeErr *fault.RangeError

	_, err := m.Read(Size)
	assert.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, fault.SpaceMemory, rangeErr.Space)
	assert.Equal(t, Size, rangeErr.Addr)

	err = m.Write(0xFFFF, 1)
	assert.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 0xFFFF, rangeErr.Addr)
}

func TestLoad(t *testing.T) {
	m := New()
	assert.NoError(t, m.Load(Size-2, []byte{0xAB, 0xCD}))
	got, err := m.Read(Size - 1)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xCD), got)

	err = m.Load(Size-1, []byte{0x11, 0x22})
	var rangeErr *fault.RangeError
	assert.True(t, errors.As(err, &rangeErr))
	got, err = m.Read(Size - 1)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xCD), got)
}
