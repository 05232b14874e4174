package memory

import "cvm8/emu/fault"

// Size is the addressable range of the machine, 4KB.
const Size = 0x1000

// Memory is a flat byte store. The zero value is zero-filled and ready to use.
type Memory struct {
	data [Size]byte
}

func New() *Memory {
	return &Memory{}
}

func (m *Memory) Read(addr uint16) (byte, error) {
	if int(addr) >= Size {
		return 0, outOfRange(int(addr))
	}
	return m.data[addr], nil
}

func (m *Memory) Write(addr uint16, value byte) error {
	if int(addr) >= Size {
		return outOfRange(int(addr))
	}
	m.data[addr] = value
	return nil
}

// Load copies data into memory starting at offset. Nothing is written if the
// data would run past the end of memory.
func (m *Memory) Load(offset uint16, data []byte) error {
	if end := int(offset) + len(data); end > Size {
		return outOfRange(end - 1)
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *Memory) Size() int {
	return Size
}

func outOfRange(addr int) error {
	return &fault.RangeError{Space: fault.SpaceMemory, Addr: addr, Limit: Size}
}
