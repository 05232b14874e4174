package cpu

// Instruction is a fetched instruction word with its operand fields already
// extracted.
type Instruction struct {
	Word uint16
	Addr uint16 // nnn, low 12 bits
	Imm8 uint8  // nn, low 8 bits
	Imm4 uint8  // n, low 4 bits
	X    uint8  // bits 8-11
	Y    uint8  // bits 4-7
}

func Decode(word uint16) Instruction {
	return Instruction{
		Word: word,
		Addr: word & 0x0FFF,
		Imm8: uint8(word & 0x00FF),
		Imm4: uint8(word & 0x000F),
		X:    uint8((word & 0x0F00) >> 8),
		Y:    uint8((word & 0x00F0) >> 4),
	}
}

// Family returns the top nibble selecting the opcode family.
func (in Instruction) Family() uint16 {
	return in.Word & 0xF000
}

// fetch reads the big-endian word at pc without advancing it.
func (emu *EMU) fetch() (uint16, error) {
	hi, err := emu.mem.Read(emu.state.PC)
	if err != nil {
		return 0, err
	}
	lo, err := emu.mem.Read(emu.state.PC + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}
