package cpu

import "cvm8/emu/keypad"

// FlagRegister is VF, the carry, borrow and collision flag.
const FlagRegister = 0xF

// State is the register file of the machine. It carries no behavior; the
// interpreter is the only code that changes it.
type State struct {
	V          [16]uint8
	I          uint16 // address register
	PC         uint16
	Stack      []uint16 // return addresses, top at the end
	Keys       keypad.Keys
	DelayTimer uint8 // counts down at the timer rate
	SoundTimer uint8 // same as above, beeps on the way out
}

func newState() State {
	return State{PC: ProgramStart}
}

// clone returns a copy that shares no memory with s.
func (s State) clone() State {
	if s.Stack != nil {
		s.Stack = append([]uint16(nil), s.Stack...)
	}
	return s
}
