package cpu

import (
	"errors"
	"fmt"
)

// ErrROMTooLarge is returned when a program does not fit between the load
// offset and the end of memory.
var ErrROMTooLarge = errors.New("ROM too large")

// MachineError wraps a fault with the location it happened at. The machine
// state is left as it was before the failing instruction, so PC still points
// at it.
type MachineError struct {
	Err    error
	PC     uint16
	Opcode uint16
}

func (err *MachineError) Error() string {
	return fmt.Sprintf("machine error at pc %#04x, opcode %04x: %v", err.PC, err.Opcode, err.Err)
}

func (err *MachineError) Unwrap() error {
	return err.Err
}
