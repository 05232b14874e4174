// Package fault holds the error kinds raised by the interpreter and its
// memory, display and keypad stores.
package fault

import "fmt"

// Address spaces a RangeError can refer to.
const (
	SpaceMemory  = "memory"
	SpaceDisplay = "display"
	SpaceKeypad  = "keypad"
)

// RangeError is returned for a memory, display or keypad access outside its
// bounds. Display errors carry X and Y, the other spaces carry Addr.
type RangeError struct {
	Space string
	Addr  int
	X, Y  int
	Limit int
}

func (err *RangeError) Error() string {
	if err.Space == SpaceDisplay {
		return fmt.Sprintf("display access out of range: (%d, %d)", err.X, err.Y)
	}
	return fmt.Sprintf("%s access out of range: %#04x (limit %#04x)", err.Space, err.Addr, err.Limit)
}

// UnknownOpcodeError is returned when an instruction word matches no opcode.
type UnknownOpcodeError struct {
	Opcode uint16
}

func (err *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode: %04x", err.Opcode)
}

// UnsupportedOpcodeError is returned for a recognized opcode the interpreter
// does not implement.
type UnsupportedOpcodeError struct {
	Opcode uint16
	Name   string
}

func (err *UnsupportedOpcodeError) Error() string {
	return fmt.Sprintf("unsupported opcode: %04x (%s)", err.Opcode, err.Name)
}

// StackOverflowError is returned when a CALL would grow the stack past the
// configured maximum depth.
type StackOverflowError struct {
	Depth int
}

func (err *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow: depth %d", err.Depth)
}

// StackUnderflowError is returned by RET with an empty stack.
type StackUnderflowError struct{}

func (err *StackUnderflowError) Error() string {
	return "stack underflow: return with empty stack"
}
