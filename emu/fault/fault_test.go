package fault

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&RangeError{Space: SpaceMemory, Addr: 0x1000, Limit: 0x1000}, "memory access out of range: 0x1000 (limit 0x1000)"},
		{&RangeError{Space: SpaceDisplay, X: 65, Y: 2}, "display access out of range: (65, 2)"},
		{&UnknownOpcodeError{Opcode: 0xFFFF}, "unknown opcode: ffff"},
		{&UnsupportedOpcodeError{Opcode: 0xF30A, Name: "LD Vx, K"}, "unsupported opcode: f30a (LD Vx, K)"},
		{&StackOverflowError{Depth: 16}, "stack overflow: depth 16"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.err.Error())
	}
}
