package screen

import (
	"cvm8/emu/keypad"

	"github.com/faiface/pixel/pixelgl"
)

var buttons = map[rune]pixelgl.Button{
	'1': pixelgl.Key1, '2': pixelgl.Key2, '3': pixelgl.Key3, '4': pixelgl.Key4,
	'q': pixelgl.KeyQ, 'w': pixelgl.KeyW, 'e': pixelgl.KeyE, 'r': pixelgl.KeyR,
	'a': pixelgl.KeyA, 's': pixelgl.KeyS, 'd': pixelgl.KeyD, 'f': pixelgl.KeyF,
	'z': pixelgl.KeyZ, 'x': pixelgl.KeyX, 'c': pixelgl.KeyC, 'v': pixelgl.KeyV,
}

// keyMap resolves keypad values to window buttons through the shared layout.
func keyMap() map[uint16]pixelgl.Button {
	m := make(map[uint16]pixelgl.Button, keypad.Count)
	for r, k := range keypad.Layout {
		if b, ok := buttons[r]; ok {
			m[uint16(k)] = b
		}
	}
	return m
}
