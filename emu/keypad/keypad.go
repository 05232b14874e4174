// Package keypad holds the 16-key input latch and the host keyboard layout
// shared by every frontend.
package keypad

// Count is the number of keys on the hex keypad.
const Count = 16

// Keys is the latch of pressed keys, indexed by key value 0x0-0xF.
type Keys [Count]bool

// Layout maps host keys to keypad values using the usual COSMAC VIP
// arrangement on the left side of a QWERTY keyboard:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var Layout = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Lookup returns the keypad value for a host key, ignoring case.
func Lookup(r rune) (uint8, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	k, ok := Layout[r]
	return k, ok
}
