// Package display implements the monochrome pixel grid the interpreter draws
// sprites into.
package display

import "cvm8/emu/fault"

// Dimensions of the reference console.
const (
	Width  = 64
	Height = 32
)

// Buffer is a row-major grid of ON/OFF cells.
//
// Coordinate checks reject x > width and y > height, so x == width and
// y == height are accepted. Such a coordinate addresses cell y*width + x in
// row-major order (x == width lands on column 0 of the next row), and the
// backing slice carries enough slack for (width, height).
type Buffer struct {
	width, height int
	cells         []bool
}

func New(width, height int) *Buffer {
	return &Buffer{
		width:  width,
		height: height,
		cells:  make([]bool, width*(height+1)+1),
	}
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

func (b *Buffer) IsOn(x, y int) (bool, error) {
	if err := b.check(x, y); err != nil {
		return false, err
	}
	return b.cells[y*b.width+x], nil
}

func (b *Buffer) Set(x, y int, on bool) error {
	if err := b.check(x, y); err != nil {
		return err
	}
	b.cells[y*b.width+x] = on
	return nil
}

// Clear turns every visible cell off.
func (b *Buffer) Clear() {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.cells[y*b.width+x] = false
		}
	}
}

// Pixels calls fn for every visible cell, row by row.
func (b *Buffer) Pixels(fn func(x, y int, on bool)) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			fn(x, y, b.cells[y*b.width+x])
		}
	}
}

func (b *Buffer) check(x, y int) error {
	if x < 0 || y < 0 || x > b.width || y > b.height {
		return &fault.RangeError{Space: fault.SpaceDisplay, X: x, Y: y, Limit: b.width * b.height}
	}
	return nil
}
