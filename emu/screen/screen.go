package screen

import (
	"image/color"

	"cvm8/emu/display"
	"cvm8/emu/keypad"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
)

// Window presents the display in a desktop window and reads the keypad from
// the host keyboard. Its methods must be called from the pixelgl.Run
// function.
type Window struct {
	*pixelgl.Window
	KeyMap map[uint16]pixelgl.Button
	scale  float64
	imd    *imdraw.IMDraw
}

// NewWindow opens a window sized for a width x height display with every
// cell drawn scale pixels wide.
func NewWindow(width, height, scale int) (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:  "cvm8",
		Bounds: pixel.R(0, 0, float64(width*scale), float64(height*scale)),
		VSync:  true,
	}

	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, err
	}
	return &Window{
		Window: win,
		KeyMap: keyMap(),
		scale:  float64(scale),
		imd:    imdraw.New(nil),
	}, nil
}

func (w *Window) Present(d *display.Buffer) error {
	h := float64(d.Height())
	w.imd.Clear()
	w.imd.Color = color.White
	d.Pixels(func(x, y int, on bool) {
		if !on {
			return
		}
		// pixel's origin is bottom left
		x0 := float64(x) * w.scale
		y0 := (h - float64(y) - 1) * w.scale
		w.imd.Push(pixel.V(x0, y0), pixel.V(x0+w.scale, y0+w.scale))
		w.imd.Rectangle(0)
	})

	w.Clear(color.Black)
	w.imd.Draw(w.Window)
	w.Update()
	return nil
}

func (w *Window) ReadKeys(keys *keypad.Keys) {
	if w.JustPressed(pixelgl.KeyEscape) {
		w.SetClosed(true)
	}
	for i := range keys {
		keys[i] = w.Pressed(w.KeyMap[uint16(i)])
	}
}
