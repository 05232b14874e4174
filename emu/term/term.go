// Package term presents the display in a terminal. Two display rows share
// one character cell using half blocks.
package term

import (
	"time"

	"cvm8/emu/display"
	"cvm8/emu/keypad"

	"github.com/nsf/termbox-go"
	"go.uber.org/zap"
)

// Terminals only report presses, so a key counts as held for this long after
// its last press or autorepeat.
const keyRepeatDuration = time.Second / 5

type Terminal struct {
	events chan termbox.Event
	latch  holdLatch
	closed bool
	log    *zap.Logger
}

// Open takes over the terminal until Close is called.
func Open(log *zap.Logger) (*Terminal, error) {
	if err := termbox.Init(); err != nil {
		return nil, err
	}
	t := &Terminal{
		events: make(chan termbox.Event, 64),
		log:    log,
	}
	go t.pollEvents()
	return t, nil
}

func (t *Terminal) Close() {
	termbox.Interrupt()
	termbox.Close()
}

func (t *Terminal) pollEvents() {
	for {
		evt := termbox.PollEvent()
		switch evt.Type {
		case termbox.EventKey:
			select {
			case t.events <- evt:
			default:
				// the emulator is behind; drop the key rather than stall
			}
		case termbox.EventError:
			t.log.Error("terminal input", zap.Error(evt.Err))
			return
		case termbox.EventInterrupt:
			return
		}
	}
}

func (t *Terminal) Present(d *display.Buffer) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}
	for y := 0; y < d.Height(); y += 2 {
		for x := 0; x < d.Width(); x++ {
			top, err := d.IsOn(x, y)
			if err != nil {
				return err
			}
			bottom := false
			if y+1 < d.Height() {
				if bottom, err = d.IsOn(x, y+1); err != nil {
					return err
				}
			}
			termbox.SetCell(x, y/2, halfBlock(top, bottom), termbox.ColorWhite, termbox.ColorBlack)
		}
	}
	return termbox.Flush()
}

func (t *Terminal) ReadKeys(keys *keypad.Keys) {
	now := time.Now()
loop:
	for {
		select {
		case evt := <-t.events:
			if evt.Key == termbox.KeyEsc || evt.Key == termbox.KeyCtrlC {
				t.closed = true
				continue
			}
			if k, ok := keypad.Lookup(evt.Ch); ok {
				t.latch.press(k, now)
			}
		default:
			break loop
		}
	}
	*keys = t.latch.state(now)
}

func (t *Terminal) Closed() bool {
	return t.closed
}

func halfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	}
	return ' '
}

// holdLatch remembers until when each key counts as pressed.
type holdLatch [keypad.Count]time.Time

func (l *holdLatch) press(k uint8, now time.Time) {
	l[k] = now.Add(keyRepeatDuration)
}

func (l *holdLatch) state(now time.Time) keypad.Keys {
	var keys keypad.Keys
	for i, until := range l {
		keys[i] = now.Before(until)
	}
	return keys
}
