package term

import (
	"testing"
	"time"

	"cvm8/emu/keypad"

	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrogolib/assert"
)

func TestHalfBlock(t *testing.T) {
	assert.Equal(t, '█', halfBlock(true, true))
	assert.Equal(t, '▀', halfBlock(true, false))
	assert.Equal(t, '▄', halfBlock(false, true))
	assert.Equal(t, ' ', halfBlock(false, false))
}

func TestHoldLatchExpires(t *testing.T) {
	var l holdLatch
	start := time.Unix(1000, 0)
	l.press(0x7, start)

	keys := l.state(start.Add(keyRepeatDuration / 2))
	assert.True(t, keys[0x7])
	assert.False(t, keys[0x8])

	keys = l.state(start.Add(keyRepeatDuration))
	assert.False(t, keys[0x7])
}

func TestReadKeysDrainsEvents(t *testing.T) {
	term := &Terminal{events: make(chan termbox.Event, 4)}
	term.events <- termbox.Event{Type: termbox.EventKey, Ch: 'W'}
	term.events <- termbox.Event{Type: termbox.EventKey, Ch: 'p'}

	var keys keypad.Keys
	term.ReadKeys(&keys)
	assert.True(t, keys[0x5])
	assert.False(t, term.Closed())

	term.events <- termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEsc}
	term.ReadKeys(&keys)
	assert.True(t, term.Closed())
}
