package cpu

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestSoundTimerBeepsOnce(t *testing.T) {
	var beeps []uint8
	var emu *EMU
	emu = New(Config{Beeper: BeeperFunc(func() {
		beeps = append(beeps, emu.state.SoundTimer)
	})})
	emu.state.SoundTimer = 2

	emu.UpdateTimers()
	assert.Equal(t, uint8(1), emu.state.SoundTimer)
	assert.Equal(t, 0, len(beeps))

	emu.UpdateTimers()
	assert.Equal(t, uint8(0), emu.state.SoundTimer)
	assert.Equal(t, 1, len(beeps))
	assert.Equal(t, uint8(1), beeps[0])

	emu.UpdateTimers()
	assert.Equal(t, uint8(0), emu.state.SoundTimer)
	assert.Equal(t, 1, len(beeps))
}

func TestDelayTimerStopsAtZero(t *testing.T) {
	emu := New(Config{})
	emu.state.DelayTimer = 1

	emu.UpdateTimers()
	assert.Equal(t, uint8(0), emu.state.DelayTimer)
	emu.UpdateTimers()
	assert.Equal(t, uint8(0), emu.state.DelayTimer)
}
