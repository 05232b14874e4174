package cpu

// UpdateTimers is one timer tick. The driver calls it at a fixed ratio of
// instructions.
func (emu *EMU) UpdateTimers() {
	emu.delayTimerHandler()
	emu.soundTimerHandler()
}

func (emu *EMU) delayTimerHandler() {
	if emu.state.DelayTimer > 0 {
		emu.state.DelayTimer--
	}
}

// soundTimerHandler beeps on the tick that takes the sound timer from 1 to 0.
func (emu *EMU) soundTimerHandler() {
	if emu.state.SoundTimer == 0 {
		return
	}
	if emu.state.SoundTimer == 1 {
		emu.beeper.Beep()
	}
	emu.state.SoundTimer--
}
