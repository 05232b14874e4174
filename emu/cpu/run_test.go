package cpu

import (
	"context"
	"errors"
	"testing"

	"cvm8/emu/display"
	"cvm8/emu/fault"
	"cvm8/emu/keypad"

	"github.com/retroenv/retrogolib/assert"
)

// fakeFrontend closes itself after a number of frames and reports a fixed
// key latch.
type fakeFrontend struct {
	frames    int
	closeAt   int
	keys      keypad.Keys
	lastFrame bool
}

func (f *fakeFrontend) Present(d *display.Buffer) error {
	f.frames++
	on, err := d.IsOn(0, 0)
	if err != nil {
		return err
	}
	f.lastFrame = on
	return nil
}

func (f *fakeFrontend) ReadKeys(keys *keypad.Keys) { *keys = f.keys }

func (f *fakeFrontend) Closed() bool { return f.closeAt > 0 && f.frames >= f.closeAt }

var fastClock = Clock{Rate: 20000, TimerDivisor: 2, Refresh: 2000}

func TestRunStopsWhenFrontendCloses(t *testing.T) {
	// LD I, 0; DRW V0, V0, 1; LD V1, 20; LD DT, V1; JP 0x208
	emu := newTestEMU(t, 0xA000, 0xD001, 0x6114, 0xF115, 0x1208)
	fe := &fakeFrontend{closeAt: 3}
	fe.keys[0x5] = true

	err := emu.Run(context.Background(), fastClock, fe)
	assert.NoError(t, err)
	assert.Equal(t, 3, fe.frames)
	assert.True(t, fe.lastFrame)
	assert.True(t, emu.state.Keys[0x5])
	// 20 instructions ran before the third frame; nine of the ten timer
	// ticks came after DT was loaded on the fourth
	assert.Equal(t, uint64(20), emu.Cycles())
	assert.Equal(t, uint8(20-9), emu.state.DelayTimer)
}

func TestRunReturnsMachineError(t *testing.T) {
	emu := newTestEMU(t, 0x6000, 0xFFFF)
	err := emu.Run(context.Background(), fastClock, &fakeFrontend{})

	var machineErr *MachineError
	assert.True(t, errors.As(err, &machineErr))
	assert.Equal(t, uint16(ProgramStart+2), machineErr.PC)
	var unknown *fault.UnknownOpcodeError
	assert.True(t, errors.As(err, &unknown))
}

func TestRunHonorsContext(t *testing.T) {
	emu := newTestEMU(t, 0x1200)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := emu.Run(ctx, fastClock, &fakeFrontend{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunRejectsBadClock(t *testing.T) {
	emu := newTestEMU(t, 0x1200)
	err := emu.Run(context.Background(), Clock{Rate: 0, TimerDivisor: 1, Refresh: 1}, &fakeFrontend{})
	assert.Error(t, err, "clock rate must be positive")
}
