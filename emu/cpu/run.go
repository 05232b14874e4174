package cpu

import (
	"context"
	"errors"
	"time"

	"cvm8/emu/display"
	"cvm8/emu/keypad"

	"go.uber.org/zap"
)

// Default cadence: 540 instructions per second gives 60Hz timers with a
// divisor of 9.
const (
	DefaultClockRate    = 540
	DefaultTimerDivisor = 9
	DefaultRefreshRate  = 60
)

// Frontend presents frames and supplies key state. Run calls it from its own
// goroutine only.
type Frontend interface {
	Present(d *display.Buffer) error
	ReadKeys(keys *keypad.Keys)
	Closed() bool
}

// Clock sets the cadence of Run.
type Clock struct {
	Rate         int // instructions per second
	TimerDivisor int // instructions per timer tick
	Refresh      int // frames per second
}

func DefaultClock() Clock {
	return Clock{
		Rate:         DefaultClockRate,
		TimerDivisor: DefaultTimerDivisor,
		Refresh:      DefaultRefreshRate,
	}
}

func (c Clock) validate() error {
	if c.Rate <= 0 {
		return errors.New("clock rate must be positive")
	}
	if c.TimerDivisor <= 0 {
		return errors.New("timer divisor must be positive")
	}
	if c.Refresh <= 0 {
		return errors.New("refresh rate must be positive")
	}
	return nil
}

// cyclesPerFrame is how many instructions run between two presents.
func (c Clock) cyclesPerFrame() int {
	if n := c.Rate / c.Refresh; n > 1 {
		return n
	}
	return 1
}

// Run executes instructions at the clock rate until the context is done,
// the frontend closes or the machine faults. A closed frontend is a clean
// stop and returns nil.
func (emu *EMU) Run(ctx context.Context, clock Clock, fe Frontend) error {
	if err := clock.validate(); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second / time.Duration(clock.Rate))
	defer ticker.Stop()

	perFrame := clock.cyclesPerFrame()
	var divCycles, frameCycles int

	fe.ReadKeys(&emu.state.Keys)
	if err := fe.Present(emu.display); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if fe.Closed() {
			emu.log.Info("frontend closed", zap.Uint64("cycles", emu.cycles))
			return nil
		}

		if err := emu.EmulateCycle(); err != nil {
			emu.log.Error("machine halted", zap.Error(err))
			return err
		}

		divCycles++
		if divCycles == clock.TimerDivisor {
			emu.UpdateTimers()
			divCycles = 0
		}

		frameCycles++
		if frameCycles == perFrame {
			frameCycles = 0
			fe.ReadKeys(&emu.state.Keys)
			if err := fe.Present(emu.display); err != nil {
				return err
			}
		}
	}
}
