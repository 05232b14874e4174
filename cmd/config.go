package cmd

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"cvm8/emu/audio"
	"cvm8/emu/cpu"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// settings is the resolved configuration: flags over environment over
// config file over defaults.
type settings struct {
	Debug        bool
	LogFile      string
	Clock        int
	TimerDivisor int
	Refresh      int
	Tone         string
	Volume       float64
	Mute         bool
	MaxStack     int
	Seed         int64
}

func loadSettings() settings {
	return settings{
		Debug:        viper.GetBool("debug"),
		LogFile:      viper.GetString("log-file"),
		Clock:        viper.GetInt("clock"),
		TimerDivisor: viper.GetInt("timer-divisor"),
		Refresh:      viper.GetInt("refresh"),
		Tone:         viper.GetString("tone"),
		Volume:       viper.GetFloat64("volume"),
		Mute:         viper.GetBool("mute"),
		MaxStack:     viper.GetInt("max-stack"),
		Seed:         viper.GetInt64("seed"),
	}
}

func (s settings) clock() cpu.Clock {
	return cpu.Clock{
		Rate:         s.Clock,
		TimerDivisor: s.TimerDivisor,
		Refresh:      s.Refresh,
	}
}

func (s settings) rand() *rand.Rand {
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func newLogger(s settings) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if s.Debug {
		cfg = zap.NewDevelopmentConfig()
	}
	if s.LogFile != "" {
		cfg.OutputPaths = []string{s.LogFile}
		cfg.ErrorOutputPaths = []string{s.LogFile}
	}
	return cfg.Build()
}

// startAudio opens the speaker unless muted. A machine without a working
// audio device still runs, silently.
func startAudio(s settings, log *zap.Logger) (cpu.Beeper, func()) {
	if s.Mute {
		return nil, func() {}
	}
	player, err := audio.NewPlayer(s.Tone, s.Volume, log)
	if err != nil {
		log.Warn("audio disabled", zap.Error(err))
		return nil, func() {}
	}
	go player.ManageAudio()
	return player, player.Close
}

func newMachine(romPath string, s settings, log *zap.Logger, beeper cpu.Beeper) (*cpu.EMU, error) {
	return cpu.NewEMU(romPath, cpu.Config{
		MaxStackDepth: s.MaxStack,
		Rand:          s.rand(),
		Logger:        log,
		Beeper:        beeper,
	})
}

// run drives the machine until the frontend closes, the user interrupts or
// the program faults.
func run(ctx context.Context, emu *cpu.EMU, s settings, fe cpu.Frontend, log *zap.Logger) error {
	err := emu.Run(ctx, s.clock(), fe)
	if errors.Is(err, context.Canceled) {
		log.Info("interrupted", zap.Uint64("cycles", emu.Cycles()))
		return nil
	}
	return err
}
