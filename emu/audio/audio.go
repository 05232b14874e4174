// Package audio plays the feedback tone through the system speaker.
package audio

import (
	"fmt"
	"time"

	"cvm8/emu/audio/tone"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"go.uber.org/zap"
)

// Player buffers the tone once and replays it on every Beep. Playback runs
// on the ManageAudio goroutine so Beep never blocks the caller.
type Player struct {
	buffer       *beep.Buffer
	volume       float64
	audioChannel chan struct{}
	shutdown     chan struct{}
	log          *zap.Logger
}

// NewPlayer loads the tone from tonePath, or synthesizes a square wave when
// it is empty, and initializes the speaker. Volume is in powers of two, so
// -1 plays at half amplitude.
func NewPlayer(tonePath string, volume float64, log *zap.Logger) (*Player, error) {
	streamer, format, err := tone.Load(tonePath)
	if err != nil {
		return nil, err
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}
	log.Debug("audio ready",
		zap.String("tone", tonePath),
		zap.Int("sampleRate", int(format.SampleRate)),
		zap.Duration("length", format.SampleRate.D(buffer.Len())))

	return &Player{
		buffer:       buffer,
		volume:       volume,
		audioChannel: make(chan struct{}, 1),
		shutdown:     make(chan struct{}),
		log:          log,
	}, nil
}

// Beep queues one playback. A beep requested while one is already queued is
// dropped.
func (p *Player) Beep() {
	select {
	case p.audioChannel <- struct{}{}:
	default:
	}
}

// ManageAudio plays queued beeps until Close is called.
func (p *Player) ManageAudio() {
	for {
		select {
		case <-p.audioChannel:
			p.log.Debug("beep")
			speaker.Play(&effects.Volume{
				Streamer: p.buffer.Streamer(0, p.buffer.Len()),
				Base:     2,
				Volume:   p.volume,
			})
		case <-p.shutdown:
			return
		}
	}
}

func (p *Player) Close() {
	close(p.shutdown)
}
