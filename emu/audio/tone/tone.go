// Package tone decodes or synthesizes the feedback tone.
package tone

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// Built-in tone.
const (
	Frequency = 440
	Duration  = time.Second / 10
)

// DefaultFormat is 44.1kHz 16-bit stereo.
var DefaultFormat = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

// Load decodes an mp3 or wav file, or returns the built-in tone.
func Load(path string) (beep.Streamer, beep.Format, error) {
	if path == "" {
		return Square(DefaultFormat.SampleRate, Frequency, Duration), DefaultFormat, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("unsupported tone format %q", ext)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return closeAtEnd{streamer}, format, nil
}

// closeAtEnd closes the underlying file once the stream is drained.
type closeAtEnd struct {
	beep.StreamSeekCloser
}

func (c closeAtEnd) Stream(samples [][2]float64) (int, bool) {
	n, ok := c.StreamSeekCloser.Stream(samples)
	if !ok {
		c.Close()
	}
	return n, ok
}

// Square returns d worth of a full scale square wave. The player applies the
// volume.
func Square(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	period := int(float64(sr) / freq)
	pos := 0
	return beep.Take(sr.N(d), beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := 1.0
			if pos%period >= period/2 {
				v = -1.0
			}
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	}))
}
