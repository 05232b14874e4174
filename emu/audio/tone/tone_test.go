package tone

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/retroenv/retrogolib/assert"
)

func countSamples(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for {
		n, ok := s.Stream(buf)
		for _, sample := range buf[:n] {
			if sample[0] > peak {
				peak = sample[0]
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestBuiltInTone(t *testing.T) {
	s, format, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, DefaultFormat, format)

	n, peak := countSamples(s)
	assert.Equal(t, DefaultFormat.SampleRate.N(Duration), n)
	assert.Equal(t, 1.0, peak)
}

func TestWavTone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beep.wav")
	f, err := os.Create(path)
	assert.NoError(t, err)
	assert.NoError(t, wav.Encode(f, Square(DefaultFormat.SampleRate, Frequency, Duration), DefaultFormat))
	assert.NoError(t, f.Close())

	s, format, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, DefaultFormat.SampleRate, format.SampleRate)

	n, _ := countSamples(s)
	assert.Equal(t, DefaultFormat.SampleRate.N(Duration), n)
}

func TestUnsupportedTone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beep.ogg")
	assert.NoError(t, os.WriteFile(path, []byte("OggS"), 0644))

	_, _, err := Load(path)
	assert.Error(t, err, `unsupported tone format ".ogg"`)
}
