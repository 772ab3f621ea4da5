package samples

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
)

// DefaultSampleRate for generated samples.
const DefaultSampleRate = 44100

// partials are the harmonic multiples mixed into a tone, with their relative level and decay
// rate. Higher partials die out faster, like a struck string.
var partials = []struct {
	mult, gain, decay float64
}{
	{1, 0.5, 1.2},
	{2, 0.25, 2.0},
	{3, 0.12, 3.0},
	{4, 0.06, 4.5},
	{5, 0.03, 6.0},
}

// NoteFrequency returns the equal-tempered frequency of a MIDI note (A4 = 69 = 440 Hz).
func NoteFrequency(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName spells a MIDI note with sharps and octave, middle C (60) being "C4".
func NoteName(note int) string {
	if note < 0 {
		return "?"
	}
	return noteNames[note%12] + strconv.Itoa(note/12-1)
}

// Render synthesizes a mono tone of the given frequency and length. Samples are in [-1, 1].
func Render(freq, seconds float64, rate int) []float32 {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	n := int(seconds * float64(rate))
	if n <= 0 || freq <= 0 {
		return nil
	}
	const attack = 0.005
	out := make([]float32, n)
	for i := range out {
		t := float64(i) / float64(rate)
		var v float64
		for _, p := range partials {
			f := freq * p.mult
			if f >= float64(rate)/2 {
				continue
			}
			v += p.gain * math.Exp(-p.decay*t) * math.Sin(2*math.Pi*f*t)
		}
		if t < attack {
			v *= t / attack
		}
		// soft saturation keeps the sum inside [-1, 1]
		out[i] = float32(math.Tanh(v))
	}
	return out
}

// WriteWAV writes mono samples as 16-bit PCM, creating the parent directory if needed.
func WriteWAV(path string, samples []float32, rate int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("samples: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("samples: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  rate,
			NumChannels: 1,
		},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("samples: write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("samples: close %s: %w", path, err)
	}
	return nil
}
