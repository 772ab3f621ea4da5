package sound

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"piano3d/internal/logger"
	"piano3d/internal/piano"
	"piano3d/internal/samples"
)

// Device is the raylib audio device. Open it once, after which LoadBank can create clips.
type Device struct {
	ready bool
}

// Open initializes the audio device. A machine without audio output still gets a Device; every
// clip loaded from it is silent.
func Open(log *logger.Logger) *Device {
	rl.InitAudioDevice()
	d := &Device{ready: rl.IsAudioDeviceReady()}
	if !d.ready {
		log.Warn("audio device unavailable; keys will be silent")
	}
	return d
}

func (d *Device) Ready() bool {
	return d.ready
}

func (d *Device) Close() {
	if d.ready {
		rl.CloseAudioDevice()
		d.ready = false
	}
}

// Clip is one key's sample with a small round-robin pool of voices. Restart takes the next voice,
// rewinds it and plays it, so a quickly repeated note keeps the tail of the previous strike.
type Clip struct {
	Path   string
	voices []rl.Sound
	next   int
}

func (c *Clip) Restart() {
	v := c.voices[c.next]
	c.next = (c.next + 1) % len(c.voices)
	rl.StopSound(v)
	rl.PlaySound(v)
}

func (c *Clip) unload() {
	for i := len(c.voices) - 1; i > 0; i-- {
		rl.UnloadSoundAlias(c.voices[i])
	}
	if len(c.voices) > 0 {
		rl.UnloadSound(c.voices[0])
	}
	c.voices = nil
}

// Bank holds one clip per registry index. Missing clips are nil.
type Bank struct {
	clips []*Clip
}

// LoadBank loads paths[i] as the clip for key i. A file that is missing, empty or not decodable
// leaves that key silent and is logged once; the other keys are unaffected.
func LoadBank(d *Device, paths []string, voices int, log *logger.Logger) *Bank {
	if voices < 1 {
		voices = 1
	}
	b := &Bank{clips: make([]*Clip, len(paths))}
	if d == nil || !d.ready {
		return b
	}
	for i, p := range paths {
		if _, err := samples.Probe(p); err != nil {
			log.Once("clip:"+p, slog.LevelWarn, "clip unavailable, key will be silent", "key", i, "path", p, "err", err)
			continue
		}
		src := rl.LoadSound(p)
		if !rl.IsSoundValid(src) {
			log.Once("clip:"+p, slog.LevelWarn, "clip could not be decoded, key will be silent", "key", i, "path", p)
			continue
		}
		c := &Clip{Path: p, voices: []rl.Sound{src}}
		for n := 1; n < voices; n++ {
			c.voices = append(c.voices, rl.LoadSoundAlias(src))
		}
		b.clips[i] = c
	}
	return b
}

// Clips returns the bank as controller clips. Missing entries are untyped nil so the controller
// sees them as absent.
func (b *Bank) Clips() []piano.Clip {
	out := make([]piano.Clip, len(b.clips))
	for i, c := range b.clips {
		if c != nil {
			out[i] = c
		}
	}
	return out
}

// Loaded returns how many keys have a clip.
func (b *Bank) Loaded() int {
	n := 0
	for _, c := range b.clips {
		if c != nil {
			n++
		}
	}
	return n
}

// Unload frees every clip. Call before closing the device.
func (b *Bank) Unload() {
	for _, c := range b.clips {
		if c != nil {
			c.unload()
		}
	}
	b.clips = nil
}
