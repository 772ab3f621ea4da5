package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"

	"piano3d/internal/keys"
)

// DefaultPath is the config file, relative to the process working directory.
const DefaultPath = "config/piano.yaml"

// Config is everything the viewer reads at startup. Fields missing from the YAML file keep
// their Default() values.
type Config struct {
	Model     string     `yaml:"model"`
	AudioDir  string     `yaml:"audio_dir"`
	AudioExt  string     `yaml:"audio_ext"`
	LogFile   string     `yaml:"log_file"`
	FPS       int        `yaml:"fps"`
	Font      string     `yaml:"font"`
	Keys      []string   `yaml:"keys"`
	KeyPrefix string     `yaml:"key_prefix"`
	WhiteKeys int        `yaml:"white_keys"`
	Depth     float32    `yaml:"depth"`
	Voices    int        `yaml:"voices"`
	Offset    [3]float32 `yaml:"offset"`
	Colors    Colors     `yaml:"colors"`
	Camera    Camera     `yaml:"camera"`
	Window    Window     `yaml:"window"`
	MIDI      MIDI       `yaml:"midi"`
	Decoder   Decoder    `yaml:"decoder"`
}

// Colors are "#rrggbb" or "#rrggbbaa" strings.
type Colors struct {
	Base       string `yaml:"base"`
	White      string `yaml:"white"`
	Black      string `yaml:"black"`
	Background string `yaml:"background"`
}

type Camera struct {
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
	Fovy     float32    `yaml:"fovy"`
	Damping  bool       `yaml:"damping"`
}

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// MIDI input is off by default. BaseNote is the MIDI note of the first white key.
type MIDI struct {
	Enabled  bool   `yaml:"enabled"`
	Port     string `yaml:"port"`
	BaseNote int    `yaml:"base_note"`
}

// Decoder is the external command used for Draco-compressed models; see asset.Decompressor.
type Decoder struct {
	Command  []string `yaml:"command"`
	CacheDir string   `yaml:"cache_dir"`
}

// Default returns the stock configuration: the 24-key two-row layout and the orange/white/black
// palette.
func Default() Config {
	return Config{
		Model:     "assets/piano.glb",
		AudioDir:  "assets/pianoNotes",
		AudioExt:  "mp3",
		LogFile:   "logs/piano.txt",
		FPS:       60,
		Keys:      append([]string(nil), keys.DefaultLabels...),
		KeyPrefix: "pianoNote",
		WhiteKeys: 14,
		Depth:     0.05,
		Voices:    4,
		Offset:    [3]float32{-1.5, 0, 1},
		Colors: Colors{
			Base:       "#e77340",
			White:      "#ffffff",
			Black:      "#000000",
			Background: "#000000",
		},
		Camera: Camera{
			Position: [3]float32{4, 2, 4},
			Fovy:     45,
			Damping:  true,
		},
		Window: Window{
			Title:  "piano",
			Width:  1280,
			Height: 720,
		},
		MIDI: MIDI{
			BaseNote: 60,
		},
		Decoder: Decoder{
			CacheDir: "cache",
		},
	}
}

// Load reads the YAML config at path over Default(). A missing file is not an error; a file that
// does not parse or validate is.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c Config) Validate() error {
	if len(c.Keys) == 0 {
		return errors.New("keys: empty list")
	}
	if c.WhiteKeys < 0 || c.WhiteKeys > len(c.Keys) {
		return fmt.Errorf("white_keys: %d outside [0, %d]", c.WhiteKeys, len(c.Keys))
	}
	if c.Depth <= 0 {
		return fmt.Errorf("depth: must be positive, got %v", c.Depth)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps: must be positive, got %d", c.FPS)
	}
	if c.Voices < 1 {
		return fmt.Errorf("voices: must be at least 1, got %d", c.Voices)
	}
	for name, s := range map[string]string{
		"base": c.Colors.Base, "white": c.Colors.White, "black": c.Colors.Black, "background": c.Colors.Background,
	} {
		if _, err := ParseColor(s); err != nil {
			return fmt.Errorf("colors.%s: %w", name, err)
		}
	}
	if c.MIDI.BaseNote < 0 || c.MIDI.BaseNote > 127 {
		return fmt.Errorf("midi.base_note: %d outside [0, 127]", c.MIDI.BaseNote)
	}
	return nil
}

// Overrides come from the command line or the environment. Empty fields leave the config alone.
type Overrides struct {
	Model    string
	AudioDir string
	AudioExt string
	LogFile  string
	FPS      int
}

// Apply copies every non-empty override onto c.
func (c *Config) Apply(o Overrides) error {
	return copier.CopyWithOption(c, &o, copier.Option{IgnoreEmpty: true})
}

// FromEnv reads PIANO_MODEL, PIANO_AUDIO_DIR, PIANO_AUDIO_EXT, PIANO_LOG and PIANO_FPS.
func FromEnv() Overrides {
	o := Overrides{
		Model:    os.Getenv("PIANO_MODEL"),
		AudioDir: os.Getenv("PIANO_AUDIO_DIR"),
		AudioExt: os.Getenv("PIANO_AUDIO_EXT"),
		LogFile:  os.Getenv("PIANO_LOG"),
	}
	if v, err := strconv.Atoi(os.Getenv("PIANO_FPS")); err == nil && v > 0 {
		o.FPS = v
	}
	return o
}

// ParseColor reads "#rrggbb" or "#rrggbbaa" (the leading # is optional) into RGBA bytes.
func ParseColor(s string) ([4]uint8, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return [4]uint8{}, fmt.Errorf("bad color %q", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return [4]uint8{}, fmt.Errorf("bad color %q", s)
	}
	return [4]uint8{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}
