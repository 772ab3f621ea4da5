package debug

import (
	"fmt"
	"runtime"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"piano3d/internal/graphics"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug holds the corner readouts (FPS, heap, pressed keys). All are off by default.
// F2 toggles FPS, F3 memory, F4 pressed keys, G the floor grid.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowKeys     bool

	// Pressed, if set, returns the labels of the keys currently held down.
	Pressed func() []string
	// Text is the font for the readouts; the zero value is raylib's default font.
	Text graphics.Text

	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats
}

func New() *Debug {
	return &Debug{}
}

// Update handles the toggle keys. It reports whether any toggle changed, so the caller can save
// prefs. grid is flipped by G.
func (d *Debug) Update(grid *bool) bool {
	changed := true
	switch {
	case rl.IsKeyPressed(rl.KeyF2):
		d.ShowFPS = !d.ShowFPS
	case rl.IsKeyPressed(rl.KeyF3):
		d.ShowMemAlloc = !d.ShowMemAlloc
	case rl.IsKeyPressed(rl.KeyF4):
		d.ShowKeys = !d.ShowKeys
	case grid != nil && rl.IsKeyPressed(rl.KeyG):
		*grid = !*grid
	default:
		changed = false
	}
	return changed
}

// Draw renders the enabled readouts at the top-right, after the scene and the log overlay.
// FPS/Mem text is only recomputed every updateInterval frames; the key list is live.
func (d *Debug) Draw() {
	d.frameCount++
	update := d.frameCount%updateInterval == 0
	if d.ShowFPS && d.lastFpsText == "" {
		update = true
	}
	if d.ShowMemAlloc && d.lastMemText == "" {
		update = true
	}

	y := int32(padding)
	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		d.drawRight(d.lastFpsText, y, rl.Green)
		y += lineHeight
	}
	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", float64(d.lastMemStats.Alloc)/(1024*1024))
		}
		d.drawRight(d.lastMemText, y, rl.Green)
		y += lineHeight
	}
	if d.ShowKeys && d.Pressed != nil {
		text := "Keys: -"
		if p := d.Pressed(); len(p) > 0 {
			text = "Keys: " + strings.Join(p, " ")
		}
		d.drawRight(text, y, rl.SkyBlue)
	}
}

func (d *Debug) drawRight(text string, y int32, c rl.Color) {
	if text == "" {
		return
	}
	x := int32(rl.GetScreenWidth()) - d.Text.Measure(text, fontSize) - padding
	d.Text.Draw(text, x, y, fontSize, c)
}
