package overlay

import (
	"log/slog"
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"

	"piano3d/internal/graphics"
	"piano3d/internal/logger"
)

const (
	fontSize         = 18
	padding          = 8
	lineHeight       = fontSize + 4
	maxLinesOnScreen = 12
	maxLineLen       = 160
)

var (
	// reused every frame to avoid per-frame color allocations
	panelColor = rl.NewColor(24, 24, 24, 220)
	edgeColor  = rl.NewColor(80, 80, 80, 255)
	warnColor  = rl.NewColor(240, 200, 80, 255)
	errorColor = rl.NewColor(240, 90, 80, 255)
)

// Overlay is the log panel at the bottom of the window. F1 shows/hides it and ESC hides it. It
// opens by itself when a warning or error is logged, so a model or clip that fails to load is
// visible without a console. Problems can be logged from any goroutine.
type Overlay struct {
	log  *logger.Logger
	open atomic.Bool
	min  slog.Level
	text graphics.Text
}

// New returns a closed overlay and hooks it to log's problem callback.
func New(log *logger.Logger) *Overlay {
	o := &Overlay{log: log, min: slog.LevelInfo}
	log.OnProblem = func(logger.Entry) { o.open.Store(true) }
	return o
}

func (o *Overlay) IsOpen() bool {
	return o.open.Load()
}

func (o *Overlay) SetOpen(open bool) {
	o.open.Store(open)
}

// SetText sets the font used for log lines.
func (o *Overlay) SetText(t graphics.Text) {
	o.text = t
}

// SetVerbose includes debug lines in the panel.
func (o *Overlay) SetVerbose(v bool) {
	if v {
		o.min = slog.LevelDebug
	} else {
		o.min = slog.LevelInfo
	}
}

// Update handles F1 (toggle) and ESC (close). Call once per frame.
func (o *Overlay) Update() {
	if rl.IsKeyPressed(rl.KeyF1) {
		o.open.Store(!o.open.Load())
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		o.open.Store(false)
	}
}

// Draw draws the most recent entries at the bottom of the window, colored by level.
func (o *Overlay) Draw() {
	if !o.open.Load() {
		return
	}
	entries := o.log.Entries(o.min)
	if len(entries) > maxLinesOnScreen {
		entries = entries[len(entries)-maxLinesOnScreen:]
	}
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())
	height := int32(maxLinesOnScreen*lineHeight + 2*padding)
	top := screenH - height
	if top < 0 {
		top, height = 0, screenH
	}
	rl.DrawRectangle(0, top, screenW, height, panelColor)
	rl.DrawRectangle(0, top, screenW, 1, edgeColor)

	y := top + padding
	for _, e := range entries {
		line := e.String()
		if len(line) > maxLineLen {
			line = line[:maxLineLen-3] + "..."
		}
		o.text.Draw(line, padding, y, fontSize, levelColor(e.Level))
		y += lineHeight
	}
}

func levelColor(l slog.Level) rl.Color {
	switch {
	case l >= slog.LevelError:
		return errorColor
	case l >= slog.LevelWarn:
		return warnColor
	default:
		return rl.LightGray
	}
}
