package app

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"piano3d/internal/asset"
	"piano3d/internal/config"
	"piano3d/internal/debug"
	"piano3d/internal/fonts"
	"piano3d/internal/graphics"
	"piano3d/internal/input"
	"piano3d/internal/keys"
	"piano3d/internal/logger"
	"piano3d/internal/midiin"
	"piano3d/internal/overlay"
	"piano3d/internal/piano"
	"piano3d/internal/prefs"
	"piano3d/internal/scene"
	"piano3d/internal/sound"
)

// App wires the viewer together: config and prefs in, window loop, model load, keyboard and MIDI
// input into one controller, prefs out. Everything except MIDI listening runs on the window
// goroutine.
type App struct {
	cfg       config.Config
	log       *logger.Logger
	prefsPath string
	prefs     prefs.Prefs

	reg    *keys.Registry
	queue  *piano.Queue
	router *input.NoteRouter
	kb     *input.Keyboard

	scene   *scene.Scene
	overlay *overlay.Overlay
	debug   *debug.Debug
	grid    *bool
	text    graphics.Text

	audio *sound.Device
	bank  *sound.Bank
	ctrl  *piano.Controller
	midi  *midiin.Watcher
}

// New validates cfg, builds the key registry and loads prefs from prefsPath.
func New(cfg config.Config, log *logger.Logger, prefsPath string) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	reg, err := keys.New(cfg.Keys)
	if err != nil {
		return nil, fmt.Errorf("app: keys: %w", err)
	}
	a := &App{
		cfg:       cfg,
		log:       log,
		prefsPath: prefsPath,
		prefs:     prefs.Load(prefsPath),
		reg:       reg,
		queue:     piano.NewQueue(0),
	}
	a.router = input.NewNoteRouter(a.queue, cfg.MIDI.BaseNote)
	a.kb = input.NewKeyboard(reg, graphics.Keyboard{})
	a.overlay = overlay.New(log)

	a.debug = debug.New()
	a.debug.ShowFPS = a.prefs.ShowFPS
	a.debug.ShowMemAlloc = a.prefs.ShowMemAlloc
	a.debug.ShowKeys = a.prefs.ShowKeys
	a.debug.Pressed = a.pressedLabels

	a.scene = scene.New(scene.Options{
		CameraPosition: cfg.Camera.Position,
		CameraTarget:   cfg.Camera.Target,
		Fovy:           cfg.Camera.Fovy,
		Damping:        cfg.Camera.Damping,
		FPS:            cfg.FPS,
		Offset:         cfg.Offset,
		Colors: [3]rl.Color{
			asset.Structural: mustColor(cfg.Colors.Base),
			asset.WhiteKey:   mustColor(cfg.Colors.White),
			asset.BlackKey:   mustColor(cfg.Colors.Black),
		},
	}, log)
	a.scene.GridVisible = a.prefs.GridVisible
	a.scene.OnLoad = a.onLoad
	// G toggles the grid unless it is a piano key
	if _, taken := reg.IndexOf("g"); !taken {
		a.grid = &a.scene.GridVisible
	}
	return a, nil
}

// mustColor is only called on validated config.
func mustColor(s string) rl.Color {
	c, _ := config.ParseColor(s)
	return graphics.Color(c)
}

// Run opens the window and blocks until it is closed.
func (a *App) Run() error {
	w, h := a.prefs.WindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
	final := graphics.Run(graphics.Options{
		Title:      a.cfg.Window.Title,
		Width:      w,
		Height:     h,
		FPS:        a.cfg.FPS,
		Background: mustColor(a.cfg.Colors.Background),
	}, graphics.Hooks{
		Init:        a.init,
		Update:      a.update,
		Draw3D:      a.scene.Draw,
		DrawOverlay: a.drawOverlay,
		Shutdown:    a.shutdown,
	})
	a.prefs.WindowWidth, a.prefs.WindowHeight = final.Width, final.Height
	return a.savePrefs()
}

func (a *App) init() {
	a.loadFont()
	a.audio = sound.Open(a.log)
	a.scene.Load(scene.LoadRequest{
		Path: a.cfg.Model,
		Decompressor: asset.Decompressor{
			Command:  a.cfg.Decoder.Command,
			CacheDir: a.cfg.Decoder.CacheDir,
		},
		Classify: asset.Options{
			Prefix:    a.cfg.KeyPrefix,
			WhiteKeys: a.cfg.WhiteKeys,
			Expected:  a.reg.Len(),
			AudioDir:  a.cfg.AudioDir,
			AudioExt:  a.cfg.AudioExt,
		},
	})
	if a.cfg.MIDI.Enabled {
		m, err := midiin.Open(a.cfg.MIDI.Port, a.router, a.log)
		if err != nil {
			a.log.Error("midi input disabled", "err", err)
		} else {
			a.midi = m
		}
	}
	a.log.Info("piano ready", "model", a.cfg.Model, "keys", a.reg.Len(), "midi", a.midi != nil)
}

// loadFont switches the overlay and readouts to the configured font. Failure keeps the
// built-in one.
func (a *App) loadFont() {
	path, err := fonts.Resolve(a.cfg.Font, fonts.DefaultDirs)
	if err != nil {
		a.log.Warn("font not found, using built-in", "font", a.cfg.Font, "err", err)
		return
	}
	if path == "" {
		return
	}
	t, err := graphics.LoadText(path, 32)
	if err != nil {
		a.log.Warn("font not loaded, using built-in", "err", err)
		return
	}
	a.text = t
	a.overlay.SetText(t)
	a.debug.Text = t
}

// onLoad runs on the frame the model finishes loading: clips are loaded in registry order and
// the controller starts receiving events.
func (a *App) onLoad(layout *asset.Layout, nodes []piano.Node) {
	paths := make([]string, a.reg.Len())
	for _, k := range layout.Keys {
		paths[k.Index] = k.Clip
	}
	a.bank = sound.LoadBank(a.audio, paths, a.cfg.Voices, a.log)
	a.ctrl = piano.NewController(a.reg, nodes, a.bank.Clips(), a.cfg.Depth)
	a.router.SetLayout(layout, a.reg)
	a.log.Info("clips loaded", "loaded", a.bank.Loaded(), "keys", len(paths))
}

func (a *App) update() {
	a.overlay.Update()
	if a.debug.Update(a.grid) {
		_ = a.savePrefs()
	}
	a.scene.Update()
	if a.midi != nil {
		a.midi.Tick()
	}
	for _, ev := range a.kb.Poll() {
		if a.ctrl != nil {
			a.ctrl.HandleEvent(ev)
		}
	}
	a.queue.Drain(a.ctrl)
}

func (a *App) drawOverlay() {
	a.overlay.Draw()
	a.debug.Draw()
}

func (a *App) shutdown() {
	if a.ctrl != nil {
		a.ctrl.ReleaseAll()
	}
	if a.midi != nil {
		a.midi.Close()
	}
	if a.bank != nil {
		a.bank.Unload()
	}
	a.audio.Close()
	a.scene.Unload()
	a.text.Unload()
}

func (a *App) pressedLabels() []string {
	if a.ctrl == nil {
		return nil
	}
	idx := a.ctrl.Pressed()
	out := make([]string, len(idx))
	for i, k := range idx {
		out[i] = a.reg.Label(k)
	}
	return out
}

func (a *App) savePrefs() error {
	a.prefs.ShowFPS = a.debug.ShowFPS
	a.prefs.ShowMemAlloc = a.debug.ShowMemAlloc
	a.prefs.ShowKeys = a.debug.ShowKeys
	a.prefs.GridVisible = a.scene.GridVisible
	if err := prefs.Save(a.prefsPath, a.prefs); err != nil {
		a.log.Warn("prefs not saved", "path", a.prefsPath, "err", err)
		return fmt.Errorf("app: save prefs: %w", err)
	}
	return nil
}
