package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"piano3d/internal/viewport"
)

// Options describe the window. Width and Height are logical pixels.
type Options struct {
	Title      string
	Width      int
	Height     int
	FPS        int
	Background rl.Color
}

// Hooks are called from the frame loop, all on the window's goroutine. Any of them may be nil.
// Init runs once after the window and GL context exist; Shutdown runs once before they go away.
// Draw3D renders into the offscreen surface; DrawOverlay draws 2D on top, in window coordinates.
type Hooks struct {
	Init        func()
	Update      func()
	Draw3D      func()
	DrawOverlay func()
	Shutdown    func()
}

// Run opens a resizable window and runs the frame loop until the window is closed. Each frame it
// applies any resize, calls Update, renders Draw3D into a surface sized by the viewport's pixel
// ratio, scales that surface to the window and calls DrawOverlay.
// It returns the last viewport state so the caller can remember the window size.
func Run(opts Options, hooks Hooks) viewport.State {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagWindowHighdpi)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull) // ESC closes the log overlay; close via window button
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	rl.SetTargetFPS(int32(fps))

	var surface rl.RenderTexture2D
	resize := func(s viewport.State) {
		if surface.ID != 0 {
			rl.UnloadRenderTexture(surface)
		}
		w, h := s.SurfaceSize()
		surface = rl.LoadRenderTexture(w, h)
		rl.SetTextureFilter(surface.Texture, rl.FilterBilinear)
	}
	vp := viewport.NewManager(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()), deviceScale(), resize)
	resize(vp.State())
	defer func() {
		if surface.ID != 0 {
			rl.UnloadRenderTexture(surface)
		}
	}()

	if hooks.Init != nil {
		hooks.Init()
	}

	for !rl.WindowShouldClose() {
		vp.Resize(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()), deviceScale())
		if hooks.Update != nil {
			hooks.Update()
		}

		rl.BeginTextureMode(surface)
		rl.ClearBackground(opts.Background)
		if hooks.Draw3D != nil {
			hooks.Draw3D()
		}
		rl.EndTextureMode()

		s := vp.State()
		rl.BeginDrawing()
		rl.ClearBackground(opts.Background)
		// render textures are stored bottom-up, hence the negative source height
		src := rl.NewRectangle(0, 0, float32(surface.Texture.Width), -float32(surface.Texture.Height))
		dst := rl.NewRectangle(0, 0, float32(s.Width), float32(s.Height))
		rl.DrawTexturePro(surface.Texture, src, dst, rl.Vector2{}, 0, rl.White)
		if hooks.DrawOverlay != nil {
			hooks.DrawOverlay()
		}
		rl.EndDrawing()
	}

	if hooks.Shutdown != nil {
		hooks.Shutdown()
	}
	return vp.State()
}

// deviceScale is the display's DPI scale (1 on standard displays).
func deviceScale() float32 {
	s := rl.GetWindowScaleDPI()
	if s.X > s.Y {
		return s.X
	}
	return s.Y
}

// Color converts RGBA bytes (see config.ParseColor) to a raylib color.
func Color(c [4]uint8) rl.Color {
	return rl.NewColor(c[0], c[1], c[2], c[3])
}
