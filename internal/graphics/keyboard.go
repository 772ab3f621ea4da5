package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Keyboard reads raylib's per-frame key state. It satisfies input.Source.
type Keyboard struct{}

func (Keyboard) IsKeyPressed(code int32) bool       { return rl.IsKeyPressed(code) }
func (Keyboard) IsKeyPressedRepeat(code int32) bool { return rl.IsKeyPressedRepeat(code) }
func (Keyboard) IsKeyReleased(code int32) bool      { return rl.IsKeyReleased(code) }
func (Keyboard) Focused() bool                      { return rl.IsWindowFocused() }
