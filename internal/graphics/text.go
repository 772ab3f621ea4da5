package graphics

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Text draws 2D text with a loaded TTF/OTF font. The zero value draws with raylib's default font.
type Text struct {
	font rl.Font
}

// LoadText loads the font at path rasterized at size pixels. Call after the window exists.
func LoadText(path string, size int32) (Text, error) {
	f := rl.LoadFontEx(path, size, nil)
	if !rl.IsFontValid(f) {
		return Text{}, fmt.Errorf("graphics: could not load font %s", path)
	}
	rl.SetTextureFilter(f.Texture, rl.FilterBilinear)
	return Text{font: f}, nil
}

func (t Text) custom() bool {
	return t.font.Texture.ID != 0
}

func (t Text) Draw(s string, x, y, size int32, c rl.Color) {
	if t.custom() {
		rl.DrawTextEx(t.font, s, rl.NewVector2(float32(x), float32(y)), float32(size), 1, c)
		return
	}
	rl.DrawText(s, x, y, size, c)
}

// Measure returns the width of s in pixels.
func (t Text) Measure(s string, size int32) int32 {
	if t.custom() {
		return int32(rl.MeasureTextEx(t.font, s, float32(size), 1).X)
	}
	return rl.MeasureText(s, size)
}

func (t Text) Unload() {
	if t.custom() {
		rl.UnloadFont(t.font)
	}
}
