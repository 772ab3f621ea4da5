package input

import (
	"piano3d/internal/keys"
	"piano3d/internal/piano"
)

// Source is per-frame key state, as raylib reports it. Codes are keyboard key codes
// (see keys.CodeFor).
type Source interface {
	IsKeyPressed(code int32) bool
	IsKeyPressedRepeat(code int32) bool
	IsKeyReleased(code int32) bool
	Focused() bool
}

// Keyboard turns key state into piano events for the registered keys only.
type Keyboard struct {
	reg     *keys.Registry
	src     Source
	focused bool
	events  []piano.Event
}

func NewKeyboard(reg *keys.Registry, src Source) *Keyboard {
	return &Keyboard{reg: reg, src: src, focused: true}
}

// Poll returns this frame's events in registry order. For one key a press comes before its
// repeat and release, so a tap shorter than a frame still plays. Losing window focus yields a
// single Reset, since releases that happen while unfocused are never reported.
// The returned slice is reused by the next Poll.
func (k *Keyboard) Poll() []piano.Event {
	k.events = k.events[:0]
	focused := k.src.Focused()
	if k.focused && !focused {
		k.events = append(k.events, piano.Event{Reset: true})
	}
	k.focused = focused
	if !focused {
		return k.events
	}
	for i := 0; i < k.reg.Len(); i++ {
		code := k.reg.Code(i)
		if code == 0 {
			continue
		}
		label := k.reg.Label(i)
		if k.src.IsKeyPressed(code) {
			k.events = append(k.events, piano.Event{Label: label, Down: true})
		}
		if k.src.IsKeyPressedRepeat(code) {
			k.events = append(k.events, piano.Event{Label: label, Down: true, Repeat: true})
		}
		if k.src.IsKeyReleased(code) {
			k.events = append(k.events, piano.Event{Label: label})
		}
	}
	return k.events
}
