package input

import (
	"fmt"
	"testing"

	"piano3d/internal/asset"
	"piano3d/internal/keys"
	"piano3d/internal/piano"
)

type fakeSource struct {
	pressed, repeated, released map[int32]bool
	unfocused                   bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{pressed: map[int32]bool{}, repeated: map[int32]bool{}, released: map[int32]bool{}}
}

func (s *fakeSource) IsKeyPressed(c int32) bool       { return s.pressed[c] }
func (s *fakeSource) IsKeyPressedRepeat(c int32) bool { return s.repeated[c] }
func (s *fakeSource) IsKeyReleased(c int32) bool      { return s.released[c] }
func (s *fakeSource) Focused() bool                   { return !s.unfocused }

func (s *fakeSource) clear() {
	s.pressed, s.repeated, s.released = map[int32]bool{}, map[int32]bool{}, map[int32]bool{}
}

func TestKeyboardPollOrdersEventsPerKey(t *testing.T) {
	reg := keys.Default()
	src := newFakeSource()
	kb := NewKeyboard(reg, src)

	src.pressed['W'] = true
	src.released['W'] = true
	src.repeated['Q'] = true
	src.pressed['X'] = true // not registered

	got := kb.Poll()
	want := []piano.Event{
		{Label: "q", Down: true, Repeat: true},
		{Label: "w", Down: true},
		{Label: "w"},
	}
	if len(got) != len(want) {
		t.Fatalf("event count mismatch: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d mismatch: got=%+v want=%+v", i, got[i], want[i])
		}
	}

	src.clear()
	if got := kb.Poll(); len(got) != 0 {
		t.Fatalf("expected no events, got %v", got)
	}
}

func TestKeyboardFocusLossResetsOnce(t *testing.T) {
	src := newFakeSource()
	kb := NewKeyboard(keys.Default(), src)

	src.unfocused = true
	src.pressed['Q'] = true
	got := kb.Poll()
	if len(got) != 1 || !got[0].Reset {
		t.Fatalf("expected a single reset, got %v", got)
	}
	if got := kb.Poll(); len(got) != 0 {
		t.Fatalf("expected nothing while unfocused, got %v", got)
	}
	src.unfocused = false
	if got := kb.Poll(); len(got) != 1 || got[0].Label != "q" {
		t.Fatalf("expected input after refocus, got %v", got)
	}
}

type node struct{ d float32 }

func (n *node) SetDepression(d float32) { n.d = d }

func defaultLayout(t *testing.T) *asset.Layout {
	t.Helper()
	var nodes []asset.Node
	for i := 1; i <= 24; i++ {
		nodes = append(nodes, asset.Node{Name: fmt.Sprintf("pianoNote%d", i), Meshes: []int{i}})
	}
	layout, err := asset.Classify(nodes, asset.Options{WhiteKeys: 14, Expected: 24})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	return layout
}

func TestNoteRouterMapsNotesToLabels(t *testing.T) {
	reg := keys.Default()
	r := NewNoteRouter(piano.NewQueue(8), 60)
	if _, ok := r.Label(60); ok {
		t.Fatalf("no notes should map before a layout is set")
	}
	r.SetLayout(defaultLayout(t), reg)

	cases := map[int]string{60: "q", 62: "w", 72: "i", 83: "h", 61: "1", 63: "2", 66: "3", 82: "0"}
	for note, want := range cases {
		got, ok := r.Label(note)
		if !ok || got != want {
			t.Fatalf("note %d: got=%q,%v want=%q", note, got, ok, want)
		}
	}
	for _, note := range []int{59, 84, 0, 127} {
		if _, ok := r.Label(note); ok {
			t.Fatalf("note %d should not map", note)
		}
	}
}

func TestNoteRouterQueuesEvents(t *testing.T) {
	reg := keys.Default()
	q := piano.NewQueue(8)
	r := NewNoteRouter(q, 60)
	if r.NoteOn(60) {
		t.Fatalf("note before layout should be ignored")
	}
	r.SetLayout(defaultLayout(t), reg)

	nodes := make([]piano.Node, reg.Len())
	raw := make([]*node, reg.Len())
	for i := range nodes {
		raw[i] = &node{}
		nodes[i] = raw[i]
	}
	c := piano.NewController(reg, nodes, nil, 0.05)

	if !r.NoteOn(60) || !r.NoteOn(61) || r.NoteOn(20) {
		t.Fatalf("NoteOn results mismatch")
	}
	q.Drain(c)
	if c.State(0) != piano.Pressed || c.State(14) != piano.Pressed {
		t.Fatalf("expected q and 1 pressed, got %v", c.Pressed())
	}
	if raw[0].d != -0.05 {
		t.Fatalf("depression mismatch: %v", raw[0].d)
	}

	r.NoteOff(60)
	q.Drain(c)
	if c.State(0) != piano.Released || raw[0].d != 0 {
		t.Fatalf("note off should release q")
	}

	r.Reset()
	q.Drain(c)
	if len(c.Pressed()) != 0 {
		t.Fatalf("reset should release all, still pressed: %v", c.Pressed())
	}
}

func TestPickPort(t *testing.T) {
	names := []string{"Midi Through Port-0", "USB Keystation 49", "Launchkey Mini"}
	cases := []struct {
		preferred string
		excluded  []string
		want      int
	}{
		{"", []string{"through"}, 1},
		{"", nil, 0},
		{"launch", []string{"through"}, 2},
		{"KEYSTATION", nil, 1},
		{"nope", nil, -1},
		{"", []string{"midi", "usb", "launch"}, -1},
	}
	for _, tc := range cases {
		if got := PickPort(names, tc.preferred, tc.excluded); got != tc.want {
			t.Fatalf("PickPort(%q, %v): got=%d want=%d", tc.preferred, tc.excluded, got, tc.want)
		}
	}
	if PickPort(nil, "", nil) != -1 {
		t.Fatalf("no ports should give -1")
	}
}
