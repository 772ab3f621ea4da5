package input

import (
	"strings"
	"sync"

	"piano3d/internal/asset"
	"piano3d/internal/keys"
	"piano3d/internal/piano"
)

// NoteRouter maps MIDI notes to registry labels and pushes the resulting events to a queue. It is
// called from MIDI listener goroutines; SetLayout is called from the frame goroutine once the
// model is classified. Notes that arrive before that, or that no key plays, are ignored.
type NoteRouter struct {
	q    *piano.Queue
	base int

	mu     sync.RWMutex
	labels map[int]string
}

func NewNoteRouter(q *piano.Queue, base int) *NoteRouter {
	return &NoteRouter{q: q, base: base}
}

// SetLayout builds the note table: white keys are the naturals upward from the base note, black
// keys the sharps of the same octaves.
func (r *NoteRouter) SetLayout(layout *asset.Layout, reg *keys.Registry) {
	labels := make(map[int]string, len(layout.Keys))
	for _, k := range layout.Keys {
		if k.Index < reg.Len() {
			labels[k.Note(r.base)] = reg.Label(k.Index)
		}
	}
	r.mu.Lock()
	r.labels = labels
	r.mu.Unlock()
}

// Label returns the registry label a note plays.
func (r *NoteRouter) Label(note int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.labels[note]
	return l, ok
}

// NoteOn queues a key press. It reports whether the note mapped to a key and was queued.
func (r *NoteRouter) NoteOn(note int) bool {
	l, ok := r.Label(note)
	return ok && r.q.Push(piano.Event{Label: l, Down: true})
}

// NoteOff queues a key release.
func (r *NoteRouter) NoteOff(note int) bool {
	l, ok := r.Label(note)
	return ok && r.q.Push(piano.Event{Label: l})
}

// Reset queues a release of every key, e.g. when the device disconnects.
func (r *NoteRouter) Reset() bool {
	return r.q.Push(piano.Event{Reset: true})
}

// PickPort chooses an input port by name. A non-empty preferred name matches by case-insensitive
// substring. Otherwise the first port whose name contains none of the excluded words is used
// (virtual "through" ports are usually excluded). It returns -1 when nothing matches.
func PickPort(names []string, preferred string, excluded []string) int {
	if preferred != "" {
		p := strings.ToLower(preferred)
		for i, n := range names {
			if strings.Contains(strings.ToLower(n), p) {
				return i
			}
		}
		return -1
	}
next:
	for i, n := range names {
		low := strings.ToLower(n)
		for _, x := range excluded {
			if x != "" && strings.Contains(low, strings.ToLower(x)) {
				continue next
			}
		}
		return i
	}
	return -1
}
