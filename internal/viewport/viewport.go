package viewport

// MaxPixelRatio caps the render surface density; higher ratios cost fill rate for no visible gain.
const MaxPixelRatio = 2

// State is the window-derived render state, recomputed on every resize.
type State struct {
	Width      int
	Height     int
	Aspect     float32
	PixelRatio float32
}

// SurfaceSize is the size in pixels of the offscreen render target.
func (s State) SurfaceSize() (w, h int32) {
	return int32(float32(s.Width) * s.PixelRatio), int32(float32(s.Height) * s.PixelRatio)
}

// Resize computes the state for a window of w×h logical pixels on a display with the given
// scale. The pixel ratio is min(deviceScale, 2), never below 1.
func Resize(w, h int, deviceScale float32) State {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	ratio := deviceScale
	if ratio > MaxPixelRatio {
		ratio = MaxPixelRatio
	}
	if ratio < 1 {
		ratio = 1
	}
	return State{
		Width:      w,
		Height:     h,
		Aspect:     float32(w) / float32(h),
		PixelRatio: ratio,
	}
}

// Manager holds the current viewport state and tells its listener when it changes.
type Manager struct {
	state    State
	onChange func(State)
}

// NewManager starts from an initial window size. onChange may be nil.
func NewManager(w, h int, deviceScale float32, onChange func(State)) *Manager {
	return &Manager{state: Resize(w, h, deviceScale), onChange: onChange}
}

// Resize applies a new window size synchronously. It reports whether anything changed.
func (m *Manager) Resize(w, h int, deviceScale float32) bool {
	next := Resize(w, h, deviceScale)
	if next == m.state {
		return false
	}
	m.state = next
	if m.onChange != nil {
		m.onChange(next)
	}
	return true
}

func (m *Manager) State() State {
	return m.state
}
