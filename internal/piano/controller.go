package piano

import (
	"piano3d/internal/keys"
)

// DefaultDepth is how far a pressed key moves down, in model units.
const DefaultDepth = 0.05

// Node is the visual side of a key. SetDepression receives 0 at rest and -depth while pressed;
// implementations add it to their rest position.
type Node interface {
	SetDepression(d float32)
}

// Clip is the audio side of a key. Restart rewinds to the start and plays; a previous instance
// may keep ringing.
type Clip interface {
	Restart()
}

// State of one key.
type State uint8

const (
	Released State = iota
	Pressed
)

func (s State) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// Event is a key transition from any input source. Reset releases every key instead.
type Event struct {
	Label  string
	Down   bool
	Repeat bool
	Reset  bool
}

// Controller is the per-key state machine. Each key index has its own state, node and clip; a
// transition on one index never reads or writes another index.
// All methods must be called from the frame goroutine; other goroutines go through a Queue.
type Controller struct {
	reg   *keys.Registry
	depth float32
	state []State
	nodes []Node
	clips []Clip
}

// NewController binds nodes and clips to the registry by index. A nil node or clip is allowed
// (the key just has no visual or no sound). Extra entries past the registry length are ignored.
func NewController(reg *keys.Registry, nodes []Node, clips []Clip, depth float32) *Controller {
	if depth <= 0 {
		depth = DefaultDepth
	}
	c := &Controller{
		reg:   reg,
		depth: depth,
		state: make([]State, reg.Len()),
		nodes: make([]Node, reg.Len()),
		clips: make([]Clip, reg.Len()),
	}
	copy(c.nodes, nodes)
	copy(c.clips, clips)
	return c
}

// HandleEvent resolves the event's key through the registry. Unregistered keys are ignored.
func (c *Controller) HandleEvent(ev Event) {
	if ev.Reset {
		c.ReleaseAll()
		return
	}
	i, ok := c.reg.IndexOf(ev.Label)
	if !ok {
		return
	}
	if ev.Down {
		c.KeyDown(i, ev.Repeat)
	} else {
		c.KeyUp(i)
	}
}

// KeyDown moves key i to Pressed: the clip restarts and the node goes down by the depth.
// Auto-repeat and presses of an already pressed key change nothing.
func (c *Controller) KeyDown(i int, repeat bool) {
	if repeat || i < 0 || i >= len(c.state) || c.state[i] == Pressed {
		return
	}
	c.state[i] = Pressed
	if clip := c.clips[i]; clip != nil {
		clip.Restart()
	}
	if node := c.nodes[i]; node != nil {
		node.SetDepression(-c.depth)
	}
}

// KeyUp moves key i back to Released and raises its node to rest.
func (c *Controller) KeyUp(i int) {
	if i < 0 || i >= len(c.state) || c.state[i] == Released {
		return
	}
	c.state[i] = Released
	if node := c.nodes[i]; node != nil {
		node.SetDepression(0)
	}
}

// ReleaseAll raises every pressed key, e.g. when an input device goes away.
func (c *Controller) ReleaseAll() {
	for i := range c.state {
		c.KeyUp(i)
	}
}

// State returns the state of key i.
func (c *Controller) State(i int) State {
	if i < 0 || i >= len(c.state) {
		return Released
	}
	return c.state[i]
}

// Pressed returns the indices of all pressed keys in registry order.
func (c *Controller) Pressed() []int {
	var out []int
	for i, s := range c.state {
		if s == Pressed {
			out = append(out, i)
		}
	}
	return out
}

// Registry returns the registry the controller was built with.
func (c *Controller) Registry() *keys.Registry {
	return c.reg
}
