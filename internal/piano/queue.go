package piano

// Queue carries events from other goroutines (MIDI listeners) to the frame goroutine, where
// Drain applies them to the controller. Push never blocks: when the buffer is full the event is
// dropped and Push returns false.
type Queue struct {
	ch chan Event
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 256
	}
	return &Queue{ch: make(chan Event, size)}
}

// Push enqueues ev. Safe for concurrent use.
func (q *Queue) Push(ev Event) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		return false
	}
}

// Drain applies every queued event to c in arrival order and returns how many it applied.
// Events pushed while draining are left for the next call. With a nil controller (model not
// loaded yet) the events are discarded.
func (q *Queue) Drain(c *Controller) int {
	n := len(q.ch)
	for i := 0; i < n; i++ {
		ev := <-q.ch
		if c != nil {
			c.HandleEvent(ev)
		}
	}
	return n
}
