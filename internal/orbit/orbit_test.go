package orbit

import (
	"testing"

	"github.com/chewxy/math32"
)

func near(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func TestNewReproducesStartPosition(t *testing.T) {
	c := New([3]float32{4, 2, 4}, [3]float32{}, 60)
	p := c.Position()
	if !near(p[0], 4) || !near(p[1], 2) || !near(p[2], 4) {
		t.Fatalf("position mismatch: got=%v want=[4 2 4]", p)
	}
	if !near(c.Distance(), 6) {
		t.Fatalf("distance mismatch: got=%v want=6", c.Distance())
	}
}

func TestDampingKeepsMovingThenSettles(t *testing.T) {
	c := New([3]float32{4, 2, 4}, [3]float32{}, 60)
	start := c.Position()
	c.Update(Input{RotateX: 40})
	after := c.Position()
	if after == start {
		t.Fatalf("rotation had no effect")
	}
	c.Update(Input{})
	drift := c.Position()
	if drift == after {
		t.Fatalf("damped camera should keep drifting after input stops")
	}
	for i := 0; i < 600; i++ {
		c.Update(Input{})
	}
	if c.Moving() {
		t.Fatalf("camera still moving after 10s without input")
	}
	if !near(c.Distance(), 6) {
		t.Fatalf("rotation changed distance: got=%v", c.Distance())
	}
}

func TestNoDampingStopsImmediately(t *testing.T) {
	c := New([3]float32{4, 2, 4}, [3]float32{}, 60)
	c.Damping = false
	c.Update(Input{RotateX: 40, Zoom: 1})
	after := c.Position()
	c.Update(Input{})
	if c.Position() != after || c.Moving() {
		t.Fatalf("undamped camera moved without input")
	}
}

func TestPitchIsClamped(t *testing.T) {
	c := New([3]float32{4, 2, 4}, [3]float32{}, 60)
	c.Damping = false
	for i := 0; i < 100; i++ {
		c.Update(Input{RotateY: 1000})
	}
	if c.Pitch() > pitchLimit {
		t.Fatalf("pitch exceeded limit: got=%v limit=%v", c.Pitch(), pitchLimit)
	}
	for i := 0; i < 100; i++ {
		c.Update(Input{RotateY: -1000})
	}
	if c.Pitch() < -pitchLimit {
		t.Fatalf("pitch below limit: got=%v", c.Pitch())
	}
}

func TestZoomIsClamped(t *testing.T) {
	c := New([3]float32{4, 2, 4}, [3]float32{}, 60)
	c.Damping = false
	for i := 0; i < 100; i++ {
		c.Update(Input{Zoom: 10})
	}
	if c.Distance() != c.MinDistance {
		t.Fatalf("distance mismatch: got=%v want=%v", c.Distance(), c.MinDistance)
	}
	for i := 0; i < 100; i++ {
		c.Update(Input{Zoom: -10})
	}
	if c.Distance() != c.MaxDistance {
		t.Fatalf("distance mismatch: got=%v want=%v", c.Distance(), c.MaxDistance)
	}
}

func TestPanMovesTargetAndCamera(t *testing.T) {
	c := New([3]float32{0, 0, 5}, [3]float32{}, 60)
	c.Damping = false
	c.Update(Input{PanX: -100})
	if !(c.Target[0] > 0) || !near(c.Target[1], 0) {
		t.Fatalf("pan left-drag should move target to +X: %v", c.Target)
	}
	p := c.Position()
	if !near(p[0], c.Target[0]) || !near(p[2], 5) {
		t.Fatalf("camera should translate with the target: %v", p)
	}
}
