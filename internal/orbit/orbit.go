package orbit

import (
	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"
)

const (
	// pitchLimit keeps the camera off the poles, where the up vector degenerates.
	pitchLimit = math32.Pi/2 - 0.01

	defaultRotateSpeed = 0.005
	defaultZoomSpeed   = 0.5
	defaultPanSpeed    = 0.0015
	defaultMinDistance = 1
	defaultMaxDistance = 50

	// Frequency 6 settles in a few frames; damping ratio 1 is critically damped (no overshoot).
	springFrequency = 6.0
	springDamping   = 1.0
)

// Input is one frame of pointer input. Rotate and Pan are mouse deltas in pixels; Zoom is wheel
// steps (positive zooms in).
type Input struct {
	RotateX, RotateY float32
	PanX, PanY       float32
	Zoom             float32
}

// Controls orbits a camera around a target. With Damping on, rotation and zoom keep drifting
// after input stops and ease to a halt on a critically damped spring; with it off they stop on
// the same frame.
type Controls struct {
	Target      [3]float32
	Damping     bool
	RotateSpeed float32
	ZoomSpeed   float32
	PanSpeed    float32
	MinDistance float32
	MaxDistance float32

	yaw, pitch, distance float32

	yawVel, pitchVel, zoomVel float32
	yawAcc, pitchAcc, zoomAcc float64
	spring                    harmonica.Spring
}

// New places the camera at position looking at target. fps is the expected update rate, used
// to step the damping spring.
func New(position, target [3]float32, fps int) *Controls {
	if fps <= 0 {
		fps = 60
	}
	c := &Controls{
		Target:      target,
		Damping:     true,
		RotateSpeed: defaultRotateSpeed,
		ZoomSpeed:   defaultZoomSpeed,
		PanSpeed:    defaultPanSpeed,
		MinDistance: defaultMinDistance,
		MaxDistance: defaultMaxDistance,
		spring:      harmonica.NewSpring(harmonica.FPS(fps), springFrequency, springDamping),
	}
	dx := position[0] - target[0]
	dy := position[1] - target[1]
	dz := position[2] - target[2]
	flat := math32.Sqrt(dx*dx + dz*dz)
	c.distance = math32.Sqrt(dx*dx + dy*dy + dz*dz)
	c.yaw = math32.Atan2(dx, dz)
	c.pitch = math32.Atan2(dy, flat)
	return c
}

// Update applies one frame of input and advances damping.
func (c *Controls) Update(in Input) {
	c.yawVel -= in.RotateX * c.RotateSpeed
	c.pitchVel += in.RotateY * c.RotateSpeed
	c.zoomVel -= in.Zoom * c.ZoomSpeed

	if in.PanX != 0 || in.PanY != 0 {
		c.pan(in.PanX, in.PanY)
	}

	c.yaw += c.yawVel
	c.pitch = clamp(c.pitch+c.pitchVel, -pitchLimit, pitchLimit)
	c.distance = clamp(c.distance+c.zoomVel, c.MinDistance, c.MaxDistance)

	if !c.Damping {
		c.yawVel, c.pitchVel, c.zoomVel = 0, 0, 0
		c.yawAcc, c.pitchAcc, c.zoomAcc = 0, 0, 0
		return
	}
	c.yawVel, c.yawAcc = c.decay(c.yawVel, c.yawAcc)
	c.pitchVel, c.pitchAcc = c.decay(c.pitchVel, c.pitchAcc)
	c.zoomVel, c.zoomAcc = c.decay(c.zoomVel, c.zoomAcc)
}

func (c *Controls) decay(v float32, acc float64) (float32, float64) {
	nv, nacc := c.spring.Update(float64(v), acc, 0)
	if math32.Abs(float32(nv)) < 1e-6 && nacc < 1e-6 && nacc > -1e-6 {
		return 0, 0
	}
	return float32(nv), nacc
}

// pan moves the target in the camera's view plane, scaled by distance so the drag feels the
// same at any zoom.
func (c *Controls) pan(dx, dy float32) {
	scale := c.PanSpeed * c.distance
	sinYaw, cosYaw := math32.Sin(c.yaw), math32.Cos(c.yaw)
	sinPitch, cosPitch := math32.Sin(c.pitch), math32.Cos(c.pitch)
	right := [3]float32{cosYaw, 0, -sinYaw}
	up := [3]float32{-sinPitch * sinYaw, cosPitch, -sinPitch * cosYaw}
	for i := range c.Target {
		c.Target[i] += -dx*scale*right[i] + dy*scale*up[i]
	}
}

// Position returns the camera position for the current orbit.
func (c *Controls) Position() [3]float32 {
	sinYaw, cosYaw := math32.Sin(c.yaw), math32.Cos(c.yaw)
	sinPitch, cosPitch := math32.Sin(c.pitch), math32.Cos(c.pitch)
	return [3]float32{
		c.Target[0] + c.distance*cosPitch*sinYaw,
		c.Target[1] + c.distance*sinPitch,
		c.Target[2] + c.distance*cosPitch*cosYaw,
	}
}

// Distance returns the current distance to the target.
func (c *Controls) Distance() float32 {
	return c.distance
}

// Pitch returns the current elevation angle in radians.
func (c *Controls) Pitch() float32 {
	return c.pitch
}

// Moving reports whether damping is still carrying the camera.
func (c *Controls) Moving() bool {
	return c.yawVel != 0 || c.pitchVel != 0 || c.zoomVel != 0
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
