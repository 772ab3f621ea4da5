package scene

import (
	"context"
	"fmt"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"piano3d/internal/asset"
	"piano3d/internal/logger"
	"piano3d/internal/orbit"
	"piano3d/internal/piano"
)

const (
	gridExtent     = 10
	gridMinorStep  = 1
	gridMajorStep  = 5
	gridMinorAlpha = 50
	gridMajorAlpha = 120
)

// Options configure the scene. Colors index by asset.Kind.
type Options struct {
	CameraPosition [3]float32
	CameraTarget   [3]float32
	Fovy           float32
	Damping        bool
	FPS            int
	Offset         [3]float32
	Colors         [3]rl.Color
}

// LoadRequest names the asset and how to classify it.
type LoadRequest struct {
	Path         string
	Decompressor asset.Decompressor
	Classify     asset.Options
}

// KeyNode is the drawable state of one key. Its vertical offset is added to the assembly offset
// for every mesh the key owns.
type KeyNode struct {
	Name   string
	Kind   asset.Kind
	offset float32
}

// SetDepression implements piano.Node.
func (n *KeyNode) SetDepression(d float32) {
	n.offset = d
}

func (n *KeyNode) Offset() float32 {
	return n.offset
}

// Scene holds the camera, the orbit controls and the piano model. Update runs camera logic;
// Draw renders between BeginMode3D and EndMode3D.
// The model is loaded on the first Draw after Load is called, because raylib can only create
// meshes and materials once the window/OpenGL context exists. Loading happens at most once.
type Scene struct {
	Camera      rl.Camera3D
	GridVisible bool

	// OnLoad is called once, on the frame the model finishes loading.
	OnLoad func(layout *asset.Layout, nodes []piano.Node)

	log      *logger.Logger
	controls *orbit.Controls
	offset   rl.Vector3
	colors   [3]rl.Color

	request   *LoadRequest
	attempted bool
	loaded    bool
	model     rl.Model
	meshes    []rl.Mesh
	owners    []asset.Owner
	materials [3]rl.Material
	keys      []*KeyNode
}

// New returns a scene with a perspective camera at opts.CameraPosition looking at
// opts.CameraTarget. Nothing is drawn until Load is called and the next Draw succeeds.
func New(opts Options, log *logger.Logger) *Scene {
	s := &Scene{
		log:      log,
		controls: orbit.New(opts.CameraPosition, opts.CameraTarget, opts.FPS),
		offset:   rl.NewVector3(opts.Offset[0], opts.Offset[1], opts.Offset[2]),
		colors:   opts.Colors,
	}
	s.controls.Damping = opts.Damping
	s.Camera.Position = vec(s.controls.Position())
	s.Camera.Target = vec(s.controls.Target)
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = opts.Fovy
	s.Camera.Projection = rl.CameraPerspective
	return s
}

func vec(v [3]float32) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

// Load schedules the asset for loading on the next Draw. Later calls are ignored.
func (s *Scene) Load(req LoadRequest) {
	if s.request != nil {
		return
	}
	s.request = &req
}

// Loaded reports whether the model is on screen.
func (s *Scene) Loaded() bool {
	return s.loaded
}

// Keys returns the key nodes in registry order (empty until loaded).
func (s *Scene) Keys() []*KeyNode {
	return s.keys
}

// ensureLoaded runs the pending load, once. On failure the error is logged and the scene stays
// empty; the viewport keeps rendering.
func (s *Scene) ensureLoaded() {
	if s.request == nil || s.loaded || s.attempted {
		return
	}
	s.attempted = true
	if err := s.load(*s.request); err != nil {
		s.log.Error("piano model not loaded", "err", err)
	}
}

func (s *Scene) load(req LoadRequest) error {
	manifest, err := req.Decompressor.Load(context.Background(), req.Path)
	if err != nil {
		return err
	}
	layout, err := asset.Classify(manifest.Nodes, req.Classify)
	if err != nil {
		return err
	}

	model := rl.LoadModel(manifest.Path)
	if !rl.IsModelValid(model) {
		return fmt.Errorf("raylib could not load %s", manifest.Path)
	}
	if int(model.MeshCount) != manifest.MeshCount {
		rl.UnloadModel(model)
		return fmt.Errorf("%s: raylib produced %d meshes, document describes %d", manifest.Path, model.MeshCount, manifest.MeshCount)
	}

	for kind := range s.materials {
		mtl := rl.LoadMaterialDefault()
		if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil {
			albedo.Color = s.colors[kind]
		}
		s.materials[kind] = mtl
	}

	s.model = model
	s.meshes = unsafe.Slice(model.Meshes, model.MeshCount)
	s.owners = layout.Owners(manifest.MeshCount)
	s.keys = make([]*KeyNode, len(layout.Keys))
	nodes := make([]piano.Node, len(layout.Keys))
	for i, k := range layout.Keys {
		s.keys[i] = &KeyNode{Name: k.Node.Name, Kind: k.Kind}
		nodes[i] = s.keys[i]
	}
	s.loaded = true

	white, black := layout.Counts()
	s.log.Info("piano model loaded", "path", manifest.Path, "meshes", manifest.MeshCount,
		"structural", len(layout.Structural), "white", white, "black", black)
	if s.OnLoad != nil {
		s.OnLoad(layout, nodes)
	}
	return nil
}

// Update runs once per frame: applies pointer input to the orbit controls (left drag rotates,
// right drag pans, wheel zooms) and advances damping.
func (s *Scene) Update() {
	var in orbit.Input
	d := rl.GetMouseDelta()
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		in.RotateX, in.RotateY = d.X, d.Y
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		in.PanX, in.PanY = d.X, d.Y
	}
	in.Zoom = rl.GetMouseWheelMove()
	s.controls.Update(in)
	s.Camera.Position = vec(s.controls.Position())
	s.Camera.Target = vec(s.controls.Target)
}

// Draw renders the 3D scene: optional floor grid, then every mesh of the model with its node's
// material, shifted by the assembly offset plus its key's depression.
func (s *Scene) Draw() {
	s.ensureLoaded()
	rl.BeginMode3D(s.Camera)
	if s.GridVisible {
		drawFloorGrid()
	}
	if s.loaded {
		for i, mesh := range s.meshes {
			o := s.owners[i]
			y := s.offset.Y
			if o.Key >= 0 {
				y += s.keys[o.Key].offset
			}
			rl.DrawMesh(mesh, s.materials[o.Kind], rl.MatrixTranslate(s.offset.X, y, s.offset.Z))
		}
	}
	rl.EndMode3D()
}

// Unload frees GPU resources. Call before the window closes.
func (s *Scene) Unload() {
	if !s.loaded {
		return
	}
	// UnloadMaterial leaves the default shader and texture alone
	for _, mtl := range s.materials {
		rl.UnloadMaterial(mtl)
	}
	rl.UnloadModel(s.model)
	s.meshes = nil
	s.loaded = false
}

// drawFloorGrid draws a grid on the XZ plane under the piano with major/minor lines.
func drawFloorGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)

	var start, end rl.Vector3
	for x := -gridExtent; x <= gridExtent; x += gridMinorStep {
		c := major
		if x%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(x), 0, float32(-gridExtent)
		end.X, end.Y, end.Z = float32(x), 0, float32(gridExtent)
		rl.DrawLine3D(start, end, c)
	}
	for z := -gridExtent; z <= gridExtent; z += gridMinorStep {
		c := major
		if z%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(-gridExtent), 0, float32(z)
		end.X, end.Y, end.Z = float32(gridExtent), 0, float32(z)
		rl.DrawLine3D(start, end, c)
	}
}
