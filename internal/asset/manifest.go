package asset

import (
	"errors"
	"fmt"
	"slices"

	"github.com/qmuntal/gltf"
)

const dracoExtension = "KHR_draco_mesh_compression"

var ErrCompressedGeometry = errors.New("asset: geometry is Draco-compressed and no decoder is configured")

// Node is one root node of the asset's default scene. Meshes lists the raylib mesh indices that
// belong to the node or any of its descendants.
type Node struct {
	Name   string
	Meshes []int
}

// Manifest describes how a glTF file will come out of raylib's loader: which meshes make up
// each top-level node, and how many meshes there are in total.
type Manifest struct {
	Path       string
	Nodes      []Node
	MeshCount  int
	Compressed bool
}

// Open reads the glTF/GLB document at path and builds its manifest. Draco-compressed documents
// are rejected with ErrCompressedGeometry; run them through a Decompressor first.
func Open(path string) (*Manifest, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset: open %s: %w", path, err)
	}
	m := fromDocument(doc)
	m.Path = path
	if m.Compressed {
		return m, fmt.Errorf("%w: %s", ErrCompressedGeometry, path)
	}
	return m, nil
}

// fromDocument mirrors raylib's LoadGLTF: it walks the document's node array in order and emits
// one mesh per triangle primitive of every node that has a mesh.
func fromDocument(doc *gltf.Document) *Manifest {
	m := &Manifest{
		Compressed: slices.Contains(doc.ExtensionsRequired, dracoExtension),
	}

	parent := make([]int, len(doc.Nodes))
	for i := range parent {
		parent[i] = -1
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(parent) {
				parent[c] = i
			}
		}
	}
	rootOf := func(i int) int {
		// bounded walk; a malformed document may contain a cycle
		for steps := 0; parent[i] >= 0 && steps < len(parent); steps++ {
			i = parent[i]
		}
		return i
	}

	roots := sceneRoots(doc, parent)
	pos := make(map[int]int, len(roots))
	for _, r := range roots {
		if r < 0 || r >= len(doc.Nodes) {
			continue
		}
		if _, dup := pos[r]; dup {
			continue
		}
		pos[r] = len(m.Nodes)
		m.Nodes = append(m.Nodes, Node{Name: doc.Nodes[r].Name})
	}

	for i, n := range doc.Nodes {
		if n.Mesh == nil || *n.Mesh < 0 || *n.Mesh >= len(doc.Meshes) {
			continue
		}
		for _, p := range doc.Meshes[*n.Mesh].Primitives {
			if p.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if at, ok := pos[rootOf(i)]; ok {
				m.Nodes[at].Meshes = append(m.Nodes[at].Meshes, m.MeshCount)
			}
			m.MeshCount++
		}
	}
	return m
}

// sceneRoots returns the root nodes of the default scene, falling back to the first scene and
// then to every parentless node.
func sceneRoots(doc *gltf.Document, parent []int) []int {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}
	var roots []int
	for i, p := range parent {
		if p < 0 {
			roots = append(roots, i)
		}
	}
	return roots
}
