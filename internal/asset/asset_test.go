package asset

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"

	"github.com/qmuntal/gltf"
)

func meshWith(prims ...gltf.PrimitiveMode) *gltf.Mesh {
	m := &gltf.Mesh{}
	for _, mode := range prims {
		m.Primitives = append(m.Primitives, &gltf.Primitive{Mode: mode})
	}
	return m
}

func TestFromDocumentFollowsNodeOrder(t *testing.T) {
	doc := &gltf.Document{
		Scene:  gltf.Index(0),
		Scenes: []*gltf.Scene{{Nodes: []int{0, 2}}},
		Nodes: []*gltf.Node{
			{Name: "body", Mesh: gltf.Index(0), Children: []int{1}},
			{Name: "leg", Mesh: gltf.Index(1)},
			{Name: "pianoNote1", Mesh: gltf.Index(2)},
		},
		Meshes: []*gltf.Mesh{
			meshWith(gltf.PrimitiveTriangles, gltf.PrimitiveTriangles),
			meshWith(gltf.PrimitiveTriangles, gltf.PrimitiveLines),
			meshWith(gltf.PrimitiveTriangles),
		},
	}
	m := fromDocument(doc)
	if m.MeshCount != 4 {
		t.Fatalf("mesh count mismatch: got=%d want=4", m.MeshCount)
	}
	if len(m.Nodes) != 2 {
		t.Fatalf("root count mismatch: got=%d want=2", len(m.Nodes))
	}
	if m.Nodes[0].Name != "body" || !slices.Equal(m.Nodes[0].Meshes, []int{0, 1, 2}) {
		t.Fatalf("body mismatch: %+v", m.Nodes[0])
	}
	if m.Nodes[1].Name != "pianoNote1" || !slices.Equal(m.Nodes[1].Meshes, []int{3}) {
		t.Fatalf("key mismatch: %+v", m.Nodes[1])
	}
	if m.Compressed {
		t.Fatalf("plain document reported as compressed")
	}
}

func TestFromDocumentWithoutScenesUsesParentlessNodes(t *testing.T) {
	doc := &gltf.Document{
		Nodes: []*gltf.Node{
			{Name: "a", Children: []int{1}},
			{Name: "b", Mesh: gltf.Index(0)},
			{Name: "c", Mesh: gltf.Index(0)},
		},
		Meshes: []*gltf.Mesh{meshWith(gltf.PrimitiveTriangles)},
	}
	m := fromDocument(doc)
	if len(m.Nodes) != 2 || m.Nodes[0].Name != "a" || m.Nodes[1].Name != "c" {
		t.Fatalf("roots mismatch: %+v", m.Nodes)
	}
	if !slices.Equal(m.Nodes[0].Meshes, []int{0}) || !slices.Equal(m.Nodes[1].Meshes, []int{1}) {
		t.Fatalf("mesh ownership mismatch: %+v", m.Nodes)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Fatalf("expected error for missing asset")
	}
}

func compressedDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "piano.gltf")
	doc := &gltf.Document{
		Asset:              gltf.Asset{Version: "2.0"},
		ExtensionsUsed:     []string{dracoExtension},
		ExtensionsRequired: []string{dracoExtension},
		Nodes:              []*gltf.Node{{Name: "body"}},
	}
	if err := gltf.Save(doc, path); err != nil {
		t.Fatalf("save doc: %v", err)
	}
	return path
}

func TestOpenRejectsCompressedGeometry(t *testing.T) {
	path := compressedDoc(t)
	if _, err := Open(path); !errors.Is(err, ErrCompressedGeometry) {
		t.Fatalf("error mismatch: got=%v want=%v", err, ErrCompressedGeometry)
	}
	var d Decompressor
	if _, err := d.Load(context.Background(), path); !errors.Is(err, ErrCompressedGeometry) {
		t.Fatalf("disabled decompressor error mismatch: got=%v", err)
	}
}

func TestDecompressorReportsStillCompressed(t *testing.T) {
	if _, err := exec.LookPath("cp"); err != nil {
		t.Skip("cp not available")
	}
	path := compressedDoc(t)
	d := Decompressor{Command: []string{"cp", "{in}", "{out}"}, CacheDir: t.TempDir()}
	_, err := d.Load(context.Background(), path)
	if err == nil {
		t.Fatalf("expected error when the tool leaves geometry compressed")
	}
	if errors.Is(err, ErrCompressedGeometry) {
		t.Fatalf("expected a decompressor error, got the plain compressed error: %v", err)
	}
}

func pianoNodes(n int) []Node {
	nodes := []Node{{Name: "base", Meshes: []int{0}}}
	// reverse order so sorting is exercised
	for i := n; i >= 1; i-- {
		nodes = append(nodes, Node{Name: fmt.Sprintf("pianoNote%d", i), Meshes: []int{i}})
	}
	return nodes
}

func TestClassifyOrdersAndColorsKeys(t *testing.T) {
	l, err := Classify(pianoNodes(24), Options{WhiteKeys: 14, Expected: 24, AudioDir: "pianoNotes", AudioExt: "mp3"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(l.Structural) != 1 || l.Structural[0].Name != "base" {
		t.Fatalf("structural mismatch: %+v", l.Structural)
	}
	if len(l.Keys) != 24 {
		t.Fatalf("key count mismatch: got=%d want=24", len(l.Keys))
	}
	for i, k := range l.Keys {
		if k.Index != i || k.Number != i+1 {
			t.Fatalf("order mismatch at %d: %+v", i, k)
		}
		want := WhiteKey
		if i >= 14 {
			want = BlackKey
		}
		if k.Kind != want {
			t.Fatalf("kind mismatch at %d: got=%v want=%v", i, k.Kind, want)
		}
	}
	if got, want := l.Keys[0].Clip, filepath.Join("pianoNotes", "pianoNote1.mp3"); got != want {
		t.Fatalf("clip mismatch: got=%q want=%q", got, want)
	}
	if l.Keys[15].Ordinal != 1 || l.Keys[13].Ordinal != 13 {
		t.Fatalf("ordinal mismatch: %d %d", l.Keys[15].Ordinal, l.Keys[13].Ordinal)
	}
	white, black := l.Counts()
	if white != 14 || black != 10 {
		t.Fatalf("counts mismatch: got=%d/%d want=14/10", white, black)
	}
}

func TestClassifySortsNumericallyNotLexically(t *testing.T) {
	nodes := []Node{{Name: "pianoNote10"}, {Name: "pianoNote9"}, {Name: "pianoNote2"}}
	l, err := Classify(nodes, Options{WhiteKeys: 3})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	got := []int{l.Keys[0].Number, l.Keys[1].Number, l.Keys[2].Number}
	if !slices.Equal(got, []int{2, 9, 10}) {
		t.Fatalf("order mismatch: got=%v", got)
	}
}

func TestClassifyColorTagOverridesPosition(t *testing.T) {
	nodes := []Node{{Name: "pianoNote1"}, {Name: "pianoNote2_black"}, {Name: "pianoNote3_white"}}
	l, err := Classify(nodes, Options{WhiteKeys: 1})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	want := []Kind{WhiteKey, BlackKey, WhiteKey}
	for i, k := range l.Keys {
		if k.Kind != want[i] {
			t.Fatalf("kind mismatch at %d: got=%v want=%v", i, k.Kind, want[i])
		}
	}
	if l.Keys[1].Clip != ClipPath("", "pianoNote2_black", "") {
		t.Fatalf("clip should use the full node name: %q", l.Keys[1].Clip)
	}
}

func TestClassifyErrors(t *testing.T) {
	cases := []struct {
		name  string
		nodes []Node
		opts  Options
		want  error
	}{
		{"bad suffix", []Node{{Name: "pianoNoteX"}}, Options{}, ErrBadKeyName},
		{"bad tag", []Node{{Name: "pianoNote3_red"}}, Options{}, ErrBadKeyName},
		{"duplicate", []Node{{Name: "pianoNote3"}, {Name: "pianoNote03"}}, Options{}, ErrDuplicateKeyNumber},
		{"count", pianoNodes(23), Options{Expected: 24}, ErrKeyCountMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Classify(tc.nodes, tc.opts); !errors.Is(err, tc.want) {
				t.Fatalf("error mismatch: got=%v want=%v", err, tc.want)
			}
		})
	}
}

func TestOwners(t *testing.T) {
	l, err := Classify(pianoNodes(2), Options{WhiteKeys: 1})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	owners := l.Owners(4)
	want := []Owner{{Structural, -1}, {WhiteKey, 0}, {BlackKey, 1}, {Structural, -1}}
	if !slices.Equal(owners, want) {
		t.Fatalf("owners mismatch: got=%v want=%v", owners, want)
	}
}

func TestKindString(t *testing.T) {
	if WhiteKey.String() != "white" || BlackKey.String() != "black" || Structural.String() != "structural" {
		t.Fatalf("unexpected kind names")
	}
}

func TestKeyNotes(t *testing.T) {
	l, err := Classify(pianoNodes(24), Options{WhiteKeys: 14})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	cases := []struct {
		index, note int
	}{
		{0, 60},  // C4
		{6, 71},  // B4
		{7, 72},  // C5
		{13, 83}, // B5
		{14, 61}, // C#4
		{18, 70}, // A#4
		{19, 73}, // C#5
		{23, 82}, // A#5
	}
	for _, tc := range cases {
		if got := l.Keys[tc.index].Note(60); got != tc.note {
			t.Fatalf("note mismatch for key %d: got=%d want=%d", tc.index, got, tc.note)
		}
		if i, ok := l.KeyForNote(tc.note, 60); !ok || i != tc.index {
			t.Fatalf("reverse lookup mismatch for note %d: got=%d,%v want=%d", tc.note, i, ok, tc.index)
		}
	}
	if _, ok := l.KeyForNote(59, 60); ok {
		t.Fatalf("note below the keyboard should not map")
	}
}
