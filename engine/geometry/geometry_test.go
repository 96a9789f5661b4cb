package geometry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var triangle = [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

func writeTriangleDocument(t *testing.T, dir string) string {
	t.Helper()
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, triangle)
	indices := modeler.WriteIndices(doc, []uint32{0, 1, 2})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Attributes: map[string]uint32{"POSITION": positions},
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name:        "root",
		Mesh:        gltf.Index(0),
		Translation: [3]float32{10, 0, 0},
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(dir, "tri.gltf")
	require.NoError(t, gltf.Save(doc, path))
	return path
}

func TestNewMesh(t *testing.T) {
	m := NewMesh("tri", triangle, []uint32{0, 1, 2, 0})
	assert.Equal(t, 1, m.TriangleCount())
	assert.Equal(t, DefaultColor, m.Color)
	assert.Equal(t, mgl32.Ident4(), m.Transform)
}

func TestMeshBounds(t *testing.T) {
	m := NewMesh("tri", triangle, []uint32{0, 1, 2})
	m.Transform = mgl32.Translate3D(0, 0, 5)
	min, max, ok := m.Bounds()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 0, 5}, min)
	assert.Equal(t, mgl32.Vec3{1, 1, 5}, max)

	_, _, ok = NewMesh("empty", nil, nil).Bounds()
	assert.False(t, ok)
}

func TestLoadGLTF(t *testing.T) {
	path := writeTriangleDocument(t, t.TempDir())

	solids, err := LoadGLTF(path)
	require.NoError(t, err)
	require.Len(t, solids, 1)

	m, ok := solids[0].(*Mesh)
	require.True(t, ok)
	assert.Equal(t, "tri", m.Name)
	assert.Equal(t, triangle, m.Positions)
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
	assert.Equal(t, mgl32.Vec3{10, 0, 0}, m.WorldPositions()[0])
}

func TestDecodeGLTF(t *testing.T) {
	path := writeTriangleDocument(t, t.TempDir())
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	solids, err := DecodeGLTF(f)
	require.NoError(t, err)
	assert.Len(t, solids, 1)
}

func TestLoadGLTFMissingFile(t *testing.T) {
	_, err := LoadGLTF(filepath.Join(t.TempDir(), "missing.gltf"))
	assert.ErrorContains(t, err, "missing.gltf")
}

func TestSolidsFromEmptyDocument(t *testing.T) {
	solids, err := SolidsFromDocument(&gltf.Document{})
	assert.NoError(t, err)
	assert.Empty(t, solids)
}

func TestSolidsSkipsPrimitivesWithoutIndices(t *testing.T) {
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, triangle)
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Primitives: []*gltf.Primitive{{Attributes: map[string]uint32{"POSITION": positions}}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	solids, err := SolidsFromDocument(doc)
	assert.NoError(t, err)
	assert.Empty(t, solids)
}

func TestSolidsRejectsAccessorOutOfRange(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "broken",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]uint32{"POSITION": 3},
			Indices:    gltf.Index(7),
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	var solids []Solid
	var err error
	require.NotPanics(t, func() { solids, err = SolidsFromDocument(doc) })
	assert.ErrorContains(t, err, "Accessor 3 out of range")
	assert.Nil(t, solids)
}

func TestSolidsRejectsIndicesAccessorOutOfRange(t *testing.T) {
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, triangle)
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]uint32{"POSITION": positions},
			Indices:    gltf.Index(positions + 5),
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	_, err := SolidsFromDocument(doc)
	assert.ErrorContains(t, err, "out of range")
}

func TestMeshZeroTransformIsIdentity(t *testing.T) {
	m := &Mesh{Positions: [][3]float32{{1, 2, 3}}}
	assert.Equal(t, []mgl32.Vec3{{1, 2, 3}}, m.WorldPositions())

	min, max, ok := m.Bounds()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, min)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, max)
}

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.gltf")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{path}, func(p string) { changed <- p }, nil)
	}()

	deadline := time.After(4 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case p := <-changed:
			abs, _ := filepath.Abs(path)
			assert.Equal(t, abs, p)
			cancel()
			assert.NoError(t, <-done)
			return
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte("{ }"), 0o644))
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), []string{filepath.Join(t.TempDir(), "nope", "a.gltf")}, func(string) {}, nil)
	assert.Error(t, err)
}
