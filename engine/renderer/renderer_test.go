package renderer

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	width, height int
}

func (s *fakeSurface) Width() int  { return s.width }
func (s *fakeSurface) Height() int { return s.height }

type recordingBackend struct {
	configured [][2]int
	frames     []Batch
	viewProjs  []mgl32.Mat4
	released   int
	drawErr    error
}

func (b *recordingBackend) Configure(width, height int) {
	b.configured = append(b.configured, [2]int{width, height})
}

func (b *recordingBackend) Draw(viewProjection mgl32.Mat4, batch *Batch) error {
	b.viewProjs = append(b.viewProjs, viewProjection)
	b.frames = append(b.frames, Batch{
		Lines:     append([]Vertex(nil), batch.Lines...),
		Triangles: append([]Vertex(nil), batch.Triangles...),
	})
	return b.drawErr
}

func (b *recordingBackend) Release() {
	b.released++
}

func newTestLibrary(t *testing.T, backend *recordingBackend, options ...LibraryBuilderOption) Library {
	t.Helper()
	opts := append([]LibraryBuilderOption{
		WithBackendFactory(func(Surface) (Backend, error) { return backend, nil }),
		WithWorkers(4),
	}, options...)
	lib := NewLibrary(opts...)
	t.Cleanup(lib.Close)
	return lib
}

func testMesh(name string, z float32) *geometry.Mesh {
	m := geometry.NewMesh(name, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []uint32{0, 1, 2})
	m.Transform = mgl32.Translate3D(0, 0, z)
	return m
}

func TestEntitiesFromSolidsPreservesOrder(t *testing.T) {
	lib := newTestLibrary(t, &recordingBackend{})

	solids := make([]geometry.Solid, 0, 32)
	for i := range 32 {
		solids = append(solids, testMesh("m", float32(i)))
	}
	entities := lib.EntitiesFromSolids(solids)
	require.Len(t, entities, 32)
	for i, e := range entities {
		assert.Equal(t, DrawMeshKey, e.Visuals.DrawCmd)
		assert.True(t, e.Visuals.Show)
		require.NotNil(t, e.Geometry)
		assert.Equal(t, float32(i), e.Geometry.Positions[0][2])
	}
}

func TestEntitiesFromSolidsSkipsUnknown(t *testing.T) {
	var logs bytes.Buffer
	lib := newTestLibrary(t, &recordingBackend{}, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	entities := lib.EntitiesFromSolids([]geometry.Solid{"not a mesh", testMesh("a", 0), (*geometry.Mesh)(nil), AxisEntity(DefaultAxisOptions())})
	require.Len(t, entities, 2)
	assert.Equal(t, DrawMeshKey, entities[0].Visuals.DrawCmd)
	assert.Equal(t, DrawAxisKey, entities[1].Visuals.DrawCmd)
	assert.Contains(t, logs.String(), "skipping solid of unknown type")
	assert.Contains(t, logs.String(), "type=string")
}

func TestEntitiesFromSolidsInline(t *testing.T) {
	lib := newTestLibrary(t, &recordingBackend{}, WithWorkers(0))
	assert.Nil(t, lib.EntitiesFromSolids(nil))
	assert.Len(t, lib.EntitiesFromSolids([]geometry.Solid{testMesh("a", 0), testMesh("b", 1)}), 2)
}

func TestMeshEntityNormals(t *testing.T) {
	m := geometry.NewMesh("m", [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []uint32{0, 1, 2, 0, 1, 7, 2})
	e := MeshEntity(m)
	require.Len(t, e.Geometry.Normals, 1)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, e.Geometry.Normals[0])
	assert.Equal(t, []uint32{0, 1, 2}, e.Geometry.Indices)
}

func TestPrepareRenderDrawsShownEntities(t *testing.T) {
	backend := &recordingBackend{}
	lib := newTestLibrary(t, backend)
	surface := &fakeSurface{width: 640, height: 480}
	cam := camera.SetProjection(camera.Defaults(), 640, 480)

	content := Content{
		Surface:      surface,
		Camera:       cam,
		DrawCommands: lib.DrawCommands(),
		Entities: []Entity{
			AxisEntity(DefaultAxisOptions()),
			AxisEntity(AxisOptions{Show: false}),
			{Visuals: Visuals{DrawCmd: "unknown", Show: true}},
		},
	}
	render, err := lib.PrepareRender(content)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{640, 480}}, backend.configured)
	assert.Empty(t, backend.frames, "preparing does not draw")

	render(content)
	require.Len(t, backend.frames, 1)
	assert.Len(t, backend.frames[0].Lines, 6)
	assert.Equal(t, camera.ViewProjection(cam), backend.viewProjs[0])

	surface.width = 800
	render(content)
	assert.Equal(t, [][2]int{{640, 480}, {800, 480}}, backend.configured)
}

func TestPrepareRenderErrors(t *testing.T) {
	lib := NewLibrary(WithWorkers(0), WithBackendFactory(func(Surface) (Backend, error) {
		return nil, errors.New("no gpu")
	}))
	defer lib.Close()

	_, err := lib.PrepareRender(Content{})
	assert.Error(t, err)

	_, err = lib.PrepareRender(Content{Surface: &fakeSurface{1, 1}})
	assert.ErrorContains(t, err, "no gpu")
}

func TestDefaultFactoryRejectsPlainSurface(t *testing.T) {
	_, err := WGPUBackendFactory(MSAAOff)(&fakeSurface{1, 1})
	assert.Error(t, err)
}

func TestReleaseMakesRenderNoop(t *testing.T) {
	backend := &recordingBackend{drawErr: errors.New("lost")}
	lib := newTestLibrary(t, backend)
	surface := &fakeSurface{width: 10, height: 10}
	content := Content{Surface: surface, Camera: camera.Defaults(), DrawCommands: lib.DrawCommands()}

	render, err := lib.PrepareRender(content)
	require.NoError(t, err)
	render(content)
	assert.Len(t, backend.frames, 1)

	lib.Release(surface)
	lib.Release(surface)
	assert.Equal(t, 1, backend.released)
	render(content)
	assert.Len(t, backend.frames, 1)
}
