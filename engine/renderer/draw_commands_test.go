package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridEntityFromOptions(t *testing.T) {
	opts := DefaultGridOptions()
	e := GridEntity(opts)
	assert.Equal(t, DrawGridKey, e.Visuals.DrawCmd)
	assert.True(t, e.Visuals.Show)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, e.Visuals.Color)
	assert.Equal(t, [4]float32{0, 0, 1, 0.5}, e.Visuals.SubColor)
	assert.Equal(t, [2]float32{144, 144}, e.Size)
	assert.Equal(t, [2]float32{12, 1}, e.Ticks)
}

func TestDrawGridLineCounts(t *testing.T) {
	b := &Batch{}
	e := GridEntity(GridOptions{Show: true, Transparent: true, Size: [2]float32{4, 4}, Ticks: [2]float32{2, 1},
		Color: [4]float32{0, 0, 0, 1}, SubColor: [4]float32{0, 0, 1, 0.5}})
	DrawGrid(b, camera.Defaults(), e)

	// main lines at -2, 0, 2 and sub lines at -1, 1, in both directions
	assert.Len(t, b.Lines, 2*(3+2)*2)
	subColored := 0
	for _, v := range b.Lines {
		if v.Color == [4]float32{0, 0, 1, 0.5} {
			subColored++
		}
	}
	assert.Equal(t, 2*2*2, subColored)
	for _, v := range b.Lines {
		assert.Zero(t, v.Position[2])
	}
}

func TestDrawGridFadeAndOpacity(t *testing.T) {
	b := &Batch{}
	DrawGrid(b, camera.Defaults(), Entity{
		Visuals: Visuals{Color: [4]float32{0, 0, 0, 0.5}, FadeOut: true, Transparent: true},
		Size:    [2]float32{4, 4},
		Ticks:   [2]float32{2, 0},
	})
	require.NotEmpty(t, b.Lines)
	assert.Equal(t, float32(0), b.Lines[0].Color[3], "edge line fully faded")
	assert.Equal(t, float32(0.5), b.Lines[2].Color[3], "center line keeps alpha")

	b.Reset()
	DrawGrid(b, camera.Defaults(), Entity{
		Visuals: Visuals{Color: [4]float32{0, 0, 0, 0.5}, FadeOut: true},
		Size:    [2]float32{4, 4},
		Ticks:   [2]float32{2, 0},
	})
	for _, v := range b.Lines {
		assert.Equal(t, float32(1), v.Color[3])
	}
}

func TestDrawGridDegenerate(t *testing.T) {
	b := &Batch{}
	DrawGrid(b, camera.Defaults(), Entity{Size: [2]float32{0, 10}, Ticks: [2]float32{1, 1}})
	DrawGrid(b, camera.Defaults(), Entity{Size: [2]float32{10, 10}})
	assert.Empty(t, b.Lines)
}

func TestDrawAxis(t *testing.T) {
	b := &Batch{}
	DrawAxis(b, camera.Defaults(), AxisEntity(DefaultAxisOptions()))
	require.Len(t, b.Lines, 6)
	assert.Equal(t, [3]float32{defaultAxisLength, 0, 0}, b.Lines[1].Position)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, b.Lines[1].Color)
	assert.Equal(t, [3]float32{0, 0, defaultAxisLength}, b.Lines[5].Position)
}

func TestDrawMeshShading(t *testing.T) {
	m := testMesh("m", 0)
	m.Color = [4]float32{1, 1, 1, 1}
	e := MeshEntity(m)

	top := camera.Defaults(camera.WithPosition(mgl32.Vec3{0, 0, 10}))
	b := &Batch{}
	DrawMesh(b, top, e)
	require.Len(t, b.Triangles, 3)
	assert.InDelta(t, 1, b.Triangles[0].Color[0], 1e-6)

	side := camera.Defaults(camera.WithPosition(mgl32.Vec3{10, 0, 0}))
	b.Reset()
	DrawMesh(b, side, e)
	assert.InDelta(t, 0.35, b.Triangles[0].Color[0], 1e-6)
	assert.Equal(t, float32(1), b.Triangles[0].Color[3])

	b.Reset()
	DrawMesh(b, top, Entity{})
	assert.Empty(t, b.Triangles)
}
