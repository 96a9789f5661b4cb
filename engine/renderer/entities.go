package renderer

import (
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/go-gl/mathgl/mgl32"
)

// Draw command keys bound in every Content.
const (
	DrawGridKey = "drawGrid"
	DrawAxisKey = "drawAxis"
	DrawMeshKey = "drawMesh"
)

// Visuals selects the draw command for an entity and carries its appearance.
type Visuals struct {
	DrawCmd     string
	Show        bool
	Color       [4]float32
	SubColor    [4]float32
	FadeOut     bool
	Transparent bool
}

// Geometry is world-space triangle data prepared for drawMesh.
type Geometry struct {
	Positions []mgl32.Vec3
	Indices   []uint32
	// Normals holds one unit normal per triangle.
	Normals []mgl32.Vec3
}

// Entity is one drawable item of a Content.
type Entity struct {
	Visuals  Visuals
	Size     [2]float32
	Ticks    [2]float32
	Geometry *Geometry
}

// GridOptions configures the ground grid.
type GridOptions struct {
	Show        bool
	Color       [4]float32
	SubColor    [4]float32
	FadeOut     bool
	Transparent bool
	// Size is the grid extent along X and Y.
	Size [2]float32
	// Ticks is the main and sub line spacing.
	Ticks [2]float32
}

// AxisOptions configures the axis gizmo.
type AxisOptions struct {
	Show bool
}

// DefaultGridOptions returns a shown 144x144 grid with black main lines every 12 units and
// half-transparent blue sub lines every unit.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		Show:        true,
		Color:       [4]float32{0, 0, 0, 1},
		SubColor:    [4]float32{0, 0, 1, 0.5},
		FadeOut:     false,
		Transparent: true,
		Size:        [2]float32{144, 144},
		Ticks:       [2]float32{12, 1},
	}
}

// DefaultAxisOptions returns a shown axis.
func DefaultAxisOptions() AxisOptions {
	return AxisOptions{Show: true}
}

// GridEntity builds the grid entity for opts.
func GridEntity(opts GridOptions) Entity {
	return Entity{
		Visuals: Visuals{
			DrawCmd:     DrawGridKey,
			Show:        opts.Show,
			Color:       opts.Color,
			SubColor:    opts.SubColor,
			FadeOut:     opts.FadeOut,
			Transparent: opts.Transparent,
		},
		Size:  opts.Size,
		Ticks: opts.Ticks,
	}
}

// AxisEntity builds the axis entity for opts.
func AxisEntity(opts AxisOptions) Entity {
	return Entity{
		Visuals: Visuals{
			DrawCmd: DrawAxisKey,
			Show:    opts.Show,
		},
	}
}

// MeshEntity converts m to a drawMesh entity: positions are moved to world space and a normal is computed
// per triangle. Trailing indices that do not form a triangle, and triangles referencing missing
// positions, are dropped.
//
// Parameters:
//   - m: the mesh to convert
//
// Returns:
//   - Entity: the drawable entity
func MeshEntity(m *geometry.Mesh) Entity {
	world := m.WorldPositions()
	g := &Geometry{
		Positions: world,
		Indices:   make([]uint32, 0, m.TriangleCount()*3),
		Normals:   make([]mgl32.Vec3, 0, m.TriangleCount()),
	}
	n := uint32(len(world))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if a >= n || b >= n || c >= n {
			continue
		}
		normal := world[b].Sub(world[a]).Cross(world[c].Sub(world[a]))
		if l := normal.Len(); l > 0 {
			normal = normal.Mul(1 / l)
		}
		g.Indices = append(g.Indices, a, b, c)
		g.Normals = append(g.Normals, normal)
	}
	return Entity{
		Visuals: Visuals{
			DrawCmd:     DrawMeshKey,
			Show:        true,
			Color:       m.Color,
			Transparent: m.Color[3] < 1,
		},
		Geometry: g,
	}
}
