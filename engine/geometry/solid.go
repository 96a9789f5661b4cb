// Package geometry holds the solids a viewer displays and the loaders that produce them.
// The viewer core never inspects solids; only the rendering library converts them into drawable entities.
package geometry

import "github.com/go-gl/mathgl/mgl32"

// Solid is an opaque geometry object handed to the rendering library.
type Solid any

// DefaultColor is the color given to meshes that do not carry one.
var DefaultColor = [4]float32{0.6, 0.6, 0.65, 1}

// Mesh is an indexed triangle mesh in model space. Transform places it in the Z-up world;
// a zero Transform is treated as identity.
type Mesh struct {
	Name      string
	Positions [][3]float32
	// Indices lists triangles as consecutive index triples into Positions.
	Indices   []uint32
	Color     [4]float32
	Transform mgl32.Mat4
}

// NewMesh creates a mesh with the default color and an identity transform.
//
// Parameters:
//   - name: a label for logs
//   - positions: vertex positions
//   - indices: triangle indices into positions
//
// Returns:
//   - *Mesh: the new mesh
func NewMesh(name string, positions [][3]float32, indices []uint32) *Mesh {
	return &Mesh{
		Name:      name,
		Positions: positions,
		Indices:   indices,
		Color:     DefaultColor,
		Transform: mgl32.Ident4(),
	}
}

// TriangleCount returns the number of complete triangles in the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// WorldPositions returns the positions transformed into world space.
func (m *Mesh) WorldPositions() []mgl32.Vec3 {
	transform := m.Transform
	if transform == (mgl32.Mat4{}) {
		transform = mgl32.Ident4()
	}
	out := make([]mgl32.Vec3, len(m.Positions))
	for i, p := range m.Positions {
		out[i] = transform.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1}).Vec3()
	}
	return out
}

// Bounds returns the world-space axis-aligned bounding box of the mesh.
// ok is false when the mesh has no positions.
func (m *Mesh) Bounds() (min, max mgl32.Vec3, ok bool) {
	world := m.WorldPositions()
	if len(world) == 0 {
		return min, max, false
	}
	min, max = world[0], world[0]
	for _, p := range world[1:] {
		for i := range 3 {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return min, max, true
}
