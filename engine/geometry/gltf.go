package geometry

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF reads a .gltf or .glb file and returns one Mesh per indexed triangle primitive of the default scene.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - []Solid: the meshes, in scene traversal order
//   - error: if the file cannot be opened or an accessor cannot be read
func LoadGLTF(path string) ([]Solid, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open gltf %q", path)
	}
	solids, err := SolidsFromDocument(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read gltf %q", path)
	}
	return solids, nil
}

// DecodeGLTF is LoadGLTF for an already opened stream. External buffers cannot be resolved from a stream.
func DecodeGLTF(r io.Reader) ([]Solid, error) {
	doc := &gltf.Document{}
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, errors.Wrap(err, "Failed to decode gltf")
	}
	return SolidsFromDocument(doc)
}

// SolidsFromDocument walks the default scene of doc and converts every primitive that has
// positions and indices into a Mesh carrying its node's world transform and material color.
//
// Parameters:
//   - doc: the decoded document
//
// Returns:
//   - []Solid: the meshes
//   - error: if an accessor cannot be read
func SolidsFromDocument(doc *gltf.Document) ([]Solid, error) {
	if len(doc.Scenes) == 0 {
		return nil, nil
	}
	sceneIndex := 0
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		sceneIndex = int(*doc.Scene)
	}

	var solids []Solid
	var walk func(id uint32, parent mgl32.Mat4) error
	walk = func(id uint32, parent mgl32.Mat4) error {
		if int(id) >= len(doc.Nodes) {
			return errors.Errorf("Node %d out of range", id)
		}
		node := doc.Nodes[id]
		world := parent.Mul4(nodeTransform(node))

		if node.Mesh != nil && int(*node.Mesh) < len(doc.Meshes) {
			mesh := doc.Meshes[*node.Mesh]
			for iPrimitive, primitive := range mesh.Primitives {
				m, err := meshFromPrimitive(doc, primitive)
				if err != nil {
					return errors.Wrapf(err, "Mesh %q primitive %d", mesh.Name, iPrimitive)
				}
				if m == nil {
					continue
				}
				m.Name = mesh.Name
				m.Transform = world
				solids = append(solids, m)
			}
		}
		for _, child := range node.Children {
			if err := walk(child, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, iNode := range doc.Scenes[sceneIndex].Nodes {
		if err := walk(iNode, mgl32.Ident4()); err != nil {
			return nil, err
		}
	}
	return solids, nil
}

// meshFromPrimitive returns nil for primitives the viewer cannot draw (no positions, no indices, not triangles).
func meshFromPrimitive(doc *gltf.Document, primitive *gltf.Primitive) (*Mesh, error) {
	if primitive.Indices == nil || primitive.Mode != gltf.PrimitiveTriangles {
		return nil, nil
	}
	positionIndex, ok := primitive.Attributes["POSITION"]
	if !ok {
		return nil, nil
	}

	for _, i := range []uint32{positionIndex, *primitive.Indices} {
		if int(i) >= len(doc.Accessors) {
			return nil, errors.Errorf("Accessor %d out of range", i)
		}
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[positionIndex], nil)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to read mesh vertices")
	}
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to read mesh indices")
	}

	m := NewMesh("", positions, indices)
	if primitive.Material != nil && int(*primitive.Material) < len(doc.Materials) {
		if pbr := doc.Materials[*primitive.Material].PBRMetallicRoughness; pbr != nil {
			m.Color = pbr.BaseColorFactorOrDefault()
		}
	}
	return m, nil
}

// nodeTransform returns the node's local matrix, from Matrix when set or composed as T * R * S.
func nodeTransform(node *gltf.Node) mgl32.Mat4 {
	matrix := mgl32.Mat4(node.MatrixOrDefault())
	if matrix != mgl32.Ident4() {
		return matrix
	}
	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	rotation := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Mat4()
	return mgl32.Translate3D(t[0], t[1], t[2]).Mul4(rotation).Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}
