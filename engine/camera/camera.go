// Package camera implements the perspective camera used by the default rendering library.
// Cameras are plain values: every operation returns a new Camera rather than mutating its input,
// so they can be stored directly in the controller state record.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera holds the perspective parameters of a viewer camera and the matrices derived from them.
// Projection and View are derived fields: they are recomputed by Update from the remaining fields
// and are never set through a Patch.
type Camera struct {
	// Fov is the vertical field of view in radians.
	Fov float32
	// Near is the near clipping plane distance.
	Near float32
	// Far is the far clipping plane distance.
	Far float32

	// Position is the world-space eye position.
	Position mgl32.Vec3
	// Target is the world-space look-at point.
	Target mgl32.Vec3
	// Up is the world up direction. The viewer works in a Z-up world.
	Up mgl32.Vec3

	// Viewport is [x, y, width, height] in pixels.
	Viewport mgl32.Vec4

	// Projection is the derived perspective matrix (column-major).
	Projection mgl32.Mat4
	// View is the derived look-at matrix (column-major).
	View mgl32.Mat4
}

// Defaults returns a camera with the default perspective settings.
// The returned camera has identity matrices; call Update to derive them.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Camera: the default camera
func Defaults(options ...CameraBuilderOption) Camera {
	c := Camera{
		Fov:        math32.Pi / 4,
		Near:       1,
		Far:        18000,
		Position:   mgl32.Vec3{450, 550, 700},
		Target:     mgl32.Vec3{0, 0, 0},
		Up:         mgl32.Vec3{0, 0, 1},
		Viewport:   mgl32.Vec4{0, 0, 0, 0},
		Projection: mgl32.Ident4(),
		View:       mgl32.Ident4(),
	}
	for _, option := range options {
		option(&c)
	}
	return c
}

// Aspect returns the viewport aspect ratio (width / height), or 1 when the viewport is unset.
func (c Camera) Aspect() float32 {
	if c.Viewport[2] <= 0 || c.Viewport[3] <= 0 {
		return 1
	}
	return c.Viewport[2] / c.Viewport[3]
}

// Width returns the viewport width in pixels.
func (c Camera) Width() float32 {
	return c.Viewport[2]
}

// Height returns the viewport height in pixels.
func (c Camera) Height() float32 {
	return c.Viewport[3]
}

// Distance returns the distance between the eye and the target.
func (c Camera) Distance() float32 {
	return c.Position.Sub(c.Target).Len()
}

// Update recomputes the derived projection and view matrices from the camera parameters.
// When the eye coincides with the target the previous view matrix is kept, since a look-at
// direction cannot be derived.
//
// Parameters:
//   - c: the camera to recompute
//
// Returns:
//   - Camera: a copy of c with Projection and View recomputed
func Update(c Camera) Camera {
	c.Projection = mgl32.Perspective(c.Fov, c.Aspect(), c.Near, c.Far)
	if c.Distance() > 1e-6 {
		c.View = mgl32.LookAtV(c.Position, c.Target, c.Up)
	}
	return c
}

// SetProjection re-projects the camera for new surface dimensions.
//
// Parameters:
//   - c: the camera to re-project
//   - width: new viewport width in pixels
//   - height: new viewport height in pixels
//
// Returns:
//   - Camera: a copy of c with viewport [0, 0, width, height] and recomputed matrices
func SetProjection(c Camera, width, height int) Camera {
	c.Viewport = mgl32.Vec4{0, 0, float32(width), float32(height)}
	return Update(c)
}

// ViewProjection returns Projection * View.
func ViewProjection(c Camera) mgl32.Mat4 {
	return c.Projection.Mul4(c.View)
}
