package camera

import "github.com/go-gl/mathgl/mgl32"

// Patch is a partial camera update. Nil fields leave the corresponding camera field unchanged.
// Derived matrices are not part of a patch; they are always recomputed.
type Patch struct {
	Fov      *float32
	Near     *float32
	Far      *float32
	Position *mgl32.Vec3
	Target   *mgl32.Vec3
	Up       *mgl32.Vec3
	Viewport *mgl32.Vec4
}

// Apply merges the patch over c. It does not recompute derived matrices.
//
// Parameters:
//   - c: the camera to patch
//
// Returns:
//   - Camera: a copy of c with every non-nil patch field applied
func (p Patch) Apply(c Camera) Camera {
	if p.Fov != nil {
		c.Fov = *p.Fov
	}
	if p.Near != nil {
		c.Near = *p.Near
	}
	if p.Far != nil {
		c.Far = *p.Far
	}
	if p.Position != nil {
		c.Position = *p.Position
	}
	if p.Target != nil {
		c.Target = *p.Target
	}
	if p.Up != nil {
		c.Up = *p.Up
	}
	if p.Viewport != nil {
		c.Viewport = *p.Viewport
	}
	return c
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Full returns a patch that sets every parameter of c.
//
// Parameters:
//   - c: the camera whose parameters the patch carries
//
// Returns:
//   - Patch: a patch with all fields set
func Full(c Camera) Patch {
	return Patch{
		Fov:      &c.Fov,
		Near:     &c.Near,
		Far:      &c.Far,
		Position: &c.Position,
		Target:   &c.Target,
		Up:       &c.Up,
		Viewport: &c.Viewport,
	}
}
