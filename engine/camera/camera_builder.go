package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option for configuring a default Camera.
type CameraBuilderOption func(*Camera)

// WithPosition sets the initial eye position.
//
// Parameters:
//   - position: world-space eye position
//
// Returns:
//   - CameraBuilderOption: functional option to set the position
func WithPosition(position mgl32.Vec3) CameraBuilderOption {
	return func(c *Camera) {
		c.Position = position
	}
}

// WithTarget sets the initial look-at point.
//
// Parameters:
//   - target: world-space look-at point
//
// Returns:
//   - CameraBuilderOption: functional option to set the target
func WithTarget(target mgl32.Vec3) CameraBuilderOption {
	return func(c *Camera) {
		c.Target = target
	}
}

// WithFov sets the vertical field of view.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: functional option to set the field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *Camera) {
		c.Fov = fov
	}
}

// WithClipPlanes sets the near and far clipping planes.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *Camera) {
		c.Near = near
		c.Far = far
	}
}
