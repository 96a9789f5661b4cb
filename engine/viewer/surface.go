package viewer

import "github.com/Carmen-Shannon/oxy-view/engine/renderer"

// PointerCallbacks receive the pointer events of a surface. Nil fields are not called.
type PointerCallbacks struct {
	Enter func()
	Leave func()
	// Move receives the relative movement since the previous move, y pointing down.
	Move func(dx, dy float32)
	Down func()
	Up   func()
	// Wheel receives the vertical wheel delta, positive when scrolling toward the user.
	Wheel func(dy float32)
}

// Surface is the mount point a viewer draws into and takes pointer input from.
type Surface interface {
	renderer.Surface

	// SetSize resizes the surface.
	//
	// Parameters:
	//   - width: new width in pixels
	//   - height: new height in pixels
	SetSize(width, height int)

	// SetPointerCallbacks replaces the pointer callbacks; the zero value detaches them.
	//
	// Parameters:
	//   - callbacks: the callbacks to attach
	SetPointerCallbacks(callbacks PointerCallbacks)
}

// SurfaceFactory creates a surface when the caller did not provide one.
type SurfaceFactory func(width, height int) (Surface, error)
