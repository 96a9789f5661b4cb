// Package controller implements the camera/controls state machine: a pure reducer over a single state record
// plus the derived rules that turn pointer deltas into orbit updates.
package controller

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/controls"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// Inputs is the physical state of the mouse button and the pan modifier key.
type Inputs struct {
	Mouse    common.ButtonState
	Modifier common.ButtonState
}

// Panning reports whether inputs select panning: button and modifier both down.
func (i Inputs) Panning() bool {
	return i.Mouse == common.ButtonDown && i.Modifier == common.ButtonDown
}

// Rotating reports whether inputs select rotating: button down, modifier up.
func (i Inputs) Rotating() bool {
	return i.Mouse == common.ButtonDown && i.Modifier == common.ButtonUp
}

// State is the controller state record. It is replaced as a whole by every transition and owned by a single
// mounted viewer.
type State struct {
	Camera   camera.Camera
	Controls controls.Orbit
	// Surface is nil until mounted. It is observed, not owned.
	Surface renderer.Surface
	Inputs  Inputs

	// Pan and Rotate are derived from Inputs and never both true.
	Pan    bool
	Rotate bool

	// PanDelta, RotateDelta and ZoomDelta are accumulated and reset to zero as soon as they are applied.
	PanDelta    common.Vec2
	RotateDelta common.Vec2
	ZoomDelta   float32

	// Render is prepared once content is first available and kept for the state's lifetime.
	Render renderer.RenderFunc
}

// NewState creates the initial state: library camera defaults placed at initialPosition, default controls,
// no surface, and everything released.
//
// Parameters:
//   - lib: the rendering library supplying defaults
//   - initialPosition: the initial eye position
//
// Returns:
//   - State: the initial state
func NewState(lib renderer.Library, initialPosition mgl32.Vec3) State {
	cam := lib.CameraDefaults()
	cam.Position = initialPosition
	return State{
		Camera:   lib.UpdateCamera(cam),
		Controls: lib.ControlsDefaults(),
	}
}
