package controller

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/controls"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
)

// Action is one discrete state transition. The set of actions is closed: only the types in this file
// implement it.
type Action interface {
	fmt.Stringer
	action()
}

// SetCamera merges Patch over the current camera and recomputes the derived fields.
type SetCamera struct{ Patch camera.Patch }

// SetControls recomputes controls and camera jointly from Controls and the current camera.
type SetControls struct{ Controls controls.Orbit }

// SetSurface replaces the surface reference.
type SetSurface struct{ Surface renderer.Surface }

// SetInputs replaces the button state.
type SetInputs struct{ Inputs Inputs }

// SetPanDelta replaces the accumulated pan delta.
type SetPanDelta struct{ Delta common.Vec2 }

// SetPan replaces the pan flag.
type SetPan struct{ Pan bool }

// SetRender replaces the render function.
type SetRender struct{ Render renderer.RenderFunc }

// SetRotateDelta replaces the accumulated rotate delta.
type SetRotateDelta struct{ Delta common.Vec2 }

// SetRotate replaces the rotate flag.
type SetRotate struct{ Rotate bool }

// SetZoomDelta replaces the accumulated zoom delta.
type SetZoomDelta struct{ Delta float32 }

func (SetCamera) action()      {}
func (SetControls) action()    {}
func (SetSurface) action()     {}
func (SetInputs) action()      {}
func (SetPanDelta) action()    {}
func (SetPan) action()         {}
func (SetRender) action()      {}
func (SetRotateDelta) action() {}
func (SetRotate) action()      {}
func (SetZoomDelta) action()   {}

func (SetCamera) String() string   { return "SET_CAMERA" }
func (SetControls) String() string { return "SET_CONTROLS" }
func (a SetSurface) String() string {
	if a.Surface == nil {
		return "SET_SURFACE(nil)"
	}
	return "SET_SURFACE"
}
func (a SetInputs) String() string {
	return fmt.Sprintf("SET_INPUTS(mouse=%s modifier=%s)", a.Inputs.Mouse, a.Inputs.Modifier)
}
func (a SetPanDelta) String() string    { return fmt.Sprintf("SET_PAN_DELTA%v", a.Delta) }
func (a SetPan) String() string         { return fmt.Sprintf("SET_PAN(%t)", a.Pan) }
func (SetRender) String() string        { return "SET_RENDER" }
func (a SetRotateDelta) String() string { return fmt.Sprintf("SET_ROTATE_DELTA%v", a.Delta) }
func (a SetRotate) String() string      { return fmt.Sprintf("SET_ROTATE(%t)", a.Rotate) }
func (a SetZoomDelta) String() string   { return fmt.Sprintf("SET_ZOOM_DELTA(%g)", a.Delta) }
