package controller

import "github.com/Carmen-Shannon/oxy-view/engine/renderer"

// Reduce applies one action to s and returns the new state. It never mutates s and only calls the pure
// camera and controls functions of lib.
//
// Parameters:
//   - lib: the rendering library providing camera and controls math
//   - s: the current state
//   - a: the action to apply
//
// Returns:
//   - State: the next state
func Reduce(lib renderer.Library, s State, a Action) State {
	switch a := a.(type) {
	case SetCamera:
		s.Camera = lib.UpdateCamera(a.Patch.Apply(s.Camera))
	case SetControls:
		updated := lib.UpdateControls(a.Controls, s.Camera)
		s.Controls = updated.Controls
		s.Camera = updated.Camera
	case SetSurface:
		s.Surface = a.Surface
	case SetInputs:
		s.Inputs = a.Inputs
	case SetPanDelta:
		s.PanDelta = a.Delta
	case SetPan:
		s.Pan = a.Pan
	case SetRender:
		s.Render = a.Render
	case SetRotateDelta:
		s.RotateDelta = a.Delta
	case SetRotate:
		s.Rotate = a.Rotate
	case SetZoomDelta:
		s.ZoomDelta = a.Delta
	}
	return s
}
