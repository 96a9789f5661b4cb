package controller

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/controls"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
)

// Props are the externally supplied settings the derived rules read. They are configuration, not state.
type Props struct {
	Width       int
	Height      int
	PanSpeed    float32
	RotateSpeed float32
	ZoomSpeed   float32
}

// snapshot is what a rule's dependencies are read from.
type snapshot struct {
	state State
	props Props
}

// rule is a derived effect: when any of its dependencies differ between two snapshots it is evaluated
// against the newer one and may emit follow-up actions.
type rule struct {
	name    string
	changed func(prev, cur snapshot) bool
	eval    func(lib renderer.Library, cur snapshot) []Action
}

// rules are evaluated in this order within every pass.
var rules = []rule{
	{name: "derive-mode", changed: inputsChanged, eval: deriveMode},
	{name: "resize", changed: resizeChanged, eval: resize},
	{name: "pan", changed: panChanged, eval: applyPan},
	{name: "rotate", changed: rotateChanged, eval: applyRotate},
	{name: "zoom", changed: zoomChanged, eval: applyZoom},
}

func inputsChanged(prev, cur snapshot) bool {
	return prev.state.Inputs != cur.state.Inputs
}

// deriveMode keeps pan and rotate in step with the button state.
func deriveMode(_ renderer.Library, cur snapshot) []Action {
	var out []Action
	if pan := cur.state.Inputs.Panning(); pan != cur.state.Pan {
		out = append(out, SetPan{Pan: pan})
	}
	if rotate := cur.state.Inputs.Rotating(); rotate != cur.state.Rotate {
		out = append(out, SetRotate{Rotate: rotate})
	}
	return out
}

func resizeChanged(prev, cur snapshot) bool {
	return prev.state.Camera != cur.state.Camera ||
		prev.state.Surface != cur.state.Surface ||
		prev.props.Width != cur.props.Width ||
		prev.props.Height != cur.props.Height
}

// resize re-projects the camera once a surface exists and the requested dimensions differ from the viewport.
func resize(lib renderer.Library, cur snapshot) []Action {
	s, p := cur.state, cur.props
	if s.Surface == nil || p.Width <= 0 || p.Height <= 0 {
		return nil
	}
	if int(s.Camera.Width()) == p.Width && int(s.Camera.Height()) == p.Height {
		return nil
	}
	return []Action{SetCamera{Patch: camera.Full(lib.SetProjection(s.Camera, p.Width, p.Height))}}
}

func panChanged(prev, cur snapshot) bool {
	return prev.state.Camera != cur.state.Camera ||
		prev.state.Controls != cur.state.Controls ||
		prev.state.Pan != cur.state.Pan ||
		prev.state.PanDelta != cur.state.PanDelta ||
		prev.props.PanSpeed != cur.props.PanSpeed
}

func applyPan(lib renderer.Library, cur snapshot) []Action {
	s := cur.state
	if !s.Pan || s.PanDelta.IsZero() {
		return nil
	}
	panned := lib.Pan(controls.Params{Controls: s.Controls, Camera: s.Camera, Speed: cur.props.PanSpeed}, s.PanDelta)
	return []Action{
		SetControls{Controls: panned.Controls},
		SetCamera{Patch: camera.Full(panned.Camera)},
		SetPanDelta{Delta: common.Vec2{}},
	}
}

func rotateChanged(prev, cur snapshot) bool {
	return prev.state.Camera != cur.state.Camera ||
		prev.state.Controls != cur.state.Controls ||
		prev.state.Rotate != cur.state.Rotate ||
		prev.state.RotateDelta != cur.state.RotateDelta ||
		prev.props.RotateSpeed != cur.props.RotateSpeed
}

func applyRotate(lib renderer.Library, cur snapshot) []Action {
	s := cur.state
	if !s.Rotate || s.RotateDelta.IsZero() {
		return nil
	}
	rotated := lib.Rotate(controls.Params{Controls: s.Controls, Camera: s.Camera, Speed: cur.props.RotateSpeed}, s.RotateDelta)
	return []Action{
		SetControls{Controls: rotated.Controls},
		SetRotateDelta{Delta: common.Vec2{}},
	}
}

func zoomChanged(prev, cur snapshot) bool {
	// a NaN delta never compares equal, so it always counts as changed until it is reset
	return prev.state.Camera != cur.state.Camera ||
		prev.state.Controls != cur.state.Controls ||
		prev.state.ZoomDelta != cur.state.ZoomDelta ||
		prev.props.ZoomSpeed != cur.props.ZoomSpeed
}

func applyZoom(lib renderer.Library, cur snapshot) []Action {
	s := cur.state
	if s.ZoomDelta == 0 {
		return nil
	}
	if !common.IsFinite(s.ZoomDelta) {
		return []Action{SetZoomDelta{}}
	}
	zoomed := lib.Zoom(controls.Params{Controls: s.Controls, Camera: s.Camera, Speed: cur.props.ZoomSpeed}, s.ZoomDelta)
	return []Action{
		SetControls{Controls: zoomed.Controls},
		SetZoomDelta{},
	}
}
