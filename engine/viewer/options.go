package viewer

import (
	"time"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/controller"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// ModifierKey is the key that switches a drag from rotating to panning.
const ModifierKey = common.KeyNameShift

// CameraOptions configure the initial camera and the pointer sensitivities.
type CameraOptions struct {
	InitialPosition mgl32.Vec3
	PanSpeed        float32
	RotateSpeed     float32
	ZoomSpeed       float32
}

// Options is the full viewer configuration.
type Options struct {
	// Animate re-renders on a timer even without input.
	Animate bool
	// AnimationRate is the delay between timer renders, not a frequency.
	AnimationRate time.Duration
	Width         int
	Height        int
	Grid          renderer.GridOptions
	Axis          renderer.AxisOptions
	Camera        CameraOptions
}

// DefaultCameraOptions returns the default camera options.
func DefaultCameraOptions() CameraOptions {
	return CameraOptions{
		InitialPosition: mgl32.Vec3{50, -50, 50},
		PanSpeed:        0.75,
		RotateSpeed:     0.002,
		ZoomSpeed:       0.08,
	}
}

// DefaultOptions returns the default viewer configuration.
func DefaultOptions() Options {
	return Options{
		Animate:       false,
		AnimationRate: 10 * time.Millisecond,
		Width:         480,
		Height:        480,
		Grid:          renderer.DefaultGridOptions(),
		Axis:          renderer.DefaultAxisOptions(),
		Camera:        DefaultCameraOptions(),
	}
}

func (o Options) props() controller.Props {
	return controller.Props{
		Width:       o.Width,
		Height:      o.Height,
		PanSpeed:    o.Camera.PanSpeed,
		RotateSpeed: o.Camera.RotateSpeed,
		ZoomSpeed:   o.Camera.ZoomSpeed,
	}
}
