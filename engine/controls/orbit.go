// Package controls implements orbit controls: a parameterization of camera motion constrained to
// rotate, pan, and zoom around the camera target. Like cameras, controls are plain values and every
// operation returns new values.
package controls

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// epsilon keeps the polar angle away from the poles where the view direction becomes parallel to up.
const epsilon = 1e-6

// Orbit holds the orbit-control parameters. ThetaDelta, PhiDelta and Scale are pending changes
// accumulated by Rotate and Zoom and consumed by Update.
type Orbit struct {
	// ThetaDelta is the pending azimuth change around the up axis, in radians.
	ThetaDelta float32
	// PhiDelta is the pending polar angle change, in radians.
	PhiDelta float32
	// Scale is the pending distance multiplier (1 = unchanged).
	Scale float32

	// MinDistance is the minimum allowed eye-to-target distance.
	MinDistance float32
	// MaxDistance is the maximum allowed eye-to-target distance.
	MaxDistance float32

	// Changed reports whether the last Update moved the camera.
	Changed bool
}

// Params is the input of Pan, Rotate and Zoom.
type Params struct {
	Controls Orbit
	Camera   camera.Camera
	Speed    float32
}

// Result is the jointly recomputed controls and camera.
type Result struct {
	Controls Orbit
	Camera   camera.Camera
}

// Defaults returns the default orbit controls.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - Orbit: the default controls
func Defaults(options ...OrbitBuilderOption) Orbit {
	o := Orbit{
		Scale:       1,
		MinDistance: 0.01,
		MaxDistance: 10000,
	}
	for _, option := range options {
		option(&o)
	}
	return o
}

// pending reports whether o carries rotation or zoom that Update has not applied yet.
func (o Orbit) pending() bool {
	return o.ThetaDelta != 0 || o.PhiDelta != 0 || (o.Scale != 1 && o.Scale != 0)
}

// Update applies the pending rotation and zoom in o to cam and resets them.
// The eye is placed on a Z-up sphere around the target: the polar angle is clamped away from the
// poles and the distance to [MinDistance, MaxDistance]. When nothing is pending, or the eye
// coincides with the target, the camera is returned unchanged apart from its derived matrices.
//
// Parameters:
//   - o: the controls carrying pending changes
//   - cam: the camera to move
//
// Returns:
//   - Result: controls with pending changes cleared and the moved camera
func Update(o Orbit, cam camera.Camera) Result {
	if !o.pending() {
		o.Changed = false
		o.Scale = 1
		return Result{Controls: o, Camera: camera.Update(cam)}
	}

	offset := cam.Position.Sub(cam.Target)
	radius := offset.Len()
	if radius < epsilon {
		o.ThetaDelta, o.PhiDelta, o.Scale, o.Changed = 0, 0, 1, false
		return Result{Controls: o, Camera: camera.Update(cam)}
	}

	theta := math32.Atan2(offset[1], offset[0])
	phi := math32.Acos(common.Clamp(offset[2]/radius, -1, 1))

	theta += o.ThetaDelta
	phi = common.Clamp(phi+o.PhiDelta, epsilon, math32.Pi-epsilon)

	scale := o.Scale
	if scale == 0 {
		scale = 1
	}
	radius = common.Clamp(radius*scale, o.MinDistance, o.MaxDistance)

	sinPhi := math32.Sin(phi)
	offset = mgl32.Vec3{
		radius * sinPhi * math32.Cos(theta),
		radius * sinPhi * math32.Sin(theta),
		radius * math32.Cos(phi),
	}
	cam.Position = cam.Target.Add(offset)

	o.ThetaDelta, o.PhiDelta, o.Scale, o.Changed = 0, 0, 1, true
	return Result{Controls: o, Camera: camera.Update(cam)}
}

// Rotate accumulates an orbit rotation. delta[0] turns around the up axis and delta[1] tilts
// toward or away from the poles, both scaled by Speed (radians per unit of delta).
//
// Parameters:
//   - p: the current controls, camera and rotate speed
//   - delta: pointer movement
//
// Returns:
//   - Result: controls with the rotation pending; the camera is unchanged until Update
func Rotate(p Params, delta common.Vec2) Result {
	o := p.Controls
	o.ThetaDelta -= delta[0] * p.Speed
	o.PhiDelta += delta[1] * p.Speed
	return Result{Controls: o, Camera: p.Camera}
}

// Zoom accumulates a distance change. Positive delta moves away from the target, negative
// toward it; the multiplier is exp(delta*Speed/100) so it never changes sign.
//
// Parameters:
//   - p: the current controls, camera and zoom speed
//   - delta: wheel movement
//
// Returns:
//   - Result: controls with the zoom pending; the camera is unchanged until Update
func Zoom(p Params, delta float32) Result {
	o := p.Controls
	if o.Scale == 0 {
		o.Scale = 1
	}
	o.Scale *= math32.Exp(delta * p.Speed / 100)
	return Result{Controls: o, Camera: p.Camera}
}

// Pan translates the eye and target together in the view plane. The offset per unit of delta is
// Speed * distance / viewport height, so the scene tracks the pointer at any zoom level.
//
// Parameters:
//   - p: the current controls, camera and pan speed
//   - delta: pointer movement (x right, y up in view space)
//
// Returns:
//   - Result: unchanged controls and the translated camera
func Pan(p Params, delta common.Vec2) Result {
	cam := p.Camera
	right, up, ok := viewAxes(cam)
	if !ok {
		return Result{Controls: p.Controls, Camera: cam}
	}

	height := cam.Height()
	if height <= 0 {
		height = 480
	}
	factor := p.Speed * cam.Distance() / height

	offset := right.Mul(delta[0] * factor).Add(up.Mul(delta[1] * factor))
	cam.Position = cam.Position.Add(offset)
	cam.Target = cam.Target.Add(offset)
	return Result{Controls: p.Controls, Camera: camera.Update(cam)}
}

// viewAxes computes the camera's right and up axes in world space, consistent with the look-at view.
// ok is false when the eye coincides with the target or the view direction is parallel to up.
func viewAxes(cam camera.Camera) (right, up mgl32.Vec3, ok bool) {
	forward := cam.Target.Sub(cam.Position)
	if forward.Len() < epsilon {
		return right, up, false
	}
	forward = forward.Normalize()

	right = forward.Cross(cam.Up)
	if right.Len() < epsilon {
		return right, up, false
	}
	right = right.Normalize()
	up = right.Cross(forward)
	return right, up, true
}
