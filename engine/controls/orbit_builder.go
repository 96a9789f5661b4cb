package controls

// OrbitBuilderOption is a functional option for configuring default Orbit controls.
type OrbitBuilderOption func(*Orbit)

// WithDistanceBounds sets the minimum and maximum eye-to-target distance.
//
// Parameters:
//   - min: minimum zoom distance
//   - max: maximum zoom distance
//
// Returns:
//   - OrbitBuilderOption: functional option to set distance bounds
func WithDistanceBounds(min, max float32) OrbitBuilderOption {
	return func(o *Orbit) {
		o.MinDistance = min
		o.MaxDistance = max
	}
}
