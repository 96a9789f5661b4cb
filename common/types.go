// package common contains common types that are used throughout the viewer. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import "fmt"

// Vec2 is a two-component pointer movement vector, used for accumulated pan and rotate deltas.
type Vec2 [2]float32

// Add returns the component-wise sum of v and o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v[0] + o[0], v[1] + o[1]}
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v[0] == 0 && v[1] == 0
}

// ButtonState is the physical state of a mouse button or modifier key.
type ButtonState uint8

const (
	// ButtonUp is the released state and the zero value.
	ButtonUp ButtonState = iota
	// ButtonDown is the pressed state.
	ButtonDown
)

func (b ButtonState) String() string {
	switch b {
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	default:
		return fmt.Sprintf("ButtonState(%d)", uint8(b))
	}
}
