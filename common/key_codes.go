package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW         = 87  // W key (ASCII)
	KeyA         = 65  // A key (ASCII)
	KeyS         = 83  // S key (ASCII)
	KeyD         = 68  // D key (ASCII)
	KeyR         = 82  // R key (ASCII)
	KeySpace     = 32  // Spacebar (ASCII)
	KeyBackspace = 259 // Backspace key (GLFW)
	KeyEsc       = 256 // Escape key (GLFW)
	KeyEnter     = 257 // Enter key (GLFW)
	KeyTab       = 258 // Tab key (GLFW)
)

// Additional non-printable keys
const (
	KeyLeftShift    = 340 // Left Shift (GLFW)
	KeyLeftControl  = 341 // Left Control (GLFW)
	KeyLeftAlt      = 342 // Left Alt (GLFW)
	KeyRightShift   = 344 // Right Shift (GLFW)
	KeyRightControl = 345 // Right Control (GLFW)
	KeyRightAlt     = 346 // Right Alt (GLFW)
)

// Key names published on the keyboard signal bus. Left and right variants of a
// modifier share one name.
const (
	KeyNameShift   = "Shift"
	KeyNameControl = "Control"
	KeyNameAlt     = "Alt"
	KeyNameEscape  = "Escape"
	KeyNameEnter   = "Enter"
	KeyNameTab     = "Tab"
	KeyNameSpace   = " "
)

var namedKeys = map[int]string{
	KeyLeftShift:    KeyNameShift,
	KeyRightShift:   KeyNameShift,
	KeyLeftControl:  KeyNameControl,
	KeyRightControl: KeyNameControl,
	KeyLeftAlt:      KeyNameAlt,
	KeyRightAlt:     KeyNameAlt,
	KeyEsc:          KeyNameEscape,
	KeyEnter:        KeyNameEnter,
	KeyTab:          KeyNameTab,
	KeySpace:        KeyNameSpace,
	KeyBackspace:    "Backspace",
}

// KeyName maps a GLFW key code to the name used on the keyboard signal bus.
// Letters map to their upper-case character and digits to themselves.
//
// Parameters:
//   - code: the GLFW key code
//
// Returns:
//   - string: the key name, or "" for keys without a name
func KeyName(code int) string {
	if name, ok := namedKeys[code]; ok {
		return name
	}
	if (code >= 'A' && code <= 'Z') || (code >= '0' && code <= '9') {
		return string(rune(code))
	}
	return ""
}
