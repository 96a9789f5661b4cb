// Command oxy-view opens glTF models in an interactive orbit viewer.
//
// Drag to rotate, Shift-drag to pan, scroll to zoom, Escape to quit.
package main

import (
	"os"
	"runtime"
)

func init() {
	// GLFW and the WebGPU surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
