package engine

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-view/engine/loop"
	"github.com/Carmen-Shannon/oxy-view/engine/viewer"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow sets the window the engine pumps messages for.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithViewer sets the viewer mounted for the duration of Run.
//
// Parameters:
//   - v: the viewer, usually built with viewer.WithSurface(w) and viewer.WithQueue(queue)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithViewer(v viewer.Viewer) EngineBuilderOption {
	return func(e *engine) {
		e.viewer = v
	}
}

// WithQueue sets the queue drained each message loop iteration. A queue is created when none is given.
func WithQueue(q *loop.Queue) EngineBuilderOption {
	return func(e *engine) {
		e.queue = q
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
