// Package engine hosts a viewer in a window: it mounts the viewer, pumps window messages and drains the event
// queue on the window's thread until the window closes or the context is cancelled.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/engine/loop"
	"github.com/Carmen-Shannon/oxy-view/engine/viewer"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
)

// engine implements the Engine interface.
type engine struct {
	window window.Window
	viewer viewer.Viewer
	queue  *loop.Queue
	logger *slog.Logger

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once
}

// Engine is the main entry point for running a viewer.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Viewer returns the hosted viewer.
	//
	// Returns:
	//   - viewer.Viewer: the viewer instance
	Viewer() viewer.Viewer

	// Queue returns the queue drained on the window's thread. Work posted here runs between message loop
	// iterations, serialized with pointer and key events.
	//
	// Returns:
	//   - *loop.Queue: the queue
	Queue() *loop.Queue

	// Run mounts the viewer and blocks until the window closes, Quit is called, or ctx is cancelled.
	// The viewer is unmounted before Run returns. Must be called from the thread that created the window.
	//
	// Parameters:
	//   - ctx: cancels the run
	//
	// Returns:
	//   - error: mount failures, or ctx.Err() if cancelled
	Run(ctx context.Context) error

	// Quit stops a running engine. Safe to call multiple times and from any goroutine.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		logger:      slog.Default(),
		quitChannel: make(chan struct{}),
	}

	for _, opt := range options {
		opt(e)
	}
	if e.queue == nil {
		e.queue = loop.NewQueue(64)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			e.logger.Debug("framebuffer resized", "width", width, "height", height)
			if e.viewer != nil {
				e.queue.Post(e.viewer.Refresh)
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Viewer() viewer.Viewer {
	return e.viewer
}

func (e *engine) Queue() *loop.Queue {
	return e.queue
}

func (e *engine) Run(ctx context.Context) error {
	if e.window == nil || e.viewer == nil {
		return fmt.Errorf("run: engine needs a window and a viewer")
	}
	if err := e.viewer.Mount(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer e.viewer.Unmount()

	e.window.SetUpdateCallback(func() {
		e.queue.Drain()
		select {
		case <-ctx.Done():
			e.window.RequestClose()
		case <-e.quitChannel:
			e.window.RequestClose()
		default:
		}
	})
	defer e.window.SetUpdateCallback(nil)

	e.window.ProcessMessages()
	e.queue.Drain()
	e.signalQuit()
	return ctx.Err()
}

// Quit signals the message loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}
