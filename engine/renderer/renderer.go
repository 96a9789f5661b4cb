// Package renderer is the rendering library the viewer core is written against: camera and orbit math,
// entity construction from solids, render function preparation, and the grid, axis, and mesh draw commands.
package renderer

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/controls"
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
)

// Surface is the mounted visual surface a render function draws into.
// Implementations must be comparable (typically pointers); content keys compare surfaces by identity.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int
	// Height returns the surface height in pixels.
	Height() int
}

// Content is everything a render function needs for one frame.
type Content struct {
	Surface      Surface
	Camera       camera.Camera
	DrawCommands DrawCommands
	Entities     []Entity
}

// RenderFunc draws one frame of content.
type RenderFunc func(content Content)

// Library is the rendering capability consumed by the viewer core.
type Library interface {
	// CameraDefaults returns the default perspective camera.
	CameraDefaults() camera.Camera

	// UpdateCamera recomputes the derived camera fields.
	UpdateCamera(c camera.Camera) camera.Camera

	// SetProjection re-projects c for a surface of width x height pixels.
	SetProjection(c camera.Camera, width, height int) camera.Camera

	// ControlsDefaults returns the default orbit controls.
	ControlsDefaults() controls.Orbit

	// UpdateControls applies pending orbit changes to c and returns both recomputed.
	UpdateControls(o controls.Orbit, c camera.Camera) controls.Result

	// Pan computes a pan update for delta.
	Pan(p controls.Params, delta common.Vec2) controls.Result

	// Rotate computes a rotate update for delta.
	Rotate(p controls.Params, delta common.Vec2) controls.Result

	// Zoom computes a zoom update for delta.
	Zoom(p controls.Params, delta float32) controls.Result

	// EntitiesFromSolids converts solids into drawable entities, preserving order.
	// Solids of unknown types are skipped.
	//
	// Parameters:
	//   - solids: the solids to convert
	//
	// Returns:
	//   - []Entity: one entity per convertible solid
	EntitiesFromSolids(solids []geometry.Solid) []Entity

	// PrepareRender creates a render function drawing into content.Surface.
	//
	// Parameters:
	//   - content: the first content to draw; its surface binds the render function
	//
	// Returns:
	//   - RenderFunc: the render function
	//   - error: if no backend could be created for the surface
	PrepareRender(content Content) (RenderFunc, error)

	// DrawCommands returns the draw command bindings used in content.
	DrawCommands() DrawCommands

	// Release frees the resources PrepareRender acquired for surface. Render functions bound to it
	// become no-ops.
	Release(surface Surface)

	// Close releases every surface and stops background workers.
	Close()
}

// library implements Library.
type library struct {
	mu     sync.Mutex
	logger *slog.Logger

	newBackend BackendFactory
	backends   map[Surface]Backend

	workers int
	pool    worker.DynamicWorkerPool
	taskID  int

	drawCommands DrawCommands
}

var _ Library = &library{}

// NewLibrary creates the default rendering library: WebGPU backends and a worker pool for entity conversion.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Library: the library
func NewLibrary(options ...LibraryBuilderOption) Library {
	l := &library{
		logger:       slog.Default(),
		newBackend:   WGPUBackendFactory(MSAA4x),
		backends:     make(map[Surface]Backend),
		workers:      runtime.NumCPU(),
		drawCommands: DefaultDrawCommands(),
	}
	for _, option := range options {
		option(l)
	}
	if l.workers > 0 {
		l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	}
	return l
}

func (l *library) CameraDefaults() camera.Camera {
	return camera.Defaults()
}

func (l *library) UpdateCamera(c camera.Camera) camera.Camera {
	return camera.Update(c)
}

func (l *library) SetProjection(c camera.Camera, width, height int) camera.Camera {
	return camera.SetProjection(c, width, height)
}

func (l *library) ControlsDefaults() controls.Orbit {
	return controls.Defaults()
}

func (l *library) UpdateControls(o controls.Orbit, c camera.Camera) controls.Result {
	return controls.Update(o, c)
}

func (l *library) Pan(p controls.Params, delta common.Vec2) controls.Result {
	return controls.Pan(p, delta)
}

func (l *library) Rotate(p controls.Params, delta common.Vec2) controls.Result {
	return controls.Rotate(p, delta)
}

func (l *library) Zoom(p controls.Params, delta float32) controls.Result {
	return controls.Zoom(p, delta)
}

func (l *library) DrawCommands() DrawCommands {
	return l.drawCommands
}

func (l *library) EntitiesFromSolids(solids []geometry.Solid) []Entity {
	if len(solids) == 0 {
		return nil
	}
	converted := make([]*Entity, len(solids))

	if l.pool == nil || len(solids) == 1 {
		for i, s := range solids {
			converted[i] = l.entityFromSolid(i, s)
		}
	} else {
		// A WaitGroup is the barrier: pool.Wait blocks until workers go idle, not until these tasks finish.
		var wg sync.WaitGroup
		for i, s := range solids {
			wg.Add(1)
			l.mu.Lock()
			id := l.taskID
			l.taskID++
			l.mu.Unlock()
			l.pool.SubmitTask(worker.Task{
				ID:      id,
				Payload: s,
				Do: func() (any, error) {
					defer wg.Done()
					converted[i] = l.entityFromSolid(i, s)
					return nil, nil
				},
			})
		}
		wg.Wait()
	}

	entities := make([]Entity, 0, len(solids))
	for _, e := range converted {
		if e != nil {
			entities = append(entities, *e)
		}
	}
	return entities
}

func (l *library) entityFromSolid(index int, s geometry.Solid) *Entity {
	switch v := s.(type) {
	case *geometry.Mesh:
		if v == nil {
			break
		}
		e := MeshEntity(v)
		return &e
	case Entity:
		return &v
	}
	l.logger.Warn("skipping solid of unknown type", "index", index, "type", fmt.Sprintf("%T", s))
	return nil
}

func (l *library) PrepareRender(content Content) (RenderFunc, error) {
	surface := content.Surface
	if surface == nil {
		return nil, fmt.Errorf("prepare render: content has no surface")
	}

	l.mu.Lock()
	if old, ok := l.backends[surface]; ok {
		old.Release()
		delete(l.backends, surface)
	}
	l.mu.Unlock()

	backend, err := l.newBackend(surface)
	if err != nil {
		return nil, fmt.Errorf("prepare render: %w", err)
	}
	width, height := surface.Width(), surface.Height()
	backend.Configure(width, height)

	l.mu.Lock()
	l.backends[surface] = backend
	l.mu.Unlock()

	batch := &Batch{}
	return func(c Content) {
		l.mu.Lock()
		current, ok := l.backends[surface]
		l.mu.Unlock()
		if !ok || current != backend {
			return
		}

		if w, h := surface.Width(), surface.Height(); w != width || h != height {
			width, height = w, h
			backend.Configure(width, height)
		}

		batch.Reset()
		for _, e := range c.Entities {
			if !e.Visuals.Show {
				continue
			}
			cmd, ok := c.DrawCommands[e.Visuals.DrawCmd]
			if !ok || cmd == nil {
				continue
			}
			cmd(batch, c.Camera, e)
		}
		if err := backend.Draw(camera.ViewProjection(c.Camera), batch); err != nil {
			l.logger.Debug("frame dropped", "err", err)
		}
	}, nil
}

func (l *library) Release(surface Surface) {
	l.mu.Lock()
	backend, ok := l.backends[surface]
	delete(l.backends, surface)
	l.mu.Unlock()
	if ok {
		backend.Release()
	}
}

func (l *library) Close() {
	l.mu.Lock()
	backends := l.backends
	l.backends = make(map[Surface]Backend)
	l.mu.Unlock()
	for _, b := range backends {
		b.Release()
	}
	if l.pool != nil {
		l.pool.Stop()
		l.pool = nil
	}
}
