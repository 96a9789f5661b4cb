// Package scheduler decides when the injected render function runs: once per change of the content it
// draws, and on every tick of the animation timer.
package scheduler

import (
	"errors"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/controller"
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
)

// contentKey identifies the content a render function was last invoked with.
type contentKey struct {
	camera  camera.Camera
	surface renderer.Surface
	width   int
	height  int
	grid    renderer.GridOptions
	axis    renderer.AxisOptions
	solids  uint64
}

// Scheduler memoizes the render content and invokes the render function when it changes.
// It is not safe for concurrent use; it runs on the viewer's queue.
type Scheduler struct {
	lib      renderer.Library
	logger   *slog.Logger
	profiler *profiler.Profiler

	grid          renderer.GridOptions
	axis          renderer.AxisOptions
	solids        []geometry.Solid
	solidsVersion uint64

	entities        []renderer.Entity
	entitiesVersion uint64
	entitiesValid   bool

	last      contentKey
	hasLast   bool
	failedKey contentKey
	hasFailed bool
	renders   int
}

// New creates a Scheduler with default grid and axis options and no solids.
//
// Parameters:
//   - lib: the rendering library that prepares render functions and converts solids
//   - options: functional options
//
// Returns:
//   - *Scheduler: the new scheduler
func New(lib renderer.Library, options ...SchedulerBuilderOption) *Scheduler {
	s := &Scheduler{
		lib:    lib,
		logger: slog.Default(),
		grid:   renderer.DefaultGridOptions(),
		axis:   renderer.DefaultAxisOptions(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// SetGrid replaces the grid options.
func (s *Scheduler) SetGrid(grid renderer.GridOptions) {
	s.grid = grid
}

// Grid returns the grid options.
func (s *Scheduler) Grid() renderer.GridOptions {
	return s.grid
}

// SetAxis replaces the axis options.
func (s *Scheduler) SetAxis(axis renderer.AxisOptions) {
	s.axis = axis
}

// Axis returns the axis options.
func (s *Scheduler) Axis() renderer.AxisOptions {
	return s.axis
}

// SetSolids replaces the solids. Every call counts as a content change, even with an equal slice.
func (s *Scheduler) SetSolids(solids []geometry.Solid) {
	s.solids = append([]geometry.Solid(nil), solids...)
	s.solidsVersion++
}

// Renders returns how many times the render function has been invoked.
func (s *Scheduler) Renders() int {
	return s.renders
}

// Reset forgets the last rendered content, so the next Sync with a render function renders again.
func (s *Scheduler) Reset() {
	s.hasLast = false
	s.hasFailed = false
}

// Content builds the content for state: the grid, the axis and the solids' entities, drawn into the state's
// surface with its camera.
//
// Parameters:
//   - state: the controller state
//
// Returns:
//   - renderer.Content: the content
//   - bool: false while no surface is mounted
func (s *Scheduler) Content(state controller.State) (renderer.Content, bool) {
	if state.Surface == nil {
		return renderer.Content{}, false
	}
	if !s.entitiesValid || s.entitiesVersion != s.solidsVersion {
		s.entities = s.lib.EntitiesFromSolids(s.solids)
		s.entitiesVersion = s.solidsVersion
		s.entitiesValid = true
	}

	entities := make([]renderer.Entity, 0, len(s.entities)+2)
	entities = append(entities, renderer.GridEntity(s.grid), renderer.AxisEntity(s.axis))
	entities = append(entities, s.entities...)
	return renderer.Content{
		Surface:      state.Surface,
		Camera:       state.Camera,
		DrawCommands: s.lib.DrawCommands(),
		Entities:     entities,
	}, true
}

func (s *Scheduler) keyOf(state controller.State) contentKey {
	key := contentKey{
		camera:  state.Camera,
		surface: state.Surface,
		grid:    s.grid,
		axis:    s.axis,
		solids:  s.solidsVersion,
	}
	if state.Surface != nil {
		key.width, key.height = state.Surface.Width(), state.Surface.Height()
	}
	return key
}

// Sync brings rendering up to date with state. While no render function exists and content is available it
// prepares one and returns the SetRender action that stores it; the caller applies it and syncs again, which
// renders immediately. Once a render function exists it is invoked whenever the content changed since the
// last invocation.
//
// Parameters:
//   - state: the controller state
//
// Returns:
//   - []controller.Action: actions for the caller to apply, or nil
func (s *Scheduler) Sync(state controller.State) []controller.Action {
	content, ok := s.Content(state)
	if !ok {
		return nil
	}
	key := s.keyOf(state)

	if state.Render == nil {
		if s.hasFailed && s.failedKey == key {
			return nil
		}
		render, err := s.lib.PrepareRender(content)
		if err == nil && render == nil {
			err = errors.New("library returned no render function")
		}
		if err != nil {
			s.logger.Error("failed to prepare render", "err", err)
			s.failedKey, s.hasFailed = key, true
			return nil
		}
		s.hasFailed = false
		s.hasLast = false
		return []controller.Action{controller.SetRender{Render: render}}
	}

	if s.hasLast && s.last == key {
		return nil
	}
	s.render(state.Render, content, key)
	return nil
}

// Tick renders the current content regardless of whether it changed. It is the animation timer's callback.
//
// Parameters:
//   - state: the controller state
//
// Returns:
//   - bool: true if the render function was invoked
func (s *Scheduler) Tick(state controller.State) bool {
	if state.Render == nil {
		return false
	}
	content, ok := s.Content(state)
	if !ok {
		return false
	}
	s.render(state.Render, content, s.keyOf(state))
	return true
}

func (s *Scheduler) render(fn renderer.RenderFunc, content renderer.Content, key contentKey) {
	fn(content)
	s.last, s.hasLast = key, true
	s.renders++
	if s.profiler != nil {
		s.profiler.Tick()
	}
}
