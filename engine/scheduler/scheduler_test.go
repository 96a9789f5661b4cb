package scheduler

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/controller"
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct{ w, h int }

func (s *fakeSurface) Width() int  { return s.w }
func (s *fakeSurface) Height() int { return s.h }

// fakeLibrary records preparations and conversions and hands out a recording render function.
type fakeLibrary struct {
	renderer.Library
	prepareErr  error
	prepareNil  bool
	prepares    int
	conversions int
	frames      []renderer.Content
}

func (l *fakeLibrary) PrepareRender(content renderer.Content) (renderer.RenderFunc, error) {
	l.prepares++
	if l.prepareErr != nil {
		return nil, l.prepareErr
	}
	if l.prepareNil {
		return nil, nil
	}
	return func(c renderer.Content) {
		l.frames = append(l.frames, c)
	}, nil
}

func (l *fakeLibrary) EntitiesFromSolids(solids []geometry.Solid) []renderer.Entity {
	l.conversions++
	return l.Library.EntitiesFromSolids(solids)
}

func newFixture(t *testing.T) (*Scheduler, *fakeLibrary, controller.State) {
	t.Helper()
	lib := &fakeLibrary{Library: renderer.NewLibrary(renderer.WithWorkers(0))}
	state := controller.NewState(lib, mgl32.Vec3{50, -50, 50})
	state.Surface = &fakeSurface{480, 480}
	return New(lib), lib, state
}

// prepare syncs once and stores the returned render function in state.
func prepare(t *testing.T, s *Scheduler, state controller.State) controller.State {
	t.Helper()
	actions := s.Sync(state)
	require.Len(t, actions, 1)
	set, ok := actions[0].(controller.SetRender)
	require.True(t, ok)
	require.NotNil(t, set.Render)
	state.Render = set.Render
	return state
}

func testMesh() *geometry.Mesh {
	return geometry.NewMesh("tri", [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []uint32{0, 1, 2})
}

func TestSyncWithoutSurfaceDoesNothing(t *testing.T) {
	s, lib, state := newFixture(t)
	state.Surface = nil

	assert.Nil(t, s.Sync(state))
	assert.False(t, s.Tick(state))
	assert.Zero(t, lib.prepares)
	_, ok := s.Content(state)
	assert.False(t, ok)
}

func TestSyncPreparesThenRendersImmediately(t *testing.T) {
	s, lib, state := newFixture(t)

	state = prepare(t, s, state)
	assert.Equal(t, 1, lib.prepares)
	assert.Empty(t, lib.frames)

	assert.Nil(t, s.Sync(state))
	require.Len(t, lib.frames, 1)
	assert.Equal(t, state.Camera, lib.frames[0].Camera)
	assert.Equal(t, 1, s.Renders())
}

func TestSyncRendersOnlyOnContentChange(t *testing.T) {
	s, lib, state := newFixture(t)
	state = prepare(t, s, state)
	s.Sync(state)
	require.Len(t, lib.frames, 1)

	s.Sync(state)
	s.Sync(state)
	assert.Len(t, lib.frames, 1)

	state.Camera.Position = mgl32.Vec3{1, 2, 3}
	s.Sync(state)
	assert.Len(t, lib.frames, 2)

	grid := s.Grid()
	grid.Show = false
	s.SetGrid(grid)
	s.Sync(state)
	assert.Len(t, lib.frames, 3)

	s.SetAxis(renderer.AxisOptions{Show: false})
	s.Sync(state)
	assert.Len(t, lib.frames, 4)

	state.Surface = &fakeSurface{640, 480}
	s.Sync(state)
	assert.Len(t, lib.frames, 5)

	// rendering never prepares a second function
	assert.Equal(t, 1, lib.prepares)
}

func TestSetSolidsIsAContentChange(t *testing.T) {
	s, lib, state := newFixture(t)
	state = prepare(t, s, state)
	s.Sync(state)
	conversions := lib.conversions

	s.SetSolids([]geometry.Solid{testMesh()})
	s.Sync(state)
	require.Len(t, lib.frames, 2)
	assert.Equal(t, conversions+1, lib.conversions)

	entities := lib.frames[1].Entities
	require.Len(t, entities, 3)
	assert.Equal(t, renderer.DrawGridKey, entities[0].Visuals.DrawCmd)
	assert.Equal(t, renderer.DrawAxisKey, entities[1].Visuals.DrawCmd)
	assert.Equal(t, renderer.DrawMeshKey, entities[2].Visuals.DrawCmd)

	// entities are cached per solids version
	state.Camera.Position = mgl32.Vec3{1, 2, 3}
	s.Sync(state)
	assert.Len(t, lib.frames, 3)
	assert.Equal(t, conversions+1, lib.conversions)

	s.SetSolids([]geometry.Solid{testMesh()})
	s.Sync(state)
	assert.Len(t, lib.frames, 4)
}

func TestPrepareFailureIsLoggedAndRetriedOnChange(t *testing.T) {
	s, lib, state := newFixture(t)
	var buf bytes.Buffer
	s.logger = slog.New(slog.NewTextHandler(&buf, nil))
	lib.prepareErr = errors.New("no adapter")

	assert.Nil(t, s.Sync(state))
	assert.Contains(t, buf.String(), "failed to prepare render")
	assert.Contains(t, buf.String(), "no adapter")

	assert.Nil(t, s.Sync(state))
	assert.Equal(t, 1, lib.prepares)

	lib.prepareErr = nil
	state.Camera.Position = mgl32.Vec3{1, 2, 3}
	actions := s.Sync(state)
	assert.Equal(t, 2, lib.prepares)
	assert.Len(t, actions, 1)
}

func TestPrepareWithoutRenderFunctionIsAFailure(t *testing.T) {
	s, lib, state := newFixture(t)
	var buf bytes.Buffer
	s.logger = slog.New(slog.NewTextHandler(&buf, nil))
	lib.prepareNil = true

	assert.Nil(t, s.Sync(state))
	assert.Contains(t, buf.String(), "no render function")

	assert.Nil(t, s.Sync(state))
	assert.Equal(t, 1, lib.prepares)

	lib.prepareNil = false
	state.Camera.Position = mgl32.Vec3{1, 2, 3}
	state = prepare(t, s, state)
	assert.Equal(t, 2, lib.prepares)
}

func TestSurfaceResizeIsAContentChange(t *testing.T) {
	s, lib, state := newFixture(t)
	surface := state.Surface.(*fakeSurface)
	state = prepare(t, s, state)
	s.Sync(state)
	require.Len(t, lib.frames, 1)

	surface.w, surface.h = 800, 600
	s.Sync(state)
	require.Len(t, lib.frames, 2)
	assert.Equal(t, 800, lib.frames[1].Surface.Width())

	s.Sync(state)
	assert.Len(t, lib.frames, 2)
}

func TestTickRendersUnchangedContent(t *testing.T) {
	s, lib, state := newFixture(t)
	assert.False(t, s.Tick(state))

	state = prepare(t, s, state)
	s.Sync(state)

	assert.True(t, s.Tick(state))
	assert.True(t, s.Tick(state))
	assert.Len(t, lib.frames, 3)

	// a tick counts as rendering the current content
	s.Sync(state)
	assert.Len(t, lib.frames, 3)
}

func TestResetRendersAgain(t *testing.T) {
	s, lib, state := newFixture(t)
	state = prepare(t, s, state)
	s.Sync(state)

	s.Reset()
	s.Sync(state)
	assert.Len(t, lib.frames, 2)
}
