// Package viewer wires the controller, the render scheduler, the Shift watcher and the animation timer to a
// mounted surface for the lifetime of the mount.
package viewer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/controller"
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/Carmen-Shannon/oxy-view/engine/input"
	"github.com/Carmen-Shannon/oxy-view/engine/loop"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/scheduler"
	"github.com/Carmen-Shannon/oxy-view/engine/throttle"
)

// Viewer is an interactive orbit viewer bound to one surface at a time.
type Viewer interface {
	// Mount creates the controller state, attaches to the surface (creating one if none was provided), and
	// starts the Shift watcher and the animation timer.
	//
	// Returns:
	//   - error: if already mounted or no surface could be obtained
	Mount() error

	// Unmount detaches from the surface, stops the watcher and timer, and discards the controller state.
	// Unmounting an unmounted viewer does nothing.
	Unmount()

	// Mounted reports whether the viewer is mounted.
	Mounted() bool

	// Surface returns the mount point: the caller-provided surface, or the one created on Mount.
	Surface() Surface

	// State returns a copy of the controller state; the zero State while unmounted.
	State() controller.State

	// Options returns the current configuration.
	Options() Options

	// SetSize changes the requested surface size.
	SetSize(width, height int)

	// SetAnimation enables or disables timer renders and sets their delay.
	SetAnimation(enabled bool, rate time.Duration)

	// SetSolids replaces the geometry drawn alongside the grid and axis.
	SetSolids(solids []geometry.Solid)

	// SetGridOptions replaces the grid options.
	SetGridOptions(grid renderer.GridOptions)

	// SetAxisOptions replaces the axis options.
	SetAxisOptions(axis renderer.AxisOptions)

	// SetCameraOptions replaces the pointer sensitivities. The initial position only applies on the next mount.
	SetCameraOptions(camera CameraOptions)

	// Refresh renders again if the content changed outside the viewer, such as the surface being resized by
	// the platform. Does nothing while unmounted.
	Refresh()
}

// viewerImpl implements Viewer. Every entry point holds mu, so pointer, key and timer events are applied one
// at a time in arrival order.
type viewerImpl struct {
	mu sync.Mutex

	lib      renderer.Library
	options  Options
	solids   []geometry.Solid
	logger   *slog.Logger
	signals  *input.Signals
	queue    *loop.Queue
	profiler *profiler.Profiler
	observer func(controller.Action)
	clock    throttle.Scheduler

	surface     Surface
	newSurface  SurfaceFactory
	ownsSurface bool

	mounted   bool
	state     controller.State
	machine   *controller.Machine
	scheduler *scheduler.Scheduler
	shift     *input.KeyWatcher
	timer     *throttle.Throttle
}

var _ Viewer = &viewerImpl{}

// New creates an unmounted viewer.
//
// Parameters:
//   - lib: the rendering library
//   - options: functional options
//
// Returns:
//   - Viewer: the viewer
func New(lib renderer.Library, options ...ViewerBuilderOption) Viewer {
	v := &viewerImpl{
		lib:     lib,
		options: DefaultOptions(),
		logger:  slog.Default(),
		signals: input.Global,
	}
	for _, option := range options {
		option(v)
	}
	return v
}

func (v *viewerImpl) Mount() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mounted {
		return fmt.Errorf("mount: already mounted")
	}

	if v.surface == nil {
		if v.newSurface == nil {
			return fmt.Errorf("mount: no surface and no surface factory")
		}
		surface, err := v.newSurface(v.options.Width, v.options.Height)
		if err != nil {
			return fmt.Errorf("mount: failed to create surface: %w", err)
		}
		v.surface, v.ownsSurface = surface, true
	}

	v.machine = controller.NewMachine(v.lib, v.options.props(),
		controller.WithLogger(v.logger),
		controller.WithObserver(v.observer),
	)
	schedulerOptions := []scheduler.SchedulerBuilderOption{
		scheduler.WithGrid(v.options.Grid),
		scheduler.WithAxis(v.options.Axis),
		scheduler.WithLogger(v.logger),
	}
	if v.profiler != nil {
		schedulerOptions = append(schedulerOptions, scheduler.WithProfiler(v.profiler))
	}
	v.scheduler = scheduler.New(v.lib, schedulerOptions...)
	v.scheduler.SetSolids(v.solids)
	v.state = v.machine.Settle(controller.NewState(v.lib, v.options.Camera.InitialPosition))
	v.mounted = true

	v.surface.SetPointerCallbacks(PointerCallbacks{
		Enter: v.onEnter,
		Leave: v.onLeave,
		Move:  v.onMove,
		Down:  func() { v.onButton(common.ButtonDown) },
		Up:    func() { v.onButton(common.ButtonUp) },
		Wheel: v.onWheel,
	})
	v.shift = input.WatchKey(v.signals, ModifierKey,
		func() { v.post(func() { v.onModifier(common.ButtonDown) }) },
		func() { v.post(func() { v.onModifier(common.ButtonUp) }) },
	)
	timerOptions := []throttle.ThrottleBuilderOption{
		throttle.WithEnabled(v.options.Animate),
		throttle.WithDelay(v.options.AnimationRate),
	}
	if v.queue != nil {
		timerOptions = append(timerOptions, throttle.WithQueue(v.queue))
	}
	if v.clock != nil {
		timerOptions = append(timerOptions, throttle.WithScheduler(v.clock))
	}
	v.timer = throttle.New(v.onTick, timerOptions...)

	if v.options.Width > 0 && v.options.Height > 0 {
		v.surface.SetSize(v.options.Width, v.options.Height)
	}
	v.dispatch(controller.SetSurface{Surface: v.surface})
	v.timer.Evaluate()

	v.logger.Info("viewer mounted", "width", v.options.Width, "height", v.options.Height, "animate", v.options.Animate)
	return nil
}

func (v *viewerImpl) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return
	}
	v.mounted = false

	v.timer.Close()
	v.shift.Close()
	v.surface.SetPointerCallbacks(PointerCallbacks{})
	v.lib.Release(v.surface)
	if v.ownsSurface {
		if closer, ok := v.surface.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				v.logger.Warn("failed to close surface", "err", err)
			}
		}
		v.surface, v.ownsSurface = nil, false
	}

	v.state = controller.State{}
	v.machine, v.scheduler, v.timer, v.shift = nil, nil, nil, nil
	v.logger.Info("viewer unmounted")
}

func (v *viewerImpl) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mounted
}

func (v *viewerImpl) Surface() Surface {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.surface
}

func (v *viewerImpl) State() controller.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *viewerImpl) Options() Options {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.options
}

func (v *viewerImpl) SetSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.options.Width, v.options.Height = width, height
	if !v.mounted {
		return
	}
	if width > 0 && height > 0 {
		v.surface.SetSize(width, height)
	}
	v.setProps()
}

func (v *viewerImpl) SetAnimation(enabled bool, rate time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.options.Animate, v.options.AnimationRate = enabled, rate
	if v.mounted {
		v.timer.Set(enabled, rate)
	}
}

func (v *viewerImpl) SetSolids(solids []geometry.Solid) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.solids = append([]geometry.Solid(nil), solids...)
	if v.mounted {
		v.scheduler.SetSolids(v.solids)
		v.sync()
	}
}

func (v *viewerImpl) SetGridOptions(grid renderer.GridOptions) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.options.Grid = grid
	if v.mounted {
		v.scheduler.SetGrid(grid)
		v.sync()
	}
}

func (v *viewerImpl) SetAxisOptions(axis renderer.AxisOptions) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.options.Axis = axis
	if v.mounted {
		v.scheduler.SetAxis(axis)
		v.sync()
	}
}

func (v *viewerImpl) SetCameraOptions(camera CameraOptions) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.options.Camera = camera
	if v.mounted {
		v.setProps()
	}
}

func (v *viewerImpl) Refresh() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mounted {
		v.sync()
	}
}

// setProps pushes the current options into the machine. Callers hold mu.
func (v *viewerImpl) setProps() {
	v.state = v.machine.SetProps(v.state, v.options.props())
	v.sync()
}

// dispatch applies one event's actions as a batch and brings rendering up to date. Callers hold mu.
func (v *viewerImpl) dispatch(actions ...controller.Action) {
	if !v.mounted {
		return
	}
	v.state = v.machine.Run(v.state, actions...)
	v.sync()
}

// sync lets the scheduler render, storing a newly prepared render function first. Callers hold mu.
func (v *viewerImpl) sync() {
	for {
		actions := v.scheduler.Sync(v.state)
		if len(actions) == 0 {
			return
		}
		v.state = v.machine.Run(v.state, actions...)
	}
}

// post runs fn on the queue when there is one, inline otherwise.
func (v *viewerImpl) post(fn func()) {
	if v.queue == nil || !v.queue.Post(fn) {
		fn()
	}
}

func (v *viewerImpl) onEnter() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return
	}
	v.dispatch(
		controller.SetPan{Pan: v.state.Inputs.Panning()},
		controller.SetRotate{Rotate: v.state.Inputs.Rotating()},
	)
}

func (v *viewerImpl) onLeave() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dispatch(controller.SetPan{Pan: false}, controller.SetRotate{Rotate: false})
}

func (v *viewerImpl) onMove(dx, dy float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return
	}
	switch {
	case v.state.Rotate:
		v.dispatch(controller.SetRotateDelta{Delta: v.state.RotateDelta.Add(common.Vec2{dx, -dy})})
	case v.state.Pan:
		v.dispatch(controller.SetPanDelta{Delta: v.state.PanDelta.Add(common.Vec2{-dx, dy})})
	}
}

func (v *viewerImpl) onButton(state common.ButtonState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return
	}
	inputs := v.state.Inputs
	inputs.Mouse = state
	v.dispatch(controller.SetInputs{Inputs: inputs})
}

func (v *viewerImpl) onModifier(state common.ButtonState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return
	}
	inputs := v.state.Inputs
	inputs.Modifier = state
	v.dispatch(controller.SetInputs{Inputs: inputs})
}

func (v *viewerImpl) onWheel(dy float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dispatch(controller.SetZoomDelta{Delta: dy})
}

func (v *viewerImpl) onTick() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return
	}
	v.scheduler.Tick(v.state)
}
