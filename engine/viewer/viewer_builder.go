package viewer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-view/engine/controller"
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/Carmen-Shannon/oxy-view/engine/input"
	"github.com/Carmen-Shannon/oxy-view/engine/loop"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/throttle"
)

// ViewerBuilderOption is a functional option for configuring a Viewer.
type ViewerBuilderOption func(*viewerImpl)

// WithOptions replaces the whole configuration.
//
// Parameters:
//   - options: the configuration, usually DefaultOptions with overrides
//
// Returns:
//   - ViewerBuilderOption: option function that sets the configuration
func WithOptions(options Options) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.options = options
	}
}

// WithSurface mounts into a caller-provided surface. The viewer never closes it.
func WithSurface(surface Surface) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.surface = surface
	}
}

// WithSurfaceFactory sets how a surface is created on Mount when none was provided.
// The created surface is closed on Unmount.
func WithSurfaceFactory(factory SurfaceFactory) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.newSurface = factory
	}
}

// WithSolids sets the initial geometry.
func WithSolids(solids []geometry.Solid) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.solids = append([]geometry.Solid(nil), solids...)
	}
}

// WithSignals sets the keyboard bus the Shift watcher subscribes to. Defaults to input.Global.
func WithSignals(signals *input.Signals) ViewerBuilderOption {
	return func(v *viewerImpl) {
		if signals != nil {
			v.signals = signals
		}
	}
}

// WithQueue delivers timer fires and key events through q, so they run on the goroutine draining it.
func WithQueue(q *loop.Queue) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.queue = q
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ViewerBuilderOption {
	return func(v *viewerImpl) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithProfiler ticks p on every render.
func WithProfiler(p *profiler.Profiler) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.profiler = p
	}
}

// WithObserver is called with every controller action the viewer applies.
func WithObserver(fn func(controller.Action)) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.observer = fn
	}
}

// WithTimerScheduler replaces how the animation timer schedules its fires.
func WithTimerScheduler(s throttle.Scheduler) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.clock = s
	}
}
