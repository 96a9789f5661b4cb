package scheduler

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
)

// SchedulerBuilderOption is a functional option for configuring a Scheduler.
type SchedulerBuilderOption func(*Scheduler)

// WithGrid sets the initial grid options.
func WithGrid(grid renderer.GridOptions) SchedulerBuilderOption {
	return func(s *Scheduler) {
		s.grid = grid
	}
}

// WithAxis sets the initial axis options.
func WithAxis(axis renderer.AxisOptions) SchedulerBuilderOption {
	return func(s *Scheduler) {
		s.axis = axis
	}
}

// WithLogger sets the logger render preparation failures are reported to.
func WithLogger(logger *slog.Logger) SchedulerBuilderOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProfiler ticks p on every render.
func WithProfiler(p *profiler.Profiler) SchedulerBuilderOption {
	return func(s *Scheduler) {
		s.profiler = p
	}
}
